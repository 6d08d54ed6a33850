package predict

import (
	"errors"
	"fmt"
)

// NoResponseMessage is shown when a request went out but nothing came back.
const NoResponseMessage = "No response from server. Make sure the prediction server is running and reachable."

// ServerError is a response with a non-success status.
type ServerError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *ServerError) Error() string {
	return e.Message
}

// IsClientError returns true if the server rejected the request itself
func (e *ServerError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// NoResponseError is a request that was dispatched but never answered:
// timeouts, refused or dropped connections.
type NoResponseError struct {
	Err error
}

func (e *NoResponseError) Error() string {
	return NoResponseMessage
}

func (e *NoResponseError) Unwrap() error {
	return e.Err
}

// NetworkError is a failure before the request could be dispatched, or a
// name resolution failure.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("Network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is a success status whose body is not a valid
// prediction.
type MalformedResponseError struct {
	Reason string
	Body   string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("Unexpected response from server: %s", e.Reason)
}

// GenericMessage is used for errors that did not come from the pipeline.
const GenericMessage = "An error occurred while processing the image"

// UserMessage returns the text shown to the user for a pipeline error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		serverErr    *ServerError
		noRespErr    *NoResponseError
		networkErr   *NetworkError
		malformedErr *MalformedResponseError
	)

	switch {
	case errors.As(err, &serverErr):
		return serverErr.Error()
	case errors.As(err, &noRespErr):
		return noRespErr.Error()
	case errors.As(err, &networkErr):
		return networkErr.Error()
	case errors.As(err, &malformedErr):
		return malformedErr.Error()
	default:
		return GenericMessage
	}
}
