package predict

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Result is a successful classification.
type Result struct {
	PredictedClass string
	Confidence     float64
	Raw            []byte
}

// Outcome is everything the transport reported for one request.
type Outcome struct {
	// Dispatched is set once the request was handed to the network, whether
	// or not a connection was ever established.
	Dispatched bool
	StatusCode int
	Body       []byte
	Err        error
}

// Responded reports whether a status line came back.
func (o Outcome) Responded() bool {
	return o.StatusCode != 0
}

// Classify maps a raw transport outcome to a Result or to exactly one of
// ServerError, NoResponseError, NetworkError or MalformedResponseError.
func Classify(o Outcome) (*Result, error) {
	if !o.Responded() {
		err := o.Err
		if err == nil {
			err = errors.New("no response received")
		}
		if !o.Dispatched || isResolutionFailure(err) {
			return nil, &NetworkError{Err: err}
		}
		return nil, &NoResponseError{Err: err}
	}

	if o.StatusCode < 200 || o.StatusCode > 299 {
		return nil, newServerError(o.StatusCode, o.Body)
	}

	if o.Err != nil {
		return nil, &MalformedResponseError{Reason: fmt.Sprintf("failed to read response body: %v", o.Err)}
	}

	return parseResult(o.Body)
}

func isResolutionFailure(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func newServerError(status int, body []byte) *ServerError {
	var errorResponse struct {
		Error string `json:"error"`
	}

	message := fmt.Sprintf("Server error: %d", status)
	if json.Unmarshal(body, &errorResponse) == nil && errorResponse.Error != "" {
		message = errorResponse.Error
	}

	return &ServerError{
		StatusCode: status,
		Message:    message,
		Body:       string(body),
	}
}

func parseResult(body []byte) (*Result, error) {
	var payload struct {
		PredictedClass any `json:"predicted_class"`
		Confidence     any `json:"confidence"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &MalformedResponseError{Reason: "response is not a JSON object", Body: string(body)}
	}

	class, ok := payload.PredictedClass.(string)
	if !ok || strings.TrimSpace(class) == "" {
		return nil, &MalformedResponseError{Reason: "missing predicted_class", Body: string(body)}
	}

	confidence, ok := payload.Confidence.(float64)
	if !ok {
		return nil, &MalformedResponseError{Reason: "confidence is missing or not a number", Body: string(body)}
	}
	if confidence < 0 || confidence > 1 {
		return nil, &MalformedResponseError{
			Reason: fmt.Sprintf("confidence %v is outside [0, 1]", confidence),
			Body:   string(body),
		}
	}

	return &Result{
		PredictedClass: class,
		Confidence:     confidence,
		Raw:            body,
	}, nil
}
