// Package predict submits images to the classification endpoint and turns
// every transport outcome into a result or a typed error.
package predict

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptrace"
	"net/textproto"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tatendakasirori/eye-disease-classification/internal/intake"
)

// Client performs prediction requests. One call issues exactly one request;
// retrying is left to the user.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a new prediction client with the given options
func NewClient(options ...ClientOption) *Client {
	config := DefaultConfig()

	for _, option := range options {
		option(config)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: config.Timeout,
		}
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}
}

// Endpoint returns the configured prediction URL
func (c *Client) Endpoint() string {
	return c.config.Endpoint
}

// Predict uploads f and returns the classification.
func (c *Client) Predict(ctx context.Context, f intake.File) (*Result, error) {
	logger := log.With().
		Str("file", f.Name).
		Str("file_id", f.ID.String()).
		Str("endpoint", c.config.Endpoint).
		Logger()

	if err := validateEndpoint(c.config.Endpoint); err != nil {
		return Classify(Outcome{Err: err})
	}

	body, contentType, err := c.buildBody(f)
	if err != nil {
		return Classify(Outcome{Err: err})
	}

	var dispatched atomic.Bool
	trace := &httptrace.ClientTrace{
		GetConn: func(string) { dispatched.Store(true) },
	}

	req, err := http.NewRequestWithContext(httptrace.WithClientTrace(ctx, trace), http.MethodPost, c.config.Endpoint, body)
	if err != nil {
		return Classify(Outcome{Err: fmt.Errorf("failed to create request: %w", err)})
	}

	for key, value := range c.config.DefaultHeaders {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	logger.Info().
		Int64("size", f.Size).
		Str("media_type", f.MediaType).
		Msg("uploading image")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		result, classified := Classify(Outcome{Dispatched: dispatched.Load(), Err: err})
		logger.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("prediction request failed")
		return result, classified
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)
	result, err := Classify(Outcome{
		Dispatched: true,
		StatusCode: resp.StatusCode,
		Body:       data,
		Err:        readErr,
	})

	event := logger.Info()
	var serverErr *ServerError
	switch {
	case errors.As(err, &serverErr) && !serverErr.IsClientError():
		event = logger.Error().Err(err)
	case err != nil:
		event = logger.Warn().Err(err)
	}
	event.
		Int("status_code", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("prediction response")

	return result, err
}

func (c *Client) buildBody(f intake.File) (io.Reader, string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(c.config.FieldName), escapeQuotes(f.Name)))
	header.Set("Content-Type", f.MediaType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := io.Copy(part, rc); err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish form: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", endpoint)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
