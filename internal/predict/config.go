package predict

import (
	"net/http"
	"time"
)

// ClientConfig holds the configuration for the prediction client
type ClientConfig struct {
	Endpoint       string
	FieldName      string
	HTTPClient     *http.Client
	Timeout        time.Duration
	DefaultHeaders map[string]string
	UserAgent      string
}

// DefaultConfig returns the default configuration
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		Endpoint:  "http://127.0.0.1:5001/predict",
		FieldName: "image",
		Timeout:   2 * time.Minute,
		UserAgent: "retina-tui/1.0",
	}
}

// ClientOption is a function that modifies ClientConfig
type ClientOption func(*ClientConfig)

// WithEndpoint sets the prediction endpoint URL
func WithEndpoint(endpoint string) ClientOption {
	return func(c *ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithFieldName sets the multipart field carrying the image
func WithFieldName(name string) ClientOption {
	return func(c *ClientConfig) {
		c.FieldName = name
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *ClientConfig) {
		c.HTTPClient = client
	}
}

// WithTimeout sets the transport timeout. Zero disables it.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.Timeout = timeout
	}
}

// WithHeaders sets extra request headers
func WithHeaders(headers map[string]string) ClientOption {
	return func(c *ClientConfig) {
		c.DefaultHeaders = headers
	}
}

// WithUserAgent sets the user agent string
func WithUserAgent(userAgent string) ClientOption {
	return func(c *ClientConfig) {
		c.UserAgent = userAgent
	}
}
