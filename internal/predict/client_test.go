package predict

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatendakasirori/eye-disease-classification/internal/intake"
)

var imageBytes = []byte{0x89, 'P', 'N', 'G', 1, 2, 3, 4}

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

type capturedUpload struct {
	method   string
	path     string
	fields   []string
	filename string
	mimeType string
	data     []byte
}

func TestPredict_Success(t *testing.T) {
	uploads := make(chan capturedUpload, 1)

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got := capturedUpload{method: r.Method, path: r.URL.Path}

		if err := r.ParseMultipartForm(1 << 20); err == nil {
			for name := range r.MultipartForm.File {
				got.fields = append(got.fields, name)
			}
			if file, header, err := r.FormFile("image"); err == nil {
				got.filename = header.Filename
				got.mimeType = header.Header.Get("Content-Type")
				got.data, _ = io.ReadAll(file)
				file.Close()
			}
		}
		uploads <- got

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predicted_class":"diabetic_retinopathy","confidence":0.92}`))
	})

	client := NewClient(WithEndpoint(server.URL + "/predict"))
	result, err := client.Predict(context.Background(), intake.FromBytes("left eye.png", "image/png", imageBytes))
	require.NoError(t, err)

	assert.Equal(t, "diabetic_retinopathy", result.PredictedClass)
	assert.InDelta(t, 0.92, result.Confidence, 1e-9)
	assert.JSONEq(t, `{"predicted_class":"diabetic_retinopathy","confidence":0.92}`, string(result.Raw))

	got := <-uploads
	assert.Empty(t, uploads, "exactly one request")
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/predict", got.path)
	assert.Equal(t, []string{"image"}, got.fields)
	assert.Equal(t, "left eye.png", got.filename)
	assert.Equal(t, "image/png", got.mimeType)
	assert.Equal(t, imageBytes, got.data)
}

func TestPredict_CustomFieldName(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _, err := r.FormFile("scan")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"No image file provided"}`))
			return
		}
		_, _ = w.Write([]byte(`{"predicted_class":"normal","confidence":0.5}`))
	})

	client := NewClient(WithEndpoint(server.URL), WithFieldName("scan"))
	result, err := client.Predict(context.Background(), intake.FromBytes("a.png", "image/png", imageBytes))
	require.NoError(t, err)
	assert.Equal(t, "normal", result.PredictedClass)
}

func TestPredict_HeadersAndCustomClient(t *testing.T) {
	headers := make(chan http.Header, 1)
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		headers <- r.Header.Clone()
		_, _ = w.Write([]byte(`{"predicted_class":"normal","confidence":0.7}`))
	})

	client := NewClient(
		WithEndpoint(server.URL),
		WithHTTPClient(&http.Client{Timeout: time.Second}),
		WithHeaders(map[string]string{"X-Client": "retina-tui"}),
		WithUserAgent("retina-tui/test"),
	)
	_, err := client.Predict(context.Background(), intake.FromBytes("a.png", "image/png", imageBytes))
	require.NoError(t, err)

	got := <-headers
	assert.Equal(t, "retina-tui", got.Get("X-Client"))
	assert.Equal(t, "retina-tui/test", got.Get("User-Agent"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Contains(t, got.Get("Content-Type"), "multipart/form-data; boundary=")
	assert.Equal(t, server.URL, client.Endpoint())
}

func TestPredict_ServerErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "embedded error field", status: http.StatusInternalServerError, body: `{"error":"Model not loaded."}`, message: "Model not loaded."},
		{name: "bad request with error", status: http.StatusBadRequest, body: `{"error":"No selected file"}`, message: "No selected file"},
		{name: "no error field", status: http.StatusBadGateway, body: `{"status":"down"}`, message: "Server error: 502"},
		{name: "empty error field", status: http.StatusInternalServerError, body: `{"error":""}`, message: "Server error: 500"},
		{name: "html body", status: http.StatusNotFound, body: `<h1>Not Found</h1>`, message: "Server error: 404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := NewClient(WithEndpoint(server.URL)).Predict(context.Background(), intake.FromBytes("a.png", "image/png", imageBytes))

			var serverErr *ServerError
			require.ErrorAs(t, err, &serverErr)
			assert.Equal(t, tt.status, serverErr.StatusCode)
			assert.Equal(t, tt.message, UserMessage(err))
		})
	}
}

func TestPredict_NoResponse(t *testing.T) {
	t.Run("connection dropped", func(t *testing.T) {
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			hj, ok := w.(http.Hijacker)
			if !ok {
				return
			}
			if conn, _, err := hj.Hijack(); err == nil {
				conn.Close()
			}
		})

		_, err := NewClient(WithEndpoint(server.URL)).Predict(context.Background(), intake.FromBytes("a.png", "image/png", imageBytes))

		var noResp *NoResponseError
		require.ErrorAs(t, err, &noResp)
		assert.Equal(t, NoResponseMessage, UserMessage(err))
	})

	t.Run("server unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		endpoint := server.URL
		server.Close()

		_, err := NewClient(WithEndpoint(endpoint)).Predict(context.Background(), intake.FromBytes("a.png", "image/png", imageBytes))

		var noResp *NoResponseError
		require.ErrorAs(t, err, &noResp)
	})

	t.Run("transport timeout", func(t *testing.T) {
		release := make(chan struct{})
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			<-release
		})
		defer close(release)

		client := NewClient(WithEndpoint(server.URL), WithTimeout(50*time.Millisecond))
		_, err := client.Predict(context.Background(), intake.FromBytes("a.png", "image/png", imageBytes))

		var noResp *NoResponseError
		require.ErrorAs(t, err, &noResp)
	})
}

func TestPredict_NetworkErrors(t *testing.T) {
	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := NewClient(WithEndpoint("ftp://example.com/predict")).Predict(context.Background(), intake.FromBytes("a.png", "image/png", imageBytes))

		var networkErr *NetworkError
		require.ErrorAs(t, err, &networkErr)
		assert.Contains(t, UserMessage(err), "Network error: ")
	})

	t.Run("missing host", func(t *testing.T) {
		_, err := NewClient(WithEndpoint("http:///predict")).Predict(context.Background(), intake.FromBytes("a.png", "image/png", imageBytes))

		var networkErr *NetworkError
		require.ErrorAs(t, err, &networkErr)
	})

	t.Run("unreadable file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "gone.png")
		require.NoError(t, os.WriteFile(path, imageBytes, 0o644))
		f, err := intake.FromPath(path)
		require.NoError(t, err)
		require.NoError(t, os.Remove(path))

		var requests atomic.Int32
		server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) { requests.Add(1) })

		_, err = NewClient(WithEndpoint(server.URL)).Predict(context.Background(), f)

		var networkErr *NetworkError
		require.ErrorAs(t, err, &networkErr)
		assert.Zero(t, requests.Load())
	})
}

func TestPredict_MalformedResponses(t *testing.T) {
	bodies := map[string]string{
		"not json":            `Eye Disease Classifier Server is running.`,
		"missing class":       `{"confidence":0.9}`,
		"empty class":         `{"predicted_class":"","confidence":0.9}`,
		"numeric class":       `{"predicted_class":3,"confidence":0.9}`,
		"missing confidence":  `{"predicted_class":"glaucoma"}`,
		"string confidence":   `{"predicted_class":"glaucoma","confidence":"0.9"}`,
		"confidence above 1":  `{"predicted_class":"glaucoma","confidence":1.5}`,
		"negative confidence": `{"predicted_class":"glaucoma","confidence":-0.1}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			_, err := NewClient(WithEndpoint(server.URL)).Predict(context.Background(), intake.FromBytes("a.png", "image/png", imageBytes))

			var malformed *MalformedResponseError
			require.ErrorAs(t, err, &malformed)
			assert.Contains(t, UserMessage(err), "Unexpected response from server: ")
		})
	}
}

func TestClassify(t *testing.T) {
	dnsErr := &net.DNSError{Err: "no such host", Name: "predict.invalid", IsNotFound: true}

	tests := []struct {
		name    string
		outcome Outcome
		check   func(t *testing.T, result *Result, err error)
	}{
		{
			name:    "failure before dispatch",
			outcome: Outcome{Err: errors.New("boom")},
			check: func(t *testing.T, _ *Result, err error) {
				var target *NetworkError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "Network error: boom", err.Error())
			},
		},
		{
			name:    "dns failure after dispatch",
			outcome: Outcome{Dispatched: true, Err: dnsErr},
			check: func(t *testing.T, _ *Result, err error) {
				var target *NetworkError
				require.ErrorAs(t, err, &target)
			},
		},
		{
			name:    "dispatched without response",
			outcome: Outcome{Dispatched: true, Err: io.ErrUnexpectedEOF},
			check: func(t *testing.T, _ *Result, err error) {
				var target *NoResponseError
				require.ErrorAs(t, err, &target)
				assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
			},
		},
		{
			name:    "server error wins over body read failure",
			outcome: Outcome{Dispatched: true, StatusCode: 503, Err: io.ErrUnexpectedEOF},
			check: func(t *testing.T, _ *Result, err error) {
				var target *ServerError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "Server error: 503", err.Error())
			},
		},
		{
			name:    "success with unreadable body",
			outcome: Outcome{Dispatched: true, StatusCode: 200, Err: io.ErrUnexpectedEOF},
			check: func(t *testing.T, _ *Result, err error) {
				var target *MalformedResponseError
				require.ErrorAs(t, err, &target)
			},
		},
		{
			name:    "boundary confidences are valid",
			outcome: Outcome{Dispatched: true, StatusCode: 200, Body: []byte(`{"predicted_class":"cataract","confidence":1}`)},
			check: func(t *testing.T, result *Result, err error) {
				require.NoError(t, err)
				assert.Equal(t, "cataract", result.PredictedClass)
				assert.Equal(t, 1.0, result.Confidence)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Classify(tt.outcome)
			tt.check(t, result, err)
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Equal(t, GenericMessage, UserMessage(errors.New("unknown")))
	assert.Equal(t, NoResponseMessage, UserMessage(&NoResponseError{}))
	assert.Equal(t, "Server error: 500", UserMessage(newServerError(500, nil)))
}
