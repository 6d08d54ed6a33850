package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatendakasirori/eye-disease-classification/internal/config"
	"github.com/tatendakasirori/eye-disease-classification/internal/intake"
	"github.com/tatendakasirori/eye-disease-classification/internal/version"
)

// execute runs the CLI with a private home directory and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func writeImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G', 0, 0}, 0o644))
	return path
}

func predictionServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("image"); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"No image file provided"}`))
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestPredictCommand(t *testing.T) {
	server := predictionServer(t, http.StatusOK, `{"predicted_class":"diabetic_retinopathy","confidence":0.92}`)

	out, err := execute(t, "predict", writeImage(t, "eye.png"), "--endpoint", server.URL+"/predict")
	require.NoError(t, err)

	assert.Contains(t, out, "eye.png")
	assert.Contains(t, out, "Diabetic Retinopathy")
	assert.Contains(t, out, "92.0%")
}

func TestPredictCommand_JSON(t *testing.T) {
	body := `{"predicted_class":"glaucoma","confidence":0.41}`
	server := predictionServer(t, http.StatusOK, body)

	out, err := execute(t, "predict", writeImage(t, "eye.png"), "--endpoint", server.URL, "--json")
	require.NoError(t, err)
	assert.JSONEq(t, body, strings.TrimSpace(out))
}

func TestPredictCommand_ServerError(t *testing.T) {
	server := predictionServer(t, http.StatusInternalServerError, `{"error":"Model not loaded."}`)

	_, err := execute(t, "predict", writeImage(t, "eye.png"), "--endpoint", server.URL)
	require.Error(t, err)
	assert.Equal(t, "Model not loaded.", err.Error())
}

func TestPredictCommand_RejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	_, err := execute(t, "predict", path, "--endpoint", "http://127.0.0.1:1/predict")
	require.Error(t, err)
	assert.Equal(t, intake.RejectMessage, err.Error())
}

func TestPredictCommand_InvalidEndpointFlag(t *testing.T) {
	_, err := execute(t, "predict", writeImage(t, "eye.png"), "--endpoint", "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "retina-tui "+version.Short())
}

func TestAnswersApply(t *testing.T) {
	cfg := config.Default()

	a := answersFrom(cfg)
	a.Endpoint = " https://models.example.com/predict "
	a.Timeout = "45s"
	a.Theme = "light"
	a.ShowAll = true
	require.NoError(t, a.apply(cfg))

	assert.Equal(t, "https://models.example.com/predict", cfg.Endpoint)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, "light", cfg.Theme)
	assert.True(t, cfg.Browser.ShowAll)
}

func TestAnswersApply_Invalid(t *testing.T) {
	tests := map[string]answers{
		"endpoint without scheme": {Endpoint: "localhost:5001/predict", Timeout: "1m", Theme: "dark"},
		"bad timeout":             {Endpoint: "http://localhost:5001/predict", Timeout: "soon", Theme: "dark"},
		"negative timeout":        {Endpoint: "http://localhost:5001/predict", Timeout: "-1s", Theme: "dark"},
	}

	for name, a := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			before := *cfg
			assert.Error(t, a.apply(cfg))
			assert.Equal(t, before, *cfg)
		})
	}
}
