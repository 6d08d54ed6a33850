package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:5001/predict", cfg.Endpoint)
	assert.Equal(t, "image", cfg.FieldName)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 40, cfg.Preview.ThumbWidth)
	assert.Equal(t, 30*time.Second, cfg.Browser.CacheTTL)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
endpoint: http://model.internal:5001/predict
timeout: 45s
theme: light
preview:
  thumb_width: 60
`), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://model.internal:5001/predict", cfg.Endpoint)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, "light", cfg.Theme)
	assert.Equal(t, 60, cfg.Preview.ThumbWidth)
	assert.Equal(t, 18, cfg.Preview.ThumbHeight)

	t.Setenv("RETINA_TIMEOUT", "5s")
	t.Setenv("RETINA_LOG_LEVEL", "debug")
	cfg, err = Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("endpoint", "", "")
	require.NoError(t, flags.Parse([]string{"--endpoint", "https://override.example/predict"}))

	cfg, err = Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "https://override.example/predict", cfg.Endpoint)
}

func TestLoad_UnsetFlagKeepsFileValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint: http://file.example/predict\n"), 0o644))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("endpoint", "", "")

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "http://file.example/predict", cfg.Endpoint)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint: [unterminated"), 0o644))

	_, err := Load(path, nil)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad scheme", mutate: func(c *Config) { c.Endpoint = "ftp://x/predict" }, wantErr: "endpoint"},
		{name: "no host", mutate: func(c *Config) { c.Endpoint = "http:///predict" }, wantErr: "endpoint"},
		{name: "empty field", mutate: func(c *Config) { c.FieldName = " " }, wantErr: "field_name"},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }, wantErr: "timeout"},
		{name: "unknown theme", mutate: func(c *Config) { c.Theme = "neon" }, wantErr: "theme"},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: "log.level"},
		{name: "zero thumbnail", mutate: func(c *Config) { c.Preview.ThumbHeight = 0 }, wantErr: "thumbnail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Endpoint = "https://retina.example/predict"
	cfg.Timeout = 90 * time.Second
	cfg.Browser.ShowAll = true

	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
