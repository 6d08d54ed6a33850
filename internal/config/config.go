package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. RETINA_ENDPOINT or
// RETINA_LOG_LEVEL.
const EnvPrefix = "RETINA"

type Config struct {
	Endpoint  string        `mapstructure:"endpoint"`
	FieldName string        `mapstructure:"field_name"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	Theme     string        `mapstructure:"theme"`

	Log     LogConfig     `mapstructure:"log"`
	Preview PreviewConfig `mapstructure:"preview"`
	Browser BrowserConfig `mapstructure:"browser"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

type PreviewConfig struct {
	ThumbWidth  int `mapstructure:"thumb_width"`
	ThumbHeight int `mapstructure:"thumb_height"`
}

type BrowserConfig struct {
	StartDir string        `mapstructure:"start_dir"`
	ShowAll  bool          `mapstructure:"show_all"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// Dir returns the per-user settings directory.
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".retina-tui"
	}
	return filepath.Join(homeDir, ".retina-tui")
}

// DefaultPath is where configure writes the settings file.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads configuration from path (or the default search paths when path
// is empty), environment variables and the flags that were set explicitly.
// A missing config file is not an error.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if f := flags.Lookup("endpoint"); f != nil {
			if err := v.BindPFlag("endpoint", f); err != nil {
				log.Warn().Err(err).Msg("Failed to bind endpoint flag")
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(Dir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			log.Debug().Msg("Config file not found, using environment variables and defaults")
		case path != "" && errors.Is(err, os.ErrNotExist):
			log.Debug().Str("path", path).Msg("Config file does not exist yet, using defaults")
		default:
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Debug().Msgf("Using config file: %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("endpoint", "http://127.0.0.1:5001/predict")
	v.SetDefault("field_name", "image")
	v.SetDefault("timeout", 2*time.Minute)
	v.SetDefault("user_agent", "")
	v.SetDefault("theme", "dark")

	v.SetDefault("log.file", filepath.Join(Dir(), "retina-tui.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 5)

	v.SetDefault("preview.thumb_width", 40)
	v.SetDefault("preview.thumb_height", 18)

	v.SetDefault("browser.start_dir", ".")
	v.SetDefault("browser.show_all", false)
	v.SetDefault("browser.cache_ttl", 30*time.Second)
}

// Validate checks the fields that would otherwise fail late.
func (c *Config) Validate() error {
	var problems []string

	if u, err := url.Parse(c.Endpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("endpoint %q must be an http(s) URL", c.Endpoint))
	}
	if strings.TrimSpace(c.FieldName) == "" {
		problems = append(problems, "field_name must not be empty")
	}
	if c.Timeout < 0 {
		problems = append(problems, "timeout must not be negative")
	}
	if c.Theme != "light" && c.Theme != "dark" {
		problems = append(problems, fmt.Sprintf("theme %q must be light or dark", c.Theme))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("log.level %q is not a valid level", c.Log.Level))
	}
	if c.Preview.ThumbWidth <= 0 || c.Preview.ThumbHeight <= 0 {
		problems = append(problems, "preview thumbnail size must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Save writes cfg as YAML to path, creating its directory.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.Set("endpoint", cfg.Endpoint)
	v.Set("field_name", cfg.FieldName)
	v.Set("timeout", cfg.Timeout.String())
	v.Set("user_agent", cfg.UserAgent)
	v.Set("theme", cfg.Theme)
	v.Set("log.file", cfg.Log.File)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.max_size_mb", cfg.Log.MaxSizeMB)
	v.Set("log.max_backups", cfg.Log.MaxBackups)
	v.Set("preview.thumb_width", cfg.Preview.ThumbWidth)
	v.Set("preview.thumb_height", cfg.Preview.ThumbHeight)
	v.Set("browser.start_dir", cfg.Browser.StartDir)
	v.Set("browser.show_all", cfg.Browser.ShowAll)
	v.Set("browser.cache_ttl", cfg.Browser.CacheTTL.String())

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
