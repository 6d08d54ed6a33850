package cli

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tatendakasirori/eye-disease-classification/internal/config"
	"github.com/tatendakasirori/eye-disease-classification/internal/theme"
)

func NewConfigureCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Edit and save settings interactively",
		Long:  `Walk through the prediction endpoint, request timeout and display settings, then save them to the config file.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure(cmd)
		},
	}
}

// answers holds the form values as the user edits them.
type answers struct {
	Endpoint string
	Timeout  string
	Theme    string
	ShowAll  bool
	Save     bool
}

func answersFrom(cfg *config.Config) answers {
	return answers{
		Endpoint: cfg.Endpoint,
		Timeout:  cfg.Timeout.String(),
		Theme:    cfg.Theme,
		ShowAll:  cfg.Browser.ShowAll,
		Save:     true,
	}
}

// apply copies validated answers onto cfg.
func (a answers) apply(cfg *config.Config) error {
	if err := validateEndpoint(a.Endpoint); err != nil {
		return err
	}
	timeout, err := parseTimeout(a.Timeout)
	if err != nil {
		return err
	}

	cfg.Endpoint = strings.TrimSpace(a.Endpoint)
	cfg.Timeout = timeout
	cfg.Theme = a.Theme
	cfg.Browser.ShowAll = a.ShowAll
	return nil
}

func runConfigure(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}

	a := answersFrom(cfg)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Prediction endpoint").
				Description("URL that accepts multipart POST uploads").
				Value(&a.Endpoint).
				Validate(validateEndpoint),
			huh.NewInput().
				Title("Request timeout").
				Description("For example 30s or 2m; 0 waits indefinitely").
				Value(&a.Timeout).
				Validate(func(s string) error {
					_, err := parseTimeout(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("Dark", theme.Dark),
					huh.NewOption("Light", theme.Light),
				).
				Value(&a.Theme),
			huh.NewConfirm().
				Title("Show every file in the picker?").
				Description("Otherwise only folders and images are listed").
				Value(&a.ShowAll),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Save to %s?", configPath)).
				Value(&a.Save),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration cancelled")
			return nil
		}
		return err
	}

	if !a.Save {
		fmt.Fprintln(cmd.OutOrStdout(), "Settings not saved")
		return nil
	}

	if err := a.apply(cfg); err != nil {
		return err
	}
	if err := config.Save(cfg, configPath); err != nil {
		return err
	}

	log.Info().Str("path", configPath).Msg("settings saved")
	fmt.Fprintf(cmd.OutOrStdout(), "Saved settings to %s\n", configPath)
	return nil
}

func validateEndpoint(s string) error {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("enter an http:// or https:// URL")
	}
	return nil
}

func parseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("enter a duration such as 30s or 2m")
	}
	if d < 0 {
		return 0, errors.New("timeout must not be negative")
	}
	return d, nil
}
