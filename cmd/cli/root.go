package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tatendakasirori/eye-disease-classification/internal/components"
	"github.com/tatendakasirori/eye-disease-classification/internal/config"
	"github.com/tatendakasirori/eye-disease-classification/internal/logging"
	"github.com/tatendakasirori/eye-disease-classification/internal/predict"
	"github.com/tatendakasirori/eye-disease-classification/internal/preview"
	"github.com/tatendakasirori/eye-disease-classification/internal/theme"
	"github.com/tatendakasirori/eye-disease-classification/internal/version"
	"github.com/tatendakasirori/eye-disease-classification/internal/workflow"
	"github.com/tatendakasirori/eye-disease-classification/views"
	"github.com/tatendakasirori/eye-disease-classification/views/classifier"
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "retina-tui [image]",
		Short: "Retinal image classifier",
		Long: `Retina TUI uploads a retinal fundus image to an eye disease classification
server and shows the predicted condition with its confidence.

Pick an image with the built-in browser, drop it onto the terminal, or pass
its path as an argument.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInterface(cmd, args)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to the config file")
	rootCmd.PersistentFlags().String("endpoint", "", "Override the prediction endpoint URL")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	rootCmd.AddCommand(NewPredictCommand())
	rootCmd.AddCommand(NewConfigureCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and installs the logger. The returned func
// closes the log file.
func bootstrap(cmd *cobra.Command, console bool) (*config.Config, func(), error) {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	closer, err := logging.Setup(logging.Options{
		File:       cfg.Log.File,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Console:    console,
		Debug:      debug,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	log.Debug().
		Str("version", version.Short()).
		Str("endpoint", cfg.Endpoint).
		Msg("configuration loaded")

	return cfg, func() { _ = closer.Close() }, nil
}

func newPredictClient(cfg *config.Config) *predict.Client {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent()
	}

	return predict.NewClient(
		predict.WithEndpoint(cfg.Endpoint),
		predict.WithFieldName(cfg.FieldName),
		predict.WithTimeout(cfg.Timeout),
		predict.WithUserAgent(userAgent),
	)
}

func runInterface(cmd *cobra.Command, args []string) error {
	cfg, cleanup, err := bootstrap(cmd, false)
	if err != nil {
		return err
	}
	defer cleanup()

	theme.Apply(cfg.Theme)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client := newPredictClient(cfg)
	controller := workflow.NewController(ctx,
		preview.NewGenerator(cfg.Preview.ThumbWidth, cfg.Preview.ThumbHeight),
		client,
	)

	startDir := cfg.Browser.StartDir
	initialPath := ""
	if len(args) == 1 {
		initialPath = args[0]
		startDir = filepath.Dir(initialPath)
	}

	browser := components.NewFileBrowser(startDir, components.NewDirLoader(cfg.Browser.CacheTTL)).
		SetShowAll(cfg.Browser.ShowAll)

	app := views.NewApp(classifier.Options{
		Controller:  controller,
		Browser:     browser,
		Endpoint:    client.Endpoint(),
		Theme:       cfg.Theme,
		InitialPath: initialPath,
	})

	log.Info().Str("endpoint", client.Endpoint()).Msg("starting interface")

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interface error: %w", err)
	}
	return nil
}
