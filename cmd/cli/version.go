package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tatendakasirori/eye-disease-classification/internal/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "retina-tui %s\n", version.Short())
			if info.BuildDate != "" {
				fmt.Fprintf(out, "  built:    %s\n", info.BuildDate)
			}
			fmt.Fprintf(out, "  go:       %s\n", info.GoVersion)
			fmt.Fprintf(out, "  platform: %s\n", info.Platform)
			return nil
		},
	}
}
