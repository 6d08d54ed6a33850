package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tatendakasirori/eye-disease-classification/internal/components"
	"github.com/tatendakasirori/eye-disease-classification/internal/intake"
	"github.com/tatendakasirori/eye-disease-classification/internal/predict"
	"github.com/tatendakasirori/eye-disease-classification/internal/present"
	"github.com/tatendakasirori/eye-disease-classification/internal/theme"
)

func NewPredictCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict <image>",
		Short: "Classify an image and print the result",
		Long:  `Upload a single image to the prediction endpoint and print the predicted condition and confidence, or the raw server response with --json.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return runPredict(cmd, args[0], asJSON)
		},
	}

	cmd.Flags().Bool("json", false, "Print the raw server response")

	return cmd
}

func runPredict(cmd *cobra.Command, path string, asJSON bool) error {
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, cleanup, err := bootstrap(cmd, debug)
	if err != nil {
		return err
	}
	defer cleanup()

	f, err := intake.FromPath(path)
	if err != nil {
		return err
	}
	if f, err = intake.Validate(f); err != nil {
		return err
	}

	result, err := newPredictClient(cfg).Predict(cmd.Context(), f)
	if err != nil {
		return errors.New(predict.UserMessage(err))
	}

	out := cmd.OutOrStdout()
	if asJSON {
		_, err := fmt.Fprintln(out, string(result.Raw))
		return err
	}
	return printResult(out, f.Name, result)
}

func printResult(out io.Writer, name string, result *predict.Result) error {
	band := present.ConfidenceBand(result.Confidence)

	_, err := fmt.Fprintf(out, "Image:             %s\nPredicted disease: %s\nConfidence:        %s\n",
		name,
		theme.BandStyle(band).Render(present.FormatLabel(result.PredictedClass)),
		components.NewConfidenceBar(result.Confidence).SetWidth(20).Render(),
	)
	return err
}
