// Package thresholds implements the confidence sweep subcommand.
package thresholds

import (
	"github.com/spf13/cobra"

	"github.com/yolovision/yolovision/internal/analysis"
	"github.com/yolovision/yolovision/internal/conf"
)

// Command creates the thresholds subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "thresholds [model]",
		Short: "Sweep confidence thresholds over the input directory",
		Long: `Process the input images once per configured confidence level with one
model and write threshold_analysis.json. Levels are taken from the
benchmark.thresholds setting and processed in order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modelArg := ""
			if len(args) > 0 {
				modelArg = args[0]
			}
			return analysis.New(settings).RunThresholdSweep(cmd.Context(), modelArg, interactive)
		},
	}

	cmd.Flags().BoolVar(&interactive, "select", false, "Choose the model from an interactive menu")
	cmd.Flags().Float64SliceVarP(&settings.Benchmark.Thresholds, "levels", "l", settings.Benchmark.Thresholds, "Confidence levels to sweep, in order")

	return cmd
}
