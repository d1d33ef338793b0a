// Package advanced implements the combined analysis subcommand.
package advanced

import (
	"github.com/spf13/cobra"

	"github.com/yolovision/yolovision/internal/analysis"
	"github.com/yolovision/yolovision/internal/conf"
)

// Command creates the advanced subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "advanced [model]",
		Short: "Run batch inference and a threshold sweep in one pass",
		Long: `Process the input images with one model, then sweep the configured
confidence levels with the same loaded model, and write the combined
advanced_analysis.json report.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modelArg := ""
			if len(args) > 0 {
				modelArg = args[0]
			}
			return analysis.New(settings).RunAdvanced(cmd.Context(), modelArg, interactive)
		},
	}

	cmd.Flags().BoolVar(&interactive, "select", false, "Choose the model from an interactive menu")
	cmd.Flags().BoolVar(&settings.Output.SaveAnnotated, "save-images", settings.Output.SaveAnnotated, "Write annotated copies of processed images")

	return cmd
}
