// Package detect implements the batch inference subcommand.
package detect

import (
	"github.com/spf13/cobra"

	"github.com/yolovision/yolovision/internal/analysis"
	"github.com/yolovision/yolovision/internal/conf"
)

// Command creates the detect subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "detect [model]",
		Short: "Run object detection over the input directory",
		Long: `Process every image in the input directory with one model and write
inference_report.json to the output directory. The model may be given as a
catalog identifier (yolov8n..yolov8x), a local model filename, or a path.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modelArg := ""
			if len(args) > 0 {
				modelArg = args[0]
			}
			return analysis.New(settings).RunDirectory(cmd.Context(), modelArg, interactive)
		},
	}

	cmd.Flags().BoolVar(&interactive, "select", false, "Choose the model from an interactive menu")
	cmd.Flags().BoolVar(&settings.Output.SaveAnnotated, "save-images", settings.Output.SaveAnnotated, "Write annotated copies of processed images")

	return cmd
}
