// Package benchmark implements the model comparison subcommand.
package benchmark

import (
	"github.com/spf13/cobra"

	"github.com/yolovision/yolovision/internal/analysis"
	"github.com/yolovision/yolovision/internal/conf"
)

// Command creates the benchmark subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "benchmark [model...]",
		Short: "Compare models over the input directory",
		Long: `Time each model over the input images and write benchmark_results.json.
Without arguments every locally available model is benchmarked; identifiers
given as arguments are downloaded first when missing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return analysis.New(settings).RunBenchmark(cmd.Context(), args)
		},
	}

	cmd.Flags().IntVarP(&settings.Benchmark.Runs, "runs", "r", settings.Benchmark.Runs, "Timed inference runs per model")

	return cmd
}
