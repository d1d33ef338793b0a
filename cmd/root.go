// Package cmd assembles the yolovision command line interface.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yolovision/yolovision/cmd/advanced"
	"github.com/yolovision/yolovision/cmd/benchmark"
	"github.com/yolovision/yolovision/cmd/detect"
	"github.com/yolovision/yolovision/cmd/models"
	"github.com/yolovision/yolovision/cmd/thresholds"
	"github.com/yolovision/yolovision/internal/buildinfo"
	"github.com/yolovision/yolovision/internal/conf"
	"github.com/yolovision/yolovision/internal/logging"
)

// RootCommand creates and returns the root command.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "yolovision",
		Short: "Batch object detection with YOLO models",
		Long: `yolovision runs YOLO object detection over a directory of images,
benchmarks models against each other, and sweeps confidence thresholds.
Reports are written as JSON into the output directory.`,
		Version: buildinfo.String(),
	}

	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		detect.Command(settings),
		benchmark.Command(settings),
		thresholds.Command(settings),
		advanced.Command(settings),
		models.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	// Flags write straight into the settings struct, so only validation and
	// logging remain before a subcommand runs.
	logClose := func() error { return nil }
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := conf.ValidateSettings(settings); err != nil {
			return err
		}
		closer, err := logging.Init(settings)
		if err != nil {
			return err
		}
		logClose = closer
		return nil
	}
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return logClose()
	}

	return rootCmd
}

// setupFlags defines flags shared by every subcommand.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVarP(&settings.Model.Default, "model", "m", viper.GetString("model.default"), "Model identifier or path to a model file")
	rootCmd.PersistentFlags().Float64VarP(&settings.Model.Confidence, "confidence", "c", viper.GetFloat64("model.confidence"), "Minimum detection confidence, 0.0 to 1.0")
	rootCmd.PersistentFlags().Float64Var(&settings.Model.IoU, "iou", viper.GetFloat64("model.iou"), "IoU threshold for non-maximum suppression")
	rootCmd.PersistentFlags().StringVarP(&settings.Input.Dir, "input", "i", viper.GetString("input.dir"), "Directory scanned for input images")
	rootCmd.PersistentFlags().StringVarP(&settings.Output.Dir, "output", "o", viper.GetString("output.dir"), "Directory for reports and annotated images")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		cobra.CheckErr(err)
	}
	if err := viper.BindPFlag("model.default", rootCmd.PersistentFlags().Lookup("model")); err != nil {
		cobra.CheckErr(err)
	}
	if err := viper.BindPFlag("model.confidence", rootCmd.PersistentFlags().Lookup("confidence")); err != nil {
		cobra.CheckErr(err)
	}
	if err := viper.BindPFlag("model.iou", rootCmd.PersistentFlags().Lookup("iou")); err != nil {
		cobra.CheckErr(err)
	}
	if err := viper.BindPFlag("input.dir", rootCmd.PersistentFlags().Lookup("input")); err != nil {
		cobra.CheckErr(err)
	}
	if err := viper.BindPFlag("output.dir", rootCmd.PersistentFlags().Lookup("output")); err != nil {
		cobra.CheckErr(err)
	}
}
