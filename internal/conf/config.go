// config.go: settings struct and viper-backed loading for yolovision.
package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// LogConfig holds settings for the optional rotated log file.
type LogConfig struct {
	Enabled    bool   // true to write a JSON log file
	Path       string // path to the log file
	MaxSize    int    // maximum size in megabytes before rotation
	MaxBackups int    // maximum number of rotated files to keep
	MaxAge     int    // maximum age in days of rotated files
}

// ModelSettings contains model lifecycle configuration.
type ModelSettings struct {
	Default         string  // model identifier or path used when no explicit selection is made
	PretrainedDir   string  // directory for auto-downloaded pretrained models
	TrainedDir      string  // directory for user-supplied custom models
	Confidence      float64 // minimum detection confidence, 0.0 to 1.0
	IoU             float64 // IoU threshold for non-maximum suppression
	DownloadTimeout int     // model download timeout in seconds
}

// InputSettings contains input image discovery configuration.
type InputSettings struct {
	Dir string // directory scanned for input images, non-recursive
}

// OutputSettings contains output configuration.
type OutputSettings struct {
	Dir           string // directory for report documents and annotated images
	SaveAnnotated bool   // true to write annotated copies of processed images
}

// BenchmarkSettings contains benchmark and threshold sweep configuration.
type BenchmarkSettings struct {
	Runs       int       // number of timed inference runs per model, minimum 1
	Thresholds []float64 // confidence levels for the threshold sweep, processed in order
}

// Settings contains all runtime configuration.
type Settings struct {
	Debug bool // true to enable debug output

	Main struct {
		Name string    // node name shown in reports
		Log  LogConfig // log file settings
	}

	Model     ModelSettings
	Input     InputSettings
	Output    OutputSettings
	Benchmark BenchmarkSettings
}

// Load reads the configuration file (if any) and returns populated settings.
// Missing config files are not an error: defaults apply and flags override.
func Load() (*Settings, error) {
	setDefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		viper.AddConfigPath(filepath.Join(dir, "yolovision"))
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !asConfigFileNotFound(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// EnsureDirectories creates the managed directory layout on demand: input
// images, pretrained and trained model directories, and the output directory.
func EnsureDirectories(settings *Settings) error {
	dirs := []string{
		settings.Input.Dir,
		settings.Model.PretrainedDir,
		settings.Model.TrainedDir,
		settings.Output.Dir,
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

func asConfigFileNotFound(err error, target *viper.ConfigFileNotFoundError) bool {
	if e, ok := err.(viper.ConfigFileNotFoundError); ok {
		*target = e
		return true
	}
	return false
}
