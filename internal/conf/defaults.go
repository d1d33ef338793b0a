// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("main.name", "yolovision")
	viper.SetDefault("main.log.enabled", false)
	viper.SetDefault("main.log.path", "yolovision.log")
	viper.SetDefault("main.log.maxsize", 10)
	viper.SetDefault("main.log.maxbackups", 3)
	viper.SetDefault("main.log.maxage", 30)

	viper.SetDefault("model.default", "yolov8n")
	viper.SetDefault("model.pretraineddir", "models/pretrained")
	viper.SetDefault("model.traineddir", "models/trained")
	viper.SetDefault("model.confidence", 0.25)
	viper.SetDefault("model.iou", 0.45)
	viper.SetDefault("model.downloadtimeout", 300)

	viper.SetDefault("input.dir", "img/inference_data")

	viper.SetDefault("output.dir", "output")
	viper.SetDefault("output.saveannotated", true)

	viper.SetDefault("benchmark.runs", 3)
	viper.SetDefault("benchmark.thresholds", []float64{0.1, 0.3, 0.5, 0.7, 0.9})
}
