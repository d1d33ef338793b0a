package conf

import (
	"fmt"

	"github.com/yolovision/yolovision/internal/errors"
)

// ValidateSettings checks settings for caller misuse before any I/O happens.
func ValidateSettings(settings *Settings) error {
	if settings.Model.Confidence < 0 || settings.Model.Confidence > 1 {
		return errors.New(fmt.Errorf("%w: confidence threshold %.2f out of range [0,1]",
			errors.ErrInvalidArgument, settings.Model.Confidence)).
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}

	if settings.Model.IoU < 0 || settings.Model.IoU > 1 {
		return errors.New(fmt.Errorf("%w: IoU threshold %.2f out of range [0,1]",
			errors.ErrInvalidArgument, settings.Model.IoU)).
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}

	if settings.Benchmark.Runs < 1 {
		return errors.New(fmt.Errorf("%w: benchmark runs must be >= 1, got %d",
			errors.ErrInvalidArgument, settings.Benchmark.Runs)).
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}

	for _, level := range settings.Benchmark.Thresholds {
		if level <= 0 || level >= 1 {
			return errors.New(fmt.Errorf("%w: threshold level %.2f out of range (0,1)",
				errors.ErrInvalidArgument, level)).
				Component("conf").
				Category(errors.CategoryValidation).
				Build()
		}
	}

	return nil
}
