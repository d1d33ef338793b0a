// Package benchmark times models against a fixed image set, ranks them, and
// sweeps confidence thresholds over a single model.
package benchmark

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/yolovision/yolovision/internal/conf"
	"github.com/yolovision/yolovision/internal/errors"
	"github.com/yolovision/yolovision/internal/imagefile"
	"github.com/yolovision/yolovision/internal/inference"
	"github.com/yolovision/yolovision/internal/logging"
	"github.com/yolovision/yolovision/internal/model"
)

// Record holds the measured performance of one model over the image set.
// Averages are per run for time and per image for detections.
type Record struct {
	Model            model.Descriptor `json:"-"`
	Identifier       string           `json:"model"`
	SizeBytes        int64            `json:"size_bytes"`
	LoadTimeSeconds  float64          `json:"load_time_seconds"`
	AvgInferenceTime float64          `json:"avg_inference_time_seconds"`
	AvgDetections    float64          `json:"avg_detections_per_image"`
	Runs             int              `json:"runs"`
	Images           int              `json:"images"`
	Error            string           `json:"error,omitempty"`
}

// ThresholdRecord holds the outcome of one independent pass over the image
// set at a single confidence level.
type ThresholdRecord struct {
	ConfidenceLevel float64                 `json:"confidence_threshold"`
	DetectionCount  int                     `json:"total_detections"`
	Results         []inference.ImageResult `json:"results"`
}

// Comparison summarizes a ranked benchmark: which model was fastest, which
// found the most objects, and which is smallest on disk.
type Comparison struct {
	Fastest        string   `json:"fastest"`
	MostDetections string   `json:"most_detections"`
	Smallest       string   `json:"smallest"`
	Ranking        []string `json:"ranking"`
}

// Runner benchmarks models using an inference engine.
type Runner struct {
	engine   *inference.Engine
	settings *conf.Settings
	log      *slog.Logger
}

// NewRunner creates a benchmark runner.
func NewRunner(engine *inference.Engine, settings *conf.Settings) *Runner {
	return &Runner{
		engine:   engine,
		settings: settings,
		log:      logging.ForService("benchmark"),
	}
}

// BenchmarkModel loads desc once and times runs complete passes over images.
// The model stays loaded across runs so only inference is measured.
func (r *Runner) BenchmarkModel(desc model.Descriptor, images []imagefile.ImageRef, runs int) (Record, error) {
	if runs < 1 {
		return Record{}, errors.New(fmt.Errorf("%w: benchmark runs must be at least 1, got %d", errors.ErrInvalidArgument, runs)).
			Component("benchmark").
			Category(errors.CategoryValidation).
			Build()
	}

	record := Record{
		Model:      desc,
		Identifier: desc.Identifier,
		SizeBytes:  desc.SizeBytes,
		Runs:       runs,
		Images:     len(images),
	}

	handle, err := r.engine.LoadModel(desc.LocalPath)
	if err != nil {
		return Record{}, err
	}
	defer handle.Close()
	record.LoadTimeSeconds = handle.LoadTime.Seconds()

	confidence := r.settings.Model.Confidence
	iou := r.settings.Model.IoU

	var totalTime float64
	var totalDetections int
	for run := 0; run < runs; run++ {
		start := time.Now()
		results := r.engine.DetectBatch(handle, images, confidence, iou)
		totalTime += time.Since(start).Seconds()
		for _, result := range results {
			totalDetections += result.DetectionCount
		}
	}

	record.AvgInferenceTime = totalTime / float64(runs)
	if len(images) > 0 {
		record.AvgDetections = float64(totalDetections) / float64(runs) / float64(len(images))
	}

	r.log.Info("benchmarked model",
		"model", record.Identifier,
		"avg_inference_time", record.AvgInferenceTime,
		"avg_detections", record.AvgDetections)
	return record, nil
}

// BenchmarkModels benchmarks every descriptor and returns the records ranked
// fastest first. A model that fails to load is kept in the output with its
// error recorded instead of aborting the comparison.
func (r *Runner) BenchmarkModels(descriptors []model.Descriptor, images []imagefile.ImageRef, runs int) ([]Record, error) {
	if runs < 1 {
		return nil, errors.New(fmt.Errorf("%w: benchmark runs must be at least 1, got %d", errors.ErrInvalidArgument, runs)).
			Component("benchmark").
			Category(errors.CategoryValidation).
			Build()
	}

	records := make([]Record, 0, len(descriptors))
	for _, desc := range descriptors {
		record, err := r.BenchmarkModel(desc, images, runs)
		if err != nil {
			r.log.Warn("skipping model in comparison", "model", desc.Identifier, "error", err)
			records = append(records, Record{
				Model:      desc,
				Identifier: desc.Identifier,
				SizeBytes:  desc.SizeBytes,
				Error:      err.Error(),
			})
			continue
		}
		records = append(records, record)
	}

	Rank(records)
	return records, nil
}

// Rank sorts records in place: ascending average inference time, ties broken
// by ascending size. Failed records sort last, ordered by size.
func Rank(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if (a.Error == "") != (b.Error == "") {
			return a.Error == ""
		}
		if a.Error != "" {
			return a.SizeBytes < b.SizeBytes
		}
		if a.AvgInferenceTime != b.AvgInferenceTime {
			return a.AvgInferenceTime < b.AvgInferenceTime
		}
		return a.SizeBytes < b.SizeBytes
	})
}

// Compare derives the comparison summary from ranked records. Records with
// errors are excluded from the superlatives but keep their ranking slot.
func Compare(records []Record) Comparison {
	comparison := Comparison{Ranking: make([]string, 0, len(records))}

	var best *Record
	var most *Record
	var smallest *Record
	for i := range records {
		record := &records[i]
		comparison.Ranking = append(comparison.Ranking, record.Identifier)
		if record.Error != "" {
			continue
		}
		if best == nil || record.AvgInferenceTime < best.AvgInferenceTime {
			best = record
		}
		if most == nil || record.AvgDetections > most.AvgDetections {
			most = record
		}
		if smallest == nil || record.SizeBytes < smallest.SizeBytes {
			smallest = record
		}
	}

	if best != nil {
		comparison.Fastest = best.Identifier
	}
	if most != nil {
		comparison.MostDetections = most.Identifier
	}
	if smallest != nil {
		comparison.Smallest = smallest.Identifier
	}
	return comparison
}

// SweepThresholds runs one full pass over images per confidence level, in the
// given order. Each pass is independent: the same loaded model, a fresh batch.
func (r *Runner) SweepThresholds(handle *inference.ModelHandle, images []imagefile.ImageRef, levels []float64) ([]ThresholdRecord, error) {
	for _, level := range levels {
		if level <= 0 || level >= 1 {
			return nil, errors.New(fmt.Errorf("%w: confidence threshold %.2f is outside (0, 1)", errors.ErrInvalidArgument, level)).
				Component("benchmark").
				Category(errors.CategoryValidation).
				Build()
		}
	}

	iou := r.settings.Model.IoU
	records := make([]ThresholdRecord, 0, len(levels))
	for _, level := range levels {
		results := r.engine.DetectBatch(handle, images, level, iou)
		record := ThresholdRecord{ConfidenceLevel: level, Results: results}
		for _, result := range results {
			record.DetectionCount += result.DetectionCount
		}
		r.log.Info("threshold pass complete", "confidence", level, "detections", record.DetectionCount)
		records = append(records, record)
	}
	return records, nil
}
