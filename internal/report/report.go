// Package report aggregates inference results into summary documents and
// writes them as JSON into the output directory.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/yolovision/yolovision/internal/benchmark"
	"github.com/yolovision/yolovision/internal/inference"
)

// Summary aggregates a batch of image results. ClassesDetected maps each
// class name seen in successful results to its detection count.
type Summary struct {
	TotalImagesProcessed      int            `json:"total_images_processed"`
	SuccessfulInferences      int            `json:"successful_inferences"`
	FailedInferences          int            `json:"failed_inferences"`
	TotalDetections           int            `json:"total_detections"`
	AverageDetectionsPerImage float64        `json:"average_detections_per_image"`
	ClassesDetected           map[string]int `json:"classes_detected"`
	ModelUsed                 string         `json:"model_used"`
}

// Performance holds the throughput metrics for a batch.
type Performance struct {
	TotalTimeSeconds    float64 `json:"total_time_seconds"`
	ImagesPerSecond     float64 `json:"images_per_second"`
	DetectionsPerSecond float64 `json:"detections_per_second"`
	AverageTimePerImage float64 `json:"average_time_per_image_seconds"`
}

// InferenceReport is the document written after a batch inference run.
type InferenceReport struct {
	RunID           string                  `json:"run_id"`
	Timestamp       string                  `json:"timestamp"`
	Summary         Summary                 `json:"summary"`
	Performance     Performance             `json:"performance"`
	DetailedResults []inference.ImageResult `json:"detailed_results"`
}

// BenchmarkReport is the document written after a model comparison run.
type BenchmarkReport struct {
	RunID      string               `json:"run_id"`
	Timestamp  string               `json:"timestamp"`
	System     benchmark.SystemInfo `json:"system"`
	Runs       int                  `json:"runs_per_model"`
	Images     int                  `json:"images"`
	Records    []benchmark.Record   `json:"results"`
	Comparison benchmark.Comparison `json:"comparison"`
}

// ThresholdReport is the document written after a confidence threshold sweep.
type ThresholdReport struct {
	RunID     string                      `json:"run_id"`
	Timestamp string                      `json:"timestamp"`
	ModelUsed string                      `json:"model_used"`
	Levels    []float64                   `json:"thresholds"`
	Records   []benchmark.ThresholdRecord `json:"analysis"`
}

// AdvancedReport combines the per-image report with a threshold sweep in a
// single run over one model.
type AdvancedReport struct {
	RunID     string                      `json:"run_id"`
	Timestamp string                      `json:"timestamp"`
	Inference InferenceReport             `json:"inference"`
	Sweep     []benchmark.ThresholdRecord `json:"threshold_analysis"`
}

// BuildSummary aggregates results into a summary. All averages are guarded
// against empty input: zero images yields zeros, never NaN.
func BuildSummary(results []inference.ImageResult, modelUsed string) Summary {
	summary := Summary{
		TotalImagesProcessed: len(results),
		ClassesDetected:      map[string]int{},
		ModelUsed:            modelUsed,
	}

	for _, result := range results {
		if !result.Success {
			summary.FailedInferences++
			continue
		}
		summary.SuccessfulInferences++
		summary.TotalDetections += result.DetectionCount
		for _, detection := range result.Detections {
			summary.ClassesDetected[detection.ClassName]++
		}
	}

	if summary.TotalImagesProcessed > 0 {
		summary.AverageDetectionsPerImage = float64(summary.TotalDetections) / float64(summary.TotalImagesProcessed)
	}

	return summary
}

// BuildPerformance derives throughput metrics from a summary and the wall
// clock time of the whole batch.
func BuildPerformance(summary Summary, totalTime time.Duration) Performance {
	performance := Performance{TotalTimeSeconds: totalTime.Seconds()}
	if performance.TotalTimeSeconds > 0 {
		performance.ImagesPerSecond = float64(summary.TotalImagesProcessed) / performance.TotalTimeSeconds
		performance.DetectionsPerSecond = float64(summary.TotalDetections) / performance.TotalTimeSeconds
	}
	if summary.TotalImagesProcessed > 0 {
		performance.AverageTimePerImage = performance.TotalTimeSeconds / float64(summary.TotalImagesProcessed)
	}
	return performance
}

// BuildInferenceReport assembles the full per-image report document.
func BuildInferenceReport(results []inference.ImageResult, modelUsed string, totalTime time.Duration) InferenceReport {
	summary := BuildSummary(results, modelUsed)
	if results == nil {
		results = []inference.ImageResult{}
	}
	return InferenceReport{
		RunID:           uuid.New().String(),
		Timestamp:       time.Now().Format(time.RFC3339),
		Summary:         summary,
		Performance:     BuildPerformance(summary, totalTime),
		DetailedResults: results,
	}
}
