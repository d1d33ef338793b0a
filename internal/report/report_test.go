package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yolovision/yolovision/internal/inference"
)

func detections(classes ...string) []inference.Detection {
	out := make([]inference.Detection, 0, len(classes))
	for _, class := range classes {
		out = append(out, inference.Detection{ClassName: class, Confidence: 0.9})
	}
	return out
}

func successResult(path string, classes ...string) inference.ImageResult {
	return inference.ImageResult{
		ImagePath:      path,
		Detections:     detections(classes...),
		DetectionCount: len(classes),
		Success:        true,
		ElapsedSeconds: 0.1,
	}
}

func TestBuildSummaryEmptyBatch(t *testing.T) {
	t.Parallel()

	summary := BuildSummary(nil, "yolov8n")
	assert.Zero(t, summary.TotalImagesProcessed)
	assert.Zero(t, summary.TotalDetections)
	assert.Zero(t, summary.AverageDetectionsPerImage)
	assert.Empty(t, summary.ClassesDetected)
	assert.NotNil(t, summary.ClassesDetected)
	assert.Equal(t, "yolov8n", summary.ModelUsed)
}

func TestBuildSummaryAggregates(t *testing.T) {
	t.Parallel()

	results := []inference.ImageResult{
		successResult("bus.jpg", "bus", "person", "person", "person", "person"),
		successResult("zidane.jpg", "person", "person", "tie", "tie"),
	}

	summary := BuildSummary(results, "yolov8n")
	assert.Equal(t, 2, summary.TotalImagesProcessed)
	assert.Equal(t, 2, summary.SuccessfulInferences)
	assert.Equal(t, 0, summary.FailedInferences)
	assert.Equal(t, 9, summary.TotalDetections)
	assert.InDelta(t, 4.5, summary.AverageDetectionsPerImage, 1e-9)
	assert.Equal(t, map[string]int{"bus": 1, "person": 6, "tie": 2}, summary.ClassesDetected)
}

func TestBuildSummaryCountsPerClass(t *testing.T) {
	t.Parallel()

	results := []inference.ImageResult{
		successResult("crowd.jpg", "person", "person", "person", "person", "bus"),
	}

	summary := BuildSummary(results, "yolov8n")
	assert.Equal(t, 4, summary.ClassesDetected["person"])
	assert.Equal(t, 1, summary.ClassesDetected["bus"])
}

func TestBuildSummaryCountsFailures(t *testing.T) {
	t.Parallel()

	results := []inference.ImageResult{
		successResult("a.jpg", "car"),
		{ImagePath: "b.jpg", Error: "cannot decode image"},
	}

	summary := BuildSummary(results, "yolov8s")
	assert.Equal(t, 2, summary.TotalImagesProcessed)
	assert.Equal(t, 1, summary.SuccessfulInferences)
	assert.Equal(t, 1, summary.FailedInferences)
	assert.Equal(t, 1, summary.TotalDetections)
	assert.InDelta(t, 0.5, summary.AverageDetectionsPerImage, 1e-9)
}

func TestBuildPerformanceZeroGuards(t *testing.T) {
	t.Parallel()

	performance := BuildPerformance(Summary{}, 0)
	assert.Zero(t, performance.ImagesPerSecond)
	assert.Zero(t, performance.DetectionsPerSecond)
	assert.Zero(t, performance.AverageTimePerImage)
}

func TestBuildPerformanceThroughput(t *testing.T) {
	t.Parallel()

	summary := Summary{TotalImagesProcessed: 4, TotalDetections: 8}
	performance := BuildPerformance(summary, 2*time.Second)
	assert.InDelta(t, 2.0, performance.ImagesPerSecond, 1e-9)
	assert.InDelta(t, 4.0, performance.DetectionsPerSecond, 1e-9)
	assert.InDelta(t, 0.5, performance.AverageTimePerImage, 1e-9)
}

func TestBuildInferenceReport(t *testing.T) {
	t.Parallel()

	results := []inference.ImageResult{successResult("a.jpg", "dog")}
	report := BuildInferenceReport(results, "yolov8n", time.Second)

	assert.NotEmpty(t, report.RunID)
	assert.NotEmpty(t, report.Timestamp)
	assert.Equal(t, "yolov8n", report.Summary.ModelUsed)
	assert.Len(t, report.DetailedResults, 1)

	other := BuildInferenceReport(results, "yolov8n", time.Second)
	assert.NotEqual(t, report.RunID, other.RunID, "run IDs must be unique")
}

func TestWriterRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writer := NewWriter(filepath.Join(dir, "output"))

	report := BuildInferenceReport([]inference.ImageResult{successResult("a.jpg", "cat")}, "yolov8n", time.Second)
	path, err := writer.WriteInference(report)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "output", InferenceReportFile), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"run_id", "timestamp", "summary", "performance", "detailed_results"} {
		assert.Contains(t, decoded, key)
	}
}
