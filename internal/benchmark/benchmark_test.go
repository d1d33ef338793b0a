package benchmark

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yolovision/yolovision/internal/conf"
	"github.com/yolovision/yolovision/internal/detector"
	"github.com/yolovision/yolovision/internal/errors"
	"github.com/yolovision/yolovision/internal/imagefile"
	"github.com/yolovision/yolovision/internal/inference"
	"github.com/yolovision/yolovision/internal/model"
)

// thresholdCapability reports detections whose confidences are fixed per
// image, filtered by the requested threshold like a real backend would.
type thresholdCapability struct {
	confidences map[string][]float64
}

func (c *thresholdCapability) Detect(imagePath string, confidence, iou float64) ([]detector.RawDetection, detector.ImageSize, error) {
	var raw []detector.RawDetection
	for _, score := range c.confidences[filepath.Base(imagePath)] {
		if score >= confidence {
			raw = append(raw, detector.RawDetection{ClassID: 0, Confidence: score, Box: [4]float64{0, 0, 10, 10}})
		}
	}
	return raw, detector.ImageSize{Width: 640, Height: 480}, nil
}

func (c *thresholdCapability) Annotate(imagePath, outputPath string, detections []detector.RawDetection) error {
	return nil
}

func (c *thresholdCapability) Close() error { return nil }

func testRunner(t *testing.T, capability detector.Capability) *Runner {
	t.Helper()
	settings := &conf.Settings{}
	settings.Model.Confidence = 0.25
	settings.Model.IoU = 0.45
	settings.Output.Dir = t.TempDir()
	loader := func(modelPath string) (detector.Capability, error) {
		if capability == nil {
			return nil, fmt.Errorf("cannot read network model")
		}
		return capability, nil
	}
	engine := inference.NewEngineWithLoader(settings, loader)
	return NewRunner(engine, settings)
}

func TestBenchmarkModelRejectsZeroRuns(t *testing.T) {
	runner := testRunner(t, &thresholdCapability{})

	_, err := runner.BenchmarkModel(model.Descriptor{Identifier: "yolov8n"}, nil, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
}

func TestBenchmarkModelAverages(t *testing.T) {
	capability := &thresholdCapability{
		confidences: map[string][]float64{
			"a.jpg": {0.9, 0.8},
			"b.jpg": {0.7},
		},
	}
	runner := testRunner(t, capability)

	images := []imagefile.ImageRef{{Path: "a.jpg"}, {Path: "b.jpg"}}
	record, err := runner.BenchmarkModel(model.Descriptor{Identifier: "yolov8n", SizeBytes: 100}, images, 3)
	require.NoError(t, err)

	assert.Equal(t, "yolov8n", record.Identifier)
	assert.Equal(t, 3, record.Runs)
	assert.Equal(t, 2, record.Images)
	// 3 detections per run over 2 images.
	assert.InDelta(t, 1.5, record.AvgDetections, 1e-9)
	assert.GreaterOrEqual(t, record.AvgInferenceTime, 0.0)
}

func TestRankAscendingTimeThenSize(t *testing.T) {
	records := []Record{
		{Identifier: "yolov8m", AvgInferenceTime: 0.22, SizeBytes: 99},
		{Identifier: "yolov8n", AvgInferenceTime: 0.11, SizeBytes: 12},
		{Identifier: "yolov8l", AvgInferenceTime: 0.35, SizeBytes: 167},
	}

	Rank(records)

	want := []string{"yolov8n", "yolov8m", "yolov8l"}
	for i, id := range want {
		assert.Equal(t, id, records[i].Identifier, "rank %d", i)
	}
}

func TestRankTieBrokenBySize(t *testing.T) {
	records := []Record{
		{Identifier: "big", AvgInferenceTime: 0.2, SizeBytes: 200},
		{Identifier: "small", AvgInferenceTime: 0.2, SizeBytes: 50},
	}

	Rank(records)

	assert.Equal(t, "small", records[0].Identifier)
	assert.Equal(t, "big", records[1].Identifier)
}

func TestRankFailedRecordsLast(t *testing.T) {
	records := []Record{
		{Identifier: "broken", Error: "cannot read network model"},
		{Identifier: "ok", AvgInferenceTime: 0.5},
	}

	Rank(records)

	assert.Equal(t, "ok", records[0].Identifier)
	assert.Equal(t, "broken", records[1].Identifier)
}

func TestCompareSuperlatives(t *testing.T) {
	records := []Record{
		{Identifier: "yolov8n", AvgInferenceTime: 0.1, AvgDetections: 2.0, SizeBytes: 12},
		{Identifier: "yolov8x", AvgInferenceTime: 0.9, AvgDetections: 5.5, SizeBytes: 260},
		{Identifier: "broken", Error: "cannot read network model"},
	}
	Rank(records)

	comparison := Compare(records)
	assert.Equal(t, "yolov8n", comparison.Fastest)
	assert.Equal(t, "yolov8x", comparison.MostDetections)
	assert.Equal(t, "yolov8n", comparison.Smallest)
	assert.Equal(t, []string{"yolov8n", "yolov8x", "broken"}, comparison.Ranking)
}

func TestSweepThresholdsMonotonic(t *testing.T) {
	capability := &thresholdCapability{
		confidences: map[string][]float64{
			"a.jpg": {0.95, 0.6, 0.35, 0.15},
			"b.jpg": {0.8, 0.2},
		},
	}
	runner := testRunner(t, capability)

	handle, err := runner.engine.LoadModel("yolov8n.onnx")
	require.NoError(t, err)
	defer handle.Close()

	images := []imagefile.ImageRef{{Path: "a.jpg"}, {Path: "b.jpg"}}
	levels := []float64{0.1, 0.3, 0.5, 0.7, 0.9}
	records, err := runner.SweepThresholds(handle, images, levels)
	require.NoError(t, err)
	require.Len(t, records, len(levels))

	for i, record := range records {
		assert.Equal(t, levels[i], record.ConfidenceLevel, "levels keep their given order")
		assert.Len(t, record.Results, len(images))
	}
	// Raising the threshold can only reduce the detection count.
	for i := 1; i < len(records); i++ {
		assert.LessOrEqual(t, records[i].DetectionCount, records[i-1].DetectionCount)
	}
	assert.Equal(t, 6, records[0].DetectionCount)
	assert.Equal(t, 1, records[len(records)-1].DetectionCount)
}

func TestSweepThresholdsRejectsOutOfRangeLevel(t *testing.T) {
	runner := testRunner(t, &thresholdCapability{})

	handle, err := runner.engine.LoadModel("yolov8n.onnx")
	require.NoError(t, err)
	defer handle.Close()

	_, err = runner.SweepThresholds(handle, nil, []float64{0.5, 1.0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
}

func TestBenchmarkModelsKeepsFailures(t *testing.T) {
	capability := &thresholdCapability{
		confidences: map[string][]float64{"a.jpg": {0.9}},
	}
	settings := &conf.Settings{}
	settings.Model.Confidence = 0.25
	settings.Model.IoU = 0.45
	settings.Output.Dir = t.TempDir()
	loader := func(modelPath string) (detector.Capability, error) {
		if filepath.Base(modelPath) == "broken.onnx" {
			return nil, fmt.Errorf("cannot read network model")
		}
		return capability, nil
	}
	runner := NewRunner(inference.NewEngineWithLoader(settings, loader), settings)

	descriptors := []model.Descriptor{
		{Identifier: "broken", LocalPath: "broken.onnx", SizeBytes: 1},
		{Identifier: "yolov8n", LocalPath: "yolov8n.onnx", SizeBytes: 12},
	}
	images := []imagefile.ImageRef{{Path: "a.jpg"}}
	records, err := runner.BenchmarkModels(descriptors, images, 1)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "yolov8n", records[0].Identifier)
	assert.Empty(t, records[0].Error)
	assert.Equal(t, "broken", records[1].Identifier)
	assert.NotEmpty(t, records[1].Error)
}

func TestCollectSystemInfo(t *testing.T) {
	info := CollectSystemInfo()
	assert.NotEmpty(t, info.OS)
	assert.Positive(t, info.CPUCores)
	assert.NotEmpty(t, info.GoVersion)
}
