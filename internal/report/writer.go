package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yolovision/yolovision/internal/errors"
)

// Document filenames inside the output directory.
const (
	InferenceReportFile   = "inference_report.json"
	BenchmarkResultsFile  = "benchmark_results.json"
	ThresholdAnalysisFile = "threshold_analysis.json"
	AdvancedAnalysisFile  = "advanced_analysis.json"
)

// Writer persists report documents into the output directory.
type Writer struct {
	outputDir string
}

// NewWriter creates a writer rooted at outputDir.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// WriteInference writes the batch inference report.
func (w *Writer) WriteInference(report InferenceReport) (string, error) {
	return w.write(InferenceReportFile, report)
}

// WriteBenchmark writes the model comparison report.
func (w *Writer) WriteBenchmark(report BenchmarkReport) (string, error) {
	return w.write(BenchmarkResultsFile, report)
}

// WriteThreshold writes the threshold sweep report.
func (w *Writer) WriteThreshold(report ThresholdReport) (string, error) {
	return w.write(ThresholdAnalysisFile, report)
}

// WriteAdvanced writes the combined analysis report.
func (w *Writer) WriteAdvanced(report AdvancedReport) (string, error) {
	return w.write(AdvancedAnalysisFile, report)
}

func (w *Writer) write(name string, document any) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", errors.New(fmt.Errorf("failed to create output directory: %w", err)).
			Component("report").
			Category(errors.CategoryReport).
			Context("path", w.outputDir).
			Build()
	}

	data, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return "", errors.New(fmt.Errorf("failed to encode report: %w", err)).
			Component("report").
			Category(errors.CategoryReport).
			Context("document", name).
			Build()
	}

	path := filepath.Join(w.outputDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.New(fmt.Errorf("failed to write report: %w", err)).
			Component("report").
			Category(errors.CategoryReport).
			Context("path", path).
			Build()
	}
	return path, nil
}
