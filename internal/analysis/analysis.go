// Package analysis wires discovery, model selection, inference, benchmarking
// and reporting into the runs exposed by the command line.
package analysis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/yolovision/yolovision/internal/benchmark"
	"github.com/yolovision/yolovision/internal/conf"
	"github.com/yolovision/yolovision/internal/imagefile"
	"github.com/yolovision/yolovision/internal/inference"
	"github.com/yolovision/yolovision/internal/logging"
	"github.com/yolovision/yolovision/internal/model"
	"github.com/yolovision/yolovision/internal/report"
)

// Controller owns the long-lived collaborators for one invocation.
type Controller struct {
	Settings *conf.Settings

	registry    *model.Registry
	provisioner *model.Provisioner
	selector    *model.Selector
	engine      *inference.Engine
	runner      *benchmark.Runner
	writer      *report.Writer
	log         *slog.Logger

	// Interactive selection endpoints, overridable in tests.
	In  io.Reader
	Out io.Writer
}

// New builds a controller from settings with the default detection backend.
func New(settings *conf.Settings) *Controller {
	return NewWithEngine(settings, inference.NewEngine(settings))
}

// NewWithEngine builds a controller around a prepared inference engine.
func NewWithEngine(settings *conf.Settings, engine *inference.Engine) *Controller {
	registry := model.NewRegistry(settings)
	provisioner := model.NewProvisioner(settings)
	return &Controller{
		Settings:    settings,
		registry:    registry,
		provisioner: provisioner,
		selector:    model.NewSelector(registry, provisioner),
		engine:      engine,
		runner:      benchmark.NewRunner(engine, settings),
		writer:      report.NewWriter(settings.Output.Dir),
		log:         logging.ForService("analysis"),
		In:          os.Stdin,
		Out:         os.Stdout,
	}
}

// pickModel resolves the model for a run: an explicit identifier or path wins,
// otherwise the interactive menu (when requested) or the configured default.
// The returned descriptor is always provisioned locally.
func (c *Controller) pickModel(ctx context.Context, identifierOrPath string, interactive bool) (model.Descriptor, error) {
	if identifierOrPath != "" {
		return c.selector.SelectDefault(ctx, identifierOrPath)
	}
	if interactive {
		return c.selector.Select(ctx, c.In, c.Out)
	}
	return c.selector.SelectDefault(ctx, c.Settings.Model.Default)
}

// RunDirectory processes every image in the input directory with one model
// and writes the inference report. An empty directory still produces a
// report with zeroed counters.
func (c *Controller) RunDirectory(ctx context.Context, identifierOrPath string, interactive bool) error {
	if err := conf.EnsureDirectories(c.Settings); err != nil {
		return err
	}

	desc, err := c.pickModel(ctx, identifierOrPath, interactive)
	if err != nil {
		return err
	}

	images, err := imagefile.ListImages(c.Settings.Input.Dir)
	if err != nil {
		return err
	}
	c.log.Info("starting batch inference", "model", desc.Identifier, "images", len(images))

	handle, err := c.engine.LoadModel(desc.LocalPath)
	if err != nil {
		return err
	}
	defer handle.Close()

	start := time.Now()
	results := c.engine.DetectBatch(handle, images, c.Settings.Model.Confidence, c.Settings.Model.IoU)
	doc := report.BuildInferenceReport(results, desc.Identifier, time.Since(start))

	path, err := c.writer.WriteInference(doc)
	if err != nil {
		return err
	}

	c.log.Info("batch inference complete",
		"images", doc.Summary.TotalImagesProcessed,
		"detections", doc.Summary.TotalDetections,
		"failed", doc.Summary.FailedInferences,
		"report", path)
	fmt.Fprintf(c.Out, "Processed %d images, %d detections. Report: %s\n",
		doc.Summary.TotalImagesProcessed, doc.Summary.TotalDetections, path)
	return nil
}

// RunBenchmark times the given models over the input images and writes the
// comparison report. With no identifiers it benchmarks every local model,
// falling back to the configured default when none are present.
func (c *Controller) RunBenchmark(ctx context.Context, identifiers []string) error {
	if err := conf.EnsureDirectories(c.Settings); err != nil {
		return err
	}

	descriptors, err := c.benchmarkCandidates(ctx, identifiers)
	if err != nil {
		return err
	}

	images, err := imagefile.ListImages(c.Settings.Input.Dir)
	if err != nil {
		return err
	}

	runs := c.Settings.Benchmark.Runs
	records, err := c.runner.BenchmarkModels(descriptors, images, runs)
	if err != nil {
		return err
	}

	doc := report.BenchmarkReport{
		RunID:      newRunID(),
		Timestamp:  time.Now().Format(time.RFC3339),
		System:     benchmark.CollectSystemInfo(),
		Runs:       runs,
		Images:     len(images),
		Records:    records,
		Comparison: benchmark.Compare(records),
	}

	path, err := c.writer.WriteBenchmark(doc)
	if err != nil {
		return err
	}

	c.log.Info("benchmark complete", "models", len(records), "fastest", doc.Comparison.Fastest, "report", path)
	fmt.Fprintf(c.Out, "Benchmarked %d models over %d images. Report: %s\n", len(records), len(images), path)
	return nil
}

// benchmarkCandidates provisions the models to compare.
func (c *Controller) benchmarkCandidates(ctx context.Context, identifiers []string) ([]model.Descriptor, error) {
	if len(identifiers) == 0 {
		local, err := c.registry.ScanLocal()
		if err != nil {
			return nil, err
		}
		if len(local) > 0 {
			return local, nil
		}
		identifiers = []string{c.Settings.Model.Default}
	}

	descriptors := make([]model.Descriptor, 0, len(identifiers))
	for _, identifier := range identifiers {
		desc, err := c.selector.SelectDefault(ctx, identifier)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, desc)
	}
	return descriptors, nil
}

// RunThresholdSweep processes the input images once per configured confidence
// level with one model and writes the threshold report.
func (c *Controller) RunThresholdSweep(ctx context.Context, identifierOrPath string, interactive bool) error {
	if err := conf.EnsureDirectories(c.Settings); err != nil {
		return err
	}

	desc, err := c.pickModel(ctx, identifierOrPath, interactive)
	if err != nil {
		return err
	}

	images, err := imagefile.ListImages(c.Settings.Input.Dir)
	if err != nil {
		return err
	}

	handle, err := c.engine.LoadModel(desc.LocalPath)
	if err != nil {
		return err
	}
	defer handle.Close()

	levels := c.Settings.Benchmark.Thresholds
	records, err := c.runner.SweepThresholds(handle, images, levels)
	if err != nil {
		return err
	}

	doc := report.ThresholdReport{
		RunID:     newRunID(),
		Timestamp: time.Now().Format(time.RFC3339),
		ModelUsed: desc.Identifier,
		Levels:    levels,
		Records:   records,
	}

	path, err := c.writer.WriteThreshold(doc)
	if err != nil {
		return err
	}

	c.log.Info("threshold sweep complete", "model", desc.Identifier, "levels", len(levels), "report", path)
	fmt.Fprintf(c.Out, "Swept %d thresholds over %d images. Report: %s\n", len(levels), len(images), path)
	return nil
}

// RunAdvanced combines a batch inference pass with a threshold sweep over the
// same model and writes the combined report.
func (c *Controller) RunAdvanced(ctx context.Context, identifierOrPath string, interactive bool) error {
	if err := conf.EnsureDirectories(c.Settings); err != nil {
		return err
	}

	desc, err := c.pickModel(ctx, identifierOrPath, interactive)
	if err != nil {
		return err
	}

	images, err := imagefile.ListImages(c.Settings.Input.Dir)
	if err != nil {
		return err
	}

	handle, err := c.engine.LoadModel(desc.LocalPath)
	if err != nil {
		return err
	}
	defer handle.Close()

	start := time.Now()
	results := c.engine.DetectBatch(handle, images, c.Settings.Model.Confidence, c.Settings.Model.IoU)
	inferenceDoc := report.BuildInferenceReport(results, desc.Identifier, time.Since(start))

	sweep, err := c.runner.SweepThresholds(handle, images, c.Settings.Benchmark.Thresholds)
	if err != nil {
		return err
	}

	doc := report.AdvancedReport{
		RunID:     newRunID(),
		Timestamp: time.Now().Format(time.RFC3339),
		Inference: inferenceDoc,
		Sweep:     sweep,
	}

	path, err := c.writer.WriteAdvanced(doc)
	if err != nil {
		return err
	}

	c.log.Info("advanced analysis complete", "model", desc.Identifier, "report", path)
	fmt.Fprintf(c.Out, "Advanced analysis of %d images complete. Report: %s\n", len(images), path)
	return nil
}

func newRunID() string {
	return uuid.New().String()
}

// ListModels prints every known model, local models first, without running
// any inference.
func (c *Controller) ListModels() error {
	choices, err := c.selector.PresentChoices()
	if err != nil {
		return err
	}

	fmt.Fprintln(c.Out, "Models:")
	for _, desc := range choices {
		location := "remote catalog"
		if desc.LocalPath != "" {
			location = desc.LocalPath
		}
		fmt.Fprintf(c.Out, "  %-12s %8.1f MB  %s\n", desc.Identifier, float64(desc.SizeBytes)/(1024*1024), location)
	}
	return nil
}
