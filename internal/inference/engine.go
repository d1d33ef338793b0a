package inference

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/yolovision/yolovision/internal/conf"
	"github.com/yolovision/yolovision/internal/detector"
	"github.com/yolovision/yolovision/internal/errors"
	"github.com/yolovision/yolovision/internal/imagefile"
	"github.com/yolovision/yolovision/internal/logging"
)

// Engine executes detection over images with a loaded model. Images are
// processed one at a time, in input order.
type Engine struct {
	settings *conf.Settings
	loader   detector.Loader
	log      *slog.Logger
}

// NewEngine creates an engine using the default detection backend.
func NewEngine(settings *conf.Settings) *Engine {
	return NewEngineWithLoader(settings, detector.Load)
}

// NewEngineWithLoader creates an engine with an injectable model loader.
func NewEngineWithLoader(settings *conf.Settings, loader detector.Loader) *Engine {
	return &Engine{
		settings: settings,
		loader:   loader,
		log:      logging.ForService("inference"),
	}
}

// LoadModel binds the detection capability to the model file at path and
// measures how long the load took. The handle must be closed by the caller.
func (e *Engine) LoadModel(path string) (*ModelHandle, error) {
	start := time.Now()
	capability, err := e.loader(path)
	if err != nil {
		return nil, errors.New(fmt.Errorf("%w: %s: %w", errors.ErrModelLoad, path, err)).
			Component("inference").
			Category(errors.CategoryModelLoad).
			ModelContext(path, "").
			Build()
	}

	handle := &ModelHandle{
		capability: capability,
		Path:       path,
		LoadTime:   time.Since(start),
	}
	e.log.Info("model loaded", "path", path, "load_time_ms", handle.LoadTime.Milliseconds())
	return handle, nil
}

// DetectImage runs one image through the model and returns its result.
// Failures are captured in the result rather than returned, so a batch
// never aborts on a single bad image.
func (e *Engine) DetectImage(handle *ModelHandle, image imagefile.ImageRef, confidence, iou float64) ImageResult {
	result := ImageResult{
		ImagePath:  image.Path,
		Detections: []Detection{},
	}

	start := time.Now()
	raw, size, err := handle.capability.Detect(image.Path, confidence, iou)
	result.ElapsedSeconds = time.Since(start).Seconds()
	if err != nil {
		result.Error = err.Error()
		e.log.Warn("detection failed", "image", image.Name(), "error", err)
		return result
	}

	result.Detections = normalizeDetections(raw, size)
	result.DetectionCount = len(result.Detections)
	result.Success = true

	if e.settings.Output.SaveAnnotated {
		outputPath := annotatedPath(e.settings.Output.Dir, image)
		if err := handle.capability.Annotate(image.Path, outputPath, raw); err != nil {
			e.log.Warn("could not save annotated image", "image", image.Name(), "error", err)
		} else {
			result.OutputPath = outputPath
		}
	}

	return result
}

// DetectBatch runs every image through the model in input order and returns
// one result per input, in the same order.
func (e *Engine) DetectBatch(handle *ModelHandle, images []imagefile.ImageRef, confidence, iou float64) []ImageResult {
	results := make([]ImageResult, 0, len(images))
	for _, image := range images {
		results = append(results, e.DetectImage(handle, image, confidence, iou))
	}
	return results
}

// normalizeDetections turns raw capability output into detection records with
// ordered pixel corners and a [0,1] normalized copy of each box.
func normalizeDetections(raw []detector.RawDetection, size detector.ImageSize) []Detection {
	detections := make([]Detection, 0, len(raw))
	for _, r := range raw {
		box := orderedCorners(r.Box)
		d := Detection{
			ClassID:    r.ClassID,
			ClassName:  detector.ClassName(r.ClassID),
			Confidence: r.Confidence,
			BBox:       box,
		}
		if size.Width > 0 && size.Height > 0 {
			d.BBoxNormalized = [4]float64{
				clamp01(box[0] / float64(size.Width)),
				clamp01(box[1] / float64(size.Height)),
				clamp01(box[2] / float64(size.Width)),
				clamp01(box[3] / float64(size.Height)),
			}
		}
		detections = append(detections, d)
	}
	return detections
}

func orderedCorners(box [4]float64) [4]float64 {
	x1, y1, x2, y2 := box[0], box[1], box[2], box[3]
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return [4]float64{x1, y1, x2, y2}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// annotatedPath derives the output path for an annotated copy of image:
// <output dir>/<stem>_detected.jpg.
func annotatedPath(outputDir string, image imagefile.ImageRef) string {
	name := image.Name()
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return filepath.Join(outputDir, stem+"_detected.jpg")
}
