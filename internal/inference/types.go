// Package inference runs single-image and batch detection over a loaded
// model and normalizes raw capability output into detection records.
package inference

import (
	"time"

	"github.com/yolovision/yolovision/internal/detector"
)

// Detection is one normalized detected object. BBox holds absolute pixel
// coordinates [x1, y1, x2, y2] with x1<x2 and y1<y2; BBoxNormalized holds the
// same box scaled into [0,1] by the image dimensions.
type Detection struct {
	ClassID        int        `json:"class_id"`
	ClassName      string     `json:"class_name"`
	Confidence     float64    `json:"confidence"`
	BBox           [4]float64 `json:"bbox"`
	BBoxNormalized [4]float64 `json:"bbox_normalized"`
}

// ImageResult is the outcome of processing one image. A failed image keeps
// Success false and Error populated instead of aborting the batch, so every
// batch returns one result per input in input order.
type ImageResult struct {
	ImagePath      string      `json:"image_path"`
	OutputPath     string      `json:"output_path,omitempty"`
	Detections     []Detection `json:"detections"`
	DetectionCount int         `json:"detections_count"`
	Success        bool        `json:"success"`
	Error          string      `json:"error,omitempty"`
	ElapsedSeconds float64     `json:"elapsed_seconds"`
}

// ModelHandle is a loaded detection model. It is read-only after LoadModel
// and shared by every detection call in a run.
type ModelHandle struct {
	capability detector.Capability
	Path       string
	LoadTime   time.Duration
}

// Close releases the underlying model resources.
func (h *ModelHandle) Close() error {
	if h == nil || h.capability == nil {
		return nil
	}
	return h.capability.Close()
}
