// Package detector wraps the object-detection capability behind a small
// interface. The real implementation binds an ONNX model through OpenCV's
// DNN module and is only compiled with the gocv build tag; everything above
// this package treats detection as opaque.
package detector

// RawDetection is one detected object as produced by the capability:
// class index, post-suppression confidence, and a pixel-space box.
type RawDetection struct {
	ClassID    int
	Confidence float64
	// Box holds absolute pixel coordinates [x1, y1, x2, y2] with x1<x2, y1<y2.
	Box [4]float64
}

// ImageSize is the pixel dimensions of the decoded input image.
type ImageSize struct {
	Width  int
	Height int
}

// Capability is the opaque detection collaborator. Detect applies the
// confidence threshold at detection time, before IoU suppression, so sweeping
// thresholds requires an independent pass per level. Implementations are
// assumed deterministic for fixed inputs and weights.
type Capability interface {
	// Detect runs the model over the image at imagePath and returns the raw
	// detections together with the decoded image size.
	Detect(imagePath string, confidence, iou float64) ([]RawDetection, ImageSize, error)

	// Annotate writes a copy of the image with detection boxes drawn on it.
	Annotate(imagePath, outputPath string, detections []RawDetection) error

	// Close releases the model resources.
	Close() error
}

// Loader binds a model file to a Capability. Tests and alternative backends
// substitute their own implementation.
type Loader func(modelPath string) (Capability, error)
