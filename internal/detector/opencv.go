//go:build gocv
// +build gocv

package detector

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"gocv.io/x/gocv"
)

// YOLOv8 ONNX models take a square 640x640 input blob.
const inputSize = 640

type opencvCapability struct {
	net gocv.Net
}

// Load binds an ONNX model file through OpenCV's DNN module.
func Load(modelPath string) (Capability, error) {
	info, err := os.Stat(modelPath)
	if err != nil {
		return nil, fmt.Errorf("model file not accessible: %w", err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("model file %s is empty", modelPath)
	}

	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load ONNX network from %s", modelPath)
	}

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, fmt.Errorf("failed to set DNN backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, fmt.Errorf("failed to set DNN target: %w", err)
	}

	return &opencvCapability{net: net}, nil
}

func (c *opencvCapability) Detect(imagePath string, confidence, iou float64) ([]RawDetection, ImageSize, error) {
	img := gocv.IMRead(imagePath, gocv.IMReadColor)
	if img.Empty() {
		return nil, ImageSize{}, fmt.Errorf("failed to decode image %s", imagePath)
	}
	defer img.Close()

	size := ImageSize{Width: img.Cols(), Height: img.Rows()}

	blob := gocv.BlobFromImage(img, 1.0/255.0, image.Pt(inputSize, inputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	c.net.SetInput(blob, "")
	output := c.net.Forward("")
	defer output.Close()

	detections, err := decodeOutput(&output, size, confidence, iou)
	if err != nil {
		return nil, ImageSize{}, err
	}
	return detections, size, nil
}

// decodeOutput converts the raw [1, 4+classes, anchors] tensor into pixel
// space detections and applies class-wise confidence filtering followed by
// IoU-based non-maximum suppression.
func decodeOutput(output *gocv.Mat, size ImageSize, confidence, iou float64) ([]RawDetection, error) {
	dims := output.Size()
	if len(dims) != 3 || dims[1] < 5 {
		return nil, fmt.Errorf("unexpected model output shape %v", dims)
	}
	rows := dims[1]
	anchors := dims[2]

	flat := output.Reshape(1, rows)
	defer flat.Close()

	xFactor := float64(size.Width) / float64(inputSize)
	yFactor := float64(size.Height) / float64(inputSize)

	var boxes []image.Rectangle
	var scores []float32
	var classIDs []int

	for j := 0; j < anchors; j++ {
		bestClass := -1
		bestScore := float32(0)
		for r := 4; r < rows; r++ {
			if s := flat.GetFloatAt(r, j); s > bestScore {
				bestScore = s
				bestClass = r - 4
			}
		}
		if float64(bestScore) < confidence {
			continue
		}

		cx := float64(flat.GetFloatAt(0, j)) * xFactor
		cy := float64(flat.GetFloatAt(1, j)) * yFactor
		w := float64(flat.GetFloatAt(2, j)) * xFactor
		h := float64(flat.GetFloatAt(3, j)) * yFactor

		rect := image.Rect(
			int(cx-w/2), int(cy-h/2),
			int(cx+w/2), int(cy+h/2),
		)
		boxes = append(boxes, rect.Intersect(image.Rect(0, 0, size.Width, size.Height)))
		scores = append(scores, bestScore)
		classIDs = append(classIDs, bestClass)
	}

	if len(boxes) == 0 {
		return nil, nil
	}

	indices := gocv.NMSBoxes(boxes, scores, float32(confidence), float32(iou))

	detections := make([]RawDetection, 0, len(indices))
	for _, idx := range indices {
		box := boxes[idx]
		detections = append(detections, RawDetection{
			ClassID:    classIDs[idx],
			Confidence: float64(scores[idx]),
			Box: [4]float64{
				float64(box.Min.X), float64(box.Min.Y),
				float64(box.Max.X), float64(box.Max.Y),
			},
		})
	}
	return detections, nil
}

func (c *opencvCapability) Annotate(imagePath, outputPath string, detections []RawDetection) error {
	img := gocv.IMRead(imagePath, gocv.IMReadColor)
	if img.Empty() {
		return fmt.Errorf("failed to decode image %s", imagePath)
	}
	defer img.Close()

	green := color.RGBA{G: 255, A: 255}
	for _, det := range detections {
		rect := image.Rect(int(det.Box[0]), int(det.Box[1]), int(det.Box[2]), int(det.Box[3]))
		gocv.Rectangle(&img, rect, green, 2)

		label := fmt.Sprintf("%s %.2f", ClassName(det.ClassID), det.Confidence)
		origin := image.Pt(rect.Min.X, rect.Min.Y-6)
		gocv.PutText(&img, label, origin, gocv.FontHersheySimplex, 0.5, green, 1)
	}

	if ok := gocv.IMWrite(outputPath, img); !ok {
		return fmt.Errorf("failed to write annotated image %s", outputPath)
	}
	return nil
}

func (c *opencvCapability) Close() error {
	return c.net.Close()
}
