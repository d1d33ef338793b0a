//go:build !gocv
// +build !gocv

package detector

import "errors"

// Load reports a build-time error when compiled without the gocv tag.
// The detection capability requires OpenCV; everything else in the module
// still builds and tests without it.
func Load(modelPath string) (Capability, error) {
	_ = modelPath
	return nil, errors.New("detection capability requires the gocv build tag")
}
