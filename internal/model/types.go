// Package model tracks known detection models, resolves identifiers to
// descriptors, and provisions model files on disk.
package model

import (
	"path/filepath"
	"strings"
)

// Category tells where a model comes from.
type Category string

const (
	// CategoryPretrained marks officially distributed models from the
	// remote catalog, downloaded into the managed pretrained directory.
	CategoryPretrained Category = "pretrained"
	// CategoryCustom marks user-supplied model files.
	CategoryCustom Category = "custom"
)

// Descriptor describes one model. LocalPath is only set when the file exists
// on disk and is non-empty; the provisioner is the only component that sets
// it after construction.
type Descriptor struct {
	Identifier string   // e.g. "yolov8s" or a custom file stem
	Category   Category
	SourceURL  string // remote location for pretrained models, may be empty
	LocalPath  string // canonical path of the on-disk file, empty until provisioned
	SizeBytes  int64  // file size when local, approximate catalog size otherwise
	Tier       string // relative speed/accuracy tier, display only
}

// Name returns the model filename, derived from the identifier when the
// descriptor has no local file yet.
func (d Descriptor) Name() string {
	if d.LocalPath != "" {
		return filepath.Base(d.LocalPath)
	}
	return d.Identifier + modelFileExt
}

// identifierFromPath derives the catalog-style identifier from a model file
// path: the base name without its extension.
func identifierFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

const modelFileExt = ".onnx"
