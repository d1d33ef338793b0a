// Package imagefile discovers input images and model files on disk with
// deterministic ordering and canonical-path deduplication.
package imagefile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yolovision/yolovision/internal/errors"
)

// ImageRef identifies one physical input image by its canonical absolute path.
type ImageRef struct {
	Path string
}

// Name returns the base filename of the image.
func (r ImageRef) Name() string {
	return filepath.Base(r.Path)
}

// FileEntry is a discovered file with its size, used for model discovery.
type FileEntry struct {
	Path      string
	SizeBytes int64
}

// imageExtensions is the case-insensitive whitelist of supported image types.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tiff": true,
	".webp": true,
}

// modelExtensions is the whitelist of model file types.
var modelExtensions = map[string]bool{
	".onnx": true,
}

// ListImages scans directory non-recursively for supported image files.
// The same physical file reachable via multiple path spellings collapses to
// one entry, and results are ordered lexicographically by canonical path so
// repeated runs over an unchanged directory produce identical sequences.
// A missing directory is an error; an empty one returns an empty slice.
func ListImages(directory string) ([]ImageRef, error) {
	entries, err := listFiles(directory, imageExtensions)
	if err != nil {
		return nil, err
	}

	refs := make([]ImageRef, 0, len(entries))
	for _, entry := range entries {
		refs = append(refs, ImageRef{Path: entry.Path})
	}
	return refs, nil
}

// ListModelFiles scans directory non-recursively for model files, with the
// same deduplication and ordering rules as ListImages.
func ListModelFiles(directory string) ([]FileEntry, error) {
	return listFiles(directory, modelExtensions)
}

func listFiles(directory string, whitelist map[string]bool) ([]FileEntry, error) {
	info, err := os.Stat(directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(fmt.Errorf("%w: directory %s", errors.ErrNotFound, directory)).
				Component("imagefile").
				Category(errors.CategoryNotFound).
				Context("directory", directory).
				Build()
		}
		return nil, errors.New(fmt.Errorf("error accessing directory %s: %w", directory, err)).
			Component("imagefile").
			Category(errors.CategoryFileIO).
			Build()
	}
	if !info.IsDir() {
		return nil, errors.New(fmt.Errorf("%w: %s is not a directory", errors.ErrNotFound, directory)).
			Component("imagefile").
			Category(errors.CategoryNotFound).
			Build()
	}

	dirEntries, err := os.ReadDir(directory)
	if err != nil {
		return nil, errors.New(fmt.Errorf("error reading directory %s: %w", directory, err)).
			Component("imagefile").
			Category(errors.CategoryFileIO).
			Build()
	}

	seen := make(map[string]bool, len(dirEntries))
	files := make([]FileEntry, 0, len(dirEntries))

	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !whitelist[ext] {
			continue
		}

		path := filepath.Join(directory, entry.Name())
		canonical, err := canonicalPath(path)
		if err != nil {
			// Entry vanished between ReadDir and resolution, skip it.
			continue
		}
		if seen[canonical] {
			continue
		}
		seen[canonical] = true

		fi, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileEntry{Path: canonical, SizeBytes: fi.Size()})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

// canonicalPath resolves a path to its absolute, symlink-free form. A single
// canonical scan replaces per-case glob variants: each physical file has one
// directory entry, so dedup by resolved path is sufficient even on
// case-insensitive filesystems.
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}
