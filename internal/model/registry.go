package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yolovision/yolovision/internal/conf"
	"github.com/yolovision/yolovision/internal/errors"
	"github.com/yolovision/yolovision/internal/imagefile"
)

// Registry resolves model identifiers against the remote catalog and the
// managed local directories.
type Registry struct {
	pretrainedDir string
	trainedDir    string
}

// NewRegistry creates a registry over the configured model directories.
func NewRegistry(settings *conf.Settings) *Registry {
	return &Registry{
		pretrainedDir: settings.Model.PretrainedDir,
		trainedDir:    settings.Model.TrainedDir,
	}
}

// ScanLocal discovers model files in the pretrained and trained directories,
// tagging each with its category. Missing directories yield no entries rather
// than an error, matching first-run behavior before anything was downloaded.
func (r *Registry) ScanLocal() ([]Descriptor, error) {
	var descriptors []Descriptor

	pretrained, err := r.scanDir(r.pretrainedDir, CategoryPretrained)
	if err != nil {
		return nil, err
	}
	descriptors = append(descriptors, pretrained...)

	trained, err := r.scanDir(r.trainedDir, CategoryCustom)
	if err != nil {
		return nil, err
	}
	descriptors = append(descriptors, trained...)

	return descriptors, nil
}

func (r *Registry) scanDir(dir string, category Category) ([]Descriptor, error) {
	if dir == "" {
		return nil, nil
	}

	entries, err := imagefile.ListModelFiles(dir)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	descriptors := make([]Descriptor, 0, len(entries))
	for _, entry := range entries {
		desc := Descriptor{
			Identifier: identifierFromPath(entry.Path),
			Category:   category,
			LocalPath:  entry.Path,
			SizeBytes:  entry.SizeBytes,
		}
		// Pretrained files keep their catalog source and tier so a re-download
		// stays possible if the file is later removed.
		if catalog, ok := catalogEntry(desc.Identifier); ok && category == CategoryPretrained {
			desc.SourceURL = catalog.SourceURL
			desc.Tier = catalog.Tier
		}
		descriptors = append(descriptors, desc)
	}
	return descriptors, nil
}

// Resolve maps an identifier, bare filename, or explicit path to a
// descriptor. Resolution order follows the managed layout: explicit paths
// win, then custom models, then local pretrained files, then the remote
// catalog. Unresolvable input fails with ErrModelNotFound.
func (r *Registry) Resolve(identifierOrPath string) (Descriptor, error) {
	if identifierOrPath == "" {
		return Descriptor{}, errors.New(fmt.Errorf("%w: empty model identifier", errors.ErrModelNotFound)).
			Component("registry").
			Category(errors.CategoryDiscovery).
			Build()
	}

	// Explicit filesystem path.
	if looksLikePath(identifierOrPath) {
		if desc, ok := r.descriptorForFile(identifierOrPath); ok {
			return desc, nil
		}
		return Descriptor{}, errors.New(fmt.Errorf("%w: no model file at %s", errors.ErrModelNotFound, identifierOrPath)).
			Component("registry").
			Category(errors.CategoryDiscovery).
			Context("path", identifierOrPath).
			Build()
	}

	// Bare filename or identifier in the managed directories, custom first.
	filename := identifierFromPath(identifierOrPath) + modelFileExt
	if desc, ok := r.descriptorForFile(filepath.Join(r.trainedDir, filename)); ok {
		return desc, nil
	}
	if desc, ok := r.descriptorForFile(filepath.Join(r.pretrainedDir, filename)); ok {
		return desc, nil
	}

	// Remote catalog identifier, not yet downloaded.
	if catalog, ok := catalogEntry(identifierOrPath); ok {
		return catalog, nil
	}

	return Descriptor{}, errors.New(fmt.Errorf("%w: %q is not a catalog identifier, managed file or path",
		errors.ErrModelNotFound, identifierOrPath)).
		Component("registry").
		Category(errors.CategoryDiscovery).
		Context("identifier", identifierOrPath).
		Build()
}

// descriptorForFile builds a descriptor for an existing, non-empty model file.
func (r *Registry) descriptorForFile(path string) (Descriptor, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return Descriptor{}, false
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	category := CategoryCustom
	if r.isUnder(r.pretrainedDir, path) {
		category = CategoryPretrained
	}

	desc := Descriptor{
		Identifier: identifierFromPath(path),
		Category:   category,
		LocalPath:  abs,
		SizeBytes:  info.Size(),
	}
	if catalog, ok := catalogEntry(desc.Identifier); ok && category == CategoryPretrained {
		desc.SourceURL = catalog.SourceURL
		desc.Tier = catalog.Tier
	}
	return desc, true
}

func (r *Registry) isUnder(dir, path string) bool {
	if dir == "" {
		return false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel == filepath.Base(absPath)
}

func looksLikePath(s string) bool {
	return filepath.IsAbs(s) || filepath.Dir(s) != "."
}
