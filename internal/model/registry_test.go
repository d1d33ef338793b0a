package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yolovision/yolovision/internal/conf"
	"github.com/yolovision/yolovision/internal/errors"
)

func testSettings(t *testing.T) *conf.Settings {
	t.Helper()
	root := t.TempDir()
	s := &conf.Settings{}
	s.Model.PretrainedDir = filepath.Join(root, "models", "pretrained")
	s.Model.TrainedDir = filepath.Join(root, "models", "trained")
	s.Model.DownloadTimeout = 5
	return s
}

func writeModelFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestKnownCatalogOrderAndSources(t *testing.T) {
	t.Parallel()

	catalog := KnownCatalog()
	if len(catalog) != 5 {
		t.Fatalf("expected 5 catalog entries, got %d", len(catalog))
	}
	if catalog[0].Identifier != "yolov8n" || catalog[4].Identifier != "yolov8x" {
		t.Errorf("unexpected catalog order: %s..%s", catalog[0].Identifier, catalog[4].Identifier)
	}
	for _, entry := range catalog {
		if entry.SourceURL == "" {
			t.Errorf("pretrained entry %s has no source URL", entry.Identifier)
		}
		if entry.Category != CategoryPretrained {
			t.Errorf("catalog entry %s has category %s", entry.Identifier, entry.Category)
		}
	}
}

func TestScanLocalTagsCategories(t *testing.T) {
	t.Parallel()

	settings := testSettings(t)
	writeModelFile(t, settings.Model.PretrainedDir, "yolov8n.onnx", 32)
	writeModelFile(t, settings.Model.TrainedDir, "plates.onnx", 16)

	registry := NewRegistry(settings)
	descriptors, err := registry.ScanLocal()
	if err != nil {
		t.Fatalf("ScanLocal() error = %v", err)
	}
	if len(descriptors) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(descriptors))
	}

	if descriptors[0].Identifier != "yolov8n" || descriptors[0].Category != CategoryPretrained {
		t.Errorf("unexpected first descriptor: %+v", descriptors[0])
	}
	if descriptors[0].SourceURL == "" {
		t.Errorf("local pretrained model should keep its catalog source URL")
	}
	if descriptors[1].Identifier != "plates" || descriptors[1].Category != CategoryCustom {
		t.Errorf("unexpected second descriptor: %+v", descriptors[1])
	}
}

func TestScanLocalMissingDirectories(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(testSettings(t))
	descriptors, err := registry.ScanLocal()
	if err != nil {
		t.Fatalf("expected no error for missing directories, got %v", err)
	}
	if len(descriptors) != 0 {
		t.Errorf("expected no descriptors, got %v", descriptors)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	settings := testSettings(t)
	localPretrained := writeModelFile(t, settings.Model.PretrainedDir, "yolov8s.onnx", 64)
	custom := writeModelFile(t, settings.Model.TrainedDir, "plates.onnx", 64)
	registry := NewRegistry(settings)

	tests := []struct {
		name         string
		input        string
		wantCategory Category
		wantLocal    bool
		wantErr      bool
	}{
		{name: "catalog identifier not downloaded", input: "yolov8m", wantCategory: CategoryPretrained, wantLocal: false},
		{name: "catalog identifier downloaded", input: "yolov8s", wantCategory: CategoryPretrained, wantLocal: true},
		{name: "bare custom filename", input: "plates.onnx", wantCategory: CategoryCustom, wantLocal: true},
		{name: "explicit path", input: custom, wantCategory: CategoryCustom, wantLocal: true},
		{name: "explicit pretrained path", input: localPretrained, wantCategory: CategoryPretrained, wantLocal: true},
		{name: "unknown identifier", input: "resnet50", wantErr: true},
		{name: "missing explicit path", input: filepath.Join(settings.Model.TrainedDir, "nope.onnx"), wantErr: true},
		{name: "empty input", input: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			desc, err := registry.Resolve(tt.input)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrModelNotFound) {
					t.Fatalf("expected ErrModelNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.input, err)
			}
			if desc.Category != tt.wantCategory {
				t.Errorf("category = %s, want %s", desc.Category, tt.wantCategory)
			}
			if tt.wantLocal && desc.LocalPath == "" {
				t.Errorf("expected local path to be set")
			}
			if !tt.wantLocal && desc.LocalPath != "" {
				t.Errorf("expected no local path, got %s", desc.LocalPath)
			}
		})
	}
}
