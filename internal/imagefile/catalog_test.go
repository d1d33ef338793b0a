package imagefile

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/yolovision/yolovision/internal/errors"
)

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestListImagesFiltersAndOrders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "zidane.jpg", 10)
	writeFile(t, dir, "bus.jpg", 10)
	writeFile(t, dir, "scene.PNG", 10)
	writeFile(t, dir, "notes.txt", 10)
	writeFile(t, dir, "model.onnx", 10)

	refs, err := ListImages(dir)
	if err != nil {
		t.Fatalf("ListImages() error = %v", err)
	}

	if len(refs) != 3 {
		t.Fatalf("expected 3 images, got %d", len(refs))
	}

	names := make([]string, len(refs))
	for i, ref := range refs {
		names[i] = ref.Name()
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("expected lexicographic order, got %v", names)
	}
	if names[0] != "bus.jpg" {
		t.Errorf("expected bus.jpg first, got %s", names[0])
	}
}

func TestListImagesDeduplicatesSymlinkVariants(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := writeFile(t, dir, "bus.jpg", 10)
	if err := os.Symlink(target, filepath.Join(dir, "alias.jpeg")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	refs, err := ListImages(dir)
	if err != nil {
		t.Fatalf("ListImages() error = %v", err)
	}
	if len(refs) != 1 {
		t.Errorf("expected one entry per physical file, got %d: %v", len(refs), refs)
	}
}

func TestListImagesStableAcrossCalls(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"c.jpg", "a.jpg", "b.png"} {
		writeFile(t, dir, name, 4)
	}

	first, err := ListImages(dir)
	if err != nil {
		t.Fatalf("first ListImages() error = %v", err)
	}
	second, err := ListImages(dir)
	if err != nil {
		t.Fatalf("second ListImages() error = %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("call results differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("entry %d differs between calls: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestListImagesMissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := ListImages(filepath.Join(t.TempDir(), "does-not-exist"))
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListImagesEmptyDirectory(t *testing.T) {
	t.Parallel()

	refs, err := ListImages(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error for empty directory, got %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("expected empty slice, got %v", refs)
	}
}

func TestListModelFilesSizes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "yolov8n.onnx", 128)
	writeFile(t, dir, "custom.ONNX", 64)
	writeFile(t, dir, "readme.md", 10)

	entries, err := ListModelFiles(dir)
	if err != nil {
		t.Fatalf("ListModelFiles() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 model files, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.SizeBytes == 0 {
			t.Errorf("expected non-zero size for %s", entry.Path)
		}
	}
}
