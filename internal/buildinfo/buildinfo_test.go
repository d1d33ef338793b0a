package buildinfo

import (
	"strings"
	"testing"
)

func TestVersionDefaults(t *testing.T) {
	if Version() != "dev" {
		t.Errorf("Version() = %q, want dev for unset ldflags", Version())
	}
	if BuildDate() != "unknown" {
		t.Errorf("BuildDate() = %q, want unknown for unset ldflags", BuildDate())
	}
}

func TestVersionInjected(t *testing.T) {
	version = "v1.2.3"
	buildDate = "2026-08-26"
	t.Cleanup(func() {
		version = ""
		buildDate = ""
	})

	if Version() != "v1.2.3" {
		t.Errorf("Version() = %q", Version())
	}
	if !strings.Contains(String(), "v1.2.3") || !strings.Contains(String(), "2026-08-26") {
		t.Errorf("String() = %q", String())
	}
}
