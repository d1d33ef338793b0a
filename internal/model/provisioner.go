package model

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/yolovision/yolovision/internal/conf"
	"github.com/yolovision/yolovision/internal/errors"
	"github.com/yolovision/yolovision/internal/logging"
)

// Provisioner guarantees a descriptor resolves to a valid local model file,
// downloading pretrained models into the managed directory when necessary.
type Provisioner struct {
	pretrainedDir string
	// Client is exported so tests can attach an httpmock transport.
	Client *http.Client
	log    *slog.Logger
}

// NewProvisioner creates a provisioner over the managed pretrained directory.
func NewProvisioner(settings *conf.Settings) *Provisioner {
	timeout := time.Duration(settings.Model.DownloadTimeout) * time.Second
	return &Provisioner{
		pretrainedDir: settings.Model.PretrainedDir,
		Client:        &http.Client{Timeout: timeout},
		log:           logging.ForService("provisioner"),
	}
}

// EnsureLocal returns a descriptor whose LocalPath points at an existing,
// non-empty model file. It is idempotent: the presence check runs immediately
// before any fetch, so at most one download happens per identifier per
// process even when called repeatedly.
func (p *Provisioner) EnsureLocal(ctx context.Context, desc Descriptor) (Descriptor, error) {
	if desc.LocalPath != "" && fileUsable(desc.LocalPath) {
		return desc, nil
	}

	// The descriptor may predate a download by an earlier call; re-check the
	// managed destination before reaching for the network.
	destination := filepath.Join(p.pretrainedDir, desc.Identifier+modelFileExt)
	if info, err := os.Stat(destination); err == nil && info.Size() > 0 {
		desc.LocalPath = destination
		desc.SizeBytes = info.Size()
		return desc, nil
	}

	if desc.SourceURL == "" {
		return Descriptor{}, errors.New(fmt.Errorf("%w: %s", errors.ErrModelUnavailable, desc.Identifier)).
			Component("provisioner").
			Category(errors.CategoryProvisioning).
			ModelContext(desc.LocalPath, desc.Identifier).
			Build()
	}

	if err := os.MkdirAll(p.pretrainedDir, 0o755); err != nil {
		return Descriptor{}, errors.New(fmt.Errorf("failed to create model directory: %w", err)).
			Component("provisioner").
			Category(errors.CategoryFileIO).
			Context("directory", p.pretrainedDir).
			Build()
	}

	p.log.Info("downloading model",
		"identifier", desc.Identifier,
		"url", desc.SourceURL,
		"destination", destination)

	start := time.Now()
	written, err := p.download(ctx, desc.SourceURL, destination)
	if err != nil {
		return Descriptor{}, errors.New(fmt.Errorf("%w: %s: %w", errors.ErrDownloadFailed, desc.Identifier, err)).
			Component("provisioner").
			Category(errors.CategoryNetwork).
			ModelContext(destination, desc.Identifier).
			Context("url", desc.SourceURL).
			Timing("model-download", time.Since(start)).
			Build()
	}

	p.log.Info("model downloaded",
		"identifier", desc.Identifier,
		"bytes", written,
		"elapsed", time.Since(start).Round(time.Millisecond))

	desc.LocalPath = destination
	desc.SizeBytes = written
	return desc, nil
}

// download fetches url into destination via a temporary file so a failed or
// empty transfer never leaves a partial model behind.
func (p *Provisioner) download(ctx context.Context, url, destination string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected HTTP status %s", resp.Status)
	}

	partial := destination + ".partial"
	out, err := os.Create(partial)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(out, resp.Body)
	closeErr := out.Close()

	if err == nil {
		err = closeErr
	}
	if err == nil && written == 0 {
		err = fmt.Errorf("zero bytes written")
	}
	if err != nil {
		_ = os.Remove(partial)
		return 0, err
	}

	if err := os.Rename(partial, destination); err != nil {
		_ = os.Remove(partial)
		return 0, err
	}
	return written, nil
}

func fileUsable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir() && info.Size() > 0
}
