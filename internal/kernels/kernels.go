// Package kernels documents the external SPICE and planetary-shape datasets
// the project consumes, and downloads any that are not yet present locally.
// The binary kernel contents are never parsed here; other tooling reads them.
package kernels

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Kernel describes one external dataset artifact.
type Kernel struct {
	Name        string
	Filename    string
	URL         string
	Description string
	// SHA256 is the expected hex digest of the file contents. Empty when the
	// upstream archive does not publish one.
	SHA256 string
}

// Manifest lists the datasets referenced by the project documentation, in the
// order they should be fetched.
func Manifest() []Kernel {
	return []Kernel{
		{
			Name:        "lsk",
			Filename:    "naif0012.tls",
			URL:         "https://naif.jpl.nasa.gov/pub/naif/generic_kernels/lsk/naif0012.tls",
			Description: "Leapseconds kernel, needed for any ephemeris-time conversion.",
		},
		{
			Name:        "planets",
			Filename:    "de432s.bsp",
			URL:         "https://naif.jpl.nasa.gov/pub/naif/generic_kernels/spk/planets/de432s.bsp",
			Description: "Short-span planetary ephemeris (DE432s).",
		},
		{
			Name:        "asteroids",
			Filename:    "codes_300ast_20100725.bsp",
			URL:         "https://naif.jpl.nasa.gov/pub/naif/generic_kernels/spk/asteroids/codes_300ast_20100725.bsp",
			Description: "SPK ephemerides for 300 large asteroids.",
		},
		{
			Name:        "eros-shape",
			Filename:    "eros001708.tab",
			URL:         "https://sbnarchive.psi.edu/pds3/near/NEAR_A_5_COLLECTED_MODELS_V1_0/data/msi/eros001708.tab",
			Description: "NEAR/MSI plate shape model of 433 Eros.",
		},
	}
}

// DownloadError represents a failure fetching or verifying one kernel.
type DownloadError struct {
	Kernel  string
	Message string
	Cause   error
}

func (e *DownloadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("download error for kernel %s: %s: %v", e.Kernel, e.Message, e.Cause)
	}
	return fmt.Sprintf("download error for kernel %s: %s", e.Kernel, e.Message)
}

func (e *DownloadError) Unwrap() error {
	return e.Cause
}

// FetchReport summarizes one Fetch invocation.
type FetchReport struct {
	Downloaded []string
	Present    []string
}

// Fetcher downloads manifest entries into a local directory.
type Fetcher struct {
	dir    string
	client *http.Client
}

// NewFetcher creates a Fetcher that stores kernels under dir.
func NewFetcher(dir string) *Fetcher {
	return &Fetcher{
		dir:    dir,
		client: &http.Client{Timeout: 10 * time.Minute},
	}
}

// Fetch downloads every kernel in the manifest that is not already present.
// Files already on disk are left untouched.
func (f *Fetcher) Fetch(ctx context.Context, manifest []Kernel) (*FetchReport, error) {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return nil, &DownloadError{Kernel: "*", Message: "failed to create kernel directory", Cause: err}
	}

	report := &FetchReport{}
	for _, k := range manifest {
		dest := filepath.Join(f.dir, k.Filename)
		if _, err := os.Stat(dest); err == nil {
			report.Present = append(report.Present, k.Filename)
			continue
		}
		if err := f.download(ctx, k, dest); err != nil {
			return report, err
		}
		report.Downloaded = append(report.Downloaded, k.Filename)
	}
	return report, nil
}

func (f *Fetcher) download(ctx context.Context, k Kernel, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.URL, nil)
	if err != nil {
		return &DownloadError{Kernel: k.Name, Message: "failed to create request", Cause: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return &DownloadError{Kernel: k.Name, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &DownloadError{Kernel: k.Name, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	tmp, err := os.CreateTemp(f.dir, k.Filename+".tmp-*")
	if err != nil {
		return &DownloadError{Kernel: k.Name, Message: "failed to create temp file", Cause: err}
	}
	tmpName := tmp.Name()

	hasher := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, hasher), resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &DownloadError{Kernel: k.Name, Message: "failed to write file", Cause: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &DownloadError{Kernel: k.Name, Message: "failed to flush file", Cause: err}
	}

	if k.SHA256 != "" {
		sum := hex.EncodeToString(hasher.Sum(nil))
		if sum != k.SHA256 {
			_ = os.Remove(tmpName)
			return &DownloadError{
				Kernel:  k.Name,
				Message: fmt.Sprintf("checksum mismatch: got %s, want %s", sum, k.SHA256),
			}
		}
	}

	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return &DownloadError{Kernel: k.Name, Message: "failed to move file into place", Cause: err}
	}
	return nil
}
