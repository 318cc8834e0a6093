package etl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"
)

// ── Fetcher ────────────────────────────────────────────────
// Downloads a remote file into the staging directory, byte for byte.
// Each run overwrites the previous staged copy; a failed fetch leaves the
// previous copy untouched (download goes to a temp file, renamed on success).

// Fetcher stages remote files locally.
type Fetcher struct {
	StagingDir string
	Client     *http.Client
}

// NewFetcher creates a Fetcher staging into dir.
func NewFetcher(dir string) *Fetcher {
	return &Fetcher{
		StagingDir: dir,
		Client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch retrieves rawURL via HTTP GET and writes the body to
// <staging>/<name><ext>, where ext comes from the URL path. It returns the
// staged file path.
func (f *Fetcher) Fetch(ctx context.Context, name, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", &FetchError{URL: rawURL, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}

	if err := os.MkdirAll(f.StagingDir, 0755); err != nil {
		return "", &FetchError{URL: rawURL, Err: fmt.Errorf("create staging dir: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: rawURL, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	dest := filepath.Join(f.StagingDir, name+path.Ext(u.Path))
	tmp, err := os.CreateTemp(f.StagingDir, name+".download-*")
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", &FetchError{URL: rawURL, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", &FetchError{URL: rawURL, Err: err}
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return "", &FetchError{URL: rawURL, Err: err}
	}
	return dest, nil
}
