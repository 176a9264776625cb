package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	connectTimeout = 10 * time.Second
	requestTimeout = 60 * time.Second
)

// Downloader fetches remotely generated media assets to local storage over
// HTTP with bounded timeouts.
type Downloader struct {
	client *http.Client
}

// NewDownloader creates a Downloader with the standard timeout policy:
// 10s to connect, 60s for the whole transfer.
func NewDownloader() *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
			},
		},
	}
}

// Fetch downloads url into dest and returns dest. The body is written to a
// temporary file first and renamed into place, so a concurrent reader never
// observes a partially written asset. A non-2xx status is an error.
func (d *Downloader) Fetch(ctx context.Context, url, dest string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("failed to download %s: status %d", url, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download_*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("move into place: %w", err)
	}
	return dest, nil
}
