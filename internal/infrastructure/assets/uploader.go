// Package assets re-hosts external article images on durable storage.
package assets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"NewsImporter/internal/ports"
)

const (
	downloadTimeout = 30 * time.Second
	// Payloads under a kilobyte are almost always tracking pixels or
	// placeholder GIFs, never a usable article image.
	minImageBytes = 1000
	maxImageBytes = 15 << 20

	userAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	imageAccept = "image/avif,image/webp,image/apng,image/svg+xml,image/*,*/*;q=0.8"
)

// Uploader downloads an external image and stores it permanently.
type Uploader struct {
	client  *http.Client
	storage ports.ObjectStorage
	logger  *slog.Logger
}

var _ ports.ImageUploader = (*Uploader)(nil)

// NewUploader wires the HTTP client and the object storage backend.
func NewUploader(client *http.Client, storage ports.ObjectStorage, logger *slog.Logger) *Uploader {
	if client == nil {
		client = &http.Client{Timeout: downloadTimeout}
	}
	return &Uploader{client: client, storage: storage, logger: logger}
}

// UploadFromURL returns the permanent URL of the re-hosted image, or ""
// on any failure. The pipeline treats "" the same as a missing image.
func (u *Uploader) UploadFromURL(ctx context.Context, imageURL string) string {
	data, contentType, err := u.download(ctx, imageURL)
	if err != nil {
		u.debug("image download rejected", "url", imageURL, "error", err)
		return ""
	}

	hosted, err := u.storage.Put(ctx, data, contentType)
	if err != nil {
		u.debug("image upload failed", "url", imageURL, "error", err)
		return ""
	}
	return hosted
}

func (u *Uploader) download(ctx context.Context, imageURL string) ([]byte, string, error) {
	parsed, err := url.Parse(imageURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, "", fmt.Errorf("invalid image url")
	}
	origin := parsed.Scheme + "://" + parsed.Host

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	// Browser-shaped headers with an origin-matching Referer defeat
	// most hot-link protection.
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", imageAccept)
	req.Header.Set("Referer", origin+"/")
	req.Header.Set("Origin", origin)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("image host returned %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	if len(data) < minImageBytes {
		return nil, "", fmt.Errorf("payload too small (%d bytes)", len(data))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || !strings.HasPrefix(contentType, "image/") {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

func (u *Uploader) debug(msg string, args ...any) {
	if u.logger != nil {
		u.logger.Debug(msg, args...)
	}
}
