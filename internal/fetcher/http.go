package fetcher

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DownloadOptions configures dataset downloads.
type DownloadOptions struct {
	UserAgent  string
	Timeout    time.Duration // per-attempt timeout (default 10m, exports are large)
	MaxRetries int           // retries after the first attempt
	Limiter    *rate.Limiter // optional request rate limit
}

// Download fetches url to destPath, retrying on transient failures. The
// file is written via a temp file and renamed so a partial download never
// shadows a complete one.
func Download(ctx context.Context, url, destPath string, opts DownloadOptions) error {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Minute
	}
	client := &http.Client{Timeout: opts.Timeout}

	var lastErr error
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 0 {
			zap.L().Warn("fetcher: retrying download",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
		}
		if opts.Limiter != nil {
			if err := opts.Limiter.Wait(ctx); err != nil {
				return eris.Wrap(err, "fetcher: rate limit wait")
			}
		}

		lastErr = downloadOnce(ctx, client, url, destPath, opts.UserAgent)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return eris.Wrap(ctx.Err(), "fetcher: download cancelled")
		}
	}
	return eris.Wrapf(lastErr, "fetcher: download %s", url)
}

func downloadOnce(ctx context.Context, client *http.Client, url, destPath, userAgent string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return eris.Wrap(err, "fetcher: build request")
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return eris.Wrap(err, "fetcher: request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("fetcher: unexpected status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".crimemap-download-*")
	if err != nil {
		return eris.Wrap(err, "fetcher: create temp file")
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err != nil {
		_ = os.Remove(tmpPath)
		return eris.Wrap(err, "fetcher: write body")
	}
	if closeErr != nil {
		_ = os.Remove(tmpPath)
		return eris.Wrap(closeErr, "fetcher: close temp file")
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return eris.Wrap(err, "fetcher: move into place")
	}

	zap.L().Info("fetcher: download complete",
		zap.String("url", url),
		zap.String("dest", destPath),
		zap.Int64("bytes", n),
	)
	return nil
}
