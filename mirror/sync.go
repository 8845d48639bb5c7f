package mirror

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/gradlemirror/gradlemirror"
	"github.com/gradlemirror/gradlemirror/metrics"
)

// Config holds the mirroring settings.
type Config struct {
	VersionsURL string   `mapstructure:"versions_url" validate:"required,url"`
	Channels    []string `mapstructure:"channels" validate:"min=1,dive,oneof=stable rc nightly snapshot"`
	Concurrency int64    `mapstructure:"concurrency" validate:"min=1"`
}

// SyncFailure records one version that could not be mirrored.
type SyncFailure struct {
	Version string
	Err     error
}

// SyncReport summarizes one synchronization pass.
type SyncReport struct {
	Uploaded []string
	Skipped  []string
	Failed   []SyncFailure
}

// Syncer downloads Gradle distributions and uploads them to the store
// under gradle/<version>/<archive>.
type Syncer struct {
	store      gradlemirror.WriteStore
	httpClient *http.Client
	config     Config
}

// NewSyncer creates a Syncer. A nil httpClient falls back to
// http.DefaultClient.
func NewSyncer(store gradlemirror.WriteStore, cfg Config, httpClient *http.Client) *Syncer {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Syncer{store: store, httpClient: httpClient, config: cfg}
}

// Sync mirrors every given version: the distribution archive and, when the
// feed publishes one, its SHA-256 checksum land beside each other under the
// gradle/ prefix. Versions already present with matching size are skipped.
// Failures are collected per version; Sync only returns an error when the
// context ends the pass early.
func (s *Syncer) Sync(ctx context.Context, versions []Version) (*SyncReport, error) {
	report := &SyncReport{}
	var mu sync.Mutex

	sem := semaphore.NewWeighted(s.config.Concurrency)
	wg := sync.WaitGroup{}
	for _, version := range versions {
		wg.Go(func() {
			if err := sem.Acquire(ctx, 1); err != nil {
				mu.Lock()
				report.Failed = append(report.Failed, SyncFailure{Version: version.Version, Err: err})
				mu.Unlock()
				return
			}
			defer sem.Release(1)

			start := time.Now()
			key, skipped, err := s.syncVersion(ctx, version)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				slog.Error("sync version", "version", version.Version, "err", err)
				report.Failed = append(report.Failed, SyncFailure{Version: version.Version, Err: err})
			case skipped:
				slog.Debug("distribution already mirrored", "key", key)
				report.Skipped = append(report.Skipped, key)
			default:
				slog.Info("mirrored distribution", "key", key, "duration", time.Since(start))
				report.Uploaded = append(report.Uploaded, key)
			}
		})
	}
	wg.Wait()

	slices.Sort(report.Uploaded)
	slices.Sort(report.Skipped)

	return report, ctx.Err()
}

func (s *Syncer) syncVersion(ctx context.Context, v Version) (string, bool, error) {
	archive := v.ArchiveName()
	if archive == "" {
		return "", false, fmt.Errorf("version %s has no download URL", v.Version)
	}
	key := "gradle/" + v.Version + "/" + archive
	if !gradlemirror.ValidKey(key) {
		return "", false, fmt.Errorf("version %s: key %q: %w", v.Version, key, gradlemirror.ErrInvalidKey)
	}

	if existing, err := s.store.Head(ctx, key); err == nil {
		if size, err := s.remoteSize(ctx, v.DownloadURL); err == nil && size > 0 && size == existing.Size {
			metrics.RecordSyncDownload("skipped")
			return key, true, nil
		}
	}

	var checksum string
	if v.ChecksumURL != "" {
		c, err := s.fetchChecksum(ctx, v.ChecksumURL)
		if err != nil {
			metrics.RecordSyncDownload("error")
			return key, false, err
		}
		checksum = c
	} else {
		// The feed stops publishing SHA-256 checksums somewhere below 4.x
		slog.Warn("no checksum published for version", "version", v.Version)
	}

	spool, err := os.Create(filepath.Join(os.TempDir(), "gradlemirror-"+uuid.New().String()))
	if err != nil {
		return key, false, fmt.Errorf("could not open spool file: %w", err)
	}
	defer func() {
		if closeErr := spool.Close(); closeErr != nil {
			slog.Warn("failed to close spool file", "err", closeErr)
		}
		if rmErr := os.Remove(spool.Name()); rmErr != nil {
			slog.Warn("failed to remove spool file", "err", rmErr)
		}
	}()

	hash := sha256.New()
	size, err := s.download(ctx, v.DownloadURL, io.MultiWriter(spool, hash))
	if err != nil {
		metrics.RecordSyncDownload("error")
		return key, false, err
	}

	if checksum != "" {
		digest := hex.EncodeToString(hash.Sum(nil))
		if digest != checksum {
			metrics.RecordSyncDownload("checksum_mismatch")
			return key, false, fmt.Errorf("checksum mismatch for %s: got %s, want %s", archive, digest, checksum)
		}
	}
	metrics.RecordSyncDownload("success")

	if _, err := spool.Seek(0, io.SeekStart); err != nil {
		return key, false, fmt.Errorf("rewind spool file: %w", err)
	}

	if _, err := s.store.Put(ctx, key, spool, gradlemirror.PutOptions{
		ContentType:   gradlemirror.ContentTypeFor(key),
		ContentLength: size,
		CacheControl:  gradlemirror.CacheControlFor(gradlemirror.RouteFile),
	}); err != nil {
		return key, false, fmt.Errorf("upload %s: %w", key, err)
	}
	metrics.RecordSyncUpload(size)

	if checksum != "" {
		checksumKey := key + ".sha256"
		if _, err := s.store.Put(ctx, checksumKey, strings.NewReader(checksum), gradlemirror.PutOptions{
			ContentType:   gradlemirror.ContentTypeFor(checksumKey),
			ContentLength: int64(len(checksum)),
			CacheControl:  gradlemirror.CacheControlFor(gradlemirror.RouteFile),
		}); err != nil {
			return key, false, fmt.Errorf("upload %s: %w", checksumKey, err)
		}
		metrics.RecordSyncUpload(int64(len(checksum)))
	}

	return key, false, nil
}

func (s *Syncer) download(ctx context.Context, rawURL string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("downloading %s: %w", rawURL, err)
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download %s returned status %d", rawURL, resp.StatusCode)
	}

	return io.Copy(w, resp.Body)
}

func (s *Syncer) fetchChecksum(ctx context.Context, rawURL string) (string, error) {
	var buf strings.Builder
	if _, err := s.download(ctx, rawURL, &buf); err != nil {
		return "", fmt.Errorf("fetching checksum: %w", err)
	}

	checksum := strings.TrimSpace(buf.String())
	if len(checksum) != sha256.Size*2 {
		return "", fmt.Errorf("checksum at %s is not a SHA-256 digest", rawURL)
	}
	return checksum, nil
}

func (s *Syncer) remoteSize(ctx context.Context, rawURL string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("creating size request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("sizing %s: %w", rawURL, err)
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("size probe %s returned status %d", rawURL, resp.StatusCode)
	}

	return resp.ContentLength, nil
}
