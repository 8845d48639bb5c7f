package mirror

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gradlemirror/gradlemirror"
)

// Deployer uploads a local build directory to the store's top-level keys.
type Deployer struct {
	store gradlemirror.WriteStore
}

// NewDeployer creates a Deployer writing through store.
func NewDeployer(store gradlemirror.WriteStore) *Deployer {
	return &Deployer{store: store}
}

// Manifest walks dir and returns the slash-separated relative key of every
// regular file, in lexical walk order. The same walk feeds Deploy and the
// cleanup keep set, so a deploy followed by a cleanup agrees on the keys.
func Manifest(dir string) ([]string, error) {
	var keys []string

	err := filepath.WalkDir(dir, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", p, err)
		}

		key := filepath.ToSlash(rel)
		if !gradlemirror.ValidKey(key) {
			return fmt.Errorf("file %s: %w", p, gradlemirror.ErrInvalidKey)
		}
		keys = append(keys, key)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return keys, nil
}

// Deploy uploads every regular file under dir to its slash-separated
// relative key, stamped with the serving content type and cache policy.
// It returns the manifest of uploaded keys in walk order.
func (d *Deployer) Deploy(ctx context.Context, dir string) ([]string, error) {
	manifest, err := Manifest(dir)
	if err != nil {
		return nil, err
	}

	for _, key := range manifest {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := d.uploadFile(ctx, filepath.Join(dir, filepath.FromSlash(key)), key); err != nil {
			return nil, fmt.Errorf("upload %s: %w", key, err)
		}
	}

	return manifest, nil
}

func (d *Deployer) uploadFile(ctx context.Context, path, key string) error {
	f, err := os.Open(path) //#nosec G304 -- path comes from walking the user's build directory
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close deploy file", "err", closeErr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	kind := gradlemirror.RouteAsset
	if key == gradlemirror.ShellKey {
		kind = gradlemirror.RouteShell
	}

	if _, err := d.store.Put(ctx, key, f, gradlemirror.PutOptions{
		ContentType:   gradlemirror.ContentTypeFor(key),
		ContentLength: info.Size(),
		CacheControl:  gradlemirror.CacheControlFor(kind),
	}); err != nil {
		return err
	}

	slog.Info("deployed", "key", key, "bytes", info.Size())
	return nil
}
