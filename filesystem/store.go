// Package filesystem implements the object store interfaces on a local
// directory tree. Keys map to slash-separated paths under a sandboxed
// root; writes are atomic via temp file and rename.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/gradlemirror/gradlemirror"
)

// Store serves a directory tree as an object store.
type Store struct {
	root *os.Root
}

var _ gradlemirror.WriteStore = (*Store)(nil)

// New creates a Store over root. The root sandboxes every operation, so a
// hostile key cannot reach outside the mirror directory.
func New(root *os.Root) *Store {
	return &Store{root: root}
}

// Get opens a file for reading. A directory is not an object.
func (s *Store) Get(ctx context.Context, key string) (*gradlemirror.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.root.Open(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", key, gradlemirror.ErrNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", key, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %s: %w", key, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("open %s: %w", key, gradlemirror.ErrNotFound)
	}

	return &gradlemirror.Object{
		ObjectInfo: objectInfo(key, info),
		Body:       f,
	}, nil
}

// Head returns file metadata without opening the file. A directory is not
// an object.
func (s *Store) Head(ctx context.Context, key string) (gradlemirror.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return gradlemirror.ObjectInfo{}, err
	}

	info, err := s.root.Stat(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return gradlemirror.ObjectInfo{}, fmt.Errorf("stat %s: %w", key, gradlemirror.ErrNotFound)
		}
		return gradlemirror.ObjectInfo{}, fmt.Errorf("stat %s: %w", key, err)
	}
	if info.IsDir() {
		return gradlemirror.ObjectInfo{}, fmt.Errorf("stat %s: %w", key, gradlemirror.ErrNotFound)
	}

	return objectInfo(key, info), nil
}

// List implements the S3 prefix and delimiter contract over directories.
// Prefixes follow the key layout: empty or ending in "/". With a delimiter,
// subdirectories become CommonPrefixes and files direct Objects; without
// one the tree below the prefix is walked. Entries come back in name order,
// matching what a bucket listing returns.
func (s *Store) List(ctx context.Context, q gradlemirror.ListQuery) (gradlemirror.ListResult, error) {
	if err := ctx.Err(); err != nil {
		return gradlemirror.ListResult{}, err
	}

	base := q.Prefix
	if base != "" && !strings.HasSuffix(base, "/") {
		base += "/"
	}

	dir := strings.TrimSuffix(base, "/")
	if dir == "" {
		dir = "."
	}

	if q.Delimiter == "" {
		objects, err := s.listRecursive(ctx, dir, base)
		if err != nil {
			return gradlemirror.ListResult{}, fmt.Errorf("list %q: %w", q.Prefix, err)
		}
		return gradlemirror.ListResult{Objects: objects}, nil
	}

	entries, err := fs.ReadDir(s.root.FS(), dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return gradlemirror.ListResult{}, nil
		}
		return gradlemirror.ListResult{}, fmt.Errorf("list %q: %w", q.Prefix, err)
	}

	var res gradlemirror.ListResult
	for _, entry := range entries {
		if entry.IsDir() {
			res.CommonPrefixes = append(res.CommonPrefixes, base+entry.Name()+"/")
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return gradlemirror.ListResult{}, fmt.Errorf("list %q: %w", q.Prefix, err)
		}
		res.Objects = append(res.Objects, objectInfo(base+entry.Name(), info))
	}

	return res, nil
}

func (s *Store) listRecursive(ctx context.Context, dir, base string) ([]gradlemirror.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(s.root.FS(), dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var objects []gradlemirror.ObjectInfo
	for _, entry := range entries {
		key := base + entry.Name()

		if entry.IsDir() {
			entryDir := entry.Name()
			if dir != "." {
				entryDir = dir + "/" + entry.Name()
			}
			children, err := s.listRecursive(ctx, entryDir, key+"/")
			if err != nil {
				return nil, err
			}
			objects = append(objects, children...)
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", key, err)
		}
		objects = append(objects, objectInfo(key, info))
	}

	return objects, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// Put atomically writes an object using a temp file and rename. It creates
// intermediate directories as needed and respects context cancellation
// while copying.
func (s *Store) Put(ctx context.Context, key string, body io.Reader, _ gradlemirror.PutOptions) (gradlemirror.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return gradlemirror.ObjectInfo{}, err
	}

	tmpFile := tmpFileName()
	t, createErr := s.root.Create(tmpFile)
	if createErr != nil {
		return gradlemirror.ObjectInfo{}, fmt.Errorf("could not open temp file: %w", createErr)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil {
			slog.Warn("failed to close tmp file", "err", closeErr)
		}
		if !success {
			// t.Name() is prefixed with the root's own path, which Remove
			// would refuse; the root-relative name is what we created.
			if rmErr := s.root.Remove(tmpFile); rmErr != nil {
				slog.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	if _, err := io.Copy(t, &ctxReader{ctx: ctx, r: body}); err != nil {
		return gradlemirror.ObjectInfo{}, fmt.Errorf("could not copy file contents: %w", err)
	}

	if err := t.Sync(); err != nil {
		return gradlemirror.ObjectInfo{}, fmt.Errorf("could not sync written file: %w", err)
	}

	destDir := path.Dir(key)
	if destDir != "." {
		if err := s.root.MkdirAll(destDir, 0o755); err != nil {
			return gradlemirror.ObjectInfo{}, fmt.Errorf("could not create intermediate directories: %w", err)
		}
	}

	if renameErr := s.root.Rename(tmpFile, key); renameErr != nil {
		return gradlemirror.ObjectInfo{}, fmt.Errorf("failed to rename file: %w", renameErr)
	}

	success = true

	info, err := s.root.Stat(key)
	if err != nil {
		return gradlemirror.ObjectInfo{}, fmt.Errorf("stat %s: %w", key, err)
	}

	return objectInfo(key, info), nil
}

// Delete removes a file. Empty parent directories go with it; buckets have
// no empty directories, and listings should not show them either.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.root.Remove(key); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", key, gradlemirror.ErrNotFound)
		}
		return fmt.Errorf("could not delete file: %w", err)
	}

	for dir := path.Dir(key); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if err := s.root.Remove(dir); err != nil {
			break
		}
	}

	return nil
}

// ListAll returns every object whose key begins with prefix.
func (s *Store) ListAll(ctx context.Context, prefix string) ([]gradlemirror.ObjectInfo, error) {
	res, err := s.List(ctx, gradlemirror.ListQuery{Prefix: prefix})
	if err != nil {
		return nil, err
	}
	return res.Objects, nil
}

func objectInfo(key string, info fs.FileInfo) gradlemirror.ObjectInfo {
	return gradlemirror.ObjectInfo{
		Key:          key,
		Size:         info.Size(),
		ETag:         etagFor(info),
		ContentType:  gradlemirror.ContentTypeFor(key),
		LastModified: info.ModTime().UTC(),
	}
}

// etagFor derives the validator from mtime and size in the nginx style.
// Content is never hashed on the serving path.
func etagFor(info fs.FileInfo) string {
	return fmt.Sprintf("%x-%x", info.ModTime().Unix(), info.Size())
}

func tmpFileName() string {
	return fmt.Sprintf(".t%s", uuid.New().String())
}
