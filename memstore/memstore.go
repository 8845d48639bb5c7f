// Package memstore provides an in-memory object store used by tests and by
// the server's memory backend for local smoke runs.
package memstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gradlemirror/gradlemirror"
)

// MemStore holds objects in a map guarded by a read-write mutex. It
// implements gradlemirror.WriteStore with the same prefix and delimiter
// semantics as the S3 backend, so handler behavior observed against it
// carries over.
type MemStore struct {
	mu      sync.RWMutex
	objects map[string]memObject
	now     func() time.Time
}

type memObject struct {
	data []byte
	info gradlemirror.ObjectInfo
}

func New() *MemStore {
	return NewWithClock(time.Now)
}

// NewWithClock creates a store whose stored timestamps come from now.
// Tests use this to pin LastModified values.
func NewWithClock(now func() time.Time) *MemStore {
	return &MemStore{
		objects: make(map[string]memObject),
		now:     now,
	}
}

func (s *MemStore) Get(ctx context.Context, key string) (*gradlemirror.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, found := s.objects[key]
	if !found {
		return nil, fmt.Errorf("get %s: %w", key, gradlemirror.ErrNotFound)
	}

	return &gradlemirror.Object{
		ObjectInfo: obj.info,
		Body:       io.NopCloser(bytes.NewReader(obj.data)),
	}, nil
}

func (s *MemStore) Head(ctx context.Context, key string) (gradlemirror.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return gradlemirror.ObjectInfo{}, fmt.Errorf("head %s: %w", key, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, found := s.objects[key]
	if !found {
		return gradlemirror.ObjectInfo{}, fmt.Errorf("head %s: %w", key, gradlemirror.ErrNotFound)
	}

	return obj.info, nil
}

func (s *MemStore) List(ctx context.Context, q gradlemirror.ListQuery) (gradlemirror.ListResult, error) {
	if err := ctx.Err(); err != nil {
		return gradlemirror.ListResult{}, fmt.Errorf("list %s: %w", q.Prefix, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result gradlemirror.ListResult
	prefixes := make(map[string]bool)

	for key, obj := range s.objects {
		if !strings.HasPrefix(key, q.Prefix) {
			continue
		}

		rest := key[len(q.Prefix):]
		if q.Delimiter != "" {
			if i := strings.Index(rest, q.Delimiter); i >= 0 {
				prefixes[q.Prefix+rest[:i+len(q.Delimiter)]] = true
				continue
			}
		}

		result.Objects = append(result.Objects, obj.info)
	}

	for p := range prefixes {
		result.CommonPrefixes = append(result.CommonPrefixes, p)
	}

	// Keys list in ascending order, matching S3
	sort.Strings(result.CommonPrefixes)
	sort.Slice(result.Objects, func(i, j int) bool {
		return result.Objects[i].Key < result.Objects[j].Key
	})

	return result, nil
}

func (s *MemStore) Put(ctx context.Context, key string, body io.Reader, opts gradlemirror.PutOptions) (gradlemirror.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return gradlemirror.ObjectInfo{}, fmt.Errorf("put %s: %w", key, err)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return gradlemirror.ObjectInfo{}, fmt.Errorf("put %s: %w", key, err)
	}

	sum := sha256.Sum256(data)
	info := gradlemirror.ObjectInfo{
		Key:          key,
		Size:         int64(len(data)),
		ETag:         hex.EncodeToString(sum[:]),
		ContentType:  opts.ContentType,
		LastModified: s.now().UTC(),
	}

	s.mu.Lock()
	s.objects[key] = memObject{data: data, info: info}
	s.mu.Unlock()

	return info, nil
}

func (s *MemStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.objects[key]; !found {
		return fmt.Errorf("delete %s: %w", key, gradlemirror.ErrNotFound)
	}

	delete(s.objects, key)
	return nil
}

func (s *MemStore) ListAll(ctx context.Context, prefix string) ([]gradlemirror.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list all %s: %w", prefix, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var infos []gradlemirror.ObjectInfo
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, obj.info)
		}
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Key < infos[j].Key
	})

	return infos, nil
}
