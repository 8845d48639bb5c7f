package gradlemirror

import (
	"context"
	"errors"
	"fmt"
)

// MirrorService exposes the store-facing operations the HTTP handler
// consumes. It holds no mutable state; every method is a single pass over
// the store and safe for concurrent use.
type MirrorService struct {
	store Store
}

func NewMirrorService(store Store) (*MirrorService, error) {
	if store == nil {
		return nil, errors.New("new mirror service: store cannot be nil")
	}
	return &MirrorService{store: store}, nil
}

// Resolve classifies a sanitized request path into a Route, performing at
// most one metadata probe against the store (for ambiguous file-or-directory
// paths).
func (s *MirrorService) Resolve(ctx context.Context, path string) (Route, error) {
	if err := ctx.Err(); err != nil {
		return Route{}, fmt.Errorf("resolve: %w", err)
	}

	return ResolveRoute(ctx, s.store, path)
}

// Open fetches an object's metadata and opens its body for reading.
// The caller must close the returned body.
//
// Returns ErrNotFound when the key is absent; asset and shell misses are
// terminal for the caller, there is no fallback lookup here.
func (s *MirrorService) Open(ctx context.Context, key string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("open object: %w", err)
	}

	obj, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open object %s: %w", key, err)
	}

	return obj, nil
}

// Stat fetches an object's metadata without transferring its body. Used for
// HEAD requests so responses carry accurate sizes with no body read.
func (s *MirrorService) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, fmt.Errorf("stat object: %w", err)
	}

	info, err := s.store.Head(ctx, key)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("stat object %s: %w", key, err)
	}

	return info, nil
}

// Browse lists the direct children of a prefix and shapes them into a
// DirectoryListing ready for rendering. An empty prefix browses the bucket
// root. Prefixes with no children produce an empty listing, not an error.
func (s *MirrorService) Browse(ctx context.Context, prefix string) (DirectoryListing, error) {
	if err := ctx.Err(); err != nil {
		return DirectoryListing{}, fmt.Errorf("browse: %w", err)
	}

	res, err := s.store.List(ctx, ListQuery{Prefix: prefix, Delimiter: "/"})
	if err != nil {
		return DirectoryListing{}, fmt.Errorf("browse %s: %w", prefix, err)
	}

	return BuildListing("/"+prefix, prefix, res), nil
}
