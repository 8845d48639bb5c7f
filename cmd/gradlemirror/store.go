package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gradlemirror/gradlemirror"
	"github.com/gradlemirror/gradlemirror/config"
	"github.com/gradlemirror/gradlemirror/filesystem"
	"github.com/gradlemirror/gradlemirror/memstore"
	"github.com/gradlemirror/gradlemirror/s3store"
)

// openStore builds the configured store backend. The returned closer
// releases backend resources and is safe to call once.
func openStore(ctx context.Context, cfg *config.Config) (gradlemirror.WriteStore, func(), error) {
	switch cfg.Store.Backend {
	case "s3":
		s3cfg, err := resolveS3Config(cfg)
		if err != nil {
			return nil, nil, err
		}
		store, err := s3store.New(ctx, s3cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open s3 store: %w", err)
		}
		return store, func() {}, nil

	case "fs":
		if err := os.MkdirAll(cfg.Store.Path, 0o750); err != nil {
			return nil, nil, fmt.Errorf("create storage directory: %w", err)
		}
		root, err := os.OpenRoot(cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open storage root: %w", err)
		}
		return filesystem.New(root), func() { _ = root.Close() }, nil

	case "memory":
		return memstore.New(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// resolveS3Config overlays the selected credential profile, when one is
// named via --profile or GRADLEMIRROR_PROFILE, onto the file and flag
// configuration.
func resolveS3Config(cfg *config.Config) (s3store.Config, error) {
	name := profileName
	if name == "" {
		name = config.ProfileFromEnv()
	}
	if name == "" {
		return cfg.Store.S3, nil
	}

	path := config.ProfilesPathFromEnv()
	if path == "" {
		path = config.DefaultProfilesPath()
	}

	profiles, err := config.LoadProfiles(path)
	if err != nil {
		return s3store.Config{}, fmt.Errorf("load profiles: %w", err)
	}

	p, err := profiles.GetProfile(name)
	if err != nil {
		return s3store.Config{}, err
	}

	return mergeS3Config(cfg.Store.S3, config.S3ConfigFromProfile(p)), nil
}

// mergeS3Config prefers profile fields, falling back to base for any the
// profile leaves empty. A selected profile always decides path style.
func mergeS3Config(base, profile s3store.Config) s3store.Config {
	merged := profile
	if merged.Endpoint == "" {
		merged.Endpoint = base.Endpoint
	}
	if merged.Region == "" {
		merged.Region = base.Region
	}
	if merged.Bucket == "" {
		merged.Bucket = base.Bucket
	}
	if merged.AccessKey == "" {
		merged.AccessKey = base.AccessKey
	}
	if merged.SecretKey == "" {
		merged.SecretKey = base.SecretKey
	}
	return merged
}
