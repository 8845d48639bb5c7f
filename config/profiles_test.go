package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradlemirror/gradlemirror"
	"github.com/gradlemirror/gradlemirror/config"
)

func TestProfileFile_GetProfile(t *testing.T) {
	pf := &config.ProfileFile{
		Profiles: []config.Profile{
			{Name: "prod", Bucket: "mirror-prod"},
			{Name: "staging", Bucket: "mirror-staging", Default: true},
		},
	}

	t.Run("by name", func(t *testing.T) {
		p, err := pf.GetProfile("prod")
		require.NoError(t, err)
		assert.Equal(t, "mirror-prod", p.Bucket)
	})

	t.Run("empty name returns default", func(t *testing.T) {
		p, err := pf.GetProfile("")
		require.NoError(t, err)
		assert.Equal(t, "staging", p.Name)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := pf.GetProfile("qa")
		assert.ErrorIs(t, err, gradlemirror.ErrProfileNotFound)
	})

	t.Run("no profiles", func(t *testing.T) {
		empty := &config.ProfileFile{}
		_, err := empty.GetProfile("prod")
		assert.ErrorIs(t, err, gradlemirror.ErrNoProfiles)
	})
}

func TestProfileFile_GetDefaultProfile(t *testing.T) {
	t.Run("first profile when none marked", func(t *testing.T) {
		pf := &config.ProfileFile{
			Profiles: []config.Profile{
				{Name: "a", Bucket: "bucket-a"},
				{Name: "b", Bucket: "bucket-b"},
			},
		}
		p, err := pf.GetDefaultProfile()
		require.NoError(t, err)
		assert.Equal(t, "a", p.Name)
	})

	t.Run("marked default wins", func(t *testing.T) {
		pf := &config.ProfileFile{
			Profiles: []config.Profile{
				{Name: "a", Bucket: "bucket-a"},
				{Name: "b", Bucket: "bucket-b", Default: true},
			},
		}
		p, err := pf.GetDefaultProfile()
		require.NoError(t, err)
		assert.Equal(t, "b", p.Name)
	})
}

func TestProfileFile_AddProfile(t *testing.T) {
	pf := &config.ProfileFile{}

	err := pf.AddProfile(config.Profile{Name: "prod", Bucket: "mirror-prod"})
	require.NoError(t, err)
	assert.Equal(t, []string{"prod"}, pf.ProfileNames())

	err = pf.AddProfile(config.Profile{Name: "prod", Bucket: "other"})
	assert.ErrorIs(t, err, gradlemirror.ErrProfileExists)
}

func TestProfileFile_UpdateProfile(t *testing.T) {
	pf := &config.ProfileFile{
		Profiles: []config.Profile{{Name: "prod", Bucket: "old"}},
	}

	err := pf.UpdateProfile(config.Profile{Name: "prod", Bucket: "new"})
	require.NoError(t, err)
	assert.Equal(t, "new", pf.Profiles[0].Bucket)

	err = pf.UpdateProfile(config.Profile{Name: "missing"})
	assert.ErrorIs(t, err, gradlemirror.ErrProfileNotFound)
}

func TestProfileFile_RemoveProfile(t *testing.T) {
	pf := &config.ProfileFile{
		Profiles: []config.Profile{
			{Name: "prod"},
			{Name: "staging"},
		},
	}

	err := pf.RemoveProfile("prod")
	require.NoError(t, err)
	assert.Equal(t, []string{"staging"}, pf.ProfileNames())

	err = pf.RemoveProfile("prod")
	assert.ErrorIs(t, err, gradlemirror.ErrProfileNotFound)
}

func TestProfileFile_SetDefault(t *testing.T) {
	pf := &config.ProfileFile{
		Profiles: []config.Profile{
			{Name: "prod", Default: true},
			{Name: "staging"},
		},
	}

	err := pf.SetDefault("staging")
	require.NoError(t, err)
	assert.False(t, pf.Profiles[0].Default)
	assert.True(t, pf.Profiles[1].Default)

	err = pf.SetDefault("missing")
	assert.ErrorIs(t, err, gradlemirror.ErrProfileNotFound)
}

func TestProfileFile_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "profiles.yaml")

	pf := &config.ProfileFile{
		Profiles: []config.Profile{
			{
				Name:         "minio",
				Endpoint:     "http://localhost:9000",
				Region:       "us-east-1",
				Bucket:       "gradle-mirror",
				AccessKey:    "minioadmin",
				SecretKey:    "minioadmin",
				UsePathStyle: true,
				Default:      true,
			},
		},
	}

	err := pf.Save(path)
	require.NoError(t, err)

	// Credentials on disk should not be world-readable
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := config.LoadProfiles(path)
	require.NoError(t, err)
	assert.Equal(t, pf.Profiles, loaded.Profiles)
}

func TestLoadProfiles_Errors(t *testing.T) {
	t.Run("file not found", func(t *testing.T) {
		_, err := config.LoadProfiles("/nonexistent/profiles.yaml")
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "profiles.yaml")
		err := os.WriteFile(path, []byte("profiles: [broken"), 0o600)
		require.NoError(t, err)

		_, err = config.LoadProfiles(path)
		assert.Error(t, err)
	})
}

func TestS3ConfigFromProfile(t *testing.T) {
	p := &config.Profile{
		Name:         "r2",
		Endpoint:     "https://account.r2.cloudflarestorage.com",
		Region:       "auto",
		Bucket:       "gradle-mirror",
		AccessKey:    "key",
		SecretKey:    "secret",
		UsePathStyle: false,
	}

	cfg := config.S3ConfigFromProfile(p)

	assert.Equal(t, "https://account.r2.cloudflarestorage.com", cfg.Endpoint)
	assert.Equal(t, "auto", cfg.Region)
	assert.Equal(t, "gradle-mirror", cfg.Bucket)
	assert.Equal(t, "key", cfg.AccessKey)
	assert.Equal(t, "secret", cfg.SecretKey)
	assert.False(t, cfg.UsePathStyle)

	assert.Equal(t, "", config.S3ConfigFromProfile(nil).Bucket)
}
