package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gradlemirror/gradlemirror"
	"github.com/gradlemirror/gradlemirror/s3store"
)

// Profile holds the bucket credentials for a single mirror target.
type Profile struct {
	Name         string `yaml:"name"`
	Endpoint     string `yaml:"endpoint,omitempty"`
	Region       string `yaml:"region,omitempty"`
	Bucket       string `yaml:"bucket"`
	AccessKey    string `yaml:"access_key,omitempty"`
	SecretKey    string `yaml:"secret_key,omitempty"`
	UsePathStyle bool   `yaml:"use_path_style,omitempty"`
	Default      bool   `yaml:"default,omitempty"`
}

// ProfileFile holds the named credential profiles the write-side commands
// (mirror, deploy, cleanup) select their target bucket with.
type ProfileFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// GetProfile returns the profile by name.
// If name is empty, returns the default profile.
func (c *ProfileFile) GetProfile(name string) (*Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, gradlemirror.ErrNoProfiles
	}

	if name == "" {
		return c.GetDefaultProfile()
	}

	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", gradlemirror.ErrProfileNotFound, name)
}

// GetDefaultProfile returns the default profile.
// If no profile is marked as default, returns the first profile.
func (c *ProfileFile) GetDefaultProfile() (*Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, gradlemirror.ErrNoProfiles
	}

	// Look for profile marked as default
	for i := range c.Profiles {
		if c.Profiles[i].Default {
			return &c.Profiles[i], nil
		}
	}

	// Return first profile if none marked as default
	return &c.Profiles[0], nil
}

// AddProfile adds a new profile. Returns ErrProfileExists if a profile
// with the same name already exists. Use UpdateProfile to modify an existing profile.
func (c *ProfileFile) AddProfile(p Profile) error {
	for i := range c.Profiles {
		if c.Profiles[i].Name == p.Name {
			return fmt.Errorf("%w: %s", gradlemirror.ErrProfileExists, p.Name)
		}
	}
	c.Profiles = append(c.Profiles, p)
	return nil
}

// UpdateProfile updates an existing profile. Returns ErrProfileNotFound
// if the profile doesn't exist. Use AddProfile to create a new profile.
func (c *ProfileFile) UpdateProfile(p Profile) error {
	for i := range c.Profiles {
		if c.Profiles[i].Name == p.Name {
			c.Profiles[i] = p
			return nil
		}
	}
	return fmt.Errorf("%w: %s", gradlemirror.ErrProfileNotFound, p.Name)
}

// RemoveProfile removes a profile by name.
func (c *ProfileFile) RemoveProfile(name string) error {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			c.Profiles = append(c.Profiles[:i], c.Profiles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", gradlemirror.ErrProfileNotFound, name)
}

// SetDefault sets the default profile by name.
// Clears the default flag from all other profiles.
func (c *ProfileFile) SetDefault(name string) error {
	found := false
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			c.Profiles[i].Default = true
			found = true
		} else {
			c.Profiles[i].Default = false
		}
	}

	if !found {
		return fmt.Errorf("%w: %s", gradlemirror.ErrProfileNotFound, name)
	}
	return nil
}

// ProfileNames returns a list of all profile names.
func (c *ProfileFile) ProfileNames() []string {
	names := make([]string, len(c.Profiles))
	for i := range c.Profiles {
		names[i] = c.Profiles[i].Name
	}
	return names
}

// Save writes the profiles to the specified path.
// Creates the parent directory if it doesn't exist.
func (c *ProfileFile) Save(path string) error {
	cleanPath := filepath.Clean(path)

	// Create parent directory if needed
	dir := filepath.Dir(cleanPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create profiles directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal profiles: %w", err)
	}

	if err := os.WriteFile(cleanPath, data, 0o600); err != nil {
		return fmt.Errorf("write profiles file: %w", err)
	}

	return nil
}

// LoadProfiles loads the profiles file from the specified path.
func LoadProfiles(path string) (*ProfileFile, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) //#nosec G304 -- path is user-provided profiles file
	if err != nil {
		return nil, fmt.Errorf("read profiles file: %w", err)
	}

	var pf ProfileFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse profiles file: %w", err)
	}

	return &pf, nil
}

// DefaultProfilesPath returns the default profiles file path
// (~/.gradlemirror/profiles.yaml).
func DefaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gradlemirror", "profiles.yaml")
}

// ProfileFromEnv returns the profile name from the GRADLEMIRROR_PROFILE
// environment variable.
func ProfileFromEnv() string {
	return os.Getenv("GRADLEMIRROR_PROFILE")
}

// ProfilesPathFromEnv returns the profiles file path from the
// GRADLEMIRROR_PROFILES environment variable.
func ProfilesPathFromEnv() string {
	return os.Getenv("GRADLEMIRROR_PROFILES")
}

// S3ConfigFromProfile creates an s3store.Config from a Profile.
func S3ConfigFromProfile(p *Profile) s3store.Config {
	if p == nil {
		return s3store.Config{}
	}
	return s3store.Config{
		Endpoint:     p.Endpoint,
		Region:       p.Region,
		Bucket:       p.Bucket,
		AccessKey:    p.AccessKey,
		SecretKey:    p.SecretKey,
		UsePathStyle: p.UsePathStyle,
	}
}
