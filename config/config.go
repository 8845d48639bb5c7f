package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	mirrorhttp "github.com/gradlemirror/gradlemirror/http"
	"github.com/gradlemirror/gradlemirror/mirror"
	"github.com/gradlemirror/gradlemirror/s3store"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for the mirror.
type Config struct {
	Server  ServerConfig          `mapstructure:"server"`
	Store   StoreConfig           `mapstructure:"store"`
	Mirror  mirror.Config         `mapstructure:"mirror"`
	Cleanup CleanupConfig         `mapstructure:"cleanup"`
	CORS    mirrorhttp.CORSConfig `mapstructure:"cors"`
	Log     LogConfig             `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration. An empty AdminAddr disables
// the admin listener (metrics and health).
type ServerConfig struct {
	Addr      string `mapstructure:"addr" validate:"required"`
	AdminAddr string `mapstructure:"admin_addr"`
}

// StoreConfig selects and configures the object store backend.
type StoreConfig struct {
	Backend string         `mapstructure:"backend" validate:"required,oneof=s3 fs memory"`
	Path    string         `mapstructure:"path" validate:"required_if=Backend fs"`
	S3      s3store.Config `mapstructure:"s3"`
}

// CleanupConfig holds the key prefixes every cleanup pass must leave alone.
type CleanupConfig struct {
	PreservePrefixes []string `mapstructure:"preserve_prefixes"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=text json"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"addr":       "server.addr",
	"admin-addr": "server.admin_addr",
	"store":      "store.backend",
	"store-path": "store.path",
	"bucket":     "store.s3.bucket",
	"endpoint":   "store.s3.endpoint",
	"log-level":  "log.level",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.admin_addr", ":9090")

	v.SetDefault("store.backend", "fs")
	v.SetDefault("store.path", "./data")
	v.SetDefault("store.s3.region", "us-east-1")

	v.SetDefault("mirror.versions_url", "https://services.gradle.org/versions/all")
	v.SetDefault("mirror.channels", []string{"stable"})
	v.SetDefault("mirror.concurrency", 4)

	v.SetDefault("cleanup.preserve_prefixes", []string{"gradle/"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("GRADLEMIRROR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
