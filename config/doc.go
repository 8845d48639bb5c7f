// Package config provides configuration loading and validation for the
// mirror.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (GRADLEMIRROR_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with GRADLEMIRROR_ prefix:
//   - server.addr → GRADLEMIRROR_SERVER_ADDR
//   - store.backend → GRADLEMIRROR_STORE_BACKEND
//   - log.level → GRADLEMIRROR_LOG_LEVEL
//
// # Configuration Structure
//
// The Config struct contains:
//   - Server: public listen address and optional admin listener address
//   - Store: backend selection (s3/fs/memory) plus backend settings
//   - Mirror: version feed URL, release channels, and sync concurrency
//   - Cleanup: key prefixes a cleanup pass must never delete
//   - CORS: cross-origin resource sharing settings
//   - Log: logging level and format
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Store backend must be s3, fs, or memory
//   - Store path is required for the fs backend
//   - Log level must be debug, info, warn, or error
//   - Log format must be text or json
//
// # Credential Profiles
//
// The write-side commands resolve their target bucket through named
// profiles in a separate YAML file (~/.gradlemirror/profiles.yaml by
// default), managed by the configure command. See ProfileFile.
package config
