package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gradlemirror/gradlemirror/config"
)

var version = "dev"

var (
	cfgFiles    []string
	profileName string
)

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "gradlemirror",
	Short:   "Gradle distribution mirror server and tooling",
	Long: `Gradlemirror serves a read-only mirror of Gradle distribution
archives from an object store, and ships the tooling that keeps the
mirror stocked: syncing releases from the upstream feed, deploying the
landing site and sweeping stale keys.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFiles, cmd.Flags())
		if err != nil {
			return err
		}
		setupLogging(cfg.Log)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&cfgFiles, "config", nil, "config file paths (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("addr", "", "listen address (default: :8080, env: GRADLEMIRROR_SERVER_ADDR)")
	rootCmd.PersistentFlags().String("admin-addr", "", "admin listener for metrics and health (default: :9090, env: GRADLEMIRROR_SERVER_ADMIN_ADDR)")
	rootCmd.PersistentFlags().String("store", "", "store backend: s3, fs, memory (default: fs, env: GRADLEMIRROR_STORE_BACKEND)")
	rootCmd.PersistentFlags().String("store-path", "", "fs backend directory (default: ./data, env: GRADLEMIRROR_STORE_PATH)")
	rootCmd.PersistentFlags().String("bucket", "", "s3 bucket name (env: GRADLEMIRROR_STORE_S3_BUCKET)")
	rootCmd.PersistentFlags().String("endpoint", "", "s3 endpoint for S3-compatible stores (env: GRADLEMIRROR_STORE_S3_ENDPOINT)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: GRADLEMIRROR_LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "credential profile for the s3 backend (env: GRADLEMIRROR_PROFILE)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
