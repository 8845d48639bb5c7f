package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gradlemirror/gradlemirror/config"
	"github.com/gradlemirror/gradlemirror/mirror"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup <dir>",
	Short: "Remove store keys absent from a deploy directory",
	Long: `Sweep the store for keys left behind by previous deploys.

Every key that is not present in the given build directory and not under
a preserved prefix (default: gradle/) is deleted. Run with --dry-run
first to see what would go.

Examples:
  gradlemirror cleanup --dry-run ./site
  gradlemirror cleanup ./site`,
	Args: cobra.ExactArgs(1),
	RunE: runCleanup,
}

var cleanupDryRun bool

func init() {
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "report what would be deleted without deleting")
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	keep, err := mirror.Manifest(args[0])
	if err != nil {
		return fmt.Errorf("read deploy directory %s: %w", args[0], err)
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	cleaner := mirror.NewCleaner(store)
	report, err := cleaner.Clean(ctx, keep, cfg.Cleanup.PreservePrefixes, cleanupDryRun)
	if err != nil {
		return fmt.Errorf("cleanup: %w", err)
	}

	if cleanupDryRun {
		slog.Info("cleanup dry run complete",
			"candidates", len(report.Deleted),
			"kept", len(report.Kept),
			"preserved", len(report.Preserved),
		)
		return nil
	}

	slog.Info("cleanup complete",
		"deleted", len(report.Deleted),
		"kept", len(report.Kept),
		"preserved", len(report.Preserved),
	)
	return nil
}
