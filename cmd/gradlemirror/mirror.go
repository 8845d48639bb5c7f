package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gradlemirror/gradlemirror/config"
	"github.com/gradlemirror/gradlemirror/mirror"
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Sync Gradle distributions from the upstream feed",
	Long: `Fetch the Gradle version feed, select the configured release
channels and mirror any missing distribution archives into the store.

Archives are verified against their published SHA-256 checksum before
upload. Versions already in the store with a matching size are skipped,
so repeated runs only transfer what changed.

Examples:
  # Mirror the configured channels (default: stable)
  gradlemirror mirror

  # Mirror specific versions; --only filters within the selected
  # channels, so add --channel for rc or nightly versions
  gradlemirror mirror --only 8.5,8.6
  gradlemirror mirror --channel stable,rc --only 8.6-rc-1`,
	RunE: runMirror,
}

var (
	mirrorOnly     []string
	mirrorChannels []string
)

func init() {
	mirrorCmd.Flags().StringSliceVar(&mirrorOnly, "only", nil, "mirror only these exact versions")
	mirrorCmd.Flags().StringSliceVar(&mirrorChannels, "channel", nil, "release channels to mirror (overrides config)")
	rootCmd.AddCommand(mirrorCmd)
}

func runMirror(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	channels := cfg.Mirror.Channels
	if len(mirrorChannels) > 0 {
		channels = mirrorChannels
	}

	client := mirror.NewVersionClient(cfg.Mirror.VersionsURL, nil)
	selected, err := client.Select(ctx, channels, mirrorOnly)
	if err != nil {
		return fmt.Errorf("select versions: %w", err)
	}

	if len(selected) == 0 {
		slog.Info("no versions match", "channels", channels)
		return nil
	}

	slog.Info("starting mirror pass", "versions", len(selected), "concurrency", cfg.Mirror.Concurrency)

	syncer := mirror.NewSyncer(store, cfg.Mirror, nil)
	report, err := syncer.Sync(ctx, selected)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	slog.Info("mirror pass complete",
		"uploaded", len(report.Uploaded),
		"skipped", len(report.Skipped),
		"failed", len(report.Failed),
	)

	if len(report.Failed) > 0 {
		for _, f := range report.Failed {
			slog.Error("version failed", "version", f.Version, "err", f.Err)
		}
		return fmt.Errorf("%d of %d versions failed", len(report.Failed), len(selected))
	}

	return nil
}
