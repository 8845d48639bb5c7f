package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gradlemirror/gradlemirror/config"
	"github.com/gradlemirror/gradlemirror/mirror"
)

var deployCmd = &cobra.Command{
	Use:   "deploy <dir>",
	Short: "Upload a site build directory to the store",
	Long: `Upload every file under a local build directory to its relative
key in the store.

The shell page gets a short cache lifetime so edits propagate quickly;
hashed assets are cached immutably. Keys left over from previous deploys
are removed separately with 'gradlemirror cleanup'.

Examples:
  gradlemirror deploy ./site
  gradlemirror deploy --profile prod ./dist`,
	Args: cobra.ExactArgs(1),
	RunE: runDeploy,
}

func init() {
	rootCmd.AddCommand(deployCmd)
}

func runDeploy(cmd *cobra.Command, args []string) error {
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

	deployer := mirror.NewDeployer(store)
	manifest, err := deployer.Deploy(ctx, args[0])
	if err != nil {
		return fmt.Errorf("deploy %s: %w", args[0], err)
	}

	slog.Info("deploy complete", "files", len(manifest))
	return nil
}
