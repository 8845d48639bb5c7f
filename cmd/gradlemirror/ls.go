package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gradlemirror/gradlemirror"
	"github.com/gradlemirror/gradlemirror/config"
)

var lsCmd = &cobra.Command{
	Use:   "ls [prefix]",
	Short: "List objects in the store",
	Long: `List every object in the store, optionally filtered by key prefix.

Examples:
  gradlemirror ls
  gradlemirror ls gradle/
  gradlemirror ls --json assets/`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

var lsJSON bool

func init() {
	lsCmd.Flags().BoolVar(&lsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {
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

	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}

	objects, err := store.ListAll(ctx, prefix)
	if err != nil {
		return fmt.Errorf("list %q: %w", prefix, err)
	}

	if lsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(objects)
	}

	if len(objects) == 0 {
		fmt.Println("No objects found")
		return nil
	}

	maxKeyLen := 3 // "KEY"
	for i := range objects {
		if len(objects[i].Key) > maxKeyLen {
			maxKeyLen = len(objects[i].Key)
		}
	}
	if maxKeyLen > 60 {
		maxKeyLen = 60
	}

	fmt.Printf("%-*s  %10s  %s\n", maxKeyLen, "KEY", "SIZE", "MODIFIED")
	fmt.Printf("%s  %s  %s\n", strings.Repeat("-", maxKeyLen), strings.Repeat("-", 10), strings.Repeat("-", 19))

	var total int64
	for i := range objects {
		obj := &objects[i]
		key := obj.Key
		if len(key) > maxKeyLen {
			key = key[:maxKeyLen-3] + "..."
		}
		fmt.Printf("%-*s  %10s  %s\n",
			maxKeyLen,
			key,
			gradlemirror.FormatSize(obj.Size),
			obj.LastModified.Format("2006-01-02 15:04:05"),
		)
		total += obj.Size
	}

	fmt.Printf("\n%d object(s) (%s total)\n", len(objects), gradlemirror.FormatSize(total))
	return nil
}
