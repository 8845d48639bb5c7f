package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gradlemirror/gradlemirror"
)

// Cleaner removes objects a deploy left behind.
type Cleaner struct {
	store gradlemirror.WriteStore
}

// NewCleaner creates a Cleaner deleting through store.
func NewCleaner(store gradlemirror.WriteStore) *Cleaner {
	return &Cleaner{store: store}
}

// CleanupReport lists what a pass removed and what it left alone. Under
// dry run, Deleted holds the removal candidates instead.
type CleanupReport struct {
	Deleted   []string
	Kept      []string
	Preserved []string
}

// Clean deletes every object whose key is neither in keep nor under one of
// the preserved prefixes. With dryRun, candidates are reported but nothing
// is deleted.
func (c *Cleaner) Clean(ctx context.Context, keep, preservePrefixes []string, dryRun bool) (*CleanupReport, error) {
	objects, err := c.store.ListAll(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list store: %w", err)
	}

	keepSet := make(map[string]bool, len(keep))
	for _, k := range keep {
		keepSet[k] = true
	}

	report := &CleanupReport{}
	for _, obj := range objects {
		if underAny(obj.Key, preservePrefixes) {
			report.Preserved = append(report.Preserved, obj.Key)
			continue
		}
		if keepSet[obj.Key] {
			report.Kept = append(report.Kept, obj.Key)
			continue
		}

		if dryRun {
			slog.Info("would delete", "key", obj.Key)
			report.Deleted = append(report.Deleted, obj.Key)
			continue
		}

		if err := c.store.Delete(ctx, obj.Key); err != nil {
			return report, fmt.Errorf("delete %s: %w", obj.Key, err)
		}
		slog.Info("deleted stale object", "key", obj.Key)
		report.Deleted = append(report.Deleted, obj.Key)
	}

	return report, nil
}

func underAny(key string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}
