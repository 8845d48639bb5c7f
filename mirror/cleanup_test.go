package mirror_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradlemirror/gradlemirror"
	"github.com/gradlemirror/gradlemirror/memstore"
	"github.com/gradlemirror/gradlemirror/mirror"
)

func seedStore(t *testing.T, store gradlemirror.WriteStore, keys ...string) {
	t.Helper()
	for _, key := range keys {
		_, err := store.Put(context.Background(), key, strings.NewReader("content of "+key), gradlemirror.PutOptions{})
		require.NoError(t, err)
	}
}

func TestCleaner_Clean_DeletesStaleKeys(t *testing.T) {
	store := memstore.New()
	seedStore(t, store,
		"index.html",
		"old-bundle.js",
		"assets/legacy.css",
		"gradle/8.5/gradle-8.5-bin.zip",
	)

	cleaner := mirror.NewCleaner(store)

	report, err := cleaner.Clean(context.Background(), []string{"index.html"}, []string{"gradle/"}, false)

	require.NoError(t, err)
	assert.Equal(t, []string{"assets/legacy.css", "old-bundle.js"}, report.Deleted)
	assert.Equal(t, []string{"index.html"}, report.Kept)
	assert.Equal(t, []string{"gradle/8.5/gradle-8.5-bin.zip"}, report.Preserved)

	_, err = store.Head(context.Background(), "old-bundle.js")
	assert.ErrorIs(t, err, gradlemirror.ErrNotFound)
	_, err = store.Head(context.Background(), "assets/legacy.css")
	assert.ErrorIs(t, err, gradlemirror.ErrNotFound)

	_, err = store.Head(context.Background(), "index.html")
	assert.NoError(t, err)
	_, err = store.Head(context.Background(), "gradle/8.5/gradle-8.5-bin.zip")
	assert.NoError(t, err)
}

func TestCleaner_Clean_DryRunLeavesStoreUntouched(t *testing.T) {
	store := memstore.New()
	seedStore(t, store, "index.html", "old-bundle.js")

	cleaner := mirror.NewCleaner(store)

	report, err := cleaner.Clean(context.Background(), []string{"index.html"}, nil, true)

	require.NoError(t, err)
	assert.Equal(t, []string{"old-bundle.js"}, report.Deleted)

	_, err = store.Head(context.Background(), "old-bundle.js")
	assert.NoError(t, err, "dry run must not delete anything")
}

func TestCleaner_Clean_EmptyStore(t *testing.T) {
	store := memstore.New()
	cleaner := mirror.NewCleaner(store)

	report, err := cleaner.Clean(context.Background(), []string{"index.html"}, []string{"gradle/"}, false)

	require.NoError(t, err)
	assert.Empty(t, report.Deleted)
	assert.Empty(t, report.Kept)
	assert.Empty(t, report.Preserved)
}

func TestCleaner_Clean_MultiplePreservePrefixes(t *testing.T) {
	store := memstore.New()
	seedStore(t, store,
		"gradle/8.5/gradle-8.5-bin.zip",
		"docs/manual.html",
		"stale.txt",
	)

	cleaner := mirror.NewCleaner(store)

	report, err := cleaner.Clean(context.Background(), nil, []string{"gradle/", "docs/"}, false)

	require.NoError(t, err)
	assert.Equal(t, []string{"stale.txt"}, report.Deleted)
	assert.Equal(t, []string{"docs/manual.html", "gradle/8.5/gradle-8.5-bin.zip"}, report.Preserved)
	assert.Empty(t, report.Kept)
}
