package gradlemirror_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gradlemirror/gradlemirror"
)

func TestBuildListing(t *testing.T) {
	modTime := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

	t.Run("splits prefixes and objects into direct children", func(t *testing.T) {
		res := gradlemirror.ListResult{
			CommonPrefixes: []string{"gradle/7.6/wrapper/"},
			Objects: []gradlemirror.ObjectInfo{
				{Key: "gradle/7.6/gradle-7.6-bin.zip", Size: 120741325, LastModified: modTime},
			},
		}

		listing := gradlemirror.BuildListing("/gradle/7.6/", "gradle/7.6/", res)

		assert.Equal(t, []string{"wrapper"}, listing.Dirs)
		assert.Len(t, listing.Files, 1)
		assert.Equal(t, "gradle-7.6-bin.zip", listing.Files[0].Name)
		assert.Equal(t, int64(120741325), listing.Files[0].Size)
		assert.Equal(t, modTime, listing.Files[0].ModTime)
	})

	t.Run("drops the directory marker object", func(t *testing.T) {
		res := gradlemirror.ListResult{
			Objects: []gradlemirror.ObjectInfo{
				{Key: "gradle/7.6/", Size: 0},
				{Key: "gradle/7.6/notes.txt", Size: 5},
			},
		}

		listing := gradlemirror.BuildListing("/gradle/7.6/", "gradle/7.6/", res)

		assert.Len(t, listing.Files, 1)
		assert.Equal(t, "notes.txt", listing.Files[0].Name)
	})

	t.Run("drops grandchildren that leak past the delimiter", func(t *testing.T) {
		res := gradlemirror.ListResult{
			Objects: []gradlemirror.ObjectInfo{
				{Key: "gradle/7.6/wrapper/wrapper.jar", Size: 7},
				{Key: "gradle/7.6/notes.txt", Size: 5},
			},
		}

		listing := gradlemirror.BuildListing("/gradle/7.6/", "gradle/7.6/", res)

		assert.Equal(t, []string(nil), listing.Dirs)
		assert.Len(t, listing.Files, 1)
		assert.Equal(t, "notes.txt", listing.Files[0].Name)
	})

	t.Run("sorts both sequences descending case-insensitively", func(t *testing.T) {
		res := gradlemirror.ListResult{
			CommonPrefixes: []string{"d/alpha/", "d/Zulu/", "d/mike/"},
			Objects: []gradlemirror.ObjectInfo{
				{Key: "d/apple.txt"},
				{Key: "d/Banana.txt"},
				{Key: "d/cherry.txt"},
			},
		}

		listing := gradlemirror.BuildListing("/d/", "d/", res)

		assert.Equal(t, []string{"Zulu", "mike", "alpha"}, listing.Dirs)

		names := make([]string, 0, len(listing.Files))
		for _, f := range listing.Files {
			names = append(names, f.Name)
		}
		assert.Equal(t, []string{"cherry.txt", "Banana.txt", "apple.txt"}, names)
	})

	t.Run("root listing keeps full names", func(t *testing.T) {
		res := gradlemirror.ListResult{
			CommonPrefixes: []string{"gradle/", "assets/"},
			Objects: []gradlemirror.ObjectInfo{
				{Key: "index.html", Size: 4096},
			},
		}

		listing := gradlemirror.BuildListing("/", "", res)

		assert.Equal(t, "/", listing.Path)
		assert.False(t, listing.HasParent())
		assert.Equal(t, []string{"gradle", "assets"}, listing.Dirs)
		assert.Equal(t, "index.html", listing.Files[0].Name)
	})
}
