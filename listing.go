package gradlemirror

import (
	"sort"
	"strings"
)

// BuildListing assembles the one-level directory view for a prefix from a
// raw prefix-delimited listing result.
//
// Directory names come from the common prefixes with the queried prefix and
// trailing separator stripped. File entries come from the object keys with
// the queried prefix stripped; the directory marker object (remainder empty)
// and anything from a deeper level (remainder containing "/") are dropped.
// Both sequences are sorted case-insensitively from Z to A.
func BuildListing(displayPath, prefix string, res ListResult) DirectoryListing {
	listing := DirectoryListing{Path: displayPath}

	for _, cp := range res.CommonPrefixes {
		name := strings.TrimSuffix(strings.TrimPrefix(cp, prefix), "/")
		if name == "" {
			continue
		}
		listing.Dirs = append(listing.Dirs, name)
	}

	for _, obj := range res.Objects {
		name := strings.TrimPrefix(obj.Key, prefix)
		if name == "" {
			// Directory marker object for the prefix itself
			continue
		}
		if strings.Contains(name, "/") {
			continue
		}
		listing.Files = append(listing.Files, FileEntry{
			Name:    name,
			Size:    obj.Size,
			ModTime: obj.LastModified,
		})
	}

	sort.Slice(listing.Dirs, func(i, j int) bool {
		return strings.ToLower(listing.Dirs[i]) > strings.ToLower(listing.Dirs[j])
	})
	sort.Slice(listing.Files, func(i, j int) bool {
		return strings.ToLower(listing.Files[i].Name) > strings.ToLower(listing.Files[j].Name)
	})

	return listing
}
