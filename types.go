package gradlemirror

import (
	"io"
	"time"
)

// ObjectInfo describes a stored object without its body.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// Object couples an object's metadata with its open body stream.
// The caller owns Body and must close it.
type Object struct {
	ObjectInfo
	Body io.ReadCloser
}

// ListQuery selects one level of the store's keyspace. With Delimiter set
// to "/" the result groups deeper keys into common prefixes, which is the
// only shape the request pipeline uses.
type ListQuery struct {
	Prefix    string
	Delimiter string
}

// ListResult is the raw outcome of a prefix-delimited listing call.
type ListResult struct {
	CommonPrefixes []string
	Objects        []ObjectInfo
}

// PutOptions carries per-object settings for WriteStore.Put.
type PutOptions struct {
	ContentType   string
	ContentLength int64
	CacheControl  string
}

// FileEntry describes a direct child object in a directory listing.
type FileEntry struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// DirectoryListing is the one-level view rendered for a directory request.
// Dirs and Files are each ordered case-insensitively from Z to A.
type DirectoryListing struct {
	Path  string // display path, always begins and ends with "/"
	Dirs  []string
	Files []FileEntry
}

// HasParent reports whether the listing should link to a parent directory.
func (l DirectoryListing) HasParent() bool {
	return l.Path != "/"
}
