package gradlemirror

import "strings"

// Cache-Control values by route class. Listings outlive files because the
// mirrored tree only ever grows; assets carry content hashes in their names
// and can be cached forever.
const (
	CacheControlShell   = "public, max-age=300"
	CacheControlAsset   = "public, max-age=31536000, immutable"
	CacheControlFile    = "public, max-age=86400"
	CacheControlListing = "public, max-age=604800"
)

// CacheControlFor returns the Cache-Control value for a route outcome.
// Redirects carry none.
func CacheControlFor(kind RouteKind) string {
	switch kind {
	case RouteShell:
		return CacheControlShell
	case RouteAsset:
		return CacheControlAsset
	case RouteFile:
		return CacheControlFile
	case RouteListing:
		return CacheControlListing
	case RouteRedirect:
		return ""
	default:
		return ""
	}
}

// contentTypes is the full set of extensions the mirror serves with a
// specific MIME type. Everything else is opaque binary. The table is fixed
// rather than read from the host's mime registry so responses do not vary
// across deployment environments.
var contentTypes = map[string]string{
	"html": "text/html; charset=utf-8",
	"css":  "text/css; charset=utf-8",
	"js":   "application/javascript; charset=utf-8",
	"json": "application/json; charset=utf-8",
	"svg":  "image/svg+xml",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"ico":  "image/x-icon",
	"zip":  "application/zip",
	"gz":   "application/gzip",
	"tar":  "application/x-tar",
	"pdf":  "application/pdf",
	"txt":  "text/plain; charset=utf-8",
	"xml":  "application/xml; charset=utf-8",
}

// DefaultContentType is served for unknown or missing extensions.
const DefaultContentType = "application/octet-stream"

// ContentTypeFor returns the MIME type for a key or path based on its final
// extension, falling back to DefaultContentType.
func ContentTypeFor(p string) string {
	dot := strings.LastIndexByte(p, '.')
	if dot < 0 || dot == len(p)-1 {
		return DefaultContentType
	}

	ext := strings.ToLower(p[dot+1:])
	if strings.ContainsRune(ext, '/') {
		// Dot belongs to an earlier segment, e.g. /v1.2/download
		return DefaultContentType
	}

	if ct, ok := contentTypes[ext]; ok {
		return ct
	}

	return DefaultContentType
}

// IsHTML reports whether a content type carries an HTML body and therefore
// needs the content security policy header.
func IsHTML(contentType string) bool {
	return strings.HasPrefix(contentType, "text/html")
}
