package gradlemirror

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ShellKey is the store key of the shell document served for the site's
// client-routed entry points.
const ShellKey = "index.html"

// mirrorPrefix marks distribution content; dotted paths containing it are
// downloads, not build assets.
const mirrorPrefix = "/gradle/"

// RouteKind enumerates the five outcomes of route classification.
type RouteKind string

const (
	RouteShell    RouteKind = "shell"
	RouteAsset    RouteKind = "asset"
	RouteFile     RouteKind = "file"
	RouteRedirect RouteKind = "redirect"
	RouteListing  RouteKind = "listing"
)

// Route is the outcome of classifying one sanitized request path.
// Which field is meaningful depends on Kind: Key for shell, asset and file
// routes, Location for redirects, Prefix for listings.
type Route struct {
	Kind     RouteKind
	Key      string
	Location string
	Prefix   string
}

// assetPattern matches paths ending in a dotted extension: a letter then
// any alphanumerics after a final dot. A digit-led suffix is a version
// number ("/gradle/7.6"), not an extension, and must reach the file probe.
// Intentionally naive otherwise; trailing-slash paths never match.
var assetPattern = regexp.MustCompile(`\.[a-zA-Z][a-zA-Z0-9]*$`)

// ObjectKeyFor derives the store key for a path by stripping a single
// leading separator. Keys never begin with "/".
func ObjectKeyFor(path string) string {
	return strings.TrimPrefix(path, "/")
}

// ResolveRoute classifies a sanitized path into a Route, probing the store
// at most once. Precedence, first match wins:
//  1. "/" and "/index.html" resolve to the shell document.
//  2. A dotted-extension path outside the gradle/ area is a build asset.
//     Existence is checked at response time; a miss stays a hard 404 and
//     never falls back to the shell.
//  3. A path with neither a trailing slash nor an extension is ambiguous:
//     probe it as a file key, and on a miss redirect to the directory form.
//  4. A trailing-slash path lists the matching prefix.
//  5. Anything left (dotted paths under gradle/) is a direct file lookup.
func ResolveRoute(ctx context.Context, store Store, path string) (Route, error) {
	if path == "/" || path == "/"+ShellKey {
		return Route{Kind: RouteShell, Key: ShellKey}, nil
	}

	hasExt := assetPattern.MatchString(path)

	if hasExt && !strings.Contains(path, mirrorPrefix) {
		return Route{Kind: RouteAsset, Key: ObjectKeyFor(path)}, nil
	}

	if !strings.HasSuffix(path, "/") && !hasExt {
		key := ObjectKeyFor(path)

		_, err := store.Head(ctx, key)
		switch {
		case err == nil:
			return Route{Kind: RouteFile, Key: key}, nil
		case errors.Is(err, ErrNotFound):
			return Route{Kind: RouteRedirect, Location: path + "/"}, nil
		default:
			return Route{}, fmt.Errorf("resolve route %s: %w", path, err)
		}
	}

	if strings.HasSuffix(path, "/") {
		return Route{Kind: RouteListing, Prefix: ObjectKeyFor(path)}, nil
	}

	return Route{Kind: RouteFile, Key: ObjectKeyFor(path)}, nil
}
