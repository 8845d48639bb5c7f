package gradlemirror

import (
	"fmt"
	"net/url"
	"strings"
)

// SanitizePath validates and decodes a raw, still percent-encoded request
// path. It rejects the path when:
//   - percent-decoding fails (ErrMalformedPath)
//   - the decoded path contains a null byte (ErrUnsafePath)
//   - the decoded path contains a backslash (ErrUnsafePath)
//   - any "/"-delimited segment equals ".." (ErrUnsafePath)
//
// On success the decoded path is returned unchanged: repeated slashes are
// not collapsed, "." segments pass through, and no case-folding happens.
// Store keys are flat strings, never filesystem paths, so the traversal
// check stops at literal ".." segments; doubly-encoded sequences decode to
// their single-encoded form and are served as ordinary key bytes.
func SanitizePath(rawPath string) (string, error) {
	decoded, err := url.PathUnescape(rawPath)
	if err != nil {
		return "", fmt.Errorf("sanitize path %q: %w", rawPath, ErrMalformedPath)
	}

	if strings.ContainsRune(decoded, 0) {
		return "", fmt.Errorf("sanitize path %q: null byte: %w", rawPath, ErrUnsafePath)
	}

	if strings.ContainsRune(decoded, '\\') {
		return "", fmt.Errorf("sanitize path %q: backslash: %w", rawPath, ErrUnsafePath)
	}

	for _, segment := range strings.Split(decoded, "/") {
		if segment == ".." {
			return "", fmt.Errorf("sanitize path %q: traversal segment: %w", rawPath, ErrUnsafePath)
		}
	}

	return decoded, nil
}
