package gradlemirror

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidKey reports whether key may be written to the store. A valid key:
//   - is not empty, ".", or "/"
//   - is relative and does not end with "/"
//   - contains no ".." and no "." segments
//   - contains no empty segments ("//")
//   - contains none of \ ? # ~ (a "?" or "#" never reaches the path router)
//   - is valid UTF-8 with no control characters and no whitespace
//
// SanitizePath accepts more than this so that stores written by other
// tools keep serving; ValidKey bounds only the keys this module mints.
func ValidKey(key string) bool {
	if key == "" || key == "/" || key == "." {
		return false
	}

	if key[0] == '/' || strings.HasSuffix(key, "/") {
		return false
	}

	if strings.Contains(key, "..") || strings.Contains(key, "//") {
		return false
	}

	if strings.ContainsAny(key, `\?#~`) {
		return false
	}

	if !utf8.ValidString(key) {
		return false
	}

	if strings.HasPrefix(key, "./") || strings.Contains(key, "/./") || strings.HasSuffix(key, "/.") {
		return false
	}

	for _, r := range key {
		if r < 0x20 || r == 0x7f || unicode.IsSpace(r) {
			return false
		}
	}

	return true
}
