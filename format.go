package gradlemirror

import (
	"fmt"
	"time"
)

// listingTimeLayout renders a date and minute with no timezone suffix; the
// store's timestamps are UTC and the listing shows them as-is.
const listingTimeLayout = "2006-01-02 15:04"

// FormatSize formats bytes as a human-readable size with binary units.
// Units above bytes get one decimal place; zero renders as "0 B".
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.1f TB", float64(bytes)/TB)
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatTime formats a timestamp for display in directory listings.
func FormatTime(t time.Time) string {
	return t.UTC().Format(listingTimeLayout)
}
