package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
)

const userAgent = "gradlemirror/1.0"

// Version is one entry of the Gradle services version feed.
type Version struct {
	Version     string `json:"version"`
	DownloadURL string `json:"downloadUrl"`
	ChecksumURL string `json:"checksumUrl"`
	Snapshot    bool   `json:"snapshot"`
	Nightly     bool   `json:"nightly"`
	RCFor       string `json:"rcFor"`
	Broken      bool   `json:"broken"`
}

// Channel classifies a feed entry as nightly, rc, snapshot or stable.
func (v Version) Channel() string {
	switch {
	case v.Nightly:
		return "nightly"
	case v.RCFor != "":
		return "rc"
	case v.Snapshot:
		return "snapshot"
	default:
		return "stable"
	}
}

// ArchiveName returns the file name of the distribution archive, taken
// from the download URL.
func (v Version) ArchiveName() string {
	u, err := url.Parse(v.DownloadURL)
	if err != nil {
		return ""
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// VersionClient fetches the Gradle services version feed.
type VersionClient struct {
	url        string
	httpClient *http.Client
}

// NewVersionClient creates a client for the feed at feedURL. A nil
// httpClient falls back to http.DefaultClient.
func NewVersionClient(feedURL string, httpClient *http.Client) *VersionClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &VersionClient{url: feedURL, httpClient: httpClient}
}

// All returns every entry of the feed.
func (c *VersionClient) All(ctx context.Context) ([]Version, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating feed request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching version feed: %w", err)
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("version feed returned status %d", resp.StatusCode)
	}

	var versions []Version
	if err := json.NewDecoder(resp.Body).Decode(&versions); err != nil {
		return nil, fmt.Errorf("decoding version feed: %w", err)
	}

	return versions, nil
}

// Select fetches the feed and filters it to the given channels and,
// when non-empty, exact version strings.
func (c *VersionClient) Select(ctx context.Context, channels, versions []string) ([]Version, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(all, channels, versions), nil
}

// Filter returns the entries matching one of the channels, skipping broken
// releases and entries without a download URL. A non-empty versions list
// narrows the result to those exact version strings.
func Filter(entries []Version, channels, versions []string) []Version {
	wantChannel := make(map[string]bool, len(channels))
	for _, ch := range channels {
		wantChannel[ch] = true
	}
	wantVersion := make(map[string]bool, len(versions))
	for _, v := range versions {
		wantVersion[v] = true
	}

	var out []Version
	for _, e := range entries {
		if e.Broken || e.DownloadURL == "" {
			continue
		}
		if !wantChannel[e.Channel()] {
			continue
		}
		if len(wantVersion) > 0 && !wantVersion[e.Version] {
			continue
		}
		out = append(out, e)
	}
	return out
}
