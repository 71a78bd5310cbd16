// Package music talks to the song metadata service backing the iPod and
// Karaoke apps. The service is best effort: every call has a timeout and
// degrades to a cached or empty result instead of holding a stream open.
package music

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/syamace/syaos/internal/log"
)

// Track is one library entry.
type Track struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Cover  string `json:"cover,omitempty"`
}

// Client is the HTTP client for the music service.
//
// Endpoints:
//
//	GET {base}/tracks            → full library
//	GET {base}/tracks/{id}       → one track
//	GET {base}/tracks/{id}/lyrics → lyric lines
//	GET {base}/search?q=&max=    → search results
type Client struct {
	baseURL string
	http    *http.Client
	logger  log.Logger

	// lastLibrary caches the most recent successful library fetch so a
	// flaky upstream degrades to stale data rather than an empty list.
	mu          sync.RWMutex
	lastLibrary []Track
}

// NewClient creates a music service client. The http.Client's timeout
// bounds every call; callers additionally pass a request context.
func NewClient(baseURL string, httpClient *http.Client, logger log.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient, logger: logger}
}

// Tracks returns the library. On upstream failure it falls back to the
// last successful fetch, and only errors when no data was ever retrieved.
func (c *Client) Tracks(ctx context.Context) ([]Track, error) {
	var tracks []Track
	err := c.getJSON(ctx, c.baseURL+"/tracks", &tracks)
	if err == nil {
		c.mu.Lock()
		c.lastLibrary = tracks
		c.mu.Unlock()
		return tracks, nil
	}

	c.mu.RLock()
	cached := c.lastLibrary
	c.mu.RUnlock()
	if cached != nil {
		c.logger.Warn("music library fetch failed, serving cached copy",
			"error", err, "cached", len(cached))
		return cached, nil
	}
	return nil, fmt.Errorf("fetching music library: %w", err)
}

// Lookup resolves one track by ID.
func (c *Client) Lookup(ctx context.Context, id string) (Track, error) {
	var t Track
	if err := c.getJSON(ctx, c.baseURL+"/tracks/"+url.PathEscape(id), &t); err != nil {
		return Track{}, fmt.Errorf("looking up track %q: %w", id, err)
	}
	return t, nil
}

// Lyrics returns the lyric lines for a track. Best effort: failures
// return an empty slice and no error.
func (c *Client) Lyrics(ctx context.Context, id string) []string {
	var lines []string
	target := c.baseURL + "/tracks/" + url.PathEscape(id) + "/lyrics"
	if err := c.getJSON(ctx, target, &lines); err != nil {
		c.logger.Debug("lyrics unavailable", "track", id, "error", err)
		return nil
	}
	return lines
}

// Search queries the song search endpoint.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Track, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("max", strconv.Itoa(maxResults))

	var tracks []Track
	if err := c.getJSON(ctx, c.baseURL+"/search?"+q.Encode(), &tracks); err != nil {
		return nil, fmt.Errorf("searching songs for %q: %w", query, err)
	}
	return tracks, nil
}

// getJSON performs a GET and decodes a 2xx JSON body into out.
func (c *Client) getJSON(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, target)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", target, err)
	}
	return nil
}
