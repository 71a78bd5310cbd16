// Package applets talks to the shared applet catalog behind the
// /Applets Store namespace. The catalog is an external multi-tenant
// service; calls are bounded by the client timeout and surface as
// structured tool errors, never as hung streams.
package applets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/syamace/syaos/internal/log"
)

// SharedApplet is one catalog record.
type SharedApplet struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Name      string    `json:"name"`
	Creator   string    `json:"creator,omitempty"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Client is the HTTP client for the applet catalog.
//
// Endpoints:
//
//	GET {base}          → full shared catalog
//	GET {base}/{id}     → one applet's display metadata
type Client struct {
	baseURL string
	http    *http.Client
	logger  log.Logger
}

// NewClient creates a catalog client.
func NewClient(baseURL string, httpClient *http.Client, logger log.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient, logger: logger}
}

// List fetches the full shared catalog. Filtering and ranking happen in
// the VFS router, not here.
func (c *Client) List(ctx context.Context) ([]SharedApplet, error) {
	var out []SharedApplet
	if err := c.getJSON(ctx, c.baseURL, &out); err != nil {
		return nil, fmt.Errorf("fetching applet catalog: %w", err)
	}
	return out, nil
}

// Get fetches display metadata for one shared applet.
func (c *Client) Get(ctx context.Context, id string) (*SharedApplet, error) {
	var out SharedApplet
	if err := c.getJSON(ctx, c.baseURL+"/"+url.PathEscape(id), &out); err != nil {
		return nil, fmt.Errorf("fetching applet %q: %w", id, err)
	}
	return &out, nil
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
