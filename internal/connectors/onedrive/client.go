// Package onedrive implements the OneDrive / SharePoint source
// enumerator against the Microsoft Graph REST API. Shared URLs are
// resolved through the shares endpoint; listing follows @odata.nextLink
// pagination and reads use ranged content downloads.
package onedrive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/ftransport/ftransport/internal/core/domain"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

// Client is a thin Microsoft Graph client scoped to drive operations.
type Client struct {
	http *http.Client
	base string
}

// NewClient creates a Graph client authenticated by the token source.
func NewClient(ctx context.Context, ts oauth2.TokenSource) *Client {
	return &Client{http: oauth2.NewClient(ctx, ts), base: graphBaseURL}
}

// NewClientWithBase creates a client against a non-default endpoint.
// Used by tests to point at a local server.
func NewClientWithBase(httpClient *http.Client, base string) *Client {
	return &Client{http: httpClient, base: base}
}

// getJSON performs a GET and decodes the JSON response. url may be
// absolute (an @odata.nextLink) or relative to the Graph base.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.absolute(url), http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return wrapStatus(resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// getRange performs a ranged content GET and returns up to length bytes.
// Reading past end of file returns nil without error.
func (c *Client) getRange(ctx context.Context, url string, offset, length int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.absolute(url), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", offset, offset+length-1))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusPartialContent:
	case http.StatusRequestedRangeNotSatisfiable:
		return nil, nil
	default:
		return nil, wrapStatus(resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, length))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

func (c *Client) absolute(url string) string {
	if len(url) > 0 && url[0] == '/' {
		return c.base + url
	}
	return url
}

// wrapStatus maps a Graph response status onto the engine's failure
// vocabulary.
func wrapStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: graph returned %d", domain.ErrPermissionDenied, status)
	case status == http.StatusNotFound || status == http.StatusGone:
		return fmt.Errorf("%w: graph returned %d", domain.ErrNotFound, status)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: graph returned %d", domain.ErrRateLimited, status)
	case status >= 500:
		return fmt.Errorf("%w: graph returned %d", domain.ErrUnavailable, status)
	default:
		return fmt.Errorf("graph returned unexpected status %d", status)
	}
}
