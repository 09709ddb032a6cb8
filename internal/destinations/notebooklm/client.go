// Package notebooklm implements the knowledge sink against the
// NotebookLM Enterprise REST API. Staged transfers register their
// landing-zone Drive files as notebook sources here.
package notebooklm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ftransport/ftransport/internal/core/domain"
	"github.com/ftransport/ftransport/internal/core/ports/driven"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://notebooklm.googleapis.com/v1"

// Ensure Client implements the port.
var _ driven.KnowledgeSink = (*Client)(nil)

// Client talks to the NotebookLM API.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// New creates a client. httpClient may carry OAuth credentials; apiKey
// is sent alongside for key-scoped deployments and may be empty.
func New(httpClient *http.Client, baseURL, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{http: httpClient, baseURL: baseURL, apiKey: apiKey}
}

type notebook struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type source struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DriveFileID string `json:"drive_file_id"`
}

// CreateNotebook creates the destination notebook and returns its id.
func (c *Client) CreateNotebook(ctx context.Context, name string) (string, error) {
	var out notebook
	err := c.post(ctx, "/notebooks", map[string]string{"title": name}, &out)
	if err != nil {
		return "", fmt.Errorf("create notebook %q: %w", name, err)
	}
	return out.ID, nil
}

// AddSource registers one staged Drive file as a notebook source.
func (c *Client) AddSource(ctx context.Context, notebookID, name, entryID string) (string, error) {
	var out source
	err := c.post(ctx, "/notebooks/"+notebookID+"/sources", map[string]string{
		"name":          name,
		"drive_file_id": entryID,
	}, &out)
	if err != nil {
		return "", fmt.Errorf("add source %q: %w", name, err)
	}
	return out.ID, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Goog-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return wrapStatus(resp.StatusCode, resp.Body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func wrapStatus(status int, body io.Reader) error {
	msg, _ := io.ReadAll(io.LimitReader(body, 512))
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: api returned %d: %s", domain.ErrPermissionDenied, status, msg)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: api returned %d: %s", domain.ErrNotFound, status, msg)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: api returned %d", domain.ErrRateLimited, status)
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
		// The API rejects source types it cannot ingest; retrying will not
		// change that.
		return domain.Permanent(fmt.Errorf("api rejected request with %d: %s", status, msg))
	case status >= 500:
		return fmt.Errorf("%w: api returned %d", domain.ErrUnavailable, status)
	default:
		return fmt.Errorf("api returned unexpected status %d: %s", status, msg)
	}
}
