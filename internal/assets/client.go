// Package assets talks to the external asset store that holds post and
// profile images. Only URLs are persisted locally; the store itself is an
// external collaborator.
package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient returns a client for the asset store at baseURL. A nil client is
// returned when baseURL is empty, which disables image handling.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		return nil
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Enabled reports whether an asset store is configured.
func (c *Client) Enabled() bool { return c != nil }

// Upload stores the image bytes under a fresh object key and returns the
// public URL the store serves it from.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	key := uuid.NewString()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("multipart form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("copy content: %w", err)
	}
	if err := mw.WriteField("key", key); err != nil {
		return "", fmt.Errorf("write key field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("asset store error: status %d", resp.StatusCode)
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("unmarshal: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("asset store returned no url")
	}
	return out.URL, nil
}

// Delete removes the asset behind the given URL. Best effort: failures are
// logged by DeleteQuietly callers, never propagated to clients.
func (c *Client) Delete(ctx context.Context, assetURL string) error {
	key := objectKey(assetURL)
	if key == "" {
		return fmt.Errorf("no object key in %q", assetURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/objects/"+key, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("asset store error: status %d", resp.StatusCode)
	}
	return nil
}

// DeleteQuietly deletes the asset and logs on failure. Use for cleanup paths
// where the request must succeed regardless.
func (c *Client) DeleteQuietly(ctx context.Context, assetURL string) {
	if !c.Enabled() || assetURL == "" {
		return
	}
	if err := c.Delete(ctx, assetURL); err != nil {
		slog.Warn("asset cleanup failed", "url", assetURL, "error", err)
	}
}

// objectKey extracts the object key from a stored asset URL: the last path
// segment without its extension.
func objectKey(assetURL string) string {
	i := strings.LastIndex(assetURL, "/")
	if i < 0 || i == len(assetURL)-1 {
		return ""
	}
	key := assetURL[i+1:]
	if j := strings.LastIndex(key, "."); j > 0 {
		key = key[:j]
	}
	return key
}
