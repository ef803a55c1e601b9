/*
 * file: client.go
 * package: directory
 * description:
 *     HTTPClient is the room actor's view of the directory: a thin RPC
 *     client over the endpoints handlers.go exposes. Calls are meant to be
 *     fired from a goroutine by the caller (§5: "fire-and-forget
 *     permitted; failures are logged but do not rollback local state").
 */
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/juan10024/roomrelay/internal/core/domain"
)

// HTTPClient implements ports.DirectoryClient against a running directory
// actor's HTTP endpoints.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *HTTPClient) Upsert(ctx context.Context, entry domain.DirectoryEntry) error {
	body, err := json.Marshal(upsertRequest{
		Name:       entry.Name,
		Type:       entry.Type,
		SlotsUsed:  entry.SlotsUsed,
		SlotsTotal: entry.SlotsTotal,
	})
	if err != nil {
		return fmt.Errorf("directory client: encode upsert: %w", err)
	}
	return c.post(ctx, "/upsert", body)
}

func (c *HTTPClient) Remove(ctx context.Context, name string) error {
	body, err := json.Marshal(removeRequest{Name: name})
	if err != nil {
		return fmt.Errorf("directory client: encode remove: %w", err)
	}
	return c.post(ctx, "/remove", body)
}

// ListBin fetches the directory's already-encoded GameList snapshot frame,
// for the gateway to forward verbatim as its reply to a GameList query.
func (c *HTTPClient) ListBin(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/list.bin", nil)
	if err != nil {
		return nil, fmt.Errorf("directory client: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory client: /list.bin: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory client: /list.bin: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("directory client: /list.bin: read body: %w", err)
	}
	return body, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("directory client: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("directory client: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("directory client: %s: status %d", path, resp.StatusCode)
	}
	return nil
}
