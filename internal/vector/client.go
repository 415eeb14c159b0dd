// Package vector provides a thin REST client for a Qdrant collection.
//
// All operations fail closed: transport and protocol errors are logged and
// reported as empty or false results. Callers must treat an empty result as
// "no data", never as a guaranteed absence of matches.
package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Payload carried with every stored vector.
type Payload map[string]any

// Hit is a single ranked search result.
type Hit struct {
	ID      uint64  `json:"id"`
	Score   float32 `json:"score"`
	Payload Payload `json:"payload"`
}

// Point is a stored vector record as returned by scroll.
type Point struct {
	ID      uint64  `json:"id"`
	Payload Payload `json:"payload"`
}

// Client talks to a single Qdrant collection over its REST API.
// It is stateless aside from configuration and safe for concurrent use.
type Client struct {
	baseURL    string
	collection string
	size       int
	client     *http.Client
	logger     *slog.Logger
}

// NewClient creates a Qdrant client for the given collection.
// size is the vector dimension used when the collection is created.
func NewClient(baseURL, collection string, size int, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    baseURL,
		collection: collection,
		size:       size,
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Collection returns the configured collection name.
func (c *Client) Collection() string { return c.collection }

// EnsureCollection creates the collection with cosine distance if it does not
// exist. A "collection already exists" conflict counts as success.
func (c *Client) EnsureCollection(ctx context.Context) bool {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     c.size,
			"distance": "Cosine",
		},
	}

	status, _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s", c.collection), body)
	if err != nil {
		c.logger.Error("qdrant create collection failed", "collection", c.collection, "error", err)
		return false
	}
	if status == http.StatusConflict {
		c.logger.Info("qdrant collection already exists", "collection", c.collection)
		return true
	}
	if status >= 300 {
		c.logger.Error("qdrant create collection rejected", "collection", c.collection, "status", status)
		return false
	}

	c.logger.Info("qdrant collection ready", "collection", c.collection, "size", c.size)
	return true
}

// Upsert stores a vector with its payload. The string id is narrowed to a
// numeric point id via PointID; see that function for the collision caveat.
func (c *Client) Upsert(ctx context.Context, id string, vec []float32, payload Payload) bool {
	body := map[string]any{
		"points": []map[string]any{
			{
				"id":      PointID(id),
				"vector":  vec,
				"payload": payload,
			},
		},
	}

	path := fmt.Sprintf("/collections/%s/points", c.collection)
	status, respBody, err := c.do(ctx, http.MethodPut, path, body)
	if err != nil {
		c.logger.Error("qdrant upsert failed", "id", id, "error", err)
		return false
	}
	if status >= 300 {
		c.logger.Error("qdrant upsert rejected", "id", id, "status", status, "body", string(respBody))
		return false
	}
	return true
}

// Search returns up to limit hits ranked by cosine similarity.
// Returns an empty slice on any failure.
func (c *Client) Search(ctx context.Context, vec []float32, limit int) []Hit {
	body := map[string]any{
		"vector":       vec,
		"limit":        limit,
		"with_payload": true,
		"with_vector":  false,
	}

	path := fmt.Sprintf("/collections/%s/points/search", c.collection)
	status, respBody, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		c.logger.Error("qdrant search failed", "error", err)
		return nil
	}
	if status >= 300 {
		c.logger.Error("qdrant search rejected", "status", status, "body", string(respBody))
		return nil
	}

	var parsed struct {
		Result []Hit `json:"result"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		c.logger.Error("qdrant search response malformed", "error", err)
		return nil
	}
	return parsed.Result
}

// ScrollAll pages through stored points without vectors, up to limit.
// Returns an empty slice on any failure.
func (c *Client) ScrollAll(ctx context.Context, limit int) []Point {
	body := map[string]any{
		"limit":        limit,
		"with_payload": true,
		"with_vector":  false,
	}

	path := fmt.Sprintf("/collections/%s/points/scroll", c.collection)
	status, respBody, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		c.logger.Error("qdrant scroll failed", "error", err)
		return nil
	}
	if status >= 300 {
		c.logger.Error("qdrant scroll rejected", "status", status, "body", string(respBody))
		return nil
	}

	var parsed struct {
		Result struct {
			Points []Point `json:"points"`
		} `json:"result"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		c.logger.Error("qdrant scroll response malformed", "error", err)
		return nil
	}
	return parsed.Result.Points
}

// Clear deletes every point in the collection.
func (c *Client) Clear(ctx context.Context) bool {
	body := map[string]any{
		"filter": map[string]any{},
	}

	path := fmt.Sprintf("/collections/%s/points/delete", c.collection)
	status, respBody, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		c.logger.Error("qdrant clear failed", "error", err)
		return false
	}
	if status >= 300 {
		c.logger.Error("qdrant clear rejected", "status", status, "body", string(respBody))
		return false
	}

	c.logger.Info("qdrant collection cleared", "collection", c.collection)
	return true
}

// Info returns the raw collection info, or nil if the store is unreachable.
func (c *Client) Info(ctx context.Context) map[string]any {
	path := fmt.Sprintf("/collections/%s", c.collection)
	status, respBody, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil || status >= 300 {
		c.logger.Warn("qdrant collection info unavailable", "status", status, "error", err)
		return nil
	}

	var parsed map[string]any
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil
	}
	return parsed
}

// do executes one JSON request and returns status and body.
func (c *Client) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}
