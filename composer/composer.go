// Package composer renders frame overlays through the external HTML
// template renderer. For image frames the rendered result is the final
// visual (background and text baked together); for video frames it is a
// transparent overlay layer composited onto the video later.
package composer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Client talks to the frame renderer service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a renderer client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 2 * time.Minute},
	}
}

// RenderRequest describes one composition call.
type RenderRequest struct {
	Template string            `json:"template"`
	Title    string            `json:"title"`
	Text     string            `json:"text"`
	Media    string            `json:"media,omitempty"` // visual base: image or video path
	Ext      map[string]string `json:"ext,omitempty"`

	// OutputPath is where the composed image lands locally; not sent.
	OutputPath string `json:"-"`
}

// Render composes one frame and writes the resulting image to
// req.OutputPath. Returns the local path.
func (c *Client) Render(ctx context.Context, req RenderRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal render request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/compose", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build render request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "image/*")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("render request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("renderer returned %d: %s", resp.StatusCode, string(msg))
	}

	img, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read rendered image: %w", err)
	}
	if len(img) == 0 {
		return "", fmt.Errorf("renderer returned empty image")
	}

	if err := os.WriteFile(req.OutputPath, img, 0o644); err != nil {
		return "", fmt.Errorf("write composed image: %w", err)
	}
	return req.OutputPath, nil
}
