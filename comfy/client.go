// Package comfy is the HTTP client for the generation service that fronts
// the ComfyUI workflow runners (TTS and image/video generation). The
// service owns model execution; this client only shapes requests and lands
// results on disk.
package comfy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"storyreel/types"
)

// Client talks to a generation service instance.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the service at baseURL. Generation can be
// slow (video workflows run for minutes), hence the generous timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
}

// TTSRequest carries one speech synthesis call.
type TTSRequest struct {
	Text     string  `json:"text"`
	Mode     string  `json:"inference_mode"`
	Voice    string  `json:"voice,omitempty"`
	Speed    float64 `json:"speed,omitempty"`
	Workflow string  `json:"workflow,omitempty"`
	RefAudio string  `json:"ref_audio,omitempty"`
	Index    int     `json:"index"` // 1-based, for workflow templating

	// OutputPath is where the synthesized audio is written locally; it is
	// not sent to the service.
	OutputPath string `json:"-"`
}

// MediaRequest carries one media generation call.
type MediaRequest struct {
	Prompt    string `json:"prompt"`
	Workflow  string `json:"workflow,omitempty"` // empty = service default
	MediaType string `json:"media_type"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Index     int    `json:"index"` // 1-based

	// Duration asks video workflows for a specific output length so the
	// visuals match already-synthesized narration.
	Duration float64 `json:"duration,omitempty"`

	// ImageURL is the source still for image-to-video workflows.
	ImageURL string `json:"image_url,omitempty"`
}

// Synthesize runs TTS for the request and writes the returned audio to
// req.OutputPath. Returns the local path of the audio file.
func (c *Client) Synthesize(ctx context.Context, req TTSRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal tts request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tts", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build tts request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "audio/*")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("tts service returned %d: %s", resp.StatusCode, string(msg))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read tts response: %w", err)
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("tts service returned empty audio")
	}

	if err := os.WriteFile(req.OutputPath, audio, 0o644); err != nil {
		return "", fmt.Errorf("write audio file: %w", err)
	}
	return req.OutputPath, nil
}

// GenerateMedia runs an image or video workflow and returns the remote
// result descriptor. The caller is responsible for downloading the asset.
func (c *Client) GenerateMedia(ctx context.Context, req MediaRequest) (*types.MediaGenerationResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal media request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/media", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build media request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("media request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("media service returned %d: %s", resp.StatusCode, string(msg))
	}

	var result types.MediaGenerationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode media response: %w", err)
	}
	if result.URL == "" {
		return nil, fmt.Errorf("media service returned no asset URL")
	}
	return &result, nil
}
