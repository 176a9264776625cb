package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"storyreel/status"
	"storyreel/types"
)

// RenderClient is a thin HTTP client for the render API.
type RenderClient struct {
	baseURL string
	client  *http.Client
}

// NewRenderClient creates a new render API client.
func NewRenderClient(baseURL string) *RenderClient {
	return &RenderClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Submit posts a render job and returns the assigned task id.
func (c *RenderClient) Submit(job *types.RenderJob) (string, error) {
	body, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to encode job: %w", err)
	}

	resp, err := c.client.Post(c.baseURL+"/api/storyboards", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to submit storyboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("server returned %d: %s", resp.StatusCode, string(msg))
	}

	var accepted struct {
		TaskID string `json:"task_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&accepted); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return accepted.TaskID, nil
}

// GetTask fetches the current task snapshot.
func (c *RenderClient) GetTask(taskID string) (*status.TaskStatus, error) {
	resp, err := c.client.Get(c.baseURL + "/api/tasks/" + taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var st status.TaskStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &st, nil
}

// SampleJob is the storyboard submitted by the demo.
func SampleJob() *types.RenderJob {
	return &types.RenderJob{
		Storyboard: types.Storyboard{
			Title: "Storyreel Demo",
			Frames: []types.StoryboardFrame{
				{Index: 0, Narration: "Welcome to the storyreel demo.", ImagePrompt: "a sunrise over a quiet harbor"},
				{Index: 1, Narration: "Each frame becomes its own video segment.", ImagePrompt: "timelapse clouds over a city skyline"},
				{Index: 2, Narration: "And the segments are stitched into one film.", ImagePrompt: "film reels on an editing desk"},
			},
		},
		Config: types.StoryboardConfig{
			TTSMode:       types.TTSModeLocal,
			MediaWorkflow: "flux",
			MediaWidth:    720,
			MediaHeight:   1280,
		},
	}
}
