package types

import "fmt"

// RenderJob is one end-to-end render request: a storyboard, its generation
// settings and optional publish targets. Jobs arrive over HTTP, Kafka or
// from batch files and all funnel into the same runner.
type RenderJob struct {
	// TaskID is assigned by the server when empty.
	TaskID     string           `json:"task_id,omitempty"`
	Storyboard Storyboard       `json:"storyboard"`
	Config     StoryboardConfig `json:"config"`
	Publish    *PublishOptions  `json:"publish,omitempty"`
}

// PublishOptions selects where the finished video goes beyond local disk.
type PublishOptions struct {
	// S3Key uploads the final video to the configured bucket under this key.
	S3Key string `json:"s3_key,omitempty"`

	// YouTube publishes the final video when credentials are configured.
	YouTube     bool     `json:"youtube,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Validate checks the job for the problems that make it unrunnable.
func (j *RenderJob) Validate() error {
	if len(j.Storyboard.Frames) == 0 {
		return fmt.Errorf("storyboard has no frames")
	}
	for i, f := range j.Storyboard.Frames {
		if f.Narration == "" && f.ImagePrompt == "" && !f.HasExistingMedia() {
			return fmt.Errorf("frame %d has no narration, prompt or media", i)
		}
	}
	return nil
}
