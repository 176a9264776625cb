package types

// Media types a frame can carry.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// TTS inference modes. An empty mode means TTS is disabled for the job.
const (
	TTSModeLocal   = "local"
	TTSModeComfyUI = "comfyui"
)

// StoryboardFrame is one narration unit of a storyboard. The frame pipeline
// owns it during processing and fills in paths as each step completes; once
// returned it should be treated as read-only.
type StoryboardFrame struct {
	Index     int    `json:"index"`
	Narration string `json:"narration"`

	// ImagePrompt describes the desired visual. Its presence signals that
	// media generation is required for this frame.
	ImagePrompt string `json:"image_prompt,omitempty"`

	// AudioPath may be pre-supplied to reuse existing narration audio.
	AudioPath string `json:"audio_path,omitempty"`

	// Duration in seconds, derived from whichever of audio/video exists.
	Duration float64 `json:"duration,omitempty"`

	// ImagePath/VideoPath may be pre-set by an asset-based caller to bypass
	// generation entirely.
	ImagePath string `json:"image_path,omitempty"`
	VideoPath string `json:"video_path,omitempty"`

	// MediaType is "image", "video" or empty when the frame has no media.
	MediaType string `json:"media_type,omitempty"`

	ComposedImagePath string `json:"composed_image_path,omitempty"`

	// VideoSegmentPath is the terminal output of the pipeline for this frame.
	VideoSegmentPath string `json:"video_segment_path,omitempty"`
}

// HasExistingMedia reports whether media was pre-supplied for the frame.
func (f *StoryboardFrame) HasExistingMedia() bool {
	return f.ImagePath != "" || f.VideoPath != ""
}

// Storyboard is an ordered sequence of frames plus presentation context.
// Read-only from the pipeline's perspective.
type Storyboard struct {
	Title           string            `json:"title"`
	Frames          []StoryboardFrame `json:"frames"`
	ContentMetadata map[string]string `json:"content_metadata,omitempty"`
}

// StoryboardConfig holds per-job generation settings. Immutable for the
// duration of a job.
type StoryboardConfig struct {
	// TTSMode selects the TTS backend ("local" or "comfyui"). Empty disables
	// audio synthesis entirely.
	TTSMode     string  `json:"tts_mode,omitempty"`
	VoiceID     string  `json:"voice_id,omitempty"`
	TTSSpeed    float64 `json:"tts_speed,omitempty"`
	TTSWorkflow string  `json:"tts_workflow,omitempty"`
	RefAudio    string  `json:"ref_audio,omitempty"`

	// MediaWorkflow selects the generation workflow. Names containing
	// "video_" or "i2v_" produce video, everything else an image.
	MediaWorkflow string `json:"media_workflow,omitempty"`
	MediaWidth    int    `json:"media_width,omitempty"`
	MediaHeight   int    `json:"media_height,omitempty"`

	// SourceImageURL is required for image-to-video ("i2v_") workflows.
	SourceImageURL string `json:"source_image_url,omitempty"`

	// FrameTemplate selects the composition template. Empty skips
	// composition and raw media passes through untouched.
	FrameTemplate  string            `json:"frame_template,omitempty"`
	TemplateParams map[string]string `json:"template_params,omitempty"`

	VideoFPS int `json:"video_fps,omitempty"`

	// TaskID namespaces all output paths for the job.
	TaskID string `json:"task_id"`
}

// MediaGenerationResult is what the generation service returns for one
// media request. Duration is only present for generated video.
type MediaGenerationResult struct {
	MediaType string  `json:"media_type"`
	URL       string  `json:"url"`
	Duration  float64 `json:"duration,omitempty"`
}

// IsImage reports whether the result carries an image.
func (r *MediaGenerationResult) IsImage() bool { return r.MediaType == MediaTypeImage }

// IsVideo reports whether the result carries a video.
func (r *MediaGenerationResult) IsVideo() bool { return r.MediaType == MediaTypeVideo }
