// Package pipeline renders one storyboard frame into a playable video
// segment. The four steps (audio, media, composition, assembly) run
// strictly in order because each feeds the next: audio duration drives
// video generation, media feeds composition, and both feed assembly.
// Frames share no state with each other, so a batch driver may run
// Process concurrently for distinct frames of the same task.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"storyreel/comfy"
	"storyreel/composer"
	"storyreel/config"
	"storyreel/paths"
	"storyreel/types"
	"storyreel/video"
)

// SpeechSynthesizer produces narration audio. Implemented by comfy.Client.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, req comfy.TTSRequest) (string, error)
}

// MediaGenerator produces images or video clips. Implemented by comfy.Client.
type MediaGenerator interface {
	GenerateMedia(ctx context.Context, req comfy.MediaRequest) (*types.MediaGenerationResult, error)
}

// FrameComposer renders template overlays. Implemented by composer.Client.
type FrameComposer interface {
	Render(ctx context.Context, req composer.RenderRequest) (string, error)
}

// MediaFetcher downloads generated assets. Implemented by fetch.Downloader.
type MediaFetcher interface {
	Fetch(ctx context.Context, url, dest string) (string, error)
}

// VideoToolkit covers the muxing primitives assembly needs. Implemented by
// video.Service.
type VideoToolkit interface {
	OverlayImageOnVideo(videoPath, overlayImage, output, scaleMode string) (string, error)
	MergeAudioVideo(videoPath, audioPath, output string, replaceAudio bool, audioVolume float64) (string, error)
	CreateVideoFromImage(imagePath, audioPath, output string, fps int, duration float64) (string, error)
}

// DurationProber estimates a media file's duration. Never fails.
type DurationProber func(path, mediaKind string) float64

// Processor drives the per-frame pipeline.
type Processor struct {
	tts      SpeechSynthesizer
	media    MediaGenerator
	composer FrameComposer
	fetcher  MediaFetcher
	video    VideoToolkit

	// Probe is swappable for tests; defaults to video.ProbeDuration.
	Probe DurationProber
}

// NewProcessor wires a Processor from its collaborators.
func NewProcessor(tts SpeechSynthesizer, media MediaGenerator, comp FrameComposer, fetcher MediaFetcher, toolkit VideoToolkit) *Processor {
	return &Processor{
		tts:      tts,
		media:    media,
		composer: comp,
		fetcher:  fetcher,
		video:    toolkit,
		Probe:    video.ProbeDuration,
	}
}

// Process runs one frame through the full pipeline, mutating it in place.
// On error the frame has no usable segment; nothing is retried here and
// the error is returned unmodified for the caller to act on.
func (p *Processor) Process(
	ctx context.Context,
	frame *types.StoryboardFrame,
	storyboard *types.Storyboard,
	cfg *types.StoryboardConfig,
	totalFrames int,
	onProgress types.ProgressFunc,
) (*types.StoryboardFrame, error) {
	log.Printf("Processing frame %d...", frame.Index)

	frameNum := frame.Index + 1
	state := StatePending

	hasExistingMedia := frame.HasExistingMedia()
	needsGeneration := frame.ImagePrompt != ""
	hasMediaStep := needsGeneration || hasExistingMedia

	emit := func(progress float64, step int, action string) {
		if onProgress == nil {
			return
		}
		// A broken progress receiver must never abort generation work.
		defer func() {
			if r := recover(); r != nil {
				log.Printf("progress callback panicked: %v", r)
			}
		}()
		onProgress(types.ProgressEvent{
			EventType:    "frame_step",
			Progress:     progress,
			FrameCurrent: frameNum,
			FrameTotal:   totalFrames,
			Step:         step,
			Action:       action,
		})
	}

	fail := func(err error) (*types.StoryboardFrame, error) {
		reached := state
		state = StateFailed
		log.Printf("Frame %d %s (reached %s): %v", frame.Index, state, reached, err)
		return frame, err
	}

	// Step 1: audio synthesis
	if frame.AudioPath == "" && cfg.TTSMode != "" {
		emit(0.0, 1, types.ActionAudio)
		if err := p.stepGenerateAudio(ctx, frame, cfg); err != nil {
			return fail(err)
		}
	} else if frame.AudioPath != "" {
		log.Printf("  1/4: Using existing audio: %s", frame.AudioPath)
		if frame.Duration == 0 {
			frame.Duration = p.Probe(frame.AudioPath, "audio")
		}
	} else {
		log.Printf("  1/4: Skipping TTS (no mode configured)")
	}
	state = StateAudioReady

	// Step 2: media generation
	if needsGeneration {
		emit(0.25, 2, types.ActionMedia)
		if err := p.stepGenerateMedia(ctx, frame, cfg); err != nil {
			return fail(err)
		}
	} else if hasExistingMedia {
		p.adoptExistingMedia(frame)
	} else {
		frame.ImagePath = ""
		frame.MediaType = ""
		log.Printf("  2/4: Skipped media generation (not requested)")
	}
	state = StateMediaReady

	// Step 3: composition
	if hasMediaStep {
		emit(0.50, 3, types.ActionCompose)
	} else {
		emit(0.33, 3, types.ActionCompose)
	}
	if err := p.stepComposeFrame(ctx, frame, storyboard, cfg); err != nil {
		return fail(err)
	}
	state = StateComposed

	// Step 4: segment assembly
	if hasMediaStep {
		emit(0.75, 4, types.ActionVideo)
	} else {
		emit(0.67, 4, types.ActionVideo)
	}
	if err := p.stepAssembleSegment(frame, cfg); err != nil {
		return fail(err)
	}
	state = StateAssembled

	log.Printf("Frame %d completed (%s): %s", frame.Index, state, frame.VideoSegmentPath)
	return frame, nil
}

// stepGenerateAudio synthesizes narration and records its duration. The
// audio duration is the frame's authoritative duration until a generated
// video supplies its own.
func (p *Processor) stepGenerateAudio(ctx context.Context, frame *types.StoryboardFrame, cfg *types.StoryboardConfig) error {
	log.Printf("  1/4: Generating audio for frame %d...", frame.Index)

	outputPath, err := paths.FramePath(cfg.TaskID, frame.Index, paths.KindAudio)
	if err != nil {
		return err
	}

	req := comfy.TTSRequest{
		Text:       frame.Narration,
		Mode:       cfg.TTSMode,
		OutputPath: outputPath,
		Index:      frame.Index + 1,
		Voice:      cfg.VoiceID,
		Speed:      cfg.TTSSpeed,
	}
	if cfg.TTSMode != types.TTSModeLocal {
		// workflow-based TTS additionally takes the workflow and a
		// reference voice sample
		req.Workflow = cfg.TTSWorkflow
		req.RefAudio = cfg.RefAudio
	}

	audioPath, err := p.tts.Synthesize(ctx, req)
	if err != nil {
		return fmt.Errorf("tts for frame %d: %w", frame.Index, err)
	}

	frame.AudioPath = audioPath
	frame.Duration = p.Probe(audioPath, "audio")

	log.Printf("  1/4: Audio generated: %s (%.2fs)", audioPath, frame.Duration)
	return nil
}

// stepGenerateMedia classifies the target media kind from the workflow
// name, invokes the generator and downloads the result.
func (p *Processor) stepGenerateMedia(ctx context.Context, frame *types.StoryboardFrame, cfg *types.StoryboardConfig) error {
	log.Printf("  2/4: Generating media for frame %d...", frame.Index)

	workflow := strings.ToLower(cfg.MediaWorkflow)
	isVideoWorkflow := strings.Contains(workflow, "video_") || strings.Contains(workflow, "i2v_")
	isI2V := strings.Contains(workflow, "i2v_")

	mediaType := types.MediaTypeImage
	if isVideoWorkflow {
		mediaType = types.MediaTypeVideo
	}

	req := comfy.MediaRequest{
		Prompt:    frame.ImagePrompt,
		Workflow:  cfg.MediaWorkflow,
		MediaType: mediaType,
		Width:     cfg.MediaWidth,
		Height:    cfg.MediaHeight,
		Index:     frame.Index + 1,
	}

	// Duration threading: a known narration duration becomes the target
	// video length, keeping audio and visuals in lock-step with no later
	// padding or trimming.
	if isVideoWorkflow && frame.Duration > 0 {
		req.Duration = frame.Duration
		log.Printf("  2/4: Target video duration %.2fs (from narration)", frame.Duration)
	}

	if isI2V {
		if cfg.SourceImageURL == "" {
			return &ConfigError{
				FrameIndex: frame.Index,
				Reason:     fmt.Sprintf("i2v workflow %q requires a source image URL", cfg.MediaWorkflow),
			}
		}
		req.ImageURL = cfg.SourceImageURL
	}

	result, err := p.media.GenerateMedia(ctx, req)
	if err != nil {
		return fmt.Errorf("media generation for frame %d: %w", frame.Index, err)
	}

	switch {
	case result.IsImage():
		dest, err := paths.FramePath(cfg.TaskID, frame.Index, paths.KindImage)
		if err != nil {
			return err
		}
		local, err := p.fetcher.Fetch(ctx, result.URL, dest)
		if err != nil {
			return fmt.Errorf("download image for frame %d: %w", frame.Index, err)
		}
		frame.ImagePath = local
		frame.MediaType = types.MediaTypeImage
		log.Printf("  2/4: Image generated: %s", local)

	case result.IsVideo():
		dest, err := paths.FramePath(cfg.TaskID, frame.Index, paths.KindVideo)
		if err != nil {
			return err
		}
		local, err := p.fetcher.Fetch(ctx, result.URL, dest)
		if err != nil {
			return fmt.Errorf("download video for frame %d: %w", frame.Index, err)
		}
		frame.VideoPath = local
		frame.MediaType = types.MediaTypeVideo
		// Video truth wins over the audio-derived duration once it exists.
		if result.Duration > 0 {
			frame.Duration = result.Duration
		} else {
			frame.Duration = p.Probe(local, "video")
		}
		log.Printf("  2/4: Video generated: %s (%.2fs)", local, frame.Duration)

	default:
		return &ConfigError{
			FrameIndex: frame.Index,
			Reason:     fmt.Sprintf("unknown media type %q from generator", result.MediaType),
		}
	}

	return nil
}

// adoptExistingMedia makes pre-supplied assets look exactly like generated
// ones for the rest of the pipeline.
func (p *Processor) adoptExistingMedia(frame *types.StoryboardFrame) {
	if frame.VideoPath != "" {
		frame.MediaType = types.MediaTypeVideo
		if frame.Duration == 0 {
			frame.Duration = p.Probe(frame.VideoPath, "video")
		}
		log.Printf("  2/4: Using existing video: %s", frame.VideoPath)
		return
	}
	frame.MediaType = types.MediaTypeImage
	log.Printf("  2/4: Using existing image: %s", frame.ImagePath)
}

// stepComposeFrame renders the template overlay, or passes raw media
// through when no template is configured.
func (p *Processor) stepComposeFrame(ctx context.Context, frame *types.StoryboardFrame, storyboard *types.Storyboard, cfg *types.StoryboardConfig) error {
	if cfg.FrameTemplate == "" {
		// No template: image frames use the raw image as their final
		// visual; video frames need no overlay placeholder at all.
		if frame.MediaType == types.MediaTypeImage && frame.ImagePath != "" {
			frame.ComposedImagePath = frame.ImagePath
		} else {
			frame.ComposedImagePath = ""
		}
		log.Printf("  3/4: Composition skipped (no template)")
		return nil
	}

	log.Printf("  3/4: Composing frame %d...", frame.Index)

	outputPath, err := paths.FramePath(cfg.TaskID, frame.Index, paths.KindComposed)
	if err != nil {
		return err
	}

	ext := map[string]string{"index": strconv.Itoa(frame.Index + 1)}
	if storyboard != nil {
		for k, v := range storyboard.ContentMetadata {
			ext[k] = v
		}
	}
	for k, v := range cfg.TemplateParams {
		ext[k] = v
	}

	// The visual base is the video for video frames, the image otherwise.
	mediaPath := frame.ImagePath
	if frame.MediaType == types.MediaTypeVideo {
		mediaPath = frame.VideoPath
	}

	title := ""
	if storyboard != nil {
		title = storyboard.Title
	}

	composed, err := p.composer.Render(ctx, composer.RenderRequest{
		Template:   cfg.FrameTemplate,
		Title:      title,
		Text:       frame.Narration,
		Media:      mediaPath,
		Ext:        ext,
		OutputPath: outputPath,
	})
	if err != nil {
		return fmt.Errorf("compose frame %d: %w", frame.Index, err)
	}

	frame.ComposedImagePath = composed
	log.Printf("  3/4: Frame composed: %s", composed)
	return nil
}

// stepAssembleSegment builds the final per-frame video from the visual
// track and the narration audio.
func (p *Processor) stepAssembleSegment(frame *types.StoryboardFrame, cfg *types.StoryboardConfig) error {
	log.Printf("  4/4: Creating video segment for frame %d...", frame.Index)

	outputPath, err := paths.FramePath(cfg.TaskID, frame.Index, paths.KindSegment)
	if err != nil {
		return err
	}

	switch frame.MediaType {
	case types.MediaTypeVideo:
		if frame.VideoPath == "" {
			return &ConfigError{FrameIndex: frame.Index, Reason: "video media type with no video path"}
		}
		if err := p.assembleVideoSegment(frame, outputPath, cfg); err != nil {
			return err
		}

	case types.MediaTypeImage, "":
		imageToUse := frame.ComposedImagePath
		if imageToUse == "" {
			imageToUse = frame.ImagePath
		}
		if imageToUse == "" {
			return &ConfigError{FrameIndex: frame.Index, Reason: "no image available for segment assembly"}
		}

		if frame.AudioPath != "" {
			// Duration implied by the audio track.
			if _, err := p.video.CreateVideoFromImage(imageToUse, frame.AudioPath, outputPath, cfg.VideoFPS, 0); err != nil {
				return fmt.Errorf("assemble frame %d: %w", frame.Index, err)
			}
		} else {
			duration := frame.Duration
			if duration == 0 {
				duration = config.DefaultSilentDuration
			}
			if _, err := p.video.CreateVideoFromImage(imageToUse, "", outputPath, cfg.VideoFPS, duration); err != nil {
				return fmt.Errorf("assemble frame %d: %w", frame.Index, err)
			}
		}

	default:
		return &ConfigError{FrameIndex: frame.Index, Reason: fmt.Sprintf("unknown media type %q", frame.MediaType)}
	}

	frame.VideoSegmentPath = outputPath
	log.Printf("  4/4: Video segment created: %s", outputPath)
	return nil
}

// assembleVideoSegment composites the overlay (if any) onto the source
// video, then replaces its audio with the narration or copies it through
// unchanged. The intermediate overlay file is removed on every exit path.
func (p *Processor) assembleVideoSegment(frame *types.StoryboardFrame, outputPath string, cfg *types.StoryboardConfig) error {
	videoToUse := frame.VideoPath

	if frame.ComposedImagePath != "" {
		base, err := paths.FramePath(cfg.TaskID, frame.Index, paths.KindVideo)
		if err != nil {
			return err
		}
		tmpOverlay := base + "_overlay.mp4"
		defer os.Remove(tmpOverlay)

		composited, err := p.video.OverlayImageOnVideo(frame.VideoPath, frame.ComposedImagePath, tmpOverlay, "contain")
		if err != nil {
			return fmt.Errorf("overlay for frame %d: %w", frame.Index, err)
		}
		videoToUse = composited
	}

	return p.finishVideoSegment(frame, videoToUse, outputPath)
}

func (p *Processor) finishVideoSegment(frame *types.StoryboardFrame, videoToUse, outputPath string) error {
	if frame.AudioPath != "" {
		// Narration replaces whatever audio the source video carried.
		if _, err := p.video.MergeAudioVideo(videoToUse, frame.AudioPath, outputPath, true, 1.0); err != nil {
			return fmt.Errorf("mux audio for frame %d: %w", frame.Index, err)
		}
		return nil
	}

	// No narration: pass the video through with its native audio intact.
	if err := video.CopyFile(videoToUse, outputPath); err != nil {
		return fmt.Errorf("copy segment for frame %d: %w", frame.Index, err)
	}
	return nil
}
