// Package runner drives whole render tasks: it fans storyboard frames out
// to the pipeline, aggregates their progress into the task store, stitches
// the finished segments together and hands the result to the configured
// publish targets.
package runner

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"storyreel/config"
	"storyreel/paths"
	"storyreel/status"
	"storyreel/storage"
	"storyreel/types"
)

// FrameProcessor renders one frame. Implemented by pipeline.Processor.
type FrameProcessor interface {
	Process(ctx context.Context, frame *types.StoryboardFrame, storyboard *types.Storyboard, cfg *types.StoryboardConfig, totalFrames int, onProgress types.ProgressFunc) (*types.StoryboardFrame, error)
}

// Concatenator joins finished segments. Implemented by video.Service.
type Concatenator interface {
	ConcatSegments(segments []string, output string) (string, error)
}

// Uploader pushes the final video to object storage. Implemented by storage.S3.
type Uploader interface {
	UploadFile(ctx context.Context, key, localPath string) (string, error)
}

// VideoPublisher publishes the final video. Implemented by storage.Publisher.
type VideoPublisher interface {
	Publish(videoPath string, metadata storage.VideoMetadata) (string, error)
}

// Runner executes render jobs end to end.
type Runner struct {
	proc      FrameProcessor
	concat    Concatenator
	store     status.Store
	uploader  Uploader       // nil disables S3 upload
	publisher VideoPublisher // nil disables YouTube publish
}

// New wires a Runner. uploader and publisher may be nil; the matching
// publish options are then skipped with a log line.
func New(proc FrameProcessor, concat Concatenator, store status.Store, uploader Uploader, publisher VideoPublisher) *Runner {
	return &Runner{
		proc:      proc,
		concat:    concat,
		store:     store,
		uploader:  uploader,
		publisher: publisher,
	}
}

// Run renders one job. The job's TaskID is assigned if empty, so callers
// can read it back after Run returns (or before, when dispatching async).
func (r *Runner) Run(ctx context.Context, job *types.RenderJob) error {
	if err := job.Validate(); err != nil {
		return err
	}

	if job.TaskID == "" {
		job.TaskID = uuid.New().String()
	}
	job.Config.TaskID = job.TaskID
	if job.Config.VideoFPS == 0 {
		job.Config.VideoFPS = config.DefaultFPS
	}
	job.Config.MediaWorkflow = config.ResolveWorkflow(job.Config.MediaWorkflow)

	frames := job.Storyboard.Frames
	total := len(frames)
	log.Printf("Task %s: rendering %d frames", job.TaskID, total)

	track := newProgressTracker(job.TaskID, total, r.store)
	track.setState(ctx, status.StateProcessing, "render started")

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, config.MaxConcurrentFrames)

	errs := make([]error, total)
	for i := range frames {
		wg.Add(1)

		go func(idx int) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			_, err := r.proc.Process(ctx, &frames[idx], &job.Storyboard, &job.Config, total, func(e types.ProgressEvent) {
				track.frameProgress(ctx, idx, e.Progress)
			})
			if err != nil {
				log.Printf("Task %s: frame %d failed: %v", job.TaskID, idx, err)
				errs[idx] = err
				return
			}
			track.frameDone(ctx, idx)
		}(i)
	}
	wg.Wait()

	for idx, err := range errs {
		if err != nil {
			track.fail(ctx, fmt.Errorf("frame %d: %w", idx, err))
			return errs[idx]
		}
	}

	segments := make([]string, total)
	for i, f := range frames {
		if f.VideoSegmentPath == "" {
			err := fmt.Errorf("frame %d produced no segment", i)
			track.fail(ctx, err)
			return err
		}
		segments[i] = f.VideoSegmentPath
	}

	finalPath, err := paths.FinalPath(job.TaskID)
	if err != nil {
		track.fail(ctx, err)
		return err
	}
	if _, err := r.concat.ConcatSegments(segments, finalPath); err != nil {
		err = fmt.Errorf("concat segments: %w", err)
		track.fail(ctx, err)
		return err
	}
	log.Printf("Task %s: final video at %s", job.TaskID, finalPath)

	publishedID, err := r.publish(ctx, job, finalPath, track)
	if err != nil {
		track.fail(ctx, err)
		return err
	}

	track.complete(ctx, finalPath, publishedID)
	return nil
}

// publish handles the optional S3 and YouTube targets.
func (r *Runner) publish(ctx context.Context, job *types.RenderJob, finalPath string, track *progressTracker) (string, error) {
	if job.Publish == nil {
		return "", nil
	}

	if job.Publish.S3Key != "" {
		if r.uploader == nil {
			log.Printf("Task %s: S3 not configured; skipping upload", job.TaskID)
		} else {
			key, err := r.uploader.UploadFile(ctx, job.Publish.S3Key, finalPath)
			if err != nil {
				return "", fmt.Errorf("s3 upload: %w", err)
			}
			track.log(ctx, "uploaded to s3: "+key)
		}
	}

	if job.Publish.YouTube {
		if r.publisher == nil {
			log.Printf("Task %s: YouTube not configured; skipping publish", job.TaskID)
			return "", nil
		}
		id, err := r.publisher.Publish(finalPath, storage.BuildMetadata(job))
		if err != nil {
			return "", fmt.Errorf("youtube publish: %w", err)
		}
		track.log(ctx, "published video "+id)
		return id, nil
	}

	return "", nil
}

// progressTracker folds concurrent per-frame progress into one task
// snapshot. Overall progress is the mean of per-frame fractions, so three
// frames at 0.5 read as a task at 0.5.
type progressTracker struct {
	mu       sync.Mutex
	snapshot status.TaskStatus
	fracs    []float64
	store    status.Store
}

func newProgressTracker(taskID string, total int, store status.Store) *progressTracker {
	return &progressTracker{
		snapshot: status.TaskStatus{
			TaskID:     taskID,
			State:      status.StateQueued,
			FrameTotal: total,
		},
		fracs: make([]float64, total),
		store: store,
	}
}

func (t *progressTracker) push(ctx context.Context) {
	if err := t.store.Set(ctx, t.snapshot); err != nil {
		log.Printf("Task %s: status update failed: %v", t.snapshot.TaskID, err)
	}
}

func (t *progressTracker) setState(ctx context.Context, state, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snapshot.State = state
	t.snapshot.AppendLog(message)
	t.push(ctx)
}

func (t *progressTracker) log(ctx context.Context, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snapshot.AppendLog(message)
	t.push(ctx)
}

func (t *progressTracker) frameProgress(ctx context.Context, idx int, frac float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	// A completed frame never regresses.
	if frac > t.fracs[idx] {
		t.fracs[idx] = frac
	}
	t.recalc()
	t.push(ctx)
}

func (t *progressTracker) frameDone(ctx context.Context, idx int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fracs[idx] = 1.0
	t.snapshot.FramesDone++
	t.snapshot.AppendLog(fmt.Sprintf("frame %d done", idx))
	t.recalc()
	t.push(ctx)
}

func (t *progressTracker) recalc() {
	sum := 0.0
	for _, f := range t.fracs {
		sum += f
	}
	t.snapshot.Progress = sum / float64(len(t.fracs))
}

func (t *progressTracker) fail(ctx context.Context, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snapshot.State = status.StateFailed
	t.snapshot.Error = err.Error()
	t.snapshot.AppendLog("task failed: " + err.Error())
	t.push(ctx)
}

func (t *progressTracker) complete(ctx context.Context, outputPath, publishedID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snapshot.State = status.StateCompleted
	t.snapshot.Progress = 1.0
	t.snapshot.OutputPath = outputPath
	t.snapshot.PublishedID = publishedID
	t.snapshot.AppendLog("render complete")
	t.push(ctx)
}
