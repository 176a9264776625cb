package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// Artifact kinds stored per frame inside a task directory.
const (
	KindAudio    = "audio"
	KindImage    = "image"
	KindVideo    = "video"
	KindComposed = "composed"
	KindSegment  = "segment"
)

// extensions maps artifact kinds to file extensions.
var extensions = map[string]string{
	KindAudio:    ".mp3",
	KindImage:    ".png",
	KindVideo:    ".mp4",
	KindComposed: ".png",
	KindSegment:  ".mp4",
}

// baseDir returns the root output directory. Overridable via OUTPUT_DIR.
func baseDir() string {
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		return v
	}
	return "output"
}

// TaskDir returns the output directory for one task, creating it if needed.
func TaskDir(taskID string) (string, error) {
	dir := filepath.Join(baseDir(), taskID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create task dir: %w", err)
	}
	return dir, nil
}

// FramePath returns the deterministic artifact path for (task, frame, kind).
// Paths are collision-free per frame, so concurrent frames of the same task
// never write to each other's files.
func FramePath(taskID string, frameIndex int, kind string) (string, error) {
	ext, ok := extensions[kind]
	if !ok {
		return "", fmt.Errorf("unknown artifact kind: %q", kind)
	}
	dir, err := TaskDir(taskID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("frame_%03d_%s%s", frameIndex, kind, ext)), nil
}

// FinalPath returns the path of the concatenated storyboard video for a task.
func FinalPath(taskID string) (string, error) {
	dir, err := TaskDir(taskID)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "final.mp4"), nil
}
