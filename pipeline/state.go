package pipeline

import (
	"errors"
	"fmt"
)

// FrameState tracks how far a frame has advanced through the pipeline.
// Each step owns exactly one transition; a failed step moves the frame to
// StateFailed and processing stops.
type FrameState int

const (
	StatePending FrameState = iota
	StateAudioReady
	StateMediaReady
	StateComposed
	StateAssembled
	StateFailed
)

func (s FrameState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAudioReady:
		return "audio_ready"
	case StateMediaReady:
		return "media_ready"
	case StateComposed:
		return "composed"
	case StateAssembled:
		return "assembled"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// ConfigError marks a misconfigured frame or job: an i2v workflow without
// a source image, an image frame with nothing to render, an unrecognized
// media kind. These are never retried and always carry the frame index.
type ConfigError struct {
	FrameIndex int
	Reason     string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("frame %d: %s", e.FrameIndex, e.Reason)
}

// IsConfigError reports whether err is (or wraps) a configuration error.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
