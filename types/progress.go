package types

// Progress step actions, one per pipeline stage.
const (
	ActionAudio   = "audio"
	ActionMedia   = "media"
	ActionCompose = "compose"
	ActionVideo   = "video"
)

// ProgressEvent reports pipeline progress for one frame. Purely
// informational; the pipeline never depends on what the receiver does
// with it.
type ProgressEvent struct {
	EventType    string  `json:"event_type"`
	Progress     float64 `json:"progress"` // fraction in [0,1]
	FrameCurrent int     `json:"frame_current"`
	FrameTotal   int     `json:"frame_total"`
	Step         int     `json:"step"` // 1-4
	Action       string  `json:"action"`
}

// ProgressFunc receives progress events. A nil ProgressFunc is valid and
// means "don't report".
type ProgressFunc func(ProgressEvent)
