package tui

import (
	"time"

	"storyreel/status"
)

// Messages for the tea program (polling-based)

// SubmittedMsg is sent once the demo storyboard has been accepted.
type SubmittedMsg struct {
	TaskID string
	Err    error
}

// StatusUpdateMsg is sent when we receive a task snapshot from the server.
type StatusUpdateMsg struct {
	Status *status.TaskStatus
	Err    error
}

// TickMsg is sent periodically to trigger polling.
type TickMsg struct {
	Time time.Time
}
