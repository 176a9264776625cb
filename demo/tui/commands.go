package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// submitSample creates a command that submits the demo storyboard.
func submitSample(client *RenderClient) tea.Cmd {
	return func() tea.Msg {
		taskID, err := client.Submit(SampleJob())
		return SubmittedMsg{TaskID: taskID, Err: err}
	}
}

// pollTask creates a command to fetch the task snapshot.
func pollTask(client *RenderClient, taskID string) tea.Cmd {
	return func() tea.Msg {
		st, err := client.GetTask(taskID)
		return StatusUpdateMsg{Status: st, Err: err}
	}
}

// tickCmd creates a command that ticks every 500ms for polling.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
