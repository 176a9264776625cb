package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"storyreel/status"
)

// Update implements tea.Model interface.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case SubmittedMsg:
		return m.handleSubmitted(msg)
	case StatusUpdateMsg:
		return m.handleStatusUpdate(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKeyPress processes keyboard input.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r", "R":
		// Resubmit once the previous run has settled.
		if m.Phase == PhaseComplete || m.Phase == PhaseError {
			m.Phase = PhaseSubmitting
			m.TaskID = ""
			m.Status = nil
			m.Err = nil
			return m, submitSample(m.Client)
		}
	}
	return m, nil
}

// handleSubmitted processes the submit response.
func (m Model) handleSubmitted(msg SubmittedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Phase = PhaseError
		m.Err = msg.Err
		return m, nil
	}
	m.TaskID = msg.TaskID
	m.Phase = PhasePolling
	m.Connected = true
	return m, pollTask(m.Client, m.TaskID)
}

// handleStatusUpdate processes a polled task snapshot.
func (m Model) handleStatusUpdate(msg StatusUpdateMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// Transient poll failures only drop the connection indicator; the
		// next tick retries.
		m.Connected = false
		return m, nil
	}
	m.Connected = true
	m.Status = msg.Status

	switch msg.Status.State {
	case status.StateCompleted:
		m.Phase = PhaseComplete
	case status.StateFailed:
		m.Phase = PhaseError
	}
	return m, nil
}

// handleTick schedules the next poll.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd()}
	if m.Phase == PhasePolling && m.TaskID != "" {
		cmds = append(cmds, pollTask(m.Client, m.TaskID))
	}
	return m, tea.Batch(cmds...)
}
