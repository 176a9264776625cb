package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"storyreel/status"
)

// Phase represents the demo state machine.
type Phase string

const (
	PhaseSubmitting Phase = "submitting"
	PhasePolling    Phase = "polling"
	PhaseComplete   Phase = "complete"
	PhaseError      Phase = "error"
)

// Model represents the TUI client state (thin client).
type Model struct {
	Client *RenderClient

	Phase  Phase
	TaskID string
	Status *status.TaskStatus
	Err    error

	// Connection status
	Connected bool
}

// NewModel creates a new TUI model.
func NewModel(serverURL string) Model {
	return Model{
		Client: NewRenderClient(serverURL),
		Phase:  PhaseSubmitting,
	}
}

// Init implements tea.Model interface.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		submitSample(m.Client),
		tickCmd(),
	)
}

// getPhaseText returns the headline message for the current phase.
func (m Model) getPhaseText() string {
	switch m.Phase {
	case PhaseSubmitting:
		return StatusStyle.Render("📤 Submitting demo storyboard...")
	case PhasePolling:
		if !m.Connected {
			return ErrorStyle.Render("❌ Not connected to render server")
		}
		return StatusStyle.Render("🎬 Rendering task " + m.TaskID + "...")
	case PhaseComplete:
		return HighlightStyle.Render("✅ RENDER COMPLETE")
	case PhaseError:
		errMsg := "Unknown error"
		if m.Err != nil {
			errMsg = m.Err.Error()
		}
		return ErrorStyle.Render("❌ Error: " + errMsg)
	default:
		return ""
	}
}
