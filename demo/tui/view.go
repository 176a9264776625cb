package tui

import (
	"fmt"
	"strings"
)

const progressBarWidth = 40

// View implements tea.Model interface.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🎞  Storyreel Render Demo"))
	b.WriteString("\n\n")

	b.WriteString(m.getPhaseText())
	b.WriteString("\n\n")

	if m.Status != nil {
		b.WriteString(renderProgressBar(m.Status.Progress))
		b.WriteString("\n")
		stats := fmt.Sprintf("🧩 Frames: %d/%d done", m.Status.FramesDone, m.Status.FrameTotal)
		b.WriteString(InfoStyle.Render(stats))
		b.WriteString("\n\n")

		if len(m.Status.Logs) > 0 {
			b.WriteString(InfoStyle.Render("📝 Recent Activity:"))
			b.WriteString("\n")
			logs := m.Status.Logs
			if len(logs) > 8 {
				logs = logs[len(logs)-8:]
			}
			for _, entry := range logs {
				b.WriteString(InfoStyle.Render("   " + entry.Message))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}

		if m.Status.Error != "" {
			b.WriteString(ErrorStyle.Render("Error: " + m.Status.Error))
			b.WriteString("\n\n")
		}
	}

	if m.Phase == PhaseComplete && m.Status != nil {
		result := HighlightStyle.Render("Final Video") + "\n\n" +
			fmt.Sprintf("Path: %s\n", m.Status.OutputPath)
		if m.Status.PublishedID != "" {
			result += fmt.Sprintf("Published: https://youtube.com/watch?v=%s\n", m.Status.PublishedID)
		}
		b.WriteString(BoxStyle.Render(result))
		b.WriteString("\n\n")
	}

	switch m.Phase {
	case PhaseComplete, PhaseError:
		b.WriteString(InfoStyle.Render("Press 'r' to rerun | Press 'q' or Ctrl+C to quit"))
	default:
		b.WriteString(InfoStyle.Render("Press 'q' or Ctrl+C to quit"))
	}

	return b.String()
}

// renderProgressBar draws a fixed-width progress bar for a [0,1] fraction.
func renderProgressBar(progress float64) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	done := int(progress * progressBarWidth)

	bar := ProgressDoneStyle.Render(strings.Repeat("█", done)) +
		ProgressRestStyle.Render(strings.Repeat("░", progressBarWidth-done))
	return fmt.Sprintf("%s %3.0f%%", bar, progress*100)
}
