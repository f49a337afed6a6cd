package tui

import (
	"strings"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	// Title
	b.WriteString(TitleStyle.Render("🎙️  Podvox Voicenote Demo"))
	b.WriteString("\n\n")

	// Current state
	b.WriteString(m.getStateText())
	b.WriteString("\n\n")

	// Target info
	if m.State != StateConnecting {
		b.WriteString(InfoStyle.Render("Prospect: " + m.Request.ProspectName))
		b.WriteString("\n")
		if m.Request.PodcastURL != "" {
			b.WriteString(InfoStyle.Render("Podcast: " + m.Request.PodcastURL))
			b.WriteString("\n")
		} else if m.Request.FeedURL != "" {
			b.WriteString(InfoStyle.Render("Feed: " + m.Request.FeedURL))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Steps from the run log
	if m.Result != nil && len(m.Result.Steps) > 0 {
		b.WriteString(InfoStyle.Render("📝 Pipeline steps:"))
		b.WriteString("\n")
		for _, step := range m.Result.Steps {
			b.WriteString(InfoStyle.Render("   " + step))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Results
	if m.State == StateComplete && m.Result != nil {
		resultBox := m.formatResult()
		b.WriteString(BoxStyle.Render(resultBox))
		b.WriteString("\n\n")
	}

	// Help text
	switch m.State {
	case StateIdle:
		b.WriteString(InfoStyle.Render("Press 'g' to generate | Press 'q' or Ctrl+C to quit"))
	case StateComplete, StateError:
		b.WriteString(InfoStyle.Render("Press 'r' to run again | Press 'q' or Ctrl+C to quit"))
	default:
		b.WriteString(InfoStyle.Render("Press 'q' or Ctrl+C to quit"))
	}

	return b.String()
}
