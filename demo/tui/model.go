package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"podvox/types"
)

// State represents the demo state machine
type State string

const (
	StateConnecting State = "connecting"
	StateIdle       State = "idle"
	StateRunning    State = "running"
	StateComplete   State = "complete"
	StateError      State = "error"
)

// Model represents the TUI client state (thin client over the API)
type Model struct {
	Client  *APIClient
	Request GenerateRequest

	State  State
	Result *types.PipelineResult
	Err    error

	// ticks counts 500ms ticks to animate the running indicator
	ticks int
}

// NewModel creates a new TUI model
func NewModel(apiURL string, req GenerateRequest) Model {
	return Model{
		Client:  NewAPIClient(apiURL),
		Request: req,
		State:   StateConnecting,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		checkHealth(m.Client),
		tickCmd(),
	)
}

// getStateText returns the appropriate state message
func (m Model) getStateText() string {
	switch m.State {
	case StateConnecting:
		return StatusStyle.Render("⏳ Connecting to server...")
	case StateIdle:
		return HighlightStyle.Render("👋 Ready!") + "\n\n" +
			InfoStyle.Render("Press 'g' to generate a voicenote for "+m.Request.ProspectName)
	case StateRunning:
		dots := strings.Repeat(".", m.ticks%4)
		return StatusStyle.Render(fmt.Sprintf("🎙️  Running pipeline%s (this can take a few minutes)", dots))
	case StateComplete:
		return HighlightStyle.Render("✅ COMPLETE")
	case StateError:
		errMsg := "Unknown error"
		if m.Err != nil {
			errMsg = m.Err.Error()
		}
		return ErrorStyle.Render(fmt.Sprintf("❌ Error: %v", errMsg))
	default:
		return ""
	}
}

// formatResult formats the pipeline result for display
func (m Model) formatResult() string {
	result := m.Result
	var b strings.Builder

	b.WriteString(HighlightStyle.Render("Voicenote Pipeline Result"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Prospect: %s\n", result.ProspectName))
	if result.PodcastName != "" {
		b.WriteString(fmt.Sprintf("Podcast: %s\n", result.PodcastName))
	}
	b.WriteString(fmt.Sprintf("Moments found: %d\n", len(result.Moments)))
	if result.BestMoment != nil {
		b.WriteString(fmt.Sprintf("Best moment: %.2fs - %.2fs (%.1fs)\n",
			result.BestMoment.StartTime, result.BestMoment.EndTime, result.BestMoment.Duration))
	}
	b.WriteString("\n")

	if result.Script != nil {
		scriptPreview := result.Script.Text
		if len(scriptPreview) > 300 {
			scriptPreview = scriptPreview[:300] + "..."
		}
		b.WriteString(fmt.Sprintf("Script (%d words):\n%s\n\n",
			result.Script.WordCount(), InfoStyle.Render(scriptPreview)))
	}

	if result.VoicenoteURL != "" {
		b.WriteString(fmt.Sprintf("Voicenote: %s\n", StatusStyle.Render(result.VoicenoteURL)))
		if result.Voicenote != nil {
			b.WriteString(fmt.Sprintf("  ~%.0fs, %d bytes\n",
				result.Voicenote.EstimatedDurationSeconds, result.Voicenote.SizeBytes))
		}
	}

	b.WriteString(fmt.Sprintf("\nElapsed: %.2fs\n", result.ElapsedSeconds))

	return b.String()
}
