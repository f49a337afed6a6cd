package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// checkHealth creates a command that checks server reachability
func checkHealth(client *APIClient) tea.Cmd {
	return func() tea.Msg {
		return HealthCheckedMsg{Err: client.Health()}
	}
}

// runGenerate creates a command that runs the full pipeline
func runGenerate(client *APIClient, req GenerateRequest) tea.Cmd {
	return func() tea.Msg {
		result, err := client.Generate(req)
		return GenerateCompleteMsg{Result: result, Err: err}
	}
}

// tickCmd creates a command that ticks every 500ms to animate the spinner
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
