package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case HealthCheckedMsg:
		return m.handleHealthChecked(msg)
	case GenerateCompleteMsg:
		return m.handleGenerateComplete(msg)
	case TickMsg:
		m.ticks++
		return m, tickCmd()
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "g", "G":
		if m.State == StateIdle {
			m.State = StateRunning
			return m, runGenerate(m.Client, m.Request)
		}
	case "r", "R":
		if m.State == StateComplete || m.State == StateError {
			m.State = StateRunning
			m.Result = nil
			m.Err = nil
			return m, runGenerate(m.Client, m.Request)
		}
	}
	return m, nil
}

// handleHealthChecked processes the initial reachability check
func (m Model) handleHealthChecked(msg HealthCheckedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.State = StateIdle
	return m, nil
}

// handleGenerateComplete processes pipeline completion
func (m Model) handleGenerateComplete(msg GenerateCompleteMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.Result = msg.Result
	m.State = StateComplete
	return m, nil
}
