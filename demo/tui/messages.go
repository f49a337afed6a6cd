package tui

import (
	"time"

	"podvox/types"
)

// HealthCheckedMsg is sent after the initial server reachability check.
type HealthCheckedMsg struct {
	Err error
}

// GenerateCompleteMsg is sent when the pipeline run finishes.
type GenerateCompleteMsg struct {
	Result *types.PipelineResult
	Err    error
}

// TickMsg is sent periodically to animate the running state.
type TickMsg struct {
	Time time.Time
}
