package types

import (
	"fmt"
	"strings"
	"time"
)

// SpeakingPaceWPM is the assumed speaking pace used to estimate how long a
// script takes to read aloud.
const SpeakingPaceWPM = 150

// Tone controls the register of a generated script.
type Tone string

const (
	ToneCasual       Tone = "casual"
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
)

// ParseTone normalizes a tone string, defaulting to casual.
func ParseTone(s string) Tone {
	switch Tone(strings.ToLower(strings.TrimSpace(s))) {
	case ToneProfessional:
		return ToneProfessional
	case ToneFriendly:
		return ToneFriendly
	default:
		return ToneCasual
	}
}

// Backend selects a processing mode of the content-analysis service.
type Backend string

const (
	BackendFast       Backend = "sieve-fast"
	BackendContextual Backend = "sieve-contextual"
)

// ParseBackend maps friendly names onto service backend identifiers.
// Unknown values fall back to the fast backend.
func ParseBackend(s string) Backend {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "contextual", string(BackendContextual):
		return BackendContextual
	default:
		return BackendFast
	}
}

// Moment is a time range within a media source flagged as relevant to a
// search query.
type Moment struct {
	StartTime   float64 `json:"start_time"`
	EndTime     float64 `json:"end_time"`
	Duration    float64 `json:"duration"`
	SourceQuery string  `json:"source_query,omitempty"`
	ClipURL     string  `json:"clip_url,omitempty"`
}

// NewMoment builds a Moment for the given range. Duration is always
// recomputed here; upstream-supplied durations are never trusted.
func NewMoment(start, end float64, sourceQuery, clipURL string) Moment {
	return Moment{
		StartTime:   start,
		EndTime:     end,
		Duration:    end - start,
		SourceQuery: sourceQuery,
		ClipURL:     clipURL,
	}
}

// ContextAnalysis is a free-text answer describing what happens within a
// specific time range of a media source.
type ContextAnalysis struct {
	Answer    string  `json:"answer"`
	StartTime float64 `json:"context_start_time"`
	EndTime   float64 `json:"context_end_time"`
	Backend   Backend `json:"backend_used"`
}

// GeneratedScript is the text of a voicenote plus generation metadata.
type GeneratedScript struct {
	Text                string    `json:"script"`
	TargetLengthSeconds int       `json:"target_length_seconds"`
	Tone                Tone      `json:"tone"`
	CreatedAt           time.Time `json:"created_at"`
}

// WordCount reports the number of whitespace-separated words in the script.
func (g *GeneratedScript) WordCount() int {
	return len(strings.Fields(g.Text))
}

// EstimateSpokenSeconds estimates how long text takes to speak at the
// assumed pace.
func EstimateSpokenSeconds(text string) float64 {
	words := len(strings.Fields(text))
	return float64(words) / SpeakingPaceWPM * 60
}

// VoicenoteFile describes a synthesized audio file written to disk.
type VoicenoteFile struct {
	Path                     string    `json:"path"`
	Filename                 string    `json:"filename"`
	SizeBytes                int64     `json:"size_bytes"`
	EstimatedDurationSeconds float64   `json:"estimated_duration_seconds"`
	VoiceID                  string    `json:"voice_id"`
	CreatedAt                time.Time `json:"created_at"`
}

// PipelineResult aggregates the outputs of one end-to-end pipeline run.
// It owns all contained values for the duration of one request; nothing is
// shared across requests.
type PipelineResult struct {
	ProspectName    string           `json:"prospect_name"`
	PodcastName     string           `json:"podcast_name,omitempty"`
	Moments         []Moment         `json:"moments_found"`
	BestMoment      *Moment          `json:"best_moment,omitempty"`
	ContextAnalysis *ContextAnalysis `json:"context_analysis,omitempty"`
	Script          *GeneratedScript `json:"generated_script,omitempty"`
	Voicenote       *VoicenoteFile   `json:"voicenote,omitempty"`
	VoicenoteURL    string           `json:"voicenote_url,omitempty"`
	Steps           []string         `json:"processing_steps"`
	Success         bool             `json:"success"`
	ElapsedSeconds  float64          `json:"elapsed_seconds"`
}

// AddStep appends a human-readable step description to the run log.
func (r *PipelineResult) AddStep(format string, args ...interface{}) {
	r.Steps = append(r.Steps, fmt.Sprintf(format, args...))
}
