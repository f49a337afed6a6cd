package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"podvox/moments"
	"podvox/orchestrator"
	"podvox/script"
	"podvox/types"
	"podvox/voice"
)

// AnalysisService is the content-analysis surface the controllers use.
type AnalysisService interface {
	FindMoments(ctx context.Context, mediaURL string, queries []string, opts moments.FindOptions) ([]types.Moment, error)
	AnswerAboutRange(ctx context.Context, mediaURL, prompt string, start, end float64, backend types.Backend) (*types.ContextAnalysis, error)
	AnalyzeWithContext(ctx context.Context, mediaURL, prospectName, topic string, backend types.Backend) (*moments.Analysis, error)
}

// ScriptService is the script-generation surface the controllers use.
type ScriptService interface {
	Generate(ctx context.Context, req script.GenerateRequest) (*types.GeneratedScript, error)
	GenerateSimple(ctx context.Context, name, context string) (*types.GeneratedScript, error)
}

// VoiceCatalog is the voice-metadata surface the controllers use.
type VoiceCatalog interface {
	GetVoiceInfo(ctx context.Context, voiceID string) (*voice.Voice, error)
	ListVoices(ctx context.Context) ([]voice.Voice, error)
}

// PipelineRunner runs the full voicenote pipeline.
type PipelineRunner interface {
	Run(ctx context.Context, req orchestrator.Request) (*types.PipelineResult, error)
}

// VoicenoteResolver maps assigned voicenote filenames back to paths.
type VoicenoteResolver interface {
	Resolve(filename string) (string, error)
}

// Deps carries the constructed service clients into the controllers.
// Everything is built once in main and injected; controllers hold no state
// of their own.
type Deps struct {
	Analyzer   AnalysisService
	Scripts    ScriptService
	Voices     VoiceCatalog
	Pipeline   PipelineRunner
	Voicenotes VoicenoteResolver
	Backend    types.Backend
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	RegisterHealthRoutes(r)
	RegisterAnalysisRoutes(r, deps)
	RegisterScriptRoutes(r, deps)
	RegisterPipelineRoutes(r, deps)
	RegisterVoiceRoutes(r, deps)
	return r
}
