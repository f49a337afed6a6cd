package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"podvox/moments"
	"podvox/orchestrator"
	"podvox/script"
	"podvox/types"
	"podvox/voice"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAnalysis struct {
	moments  []types.Moment
	analysis *moments.Analysis
	context  *types.ContextAnalysis
	err      error

	gotQueries []string
	gotOpts    moments.FindOptions
	gotBackend types.Backend
	gotTopic   string
}

func (f *fakeAnalysis) FindMoments(ctx context.Context, mediaURL string, queries []string, opts moments.FindOptions) ([]types.Moment, error) {
	f.gotQueries = queries
	f.gotOpts = opts
	return f.moments, f.err
}

func (f *fakeAnalysis) AnswerAboutRange(ctx context.Context, mediaURL, prompt string, start, end float64, backend types.Backend) (*types.ContextAnalysis, error) {
	f.gotBackend = backend
	if f.err != nil {
		return nil, f.err
	}
	return f.context, nil
}

func (f *fakeAnalysis) AnalyzeWithContext(ctx context.Context, mediaURL, prospectName, topic string, backend types.Backend) (*moments.Analysis, error) {
	f.gotTopic = topic
	if f.err != nil {
		return nil, f.err
	}
	return f.analysis, nil
}

type fakeScriptSvc struct {
	script *types.GeneratedScript
	err    error
	gotReq script.GenerateRequest
}

func (f *fakeScriptSvc) Generate(ctx context.Context, req script.GenerateRequest) (*types.GeneratedScript, error) {
	f.gotReq = req
	return f.script, f.err
}

func (f *fakeScriptSvc) GenerateSimple(ctx context.Context, name, context string) (*types.GeneratedScript, error) {
	return f.script, f.err
}

type fakeCatalog struct {
	voices []voice.Voice
	err    error
}

func (f *fakeCatalog) GetVoiceInfo(ctx context.Context, voiceID string) (*voice.Voice, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.voices {
		if f.voices[i].VoiceID == voiceID {
			return &f.voices[i], nil
		}
	}
	return nil, fmt.Errorf("unknown voice %q", voiceID)
}

func (f *fakeCatalog) ListVoices(ctx context.Context) ([]voice.Voice, error) {
	return f.voices, f.err
}

type fakePipeline struct {
	result *types.PipelineResult
	err    error
	gotReq orchestrator.Request
	calls  int
}

func (f *fakePipeline) Run(ctx context.Context, req orchestrator.Request) (*types.PipelineResult, error) {
	f.calls++
	f.gotReq = req
	return f.result, f.err
}

type fakeResolver struct {
	paths map[string]string
}

func (f *fakeResolver) Resolve(filename string) (string, error) {
	path, ok := f.paths[filename]
	if !ok {
		return "", fmt.Errorf("not found: %s", filename)
	}
	return path, nil
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var got map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return got
}

func TestHealthEndpoint(t *testing.T) {
	r := NewRouter(Deps{})
	w := doJSON(t, r, http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decodeBody(t, w); got["status"] != "healthy" {
		t.Errorf("unexpected body: %v", got)
	}
}

func TestExtractMomentsAppliesOptionDefaults(t *testing.T) {
	analyzer := &fakeAnalysis{moments: []types.Moment{types.NewMoment(10, 25, "ai", "")}}
	r := NewRouter(Deps{Analyzer: analyzer})

	w := doJSON(t, r, http.MethodPost, "/api/moments/extract",
		`{"podcast_url":"https://x/ep.mp3","queries":["ai"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	if analyzer.gotOpts.MinClipLength != 10 || analyzer.gotOpts.EndTime != -1 {
		t.Errorf("expected default options, got %+v", analyzer.gotOpts)
	}

	got := decodeBody(t, w)
	if got["total_moments"] != float64(1) {
		t.Errorf("total_moments = %v", got["total_moments"])
	}
}

func TestExtractMomentsOverrides(t *testing.T) {
	analyzer := &fakeAnalysis{moments: []types.Moment{}}
	r := NewRouter(Deps{Analyzer: analyzer})

	w := doJSON(t, r, http.MethodPost, "/api/moments/extract",
		`{"podcast_url":"https://x/ep.mp3","queries":["ai"],"min_clip_length":5,"start_time":100,"end_time":200,"render":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	opts := analyzer.gotOpts
	if opts.MinClipLength != 5 || opts.StartTime != 100 || opts.EndTime != 200 || !opts.Render {
		t.Errorf("unexpected options: %+v", opts)
	}
}

func TestExtractMomentsValidation(t *testing.T) {
	r := NewRouter(Deps{Analyzer: &fakeAnalysis{}})
	w := doJSON(t, r, http.MethodPost, "/api/moments/extract", `{"queries":["ai"]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing podcast_url should 400, got %d", w.Code)
	}
}

func TestAskUsesConfiguredBackendByDefault(t *testing.T) {
	analyzer := &fakeAnalysis{context: &types.ContextAnalysis{Answer: "ok"}}
	r := NewRouter(Deps{Analyzer: analyzer, Backend: types.BackendContextual})

	w := doJSON(t, r, http.MethodPost, "/api/moments/ask",
		`{"podcast_url":"https://x/ep.mp3","prompt":"what?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if analyzer.gotBackend != types.BackendContextual {
		t.Errorf("backend = %v, want configured default", analyzer.gotBackend)
	}
}

func TestAskBackendOverride(t *testing.T) {
	analyzer := &fakeAnalysis{context: &types.ContextAnalysis{Answer: "ok"}}
	r := NewRouter(Deps{Analyzer: analyzer, Backend: types.BackendContextual})

	w := doJSON(t, r, http.MethodPost, "/api/moments/ask",
		`{"podcast_url":"https://x/ep.mp3","prompt":"what?","backend":"fast"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if analyzer.gotBackend != types.BackendFast {
		t.Errorf("backend = %v, want fast override", analyzer.gotBackend)
	}
}

func TestAnalyzeNoContentIs404(t *testing.T) {
	analyzer := &fakeAnalysis{analysis: &moments.Analysis{Success: false}}
	r := NewRouter(Deps{Analyzer: analyzer})

	w := doJSON(t, r, http.MethodPost, "/api/analyze",
		`{"prospect_name":"Ana","podcast_url":"https://x/ep.mp3","query_topic":"knitting"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if got := decodeBody(t, w); !strings.Contains(got["error"].(string), "knitting") {
		t.Errorf("error should name the topic: %v", got["error"])
	}
}

func TestAnalyzeDefaultsTopic(t *testing.T) {
	best := types.NewMoment(1, 2, "AI thoughts", "")
	analyzer := &fakeAnalysis{analysis: &moments.Analysis{
		Moments:         []types.Moment{best},
		BestMoment:      &best,
		ContextAnalysis: &types.ContextAnalysis{Answer: "ok"},
		Success:         true,
	}}
	r := NewRouter(Deps{Analyzer: analyzer})

	w := doJSON(t, r, http.MethodPost, "/api/analyze",
		`{"prospect_name":"Ana","podcast_url":"https://x/ep.mp3"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if analyzer.gotTopic != "AI thoughts" {
		t.Errorf("topic = %q, want default", analyzer.gotTopic)
	}
}

func TestAnalyzeUpstreamShapeIs502(t *testing.T) {
	analyzer := &fakeAnalysis{err: fmt.Errorf("%w: missing time range", moments.ErrUpstreamShape)}
	r := NewRouter(Deps{Analyzer: analyzer})

	w := doJSON(t, r, http.MethodPost, "/api/analyze",
		`{"prospect_name":"Ana","podcast_url":"https://x/ep.mp3"}`)
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestGenerateScriptPassesTone(t *testing.T) {
	scripts := &fakeScriptSvc{script: &types.GeneratedScript{Text: "hi"}}
	r := NewRouter(Deps{Scripts: scripts})

	w := doJSON(t, r, http.MethodPost, "/api/script",
		`{"prospect_name":"Ana","context_analysis":"ctx","tone":"professional","target_length":30}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}

	if scripts.gotReq.Tone != types.ToneProfessional || scripts.gotReq.TargetLengthSeconds != 30 {
		t.Errorf("unexpected request: %+v", scripts.gotReq)
	}
	got := decodeBody(t, w)
	if got["success"] != true {
		t.Errorf("unexpected body: %v", got)
	}
}

func TestGenerateSimpleScript(t *testing.T) {
	scripts := &fakeScriptSvc{script: &types.GeneratedScript{Text: "short"}}
	r := NewRouter(Deps{Scripts: scripts})

	w := doJSON(t, r, http.MethodPost, "/api/script/simple",
		`{"prospect_name":"Ana","context":"the agents bit"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestGenerateVoicenoteRequiresAURL(t *testing.T) {
	pipeline := &fakePipeline{}
	r := NewRouter(Deps{Pipeline: pipeline})

	w := doJSON(t, r, http.MethodPost, "/api/generate", `{"prospect_name":"Ana"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if pipeline.calls != 0 {
		t.Error("pipeline must not run without a URL")
	}
}

func TestGenerateVoicenoteNoContentCarriesSteps(t *testing.T) {
	pipeline := &fakePipeline{
		result: &types.PipelineResult{Steps: []string{"Starting podcast analysis...", "No relevant moments found for topic: x"}},
		err:    fmt.Errorf("%w for topic: x", orchestrator.ErrNoContent),
	}
	r := NewRouter(Deps{Pipeline: pipeline})

	w := doJSON(t, r, http.MethodPost, "/api/generate",
		`{"prospect_name":"Ana","podcast_url":"https://x/ep.mp3","query_topic":"x"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	got := decodeBody(t, w)
	steps, ok := got["processing_steps"].([]interface{})
	if !ok || len(steps) != 2 {
		t.Errorf("expected partial step log in error payload, got %v", got)
	}
}

func TestGenerateVoicenoteSuccess(t *testing.T) {
	pipeline := &fakePipeline{result: &types.PipelineResult{
		ProspectName: "Ana",
		Success:      true,
		VoicenoteURL: "/api/voicenotes/voicenote_1_abc.mp3",
		Steps:        []string{"done"},
	}}
	r := NewRouter(Deps{Pipeline: pipeline})

	w := doJSON(t, r, http.MethodPost, "/api/generate",
		`{"prospect_name":"Ana","feed_url":"https://x/feed.xml","tone":"friendly"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	if pipeline.gotReq.Tone != types.ToneFriendly {
		t.Errorf("tone = %v", pipeline.gotReq.Tone)
	}
	got := decodeBody(t, w)
	if got["voicenote_url"] != "/api/voicenotes/voicenote_1_abc.mp3" {
		t.Errorf("unexpected body: %v", got)
	}
}

func TestGetVoicenoteServesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voicenote_1_abc.mp3")
	if err := os.WriteFile(path, []byte("mp3-bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRouter(Deps{Voicenotes: &fakeResolver{paths: map[string]string{"voicenote_1_abc.mp3": path}}})

	w := doJSON(t, r, http.MethodGet, "/api/voicenotes/voicenote_1_abc.mp3", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Body.String() != "mp3-bytes" {
		t.Errorf("unexpected body: %q", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "audio/mpeg" {
		t.Errorf("content type = %q", ct)
	}
}

func TestGetVoicenoteUnknownIs404(t *testing.T) {
	r := NewRouter(Deps{Voicenotes: &fakeResolver{paths: map[string]string{}}})
	w := doJSON(t, r, http.MethodGet, "/api/voicenotes/nope.mp3", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestListVoices(t *testing.T) {
	catalog := &fakeCatalog{voices: []voice.Voice{{VoiceID: "a", Name: "Alice"}}}
	r := NewRouter(Deps{Voices: catalog})

	w := doJSON(t, r, http.MethodGet, "/api/voices", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	got := decodeBody(t, w)
	voices, ok := got["voices"].([]interface{})
	if !ok || len(voices) != 1 {
		t.Errorf("unexpected body: %v", got)
	}
}

func TestGetVoiceByID(t *testing.T) {
	catalog := &fakeCatalog{voices: []voice.Voice{{VoiceID: "a", Name: "Alice"}}}
	r := NewRouter(Deps{Voices: catalog})

	w := doJSON(t, r, http.MethodGet, "/api/voices/a", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decodeBody(t, w); got["name"] != "Alice" {
		t.Errorf("unexpected body: %v", got)
	}
}
