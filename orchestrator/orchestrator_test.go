package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"podvox/feeds"
	"podvox/moments"
	"podvox/script"
	"podvox/types"
	"podvox/voice"
)

type fakeAnalyzer struct {
	analysis *moments.Analysis
	err      error
	calls    int
}

func (f *fakeAnalyzer) AnalyzeWithContext(ctx context.Context, mediaURL, prospectName, topic string, backend types.Backend) (*moments.Analysis, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.analysis, nil
}

type fakeScripts struct {
	script *types.GeneratedScript
	err    error
	calls  int
}

func (f *fakeScripts) Generate(ctx context.Context, req script.GenerateRequest) (*types.GeneratedScript, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.script, nil
}

type fakeVoice struct {
	vn    *types.VoicenoteFile
	err   error
	calls int
}

func (f *fakeVoice) WriteVoicenote(ctx context.Context, text, outputPath string, opts voice.SynthesizeOptions) (*types.VoicenoteFile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vn, nil
}

func successAnalysis() *moments.Analysis {
	best := types.NewMoment(6330.04, 6355.04, "AI thoughts", "")
	return &moments.Analysis{
		Moments:    []types.Moment{best, types.NewMoment(7000, 7050, "AI thoughts", "")},
		BestMoment: &best,
		ContextAnalysis: &types.ContextAnalysis{
			Answer:    "They argued agents will replace cold email.",
			StartTime: 6330.04,
			EndTime:   6355.04,
			Backend:   types.BackendFast,
		},
		Success: true,
	}
}

func newTestPipeline(analyzer *fakeAnalyzer, scripts *fakeScripts, vw *fakeVoice) *Pipeline {
	return &Pipeline{
		Analyzer: analyzer,
		Scripts:  scripts,
		Voice:    vw,
		Backend:  types.BackendFast,
	}
}

func hasStep(steps []string, substr string) bool {
	for _, s := range steps {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

func TestRunFullPipeline(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: successAnalysis()}
	scripts := &fakeScripts{script: &types.GeneratedScript{Text: "Hey Steven...", Tone: types.ToneCasual, TargetLengthSeconds: 20}}
	vw := &fakeVoice{vn: &types.VoicenoteFile{Filename: "voicenote_1_abc.mp3", Path: "/tmp/voicenote_1_abc.mp3"}}

	p := newTestPipeline(analyzer, scripts, vw)

	result, err := p.Run(context.Background(), Request{
		ProspectName: "Steven Bartlett",
		PodcastURL:   "https://example.com/ep.mp3",
		Topic:        "AI thoughts",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !result.Success {
		t.Error("expected success")
	}
	if result.Script == nil || result.Script.Text != "Hey Steven..." {
		t.Errorf("unexpected script: %+v", result.Script)
	}
	if result.Voicenote == nil || result.Voicenote.Filename != "voicenote_1_abc.mp3" {
		t.Errorf("unexpected voicenote: %+v", result.Voicenote)
	}
	if result.VoicenoteURL != "/api/voicenotes/voicenote_1_abc.mp3" {
		t.Errorf("unexpected voicenote URL: %q", result.VoicenoteURL)
	}
	if result.BestMoment == nil || *result.BestMoment != result.Moments[0] {
		t.Error("best moment must be the first moment")
	}
	if !hasStep(result.Steps, "Script generated successfully") {
		t.Errorf("missing script step in log: %v", result.Steps)
	}
	if !hasStep(result.Steps, "Voicenote created") {
		t.Errorf("missing voicenote step in log: %v", result.Steps)
	}
}

func TestRunNoContentShortCircuits(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: &moments.Analysis{Moments: []types.Moment{}, Success: false}}
	scripts := &fakeScripts{}
	vw := &fakeVoice{}

	p := newTestPipeline(analyzer, scripts, vw)

	result, err := p.Run(context.Background(), Request{
		ProspectName: "Steven Bartlett",
		PodcastURL:   "https://example.com/ep.mp3",
		Topic:        "underwater basket weaving",
	})
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}

	if scripts.calls != 0 {
		t.Error("script generation must not run when no content was found")
	}
	if vw.calls != 0 {
		t.Error("synthesis must not be attempted when no content was found")
	}
	if hasStep(result.Steps, "Script generated") {
		t.Errorf("step log must not contain a script entry: %v", result.Steps)
	}
	if !hasStep(result.Steps, "No relevant moments found") {
		t.Errorf("step log should record the not-found outcome: %v", result.Steps)
	}
}

func TestRunAnalyzerFailureIsFatal(t *testing.T) {
	analyzer := &fakeAnalyzer{err: moments.ErrExtraction}
	scripts := &fakeScripts{}
	p := newTestPipeline(analyzer, scripts, &fakeVoice{})

	result, err := p.Run(context.Background(), Request{
		ProspectName: "Ana",
		PodcastURL:   "https://example.com/ep.mp3",
	})
	if !errors.Is(err, moments.ErrExtraction) {
		t.Fatalf("expected extraction error to propagate, got %v", err)
	}
	if scripts.calls != 0 {
		t.Error("script generation must not run after a failed analysis")
	}
	if len(result.Steps) == 0 {
		t.Error("partial result should carry the step log")
	}
}

func TestRunScriptFailureIsFatal(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: successAnalysis()}
	scripts := &fakeScripts{err: script.ErrGeneration}
	vw := &fakeVoice{}
	p := newTestPipeline(analyzer, scripts, vw)

	_, err := p.Run(context.Background(), Request{
		ProspectName: "Ana",
		PodcastURL:   "https://example.com/ep.mp3",
	})
	if !errors.Is(err, script.ErrGeneration) {
		t.Fatalf("expected generation error to propagate, got %v", err)
	}
	if vw.calls != 0 {
		t.Error("synthesis must not run after a failed script generation")
	}
}

func TestRunSynthesisFailureIsNotFatal(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: successAnalysis()}
	scripts := &fakeScripts{script: &types.GeneratedScript{Text: "Hey Ana..."}}
	vw := &fakeVoice{err: voice.ErrSynthesis}

	p := newTestPipeline(analyzer, scripts, vw)

	result, err := p.Run(context.Background(), Request{
		ProspectName: "Ana",
		PodcastURL:   "https://example.com/ep.mp3",
	})
	if err != nil {
		t.Fatalf("synthesis failure must not fail the pipeline: %v", err)
	}

	if !result.Success {
		t.Error("expected success despite synthesis failure")
	}
	if result.Script == nil || result.Script.Text != "Hey Ana..." {
		t.Error("result must still carry the generated script")
	}
	if result.Voicenote != nil || result.VoicenoteURL != "" {
		t.Error("result must carry no audio reference")
	}
	if !hasStep(result.Steps, "Voicenote synthesis failed") {
		t.Errorf("step log should note the synthesis failure: %v", result.Steps)
	}
}

func TestRunSkipVoice(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: successAnalysis()}
	scripts := &fakeScripts{script: &types.GeneratedScript{Text: "Hey Ana..."}}
	vw := &fakeVoice{}

	p := newTestPipeline(analyzer, scripts, vw)

	result, err := p.Run(context.Background(), Request{
		ProspectName: "Ana",
		PodcastURL:   "https://example.com/ep.mp3",
		SkipVoice:    true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if vw.calls != 0 {
		t.Error("synthesis must be skipped on request")
	}
	if !hasStep(result.Steps, "skipped") {
		t.Errorf("step log should note the skip: %v", result.Steps)
	}
}

func TestRunResolvesEpisodeFromFeed(t *testing.T) {
	analyzer := &fakeAnalyzer{analysis: successAnalysis()}
	scripts := &fakeScripts{script: &types.GeneratedScript{Text: "Hey Ana..."}}

	p := newTestPipeline(analyzer, scripts, &fakeVoice{vn: &types.VoicenoteFile{Filename: "v.mp3"}})
	p.Resolver = func(feedURL string) (*feeds.Episode, error) {
		if feedURL != "https://example.com/feed.xml" {
			t.Errorf("unexpected feed URL: %q", feedURL)
		}
		return &feeds.Episode{
			Title:       "Episode 42",
			PodcastName: "Diary of a CEO",
			AudioURL:    "https://cdn.example.com/42.mp3",
		}, nil
	}

	result, err := p.Run(context.Background(), Request{
		ProspectName: "Ana",
		FeedURL:      "https://example.com/feed.xml",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.PodcastName != "Diary of a CEO" {
		t.Errorf("podcast name should come from the feed, got %q", result.PodcastName)
	}
	if !hasStep(result.Steps, "Episode 42") {
		t.Errorf("step log should record the resolved episode: %v", result.Steps)
	}
}

func TestRunFeedResolutionFailureIsFatal(t *testing.T) {
	p := newTestPipeline(&fakeAnalyzer{}, &fakeScripts{}, &fakeVoice{})
	p.Resolver = func(feedURL string) (*feeds.Episode, error) {
		return nil, errors.New("feed unreachable")
	}

	_, err := p.Run(context.Background(), Request{ProspectName: "Ana", FeedURL: "https://example.com/feed.xml"})
	if err == nil || !strings.Contains(err.Error(), "feed unreachable") {
		t.Fatalf("expected resolution failure, got %v", err)
	}
}

func TestRunRequiresSomeURL(t *testing.T) {
	p := newTestPipeline(&fakeAnalyzer{}, &fakeScripts{}, &fakeVoice{})
	if _, err := p.Run(context.Background(), Request{ProspectName: "Ana"}); err == nil {
		t.Fatal("expected an error when neither URL is supplied")
	}
}
