package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"podvox/config"
	"podvox/feeds"
	"podvox/moments"
	"podvox/script"
	"podvox/types"
	"podvox/voice"
)

// ErrNoContent is the domain outcome "nothing to analyze": the topic query
// matched zero moments. Distinct from a vendor failure so callers can tell
// "nothing found" from "something broke".
var ErrNoContent = errors.New("no relevant content found")

// ContentAnalyzer is the moments-service surface the pipeline needs.
type ContentAnalyzer interface {
	AnalyzeWithContext(ctx context.Context, mediaURL, prospectName, topic string, backend types.Backend) (*moments.Analysis, error)
}

// ScriptGenerator is the text-generation surface the pipeline needs.
type ScriptGenerator interface {
	Generate(ctx context.Context, req script.GenerateRequest) (*types.GeneratedScript, error)
}

// VoicenoteWriter is the speech-synthesis surface the pipeline needs.
type VoicenoteWriter interface {
	WriteVoicenote(ctx context.Context, text, outputPath string, opts voice.SynthesizeOptions) (*types.VoicenoteFile, error)
}

// Uploader archives voicenote files off-box. Optional.
type Uploader interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
}

// EpisodeResolver turns a podcast feed URL into a playable episode.
type EpisodeResolver func(feedURL string) (*feeds.Episode, error)

// Pipeline sequences the three clients: analyze, generate script,
// synthesize voicenote. Built once at startup and shared across requests;
// all fields are read-only after construction.
type Pipeline struct {
	Analyzer ContentAnalyzer
	Scripts  ScriptGenerator
	Voice    VoicenoteWriter
	Resolver EpisodeResolver
	Uploader Uploader
	Backend  types.Backend
	S3Bucket string
	S3Prefix string
}

// Request carries the inputs for one end-to-end pipeline run.
type Request struct {
	ProspectName string
	PodcastName  string
	// PodcastURL is a direct media URL. When empty, FeedURL is resolved to
	// the newest episode of the feed.
	PodcastURL string
	FeedURL    string
	Topic      string
	Tone       types.Tone
	// TargetLength is the target voicenote length in seconds.
	TargetLength int
	// SkipVoice returns the script without attempting synthesis.
	SkipVoice bool
}

// Run executes the pipeline stages strictly in order, blocking on each
// remote call. On failure the returned result carries the step log
// accumulated up to that point. Only the synthesis stage tolerates failure:
// a voicenote is treated as a best-effort enhancement over the script.
func (p *Pipeline) Run(ctx context.Context, req Request) (*types.PipelineResult, error) {
	started := time.Now()

	result := &types.PipelineResult{
		ProspectName: req.ProspectName,
		PodcastName:  req.PodcastName,
		Moments:      []types.Moment{},
		Steps:        []string{},
	}

	topic := req.Topic
	if topic == "" {
		topic = config.DefaultQueryTopic
	}

	mediaURL := req.PodcastURL
	if mediaURL == "" && req.FeedURL != "" {
		result.AddStep("Resolving latest episode from feed...")
		episode, err := p.Resolver(req.FeedURL)
		if err != nil {
			result.AddStep("Episode resolution failed: %v", err)
			return result, fmt.Errorf("failed to resolve episode: %w", err)
		}
		mediaURL = episode.AudioURL
		if result.PodcastName == "" {
			result.PodcastName = episode.PodcastName
		}
		result.AddStep("Resolved episode %q from %q", episode.Title, episode.PodcastName)
	}
	if mediaURL == "" {
		return result, errors.New("no podcast URL or feed URL supplied")
	}

	// Step 1: analyze podcast content.
	result.AddStep("Starting podcast analysis...")
	log.Printf("Pipeline: analyzing %s for %s", mediaURL, req.ProspectName)

	analysis, err := p.Analyzer.AnalyzeWithContext(ctx, mediaURL, req.ProspectName, topic, p.Backend)
	if err != nil {
		result.AddStep("Podcast analysis failed: %v", err)
		return result, err
	}
	if !analysis.Success {
		result.AddStep("No relevant moments found for topic: %s", topic)
		return result, fmt.Errorf("%w for topic: %s", ErrNoContent, topic)
	}

	result.Moments = analysis.Moments
	result.BestMoment = analysis.BestMoment
	result.ContextAnalysis = analysis.ContextAnalysis
	result.AddStep("Found %d relevant moments", len(analysis.Moments))

	// Step 2: generate the personalized script.
	result.AddStep("Generating personalized script...")

	generated, err := p.Scripts.Generate(ctx, script.GenerateRequest{
		ProspectName:        req.ProspectName,
		ContextAnalysis:     analysis.ContextAnalysis.Answer,
		PodcastName:         result.PodcastName,
		Tone:                req.Tone,
		TargetLengthSeconds: req.TargetLength,
	})
	if err != nil {
		result.AddStep("Script generation failed: %v", err)
		return result, err
	}
	result.Script = generated
	result.AddStep("Script generated successfully")

	// Step 3: synthesize the voicenote. Best effort; the script alone is a
	// usable outcome.
	if req.SkipVoice {
		result.AddStep("Voice synthesis skipped by request")
	} else {
		result.AddStep("Synthesizing voicenote...")

		vn, err := p.Voice.WriteVoicenote(ctx, generated.Text, "", voice.SynthesizeOptions{})
		if err != nil {
			log.Printf("Pipeline: voicenote synthesis failed: %v", err)
			result.AddStep("Voicenote synthesis failed: %v (script still available)", err)
		} else {
			result.Voicenote = vn
			result.VoicenoteURL = "/api/voicenotes/" + vn.Filename
			result.AddStep("Voicenote created: %s", vn.Filename)
			p.archiveVoicenote(ctx, result, vn)
		}
	}

	result.Success = true
	result.ElapsedSeconds = time.Since(started).Seconds()
	result.AddStep("Total processing time: %.2f seconds", result.ElapsedSeconds)
	return result, nil
}

// archiveVoicenote uploads the written file to S3 when configured. Failures
// are logged in the step log and never fail the pipeline.
func (p *Pipeline) archiveVoicenote(ctx context.Context, result *types.PipelineResult, vn *types.VoicenoteFile) {
	if p.Uploader == nil || p.S3Bucket == "" {
		return
	}

	f, err := os.Open(vn.Path)
	if err != nil {
		result.AddStep("S3 upload skipped: %v", err)
		return
	}
	defer f.Close()

	key := p.S3Prefix + "voicenotes/" + vn.Filename

	uctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := p.Uploader.Put(uctx, p.S3Bucket, key, f, "audio/mpeg"); err != nil {
		log.Printf("Pipeline: S3 upload failed for %s: %v", vn.Filename, err)
		result.AddStep("S3 upload failed: %v", err)
		return
	}
	result.AddStep("Voicenote archived to s3://%s/%s", p.S3Bucket, key)
}

// NewPipeline wires a pipeline from concrete clients and settings.
func NewPipeline(analyzer *moments.Client, scripts *script.Generator, voiceClient *voice.Client, uploader Uploader, settings *config.Settings) *Pipeline {
	return &Pipeline{
		Analyzer: analyzer,
		Scripts:  scripts,
		Voice:    voiceClient,
		Resolver: feeds.ResolveEpisode,
		Uploader: uploader,
		Backend:  types.ParseBackend(settings.SieveBackend),
		S3Bucket: settings.S3Bucket,
		S3Prefix: settings.S3Prefix,
	}
}
