package script

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"podvox/config"
	"podvox/types"
)

var (
	// ErrGeneration marks a failed script-generation call.
	ErrGeneration = errors.New("script generation failed")

	// ErrEmptyCompletion marks a provider response with no content.
	ErrEmptyCompletion = errors.New("empty response from text-generation service")
)

// Generator produces personalized voicenote scripts via a ChatProvider.
type Generator struct {
	provider ChatProvider
}

// NewGenerator creates a script generator backed by the given provider.
func NewGenerator(provider ChatProvider) *Generator {
	return &Generator{provider: provider}
}

// GenerateRequest carries the inputs for full script generation.
type GenerateRequest struct {
	ProspectName        string
	ContextAnalysis     string
	PodcastName         string
	Tone                types.Tone
	TargetLengthSeconds int
}

const generateSystemTemplate = `You are an expert at creating personalized voicenote scripts for podcast outreach.

Your task is to create a %d-second voicenote script that:
1. References specific content from their podcast episode
2. Shows genuine interest and insight
3. Offers value or connection
4. Maintains a %s tone
5. Ends with a clear call-to-action

The script should sound natural when spoken aloud and feel personal, not generic.
Target speaking pace: ~150 words per minute.`

// Generate creates a personalized voicenote script from podcast context.
// Length and tone constraints live in the prompt only; the output is not
// validated against them.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (*types.GeneratedScript, error) {
	if req.Tone == "" {
		req.Tone = types.ToneCasual
	}
	if req.TargetLengthSeconds <= 0 {
		req.TargetLengthSeconds = config.DefaultTargetLength
	}

	log.Printf("Generating script for %s (tone: %s, target length: %ds)",
		req.ProspectName, req.Tone, req.TargetLengthSeconds)

	podcast := req.PodcastName
	if podcast == "" {
		podcast = "their recent episode"
	}

	system := fmt.Sprintf(generateSystemTemplate, req.TargetLengthSeconds, req.Tone)
	user := fmt.Sprintf(`Create a personalized voicenote script for %s.

Context from their podcast:
%s

Podcast: %s

Make it sound authentic and conversational, like you're genuinely reaching out because their content inspired you.

Target length: %d seconds (approximately %.0f words)`,
		req.ProspectName, req.ContextAnalysis, podcast,
		req.TargetLengthSeconds, float64(req.TargetLengthSeconds)*2.5)

	text, err := g.provider.Complete(ctx, Completion{
		System:      system,
		User:        user,
		Temperature: 0.7,
		MaxTokens:   300,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	result := &types.GeneratedScript{
		Text:                strings.TrimSpace(text),
		TargetLengthSeconds: req.TargetLengthSeconds,
		Tone:                req.Tone,
		CreatedAt:           time.Now(),
	}

	log.Printf("Generated script with %d words", result.WordCount())
	return result, nil
}

const simpleSystemPrompt = `You are a personal outreach assistant that creates short, casual, conversational voicenote scripts for podcast outreach.

Your task is to:
- Write in natural, friendly spoken English — as if the user is recording a short, informal voice message.
- Mention the prospect's first name early in the script.
- Refer to a specific insight or moment from their podcast episode (provided as context).
- Keep it casual, slightly enthusiastic, suggesting a possible collaboration or follow-up.
- Make it sound personal, not scripted, and avoid formal email language.
- End with a light invitation to continue the conversation.

**Formatting Rules**:
- Write in first person.
- Avoid filler phrases like "I hope you're doing well" — get to the point quickly.
- Keep the voicenote under 60 words — concise and snappy.`

// GenerateSimple creates a script with the stricter under-60-words
// instruction set. Like Generate, the word ceiling is not enforced.
func (g *Generator) GenerateSimple(ctx context.Context, name, context string) (*types.GeneratedScript, error) {
	log.Printf("Generating simple script for %s", name)

	user := fmt.Sprintf("Prospect Name: %s\nPodcast Context: %s", name, context)

	text, err := g.provider.Complete(ctx, Completion{
		System:      simpleSystemPrompt,
		User:        user,
		Temperature: 0.8,
		MaxTokens:   150,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	result := &types.GeneratedScript{
		Text:                strings.TrimSpace(text),
		TargetLengthSeconds: config.DefaultTargetLength,
		Tone:                types.ToneCasual,
		CreatedAt:           time.Now(),
	}

	log.Printf("Generated simple script: %d words", result.WordCount())
	return result, nil
}

// RefineForVoice asks the provider to adjust phrasing for spoken delivery.
// This operation fails soft: any error returns the original text unchanged.
func (g *Generator) RefineForVoice(ctx context.Context, scriptText string, targetLength int) string {
	if targetLength <= 0 {
		targetLength = config.DefaultTargetLength
	}
	log.Printf("Refining script for voice delivery")

	user := fmt.Sprintf(`Optimize this voicenote script for natural speech delivery while keeping it under %d words:

Original script:
%s

Requirements:
1. Should take approximately %d seconds to speak naturally
2. Use conversational language and contractions
3. Add natural pauses where appropriate (indicate with commas)
4. Remove any awkward phrasing
5. Ensure smooth flow when spoken aloud
6. Keep the core message and personalization intact
7. Stay under %d words maximum

Return only the optimized script text.`,
		config.SimpleScriptMaxWords, scriptText, targetLength, config.SimpleScriptMaxWords)

	refined, err := g.provider.Complete(ctx, Completion{
		User:        user,
		Temperature: 0.3,
		MaxTokens:   200,
	})
	if err != nil {
		log.Printf("Script refinement failed, keeping original: %v", err)
		return scriptText
	}

	refined = strings.TrimSpace(refined)
	if refined == "" {
		return scriptText
	}
	return refined
}
