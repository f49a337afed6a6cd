package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"podvox/config"
	"podvox/types"
)

// ErrSynthesis marks a failed text-to-speech call. Non-200 responses and
// network failures both map to it.
var ErrSynthesis = errors.New("speech synthesis failed")

// VoiceSettings are the vendor's voice-quality parameters.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// DefaultVoiceSettings returns settings tuned for natural speech.
func DefaultVoiceSettings() VoiceSettings {
	return VoiceSettings{
		Stability:       0.5,
		SimilarityBoost: 0.8,
		Style:           0.0,
		UseSpeakerBoost: true,
	}
}

// SynthesizeOptions tunes one synthesis call.
type SynthesizeOptions struct {
	// VoiceID overrides the client's default voice.
	VoiceID string
	// ModelID selects the vendor model; empty means the default model.
	ModelID string
	// Settings overrides the default voice settings.
	Settings *VoiceSettings
}

// Client wraps an ElevenLabs-style text-to-speech REST API and writes
// voicenote files through its Store.
type Client struct {
	baseURL        string
	apiKey         string
	defaultVoiceID string
	httpClient     *http.Client
	store          *Store
}

// NewClient creates a speech-synthesis client writing files into store.
func NewClient(baseURL, apiKey, defaultVoiceID string, store *Store) *Client {
	return &Client{
		baseURL:        baseURL,
		apiKey:         apiKey,
		defaultVoiceID: defaultVoiceID,
		httpClient:     &http.Client{Timeout: 120 * time.Second},
		store:          store,
	}
}

// Store exposes the client's voicenote store.
func (c *Client) Store() *Store { return c.store }

// DefaultVoiceID reports the voice used when a call does not override it.
func (c *Client) DefaultVoiceID() string { return c.defaultVoiceID }

// Synthesize converts text to speech, returning raw audio bytes.
func (c *Client) Synthesize(ctx context.Context, text string, opts SynthesizeOptions) ([]byte, error) {
	voiceID := opts.VoiceID
	if voiceID == "" {
		voiceID = c.defaultVoiceID
	}
	modelID := opts.ModelID
	if modelID == "" {
		modelID = config.DefaultTTSModel
	}
	settings := DefaultVoiceSettings()
	if opts.Settings != nil {
		settings = *opts.Settings
	}

	log.Printf("Converting text to speech: %s...", truncate(text, 100))

	payload, err := json.Marshal(map[string]interface{}{
		"text":           text,
		"model_id":       modelID,
		"voice_settings": settings,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/text-to-speech/"+voiceID, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrSynthesis, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrSynthesis, resp.StatusCode, bytes.TrimSpace(body))
	}

	log.Printf("Successfully generated %d bytes of audio", len(body))
	return body, nil
}

// WriteVoicenote synthesizes text and writes the audio to outputPath, or to
// an auto-generated name in the store when outputPath is empty.
func (c *Client) WriteVoicenote(ctx context.Context, text, outputPath string, opts SynthesizeOptions) (*types.VoicenoteFile, error) {
	log.Printf("Creating voicenote file for text: %s...", truncate(text, 50))

	audio, err := c.Synthesize(ctx, text, opts)
	if err != nil {
		return nil, err
	}

	voiceID := opts.VoiceID
	if voiceID == "" {
		voiceID = c.defaultVoiceID
	}

	vn, err := c.store.Write(audio, outputPath, voiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: writing file: %v", ErrSynthesis, err)
	}

	// Word-count estimate; replaced by a probed duration when ffprobe can
	// read the file.
	vn.EstimatedDurationSeconds = types.EstimateSpokenSeconds(text)
	if probed, err := probeDuration(vn.Path); err == nil && probed > 0 {
		vn.EstimatedDurationSeconds = probed
	}

	log.Printf("Voicenote saved to: %s", vn.Path)
	return vn, nil
}

// Voice is one entry of the vendor's voice catalog.
type Voice struct {
	VoiceID  string            `json:"voice_id"`
	Name     string            `json:"name"`
	Category string            `json:"category,omitempty"`
	Labels   map[string]string `json:"labels,omitempty"`
}

// GetVoiceInfo fetches catalog metadata for one voice. An empty voiceID
// resolves to the client's default voice.
func (c *Client) GetVoiceInfo(ctx context.Context, voiceID string) (*Voice, error) {
	if voiceID == "" {
		voiceID = c.defaultVoiceID
	}

	var v Voice
	if err := c.getJSON(ctx, "/voices/"+voiceID, &v); err != nil {
		return nil, fmt.Errorf("failed to get voice info: %w", err)
	}
	return &v, nil
}

// ListVoices fetches the vendor's voice catalog.
func (c *Client) ListVoices(ctx context.Context) ([]Voice, error) {
	var parsed struct {
		Voices []Voice `json:"voices"`
	}
	if err := c.getJSON(ctx, "/voices", &parsed); err != nil {
		return nil, fmt.Errorf("failed to list voices: %w", err)
	}
	return parsed.Voices, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
