package config

import (
	"os"
	"strings"
	"time"
)

// Settings holds process-wide configuration. It is built once at startup and
// passed by reference; read-only afterwards.
type Settings struct {
	// HTTP server
	Port string

	// Content-analysis service (Sieve-style moments/ask API)
	SieveAPIKey  string
	SieveBaseURL string
	SieveBackend string

	// Script generation providers
	CohereAPIKey string
	OpenAIAPIKey string

	// Speech synthesis (ElevenLabs-style API)
	ElevenLabsAPIKey  string
	ElevenLabsVoiceID string
	ElevenLabsBaseURL string

	// Voicenote output
	VoicenoteDir string
	VoicenoteTTL time.Duration

	// Optional S3 archival
	S3Bucket       string
	S3Region       string
	S3Profile      string
	S3Prefix       string
	S3UsePathStyle bool
}

// Load reads settings from the environment, applying defaults.
func Load() *Settings {
	s := &Settings{
		Port:              GetEnvOrDefault("PORT", DefaultPort),
		SieveAPIKey:       os.Getenv("SIEVE_API_KEY"),
		SieveBaseURL:      GetEnvOrDefault("SIEVE_BASE_URL", DefaultSieveBaseURL),
		SieveBackend:      GetEnvOrDefault("SIEVE_BACKEND", DefaultSieveBackend),
		CohereAPIKey:      os.Getenv("COHERE_API_KEY"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		ElevenLabsAPIKey:  os.Getenv("ELEVENLABS_API_KEY"),
		ElevenLabsVoiceID: os.Getenv("ELEVENLABS_VOICE_ID"),
		ElevenLabsBaseURL: GetEnvOrDefault("ELEVENLABS_BASE_URL", DefaultElevenLabsBaseURL),
		VoicenoteDir:      GetEnvOrDefault("VOICENOTE_DIR", os.TempDir()),
		S3Bucket:          strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region:          strings.TrimSpace(os.Getenv("S3_REGION")),
		S3Profile:         strings.TrimSpace(os.Getenv("S3_PROFILE")),
		S3UsePathStyle:    strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true"),
	}

	// Voicenotes live forever unless a TTL is configured.
	if v := os.Getenv("VOICENOTE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			s.VoicenoteTTL = d
		}
	}

	prefix := strings.TrimSpace(os.Getenv("S3_PREFIX"))
	if prefix != "" {
		prefix = strings.Trim(prefix, "/") + "/"
	}
	s.S3Prefix = prefix

	return s
}

// GetEnvOrDefault returns the value of an environment variable or a default value.
func GetEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
