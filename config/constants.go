package config

// Server Constants
const (
	// DefaultPort is the HTTP listen port when PORT is unset
	DefaultPort = "8000"
)

// Content Analysis Constants
const (
	// DefaultSieveBaseURL is the job-push API endpoint for the moments/ask service
	DefaultSieveBaseURL = "https://mango.sievedata.com/v2"

	// DefaultSieveBackend selects the faster analysis mode by default
	DefaultSieveBackend = "sieve-fast"

	// DefaultMinClipLength is the minimum clip length in seconds for moment extraction
	DefaultMinClipLength = 10.0

	// ContextMinClipLength is the longer minimum used by the combined
	// analyze-with-context workflow
	ContextMinClipLength = 15.0

	// DefaultQueryTopic is the topic searched when a request omits one
	DefaultQueryTopic = "AI thoughts"
)

// Script Generation Constants
const (
	// DefaultTargetLength is the target voicenote length in seconds
	DefaultTargetLength = 20

	// SimpleScriptMaxWords is the word ceiling asked of the simple generation
	// mode. Prompt-level only; output is not validated against it.
	SimpleScriptMaxWords = 60
)

// Speech Synthesis Constants
const (
	// DefaultElevenLabsBaseURL is the ElevenLabs API root
	DefaultElevenLabsBaseURL = "https://api.elevenlabs.io/v1"

	// DefaultTTSModel is the ElevenLabs model used for synthesis
	DefaultTTSModel = "eleven_monolingual_v1"

	// DefaultVoicenoteFormat is the audio container for written voicenotes
	DefaultVoicenoteFormat = "mp3"
)
