package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"podvox/api"
	"podvox/common"
	"podvox/config"
	"podvox/moments"
	"podvox/orchestrator"
	"podvox/script"
	"podvox/voice"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	settings := config.Load()
	ctx := context.Background()

	analyzer := moments.NewClient(settings.SieveBaseURL, settings.SieveAPIKey)

	provider := script.NewChatProvider(settings.CohereAPIKey, settings.OpenAIAPIKey)
	if provider == nil {
		log.Fatal("no text-generation provider configured: set COHERE_API_KEY or OPENAI_API_KEY")
	}
	log.Printf("Using chat provider model: %s", provider.ModelName())
	scripts := script.NewGenerator(provider)

	store := voice.NewStore(settings.VoicenoteDir, settings.VoicenoteTTL)
	store.StartSweeper(ctx)
	voiceClient := voice.NewClient(settings.ElevenLabsBaseURL, settings.ElevenLabsAPIKey, settings.ElevenLabsVoiceID, store)

	uploader := initializeS3(ctx, settings)

	pipeline := orchestrator.NewPipeline(analyzer, scripts, voiceClient, uploader, settings)

	r := api.NewRouter(api.Deps{
		Analyzer:   analyzer,
		Scripts:    scripts,
		Voices:     voiceClient,
		Pipeline:   pipeline,
		Voicenotes: store,
		Backend:    pipeline.Backend,
	})

	addr := ":" + settings.Port
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /api/health")
	log.Println("  POST /api/moments/extract")
	log.Println("  POST /api/moments/ask")
	log.Println("  POST /api/analyze")
	log.Println("  POST /api/script")
	log.Println("  POST /api/script/simple")
	log.Println("  POST /api/generate")
	log.Println("  GET  /api/voicenotes/:filename")
	log.Println("  GET  /api/voices")
	log.Println("  GET  /api/voices/:id")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// initializeS3 returns an S3 uploader if archival is configured via env.
// Required: S3_BUCKET. Optional: S3_REGION, S3_PROFILE, S3_PREFIX, S3_USE_PATH_STYLE=true
func initializeS3(ctx context.Context, settings *config.Settings) orchestrator.Uploader {
	if settings.S3Bucket == "" {
		log.Printf("S3 not configured; voicenote archival disabled")
		return nil
	}

	client, err := common.NewS3(ctx, common.S3Config{
		Region:       settings.S3Region,
		Profile:      settings.S3Profile,
		UsePathStyle: settings.S3UsePathStyle,
	})
	if err != nil {
		log.Printf("Warning: failed to init S3 client: %v (archival disabled)", err)
		return nil
	}

	log.Printf("Voicenote archival enabled: bucket %q prefix %q", settings.S3Bucket, settings.S3Prefix)
	return client
}
