package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"podvox/orchestrator"
	"podvox/types"
)

// RegisterPipelineRoutes registers the full-pipeline and voicenote download
// endpoints.
func RegisterPipelineRoutes(r *gin.Engine, deps Deps) {
	g := r.Group("/api")
	g.POST("/generate", handleGenerateVoicenote(deps))
	g.GET("/voicenotes/:filename", handleGetVoicenote(deps))
}

// GenerateVoicenoteRequest runs the full analyze → script → voicenote
// pipeline. Exactly one of podcast_url or feed_url must be supplied.
type GenerateVoicenoteRequest struct {
	ProspectName string `json:"prospect_name" binding:"required"`
	PodcastName  string `json:"podcast_name"`
	PodcastURL   string `json:"podcast_url"`
	FeedURL      string `json:"feed_url"`
	QueryTopic   string `json:"query_topic"`
	Tone         string `json:"tone"`
	TargetLength int    `json:"target_length"`
	SkipVoice    bool   `json:"skip_voice"`
}

func handleGenerateVoicenote(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateVoicenoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.PodcastURL == "" && req.FeedURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "either podcast_url or feed_url is required"})
			return
		}

		result, err := deps.Pipeline.Run(c.Request.Context(), orchestrator.Request{
			ProspectName: req.ProspectName,
			PodcastName:  req.PodcastName,
			PodcastURL:   req.PodcastURL,
			FeedURL:      req.FeedURL,
			Topic:        req.QueryTopic,
			Tone:         types.ParseTone(req.Tone),
			TargetLength: req.TargetLength,
			SkipVoice:    req.SkipVoice,
		})
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, orchestrator.ErrNoContent) {
				status = http.StatusNotFound
			}
			// The partial result shows how far the pipeline progressed.
			payload := gin.H{"error": err.Error()}
			if result != nil {
				payload["processing_steps"] = result.Steps
			}
			c.JSON(status, payload)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func handleGetVoicenote(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		filename := c.Param("filename")

		path, err := deps.Voicenotes.Resolve(filename)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "voicenote not found: " + filename})
			return
		}

		c.Header("Content-Type", "audio/mpeg")
		c.File(path)
	}
}
