package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"podvox/script"
	"podvox/types"
)

// RegisterScriptRoutes registers script-generation endpoints.
func RegisterScriptRoutes(r *gin.Engine, deps Deps) {
	g := r.Group("/api")
	g.POST("/script", handleGenerateScript(deps))
	g.POST("/script/simple", handleGenerateSimpleScript(deps))
}

// GenerateScriptRequest asks for a personalized voicenote script.
type GenerateScriptRequest struct {
	ProspectName    string `json:"prospect_name" binding:"required"`
	ContextAnalysis string `json:"context_analysis" binding:"required"`
	PodcastName     string `json:"podcast_name"`
	Tone            string `json:"tone"`
	TargetLength    int    `json:"target_length"`
}

// GenerateScriptResponse wraps the generated script.
type GenerateScriptResponse struct {
	ProspectName    string                 `json:"prospect_name"`
	GeneratedScript *types.GeneratedScript `json:"generated_script"`
	Success         bool                   `json:"success"`
}

func handleGenerateScript(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateScriptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		generated, err := deps.Scripts.Generate(c.Request.Context(), script.GenerateRequest{
			ProspectName:        req.ProspectName,
			ContextAnalysis:     req.ContextAnalysis,
			PodcastName:         req.PodcastName,
			Tone:                types.ParseTone(req.Tone),
			TargetLengthSeconds: req.TargetLength,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate script: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, GenerateScriptResponse{
			ProspectName:    req.ProspectName,
			GeneratedScript: generated,
			Success:         true,
		})
	}
}

// SimpleScriptRequest asks for the stricter under-60-words script.
type SimpleScriptRequest struct {
	ProspectName string `json:"prospect_name" binding:"required"`
	Context      string `json:"context" binding:"required"`
}

func handleGenerateSimpleScript(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SimpleScriptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		generated, err := deps.Scripts.GenerateSimple(c.Request.Context(), req.ProspectName, req.Context)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate script: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, GenerateScriptResponse{
			ProspectName:    req.ProspectName,
			GeneratedScript: generated,
			Success:         true,
		})
	}
}
