package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterVoiceRoutes registers voice-catalog endpoints.
func RegisterVoiceRoutes(r *gin.Engine, deps Deps) {
	g := r.Group("/api")
	g.GET("/voices", handleListVoices(deps))
	g.GET("/voices/:id", handleGetVoice(deps))
}

func handleListVoices(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		voices, err := deps.Voices.ListVoices(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list voices: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"voices": voices})
	}
}

func handleGetVoice(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		info, err := deps.Voices.GetVoiceInfo(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get voice info: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, info)
	}
}
