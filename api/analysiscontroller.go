package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"podvox/config"
	"podvox/moments"
	"podvox/types"
)

// RegisterAnalysisRoutes registers content-analysis endpoints.
func RegisterAnalysisRoutes(r *gin.Engine, deps Deps) {
	g := r.Group("/api")
	g.POST("/moments/extract", handleExtractMoments(deps))
	g.POST("/moments/ask", handleAskAboutContent(deps))
	g.POST("/analyze", handleAnalyzePodcast(deps))
}

// ExtractMomentsRequest asks for moments matching each query.
type ExtractMomentsRequest struct {
	PodcastURL    string   `json:"podcast_url" binding:"required"`
	Queries       []string `json:"queries" binding:"required"`
	MinClipLength *float64 `json:"min_clip_length"`
	StartTime     *float64 `json:"start_time"`
	EndTime       *float64 `json:"end_time"`
	Render        bool     `json:"render"`
}

// ExtractMomentsResponse lists the extracted moments in per-query order.
type ExtractMomentsResponse struct {
	Moments      []types.Moment `json:"moments"`
	TotalMoments int            `json:"total_moments"`
}

func handleExtractMoments(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ExtractMomentsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		opts := moments.DefaultFindOptions()
		if req.MinClipLength != nil {
			opts.MinClipLength = *req.MinClipLength
		}
		if req.StartTime != nil {
			opts.StartTime = *req.StartTime
		}
		if req.EndTime != nil {
			opts.EndTime = *req.EndTime
		}
		opts.Render = req.Render

		found, err := deps.Analyzer.FindMoments(c.Request.Context(), req.PodcastURL, req.Queries, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to extract moments: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, ExtractMomentsResponse{
			Moments:      found,
			TotalMoments: len(found),
		})
	}
}

// AskRequest asks a free-text question about a time range.
type AskRequest struct {
	PodcastURL string   `json:"podcast_url" binding:"required"`
	Prompt     string   `json:"prompt" binding:"required"`
	StartTime  *float64 `json:"start_time"`
	EndTime    *float64 `json:"end_time"`
	Backend    string   `json:"backend"`
}

func handleAskAboutContent(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		start := 0.0
		end := -1.0
		if req.StartTime != nil {
			start = *req.StartTime
		}
		if req.EndTime != nil {
			end = *req.EndTime
		}

		backend := deps.Backend
		if req.Backend != "" {
			backend = types.ParseBackend(req.Backend)
		}

		analysis, err := deps.Analyzer.AnswerAboutRange(c.Request.Context(), req.PodcastURL, req.Prompt, start, end, backend)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to analyze content: " + err.Error()})
			return
		}

		c.JSON(http.StatusOK, analysis)
	}
}

// AnalyzePodcastRequest runs the combined moments-then-context workflow.
type AnalyzePodcastRequest struct {
	ProspectName string `json:"prospect_name" binding:"required"`
	PodcastURL   string `json:"podcast_url" binding:"required"`
	QueryTopic   string `json:"query_topic"`
}

// AnalyzePodcastResponse carries the combined analysis outcome.
type AnalyzePodcastResponse struct {
	ProspectName    string                 `json:"prospect_name"`
	QueryTopic      string                 `json:"query_topic"`
	MomentsFound    int                    `json:"moments_found"`
	Moments         []types.Moment         `json:"moments"`
	BestMoment      *types.Moment          `json:"best_moment,omitempty"`
	ContextAnalysis *types.ContextAnalysis `json:"context_analysis,omitempty"`
}

func handleAnalyzePodcast(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AnalyzePodcastRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		topic := req.QueryTopic
		if topic == "" {
			topic = config.DefaultQueryTopic
		}

		analysis, err := deps.Analyzer.AnalyzeWithContext(c.Request.Context(), req.PodcastURL, req.ProspectName, topic, deps.Backend)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, moments.ErrUpstreamShape) {
				status = http.StatusBadGateway
			}
			c.JSON(status, gin.H{"error": "failed to analyze podcast: " + err.Error()})
			return
		}

		if !analysis.Success {
			c.JSON(http.StatusNotFound, gin.H{"error": "no relevant content found for topic: " + topic})
			return
		}

		c.JSON(http.StatusOK, AnalyzePodcastResponse{
			ProspectName:    req.ProspectName,
			QueryTopic:      topic,
			MomentsFound:    len(analysis.Moments),
			Moments:         analysis.Moments,
			BestMoment:      analysis.BestMoment,
			ContextAnalysis: analysis.ContextAnalysis,
		})
	}
}
