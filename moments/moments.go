package moments

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"podvox/config"
	"podvox/types"
)

// FindOptions tunes a moments-extraction call.
type FindOptions struct {
	// MinClipLength is the minimum clip length in seconds.
	MinClipLength float64
	// StartTime / EndTime bound the portion of the media to process.
	// EndTime -1 means "to the end".
	StartTime float64
	EndTime   float64
	// Render asks the service to render extracted clips.
	Render bool
}

// DefaultFindOptions returns the standard extraction options.
func DefaultFindOptions() FindOptions {
	return FindOptions{
		MinClipLength: config.DefaultMinClipLength,
		StartTime:     0,
		EndTime:       -1,
		Render:        false,
	}
}

// momentRecord is the wire shape of a single moments result. Time fields are
// pointers so a malformed record is detected instead of silently zeroed.
type momentRecord struct {
	StartTime *float64 `json:"start_time"`
	EndTime   *float64 `json:"end_time"`
	ClipURL   string   `json:"clip_url,omitempty"`
}

// adaptMomentRecord normalizes one raw record into a Moment, failing fast
// on records that do not carry a time range.
func adaptMomentRecord(rec momentRecord, sourceQuery string) (types.Moment, error) {
	if rec.StartTime == nil || rec.EndTime == nil {
		return types.Moment{}, fmt.Errorf("%w: moment record missing time range", ErrUpstreamShape)
	}
	if *rec.EndTime < *rec.StartTime {
		return types.Moment{}, fmt.Errorf("%w: moment record with end before start (%.2f < %.2f)",
			ErrUpstreamShape, *rec.EndTime, *rec.StartTime)
	}
	return types.NewMoment(*rec.StartTime, *rec.EndTime, sourceQuery, rec.ClipURL), nil
}

// FindMoments extracts moments matching each query from the media at
// mediaURL. Queries run strictly one at a time in the given order and the
// result is the concatenation of each query's results, tagged with the
// originating query. A query with zero matches contributes nothing; any
// upstream failure aborts the whole call with no partial results.
func (c *Client) FindMoments(ctx context.Context, mediaURL string, queries []string, opts FindOptions) ([]types.Moment, error) {
	log.Printf("Starting moments extraction for: %s", mediaURL)
	log.Printf("Queries: %v", queries)

	all := make([]types.Moment, 0)

	for _, query := range queries {
		log.Printf("Processing query: %q", query)

		outputs, err := c.runJob(ctx, momentsFunction, map[string]interface{}{
			"video":           map[string]string{"url": mediaURL},
			"query":           query,
			"min_clip_length": opts.MinClipLength,
			"start_time":      opts.StartTime,
			"end_time":        opts.EndTime,
			"render":          opts.Render,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
		}

		var records []momentRecord
		if len(outputs) > 0 {
			if err := json.Unmarshal(outputs, &records); err != nil {
				return nil, fmt.Errorf("%w: decoding moment records: %v", ErrUpstreamShape, err)
			}
		}

		for _, rec := range records {
			moment, err := adaptMomentRecord(rec, query)
			if err != nil {
				return nil, err
			}
			all = append(all, moment)
		}

		log.Printf("Found %d moments for query: %q", len(records), query)
	}

	log.Printf("Completed moments extraction. Total moments: %d", len(all))
	return all, nil
}

// AnswerAboutRange asks a free-text question about the media between start
// and end seconds, using the given analysis backend.
func (c *Client) AnswerAboutRange(ctx context.Context, mediaURL, prompt string, start, end float64, backend types.Backend) (*types.ContextAnalysis, error) {
	log.Printf("Starting content analysis for: %s (%.2fs to %.2fs)", mediaURL, start, end)

	outputs, err := c.runJob(ctx, askFunction, map[string]interface{}{
		"video":      map[string]string{"url": mediaURL},
		"prompt":     prompt,
		"start_time": start,
		"end_time":   end,
		"backend":    string(backend),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysis, err)
	}

	var answer string
	if err := json.Unmarshal(outputs, &answer); err != nil {
		return nil, fmt.Errorf("%w: decoding answer: %v", ErrUpstreamShape, err)
	}

	log.Printf("Completed content analysis")
	return &types.ContextAnalysis{
		Answer:    answer,
		StartTime: start,
		EndTime:   end,
		Backend:   backend,
	}, nil
}

// Analysis is the outcome of the combined analyze-with-context workflow.
type Analysis struct {
	Moments         []types.Moment         `json:"moments"`
	BestMoment      *types.Moment          `json:"best_moment,omitempty"`
	ContextAnalysis *types.ContextAnalysis `json:"context_analysis,omitempty"`
	// Success is false when the topic query matched nothing. That is a
	// domain outcome, not an error.
	Success bool `json:"success"`
}

const contextPromptTemplate = `Analyze this specific segment where %s discusses %s.
Please provide:
1. What specific points they made about %s
2. Their opinion or stance on the topic
3. Any personal experiences or insights they shared
4. Key quotes or memorable phrases they used

Format the response in a way that would help someone create a personalized outreach message.`

// AnalyzeWithContext runs the combined workflow: find moments for the topic,
// then ask for context about the best one. The best moment is always the
// first result; no scoring is applied.
func (c *Client) AnalyzeWithContext(ctx context.Context, mediaURL, prospectName, topic string, backend types.Backend) (*Analysis, error) {
	log.Printf("Starting complete analysis for %s (topic: %q)", prospectName, topic)

	found, err := c.FindMoments(ctx, mediaURL, []string{topic}, FindOptions{
		MinClipLength: config.ContextMinClipLength,
		StartTime:     0,
		EndTime:       -1,
		Render:        false,
	})
	if err != nil {
		return nil, err
	}

	if len(found) == 0 {
		log.Printf("No moments found for topic: %q", topic)
		return &Analysis{Moments: []types.Moment{}, Success: false}, nil
	}

	best := found[0]
	prompt := fmt.Sprintf(contextPromptTemplate, prospectName, topic, topic)

	analysis, err := c.AnswerAboutRange(ctx, mediaURL, prompt, best.StartTime, best.EndTime, backend)
	if err != nil {
		return nil, err
	}

	return &Analysis{
		Moments:         found,
		BestMoment:      &best,
		ContextAnalysis: analysis,
		Success:         true,
	}, nil
}
