package feeds

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Episode is one podcast episode resolved from an RSS feed.
type Episode struct {
	Title       string    `json:"title"`
	PodcastName string    `json:"podcast_name"`
	AudioURL    string    `json:"audio_url"`
	PublishedAt time.Time `json:"published_at"`
}

// ResolveEpisode parses a podcast RSS/Atom feed and returns the newest
// episode carrying an audio enclosure. Callers use this when they have a
// show's feed URL rather than a direct media URL.
func ResolveEpisode(feedURL string) (*Episode, error) {
	parser := gofeed.NewParser()
	feed, err := parser.ParseURL(feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	for _, item := range feed.Items {
		audioURL := audioEnclosureURL(item)
		if audioURL == "" {
			continue
		}

		var publishedAt time.Time
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			publishedAt = *item.UpdatedParsed
		}

		return &Episode{
			Title:       item.Title,
			PodcastName: feed.Title,
			AudioURL:    audioURL,
			PublishedAt: publishedAt,
		}, nil
	}

	return nil, fmt.Errorf("no audio episodes found in feed: %s", feedURL)
}

// audioEnclosureURL returns the item's first audio enclosure URL, if any.
func audioEnclosureURL(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		if strings.HasPrefix(enc.Type, "audio/") || enc.Type == "" {
			return enc.URL
		}
	}
	return ""
}
