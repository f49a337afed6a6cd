package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"podvox/config"
	"podvox/types"
)

// Store manages the voicenote output directory: file naming, lookups for
// download, and an optional TTL sweep so files do not accumulate forever.
type Store struct {
	dir string
	ttl time.Duration
}

// NewStore creates a voicenote store rooted at dir. A zero ttl disables
// sweeping; files then live until a caller removes them.
func NewStore(dir string, ttl time.Duration) *Store {
	return &Store{dir: dir, ttl: ttl}
}

// Dir reports the store's root directory.
func (s *Store) Dir() string { return s.dir }

// Write saves audio bytes to outputPath, or to an auto-generated
// voicenote_<timestamp>_<suffix>.mp3 name under the store directory when
// outputPath is empty. The random suffix keeps two writes within the same
// second from colliding.
func (s *Store) Write(audio []byte, outputPath, voiceID string) (*types.VoicenoteFile, error) {
	if outputPath == "" {
		name := fmt.Sprintf("voicenote_%d_%s.%s",
			time.Now().Unix(), uuid.NewString()[:8], config.DefaultVoicenoteFormat)
		outputPath = filepath.Join(s.dir, name)
	}

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, audio, 0644); err != nil {
		return nil, err
	}

	return &types.VoicenoteFile{
		Path:      outputPath,
		Filename:  filepath.Base(outputPath),
		SizeBytes: int64(len(audio)),
		VoiceID:   voiceID,
		CreatedAt: time.Now(),
	}, nil
}

// Resolve maps a previously assigned filename back to its path, rejecting
// anything that would escape the store directory.
func (s *Store) Resolve(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", fmt.Errorf("invalid voicenote filename: %q", filename)
	}

	path := filepath.Join(s.dir, filename)
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("invalid voicenote filename: %q", filename)
	}
	return path, nil
}

// StartSweeper runs a background loop deleting voicenotes older than the
// store TTL. It is a no-op when no TTL is configured and stops when ctx is
// cancelled.
func (s *Store) StartSweeper(ctx context.Context) {
	if s.ttl <= 0 {
		return
	}

	go func() {
		interval := s.ttl / 2
		if interval < time.Minute {
			interval = time.Minute
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.sweep(time.Now()); n > 0 {
					log.Printf("Voicenote sweep removed %d expired file(s)", n)
				}
			}
		}
	}()
}

// sweep removes voicenote files last modified before now-ttl and reports
// how many were deleted.
func (s *Store) sweep(now time.Time) int {
	pattern := filepath.Join(s.dir, "voicenote_*."+config.DefaultVoicenoteFormat)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return 0
	}

	cutoff := now.Add(-s.ttl)
	removed := 0
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err == nil {
				removed++
			}
		}
	}
	return removed
}

// probeDuration reads the real audio duration with ffprobe. Callers fall
// back to the word-count estimate when ffprobe is unavailable.
func probeDuration(path string) (float64, error) {
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, err
	}

	var parsed struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return 0, err
	}

	return strconv.ParseFloat(parsed.Format.Duration, 64)
}
