package tts

import (
	"context"
	"time"
)

// Synthesizer defines the contract for any TTS vendor implementation.
type Synthesizer interface {
	// Name returns adapter name for logging/metrics.
	Name() string
	// Synthesize renders text in the voice for language and returns the audio.
	Synthesize(ctx context.Context, text, language string) (Audio, error)
}

// Audio is a complete synthesized clip.
type Audio struct {
	Data        []byte
	Format      string
	ContentType string
	Language    string
	Provider    string
	Elapsed     time.Duration
}

// Extension maps the audio format to a file extension.
func (a Audio) Extension() string {
	switch a.Format {
	case "", "mp3", "mpeg":
		return "mp3"
	case "mulaw", "ulaw":
		return "ulaw"
	case "pcm", "linear16":
		return "pcm"
	default:
		return a.Format
	}
}
