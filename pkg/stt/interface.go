package stt

import (
	"context"
	"io"
)

// Transcriber converts a recorded utterance into text.
type Transcriber interface {
	// Name returns adapter name for logging/metrics.
	Name() string
	// Transcribe reads the whole clip from audio. mimeType may be empty.
	Transcribe(ctx context.Context, audio io.Reader, mimeType string) (Transcript, error)
}

// Transcript is the best alternative of a recognised clip.
type Transcript struct {
	Text       string
	Language   string
	Confidence float64
}
