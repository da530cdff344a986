package mock

import (
	"context"
	"io"

	"github.com/harunnryd/shivaay/pkg/stt"
)

type STTConfig struct {
	Transcript string
	Language   string
	Err        error
}

// Transcriber drains the clip and returns the configured transcript.
type Transcriber struct {
	cfg STTConfig
}

func NewTranscriber(cfg STTConfig) *Transcriber {
	if cfg.Transcript == "" {
		cfg.Transcript = "mock transcript"
	}
	return &Transcriber{cfg: cfg}
}

func (t *Transcriber) Name() string { return "mock_stt" }

func (t *Transcriber) Transcribe(ctx context.Context, audio io.Reader, mimeType string) (stt.Transcript, error) {
	if audio != nil {
		if _, err := io.Copy(io.Discard, audio); err != nil {
			return stt.Transcript{}, err
		}
	}
	if t.cfg.Err != nil {
		return stt.Transcript{}, t.cfg.Err
	}
	return stt.Transcript{Text: t.cfg.Transcript, Language: t.cfg.Language, Confidence: 1}, nil
}

var _ stt.Transcriber = (*Transcriber)(nil)
