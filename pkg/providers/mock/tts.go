package mock

import (
	"context"
	"sync"

	"github.com/harunnryd/shivaay/pkg/tts"
)

type TTSConfig struct {
	Err error
}

type SynthesizeCall struct {
	Text     string
	Language string
}

// Synthesizer returns a short silent clip for every request.
type Synthesizer struct {
	cfg   TTSConfig
	mu    sync.Mutex
	calls []SynthesizeCall
}

func NewSynthesizer(cfg TTSConfig) *Synthesizer {
	return &Synthesizer{cfg: cfg}
}

func (s *Synthesizer) Name() string { return "mock_tts" }

func (s *Synthesizer) Synthesize(ctx context.Context, text, language string) (tts.Audio, error) {
	s.mu.Lock()
	s.calls = append(s.calls, SynthesizeCall{Text: text, Language: language})
	s.mu.Unlock()
	if s.cfg.Err != nil {
		return tts.Audio{}, s.cfg.Err
	}
	return tts.Audio{
		Data:        make([]byte, 320),
		Format:      "mp3",
		ContentType: "audio/mpeg",
		Language:    language,
		Provider:    s.Name(),
	}, nil
}

func (s *Synthesizer) Calls() []SynthesizeCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SynthesizeCall, len(s.calls))
	copy(out, s.calls)
	return out
}

var _ tts.Synthesizer = (*Synthesizer)(nil)
