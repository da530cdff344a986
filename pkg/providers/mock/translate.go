package mock

import (
	"context"
	"sync"

	"github.com/harunnryd/shivaay/pkg/translate"
)

type TranslatorConfig struct {
	// Output is returned for every call; empty means "[target] text".
	Output string
	Err    error
}

type TranslateCall struct {
	Text   string
	Source string
	Target string
}

type Translator struct {
	cfg   TranslatorConfig
	mu    sync.Mutex
	calls []TranslateCall
}

func NewTranslator(cfg TranslatorConfig) *Translator {
	return &Translator{cfg: cfg}
}

func (t *Translator) Name() string { return "mock_translate" }

func (t *Translator) Translate(ctx context.Context, text, source, target string) (string, error) {
	t.mu.Lock()
	t.calls = append(t.calls, TranslateCall{Text: text, Source: source, Target: target})
	t.mu.Unlock()
	if t.cfg.Err != nil {
		return "", t.cfg.Err
	}
	if t.cfg.Output != "" {
		return t.cfg.Output, nil
	}
	return "[" + target + "] " + text, nil
}

func (t *Translator) Calls() []TranslateCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TranslateCall, len(t.calls))
	copy(out, t.calls)
	return out
}

var _ translate.Translator = (*Translator)(nil)
