package mock

import (
	"context"
	"sync"

	"github.com/harunnryd/shivaay/pkg/llm"
)

type LLMConfig struct {
	ResponseText string
	Err          error
}

// LLMAdapter answers every request with ResponseText (or Err) and keeps the
// requests it saw.
type LLMAdapter struct {
	cfg      LLMConfig
	mu       sync.Mutex
	requests []llm.Request
}

func NewLLMAdapter(cfg LLMConfig) *LLMAdapter {
	if cfg.ResponseText == "" && cfg.Err == nil {
		cfg.ResponseText = "mock response"
	}
	return &LLMAdapter{cfg: cfg}
}

func (a *LLMAdapter) Name() string { return "mock_llm" }

func (a *LLMAdapter) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	a.mu.Lock()
	a.requests = append(a.requests, req)
	a.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return llm.Response{}, err
	}
	if a.cfg.Err != nil {
		return llm.Response{}, a.cfg.Err
	}
	return llm.Response{Text: a.cfg.ResponseText, FinishReason: "stop"}, nil
}

// Requests returns a copy of every request received.
func (a *LLMAdapter) Requests() []llm.Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]llm.Request, len(a.requests))
	copy(out, a.requests)
	return out
}

var _ llm.Adapter = (*LLMAdapter)(nil)
