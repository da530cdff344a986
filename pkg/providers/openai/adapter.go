package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/harunnryd/shivaay/pkg/llm"
	"github.com/harunnryd/shivaay/pkg/resilience"
)

const (
	DefaultBaseURL = "https://api.futurixai.com/api/shivaay/v1"
	DefaultModel   = "shivaay"
)

var ErrNoChoices = errors.New("completion returned no choices")

// Config configures an OpenAI-compatible chat completion backend.
type Config struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float32       `mapstructure:"temperature"`
	TopP        float32       `mapstructure:"top_p"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// Adapter calls /chat/completions on any OpenAI-compatible endpoint.
type Adapter struct {
	client *goopenai.Client
	cfg    Config
}

func NewAdapter(cfg Config) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &Adapter{client: goopenai.NewClientWithConfig(clientCfg), cfg: cfg}
}

func (a *Adapter) Name() string { return "openai" }

func (a *Adapter) Model() string { return a.cfg.Model }

// Generate sends one non-streaming completion. Sampling values left at zero
// on req fall back to the adapter configuration.
func (a *Adapter) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	out := goopenai.ChatCompletionRequest{
		Model:       a.cfg.Model,
		Messages:    toMessages(req.Messages),
		MaxTokens:   firstInt(req.MaxTokens, a.cfg.MaxTokens),
		Temperature: firstFloat(req.Temperature, a.cfg.Temperature),
		TopP:        firstFloat(req.TopP, a.cfg.TopP),
	}
	resp, err := a.client.CreateChatCompletion(ctx, out)
	if err != nil {
		return llm.Response{}, mapError(err)
	}
	if len(resp.Choices) == 0 {
		return llm.Response{}, ErrNoChoices
	}
	choice := resp.Choices[0]
	return llm.Response{
		Text:         strings.TrimSpace(choice.Message.Content),
		FinishReason: string(choice.FinishReason),
		Usage: llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func toMessages(in []llm.Message) []goopenai.ChatCompletionMessage {
	out := make([]goopenai.ChatCompletionMessage, 0, len(in))
	for _, m := range in {
		out = append(out, goopenai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return out
}

func mapError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return resilience.RateLimitError{Provider: "openai", Message: apiErr.Message}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return resilience.RateLimitError{Provider: "openai", Message: reqErr.Error()}
	}
	return fmt.Errorf("openai completion: %w", err)
}

func firstInt(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func firstFloat(v, fallback float32) float32 {
	if v > 0 {
		return v
	}
	return fallback
}

var _ llm.Adapter = (*Adapter)(nil)
