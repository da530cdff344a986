package llm

import (
	"context"

	"github.com/harunnryd/shivaay/pkg/conversation"
)

// Message is one role/content pair sent to a completion provider.
type Message struct {
	Role    string
	Content string
}

type Request struct {
	Messages    []Message
	MaxTokens   int
	Temperature float32
	TopP        float32
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Response struct {
	Text         string
	FinishReason string
	Usage        Usage
}

// Adapter is a synchronous completion provider.
type Adapter interface {
	Generate(ctx context.Context, req Request) (Response, error)
	Name() string
}

// FromHistory converts a conversation history into provider messages.
func FromHistory(h conversation.History) []Message {
	out := make([]Message, 0, len(h))
	for _, t := range h {
		out = append(out, Message{Role: string(t.Role), Content: t.Content})
	}
	return out
}
