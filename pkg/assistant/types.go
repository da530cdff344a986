package assistant

import (
	"context"
	"errors"

	"github.com/harunnryd/shivaay/pkg/actions"
	"github.com/harunnryd/shivaay/pkg/conversation"
	"github.com/harunnryd/shivaay/pkg/errorsx"
	"github.com/harunnryd/shivaay/pkg/language"
	"github.com/harunnryd/shivaay/pkg/voice"
)

var ErrInvalidRequest = errors.New("invalid request")

// Request is one inbound turn. History is whatever the client echoed back
// from the previous turn; it may be empty.
type Request struct {
	RequestID string
	Query     string
	IsVoice   bool
	History   conversation.History
}

type Result struct {
	Response   string
	Audio      *voice.Artifact
	AudioError string
	History    conversation.History
	Language   language.Code
	Actions    []actions.Action
}

// TurnContext carries the per-request state between stages. It is never
// shared across requests.
type TurnContext struct {
	RequestID       string
	RawQuery        string
	NormalizedQuery string
	IsVoice         bool
	Language        language.Code
	Rule            string
	Entry           language.Entry
	History         conversation.History
}

// CompletionError reports a failed completion call. Its Response is the
// user-facing message.
type CompletionError struct {
	Err error
}

func (e *CompletionError) Error() string { return "completion failed: " + e.Err.Error() }

func (e *CompletionError) Unwrap() error { return e.Err }

// Response renders the message returned to the client.
func (e *CompletionError) Response() string { return "Error contacting AI: " + e.Err.Error() }

func (e *CompletionError) Reason() errorsx.ReasonCode { return errorsx.Reason(e.Err) }

// Speaker produces the voice artifact for a reply.
type Speaker interface {
	Respond(ctx context.Context, text string, code language.Code) (voice.Artifact, error)
}

var _ Speaker = (*voice.Responder)(nil)
