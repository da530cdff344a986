package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/harunnryd/shivaay/pkg/actions"
	"github.com/harunnryd/shivaay/pkg/conversation"
	"github.com/harunnryd/shivaay/pkg/drift"
	"github.com/harunnryd/shivaay/pkg/errorsx"
	"github.com/harunnryd/shivaay/pkg/language"
	"github.com/harunnryd/shivaay/pkg/llm"
	"github.com/harunnryd/shivaay/pkg/metrics"
	"github.com/harunnryd/shivaay/pkg/prompt"
	"github.com/harunnryd/shivaay/pkg/redact"
	"github.com/harunnryd/shivaay/pkg/resilience"
)

// Sampling holds the completion parameters sent with every turn.
type Sampling struct {
	MaxTokens   int
	Temperature float32
	TopP        float32
}

type Config struct {
	Classifier        *language.Classifier
	Composer          prompt.Composer
	Adapter           llm.Adapter
	Corrector         *drift.Corrector
	Speaker           Speaker
	Sampling          Sampling
	CompletionTimeout time.Duration
	// DefaultSystem seeds histories that arrive without a system turn.
	DefaultSystem string
	Observer      metrics.Observer
	Logger        *slog.Logger
}

// Pipeline runs a turn through its stages:
// classify, resolve, append user, compose, complete, correct, append
// assistant, speak. It holds no per-request state and is safe for
// concurrent use.
type Pipeline struct {
	cfg Config
}

func New(cfg Config) (*Pipeline, error) {
	if cfg.Adapter == nil {
		return nil, errors.New("assistant: completion adapter is required")
	}
	if cfg.Classifier == nil {
		cfg.Classifier = language.NewClassifier(language.ClassifierOptions{})
	}
	if cfg.Corrector == nil {
		cfg.Corrector = drift.NewCorrector(nil, drift.Options{})
	}
	if cfg.CompletionTimeout <= 0 {
		cfg.CompletionTimeout = 60 * time.Second
	}
	if cfg.DefaultSystem == "" {
		cfg.DefaultSystem = conversation.DefaultSystemPrompt
	}
	if cfg.Composer.Base == "" {
		cfg.Composer = prompt.NewComposer(cfg.DefaultSystem)
	}
	if cfg.Observer == nil {
		cfg.Observer = metrics.NoopObserver{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Pipeline{cfg: cfg}, nil
}

// Handle runs one turn. On completion failure it returns a *CompletionError
// together with a Result whose History holds the user turn only.
func (p *Pipeline) Handle(ctx context.Context, req Request) (Result, error) {
	started := time.Now()
	tc, err := p.begin(req)
	if err != nil {
		return Result{}, err
	}
	log := p.cfg.Logger.With("request_id", tc.RequestID)
	log.Info("turn_classified",
		"language", string(tc.Language),
		"rule", tc.Rule,
		"is_voice", tc.IsVoice,
		"text", redact.Text(tc.RawQuery))
	p.cfg.Observer.RecordEvent(metrics.Event(metrics.EventTurnClassified, 1, map[string]string{
		"language": string(tc.Language),
		"rule":     tc.Rule,
	}))

	tc.History = conversation.Append(tc.History, conversation.RoleUser, tc.RawQuery)
	tc.History = p.cfg.Composer.Compose(tc.History, tc.Entry)

	reply, err := p.complete(ctx, tc)
	if err != nil {
		cerr := &CompletionError{Err: err}
		log.Error("llm_generate_error",
			"provider", p.cfg.Adapter.Name(),
			"reason_code", string(cerr.Reason()),
			"error", err)
		p.cfg.Observer.RecordEvent(metrics.Event(metrics.EventCompletionFailed, 1, map[string]string{
			"reason":   string(cerr.Reason()),
			"provider": p.cfg.Adapter.Name(),
		}))
		return Result{
			Response: cerr.Response(),
			History:  tc.History,
			Language: tc.Language,
		}, cerr
	}

	corrected := p.cfg.Corrector.Correct(ctx, reply, tc.Language)
	if corrected.Drifted {
		log.Info("drift_detected",
			"language", string(tc.Language),
			"ascii_share", corrected.ASCIIShare,
			"translated", corrected.Translated)
	}
	text := corrected.Text
	tc.History = conversation.Append(tc.History, conversation.RoleAssistant, text)

	res := Result{
		Response: text,
		History:  tc.History,
		Language: tc.Language,
		Actions:  actions.Extract(text),
	}
	if tc.IsVoice {
		p.speak(ctx, log, tc, &res)
	}

	elapsed := time.Since(started)
	p.cfg.Observer.RecordEvent(metrics.Event(metrics.EventTurnLatency, float64(elapsed.Milliseconds()), map[string]string{
		"language": string(tc.Language),
		"voice":    fmt.Sprint(tc.IsVoice),
	}))
	log.Info("turn_completed",
		"language", string(tc.Language),
		"actions", len(res.Actions),
		"elapsed_ms", elapsed.Milliseconds())
	return res, nil
}

// begin validates the request and resolves the language.
func (p *Pipeline) begin(req Request) (TurnContext, error) {
	if err := conversation.Validate(req.History); err != nil {
		return TurnContext{}, errorsx.Wrap(fmt.Errorf("%w: %v", ErrInvalidRequest, err), errorsx.ReasonInvalidRequest)
	}
	decision := p.cfg.Classifier.Explain(req.Query)
	return TurnContext{
		RequestID:       req.RequestID,
		RawQuery:        req.Query,
		NormalizedQuery: strings.ToLower(strings.TrimSpace(req.Query)),
		IsVoice:         req.IsVoice,
		Language:        decision.Code,
		Rule:            decision.Rule,
		Entry:           language.Resolve(decision.Code),
		History:         conversation.EnsureSystem(req.History, p.cfg.DefaultSystem),
	}, nil
}

func (p *Pipeline) complete(ctx context.Context, tc TurnContext) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.CompletionTimeout)
	defer cancel()
	resp, err := p.cfg.Adapter.Generate(ctx, llm.Request{
		Messages:    llm.FromHistory(tc.History),
		MaxTokens:   p.cfg.Sampling.MaxTokens,
		Temperature: p.cfg.Sampling.Temperature,
		TopP:        p.cfg.Sampling.TopP,
	})
	if err != nil {
		reason := errorsx.ReasonLLMGenerate
		switch {
		case resilience.IsRateLimit(err):
			reason = errorsx.ReasonLLMRateLimit
		case errors.Is(err, context.DeadlineExceeded):
			reason = errorsx.ReasonLLMTimeout
		}
		return "", errorsx.Wrap(err, reason)
	}
	return resp.Text, nil
}

func (p *Pipeline) speak(ctx context.Context, log *slog.Logger, tc TurnContext, res *Result) {
	if p.cfg.Speaker == nil {
		res.AudioError = "voice output is not configured"
		return
	}
	art, err := p.cfg.Speaker.Respond(ctx, res.Response, tc.Language)
	if err != nil {
		log.Warn("voice_synthesis_failed",
			"language", string(tc.Language),
			errorsx.Attr(err),
			"error", err)
		res.AudioError = err.Error()
		return
	}
	res.Audio = &art
}
