package voice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/harunnryd/shivaay/pkg/actions"
	"github.com/harunnryd/shivaay/pkg/errorsx"
	"github.com/harunnryd/shivaay/pkg/language"
	"github.com/harunnryd/shivaay/pkg/metrics"
	"github.com/harunnryd/shivaay/pkg/resilience"
	"github.com/harunnryd/shivaay/pkg/tts"
)

var ErrNothingToSpeak = errors.New("reply has no speakable text")

type Options struct {
	Timeout  time.Duration
	Observer metrics.Observer
	Logger   *slog.Logger
}

// Responder turns the final reply text into a stored audio artifact.
type Responder struct {
	synth   tts.Synthesizer
	store   Store
	timeout time.Duration
	obs     metrics.Observer
	logger  *slog.Logger
}

func NewResponder(synth tts.Synthesizer, store Store, opts Options) *Responder {
	if opts.Observer == nil {
		opts.Observer = metrics.NoopObserver{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Responder{synth: synth, store: store, timeout: opts.Timeout, obs: opts.Observer, logger: opts.Logger}
}

// Respond speaks text in the synthesis locale for code. Action markers are
// not spoken.
func (r *Responder) Respond(ctx context.Context, text string, code language.Code) (Artifact, error) {
	locale := language.SynthesisLocale(code)
	spoken := strings.TrimSpace(actions.Strip(text))
	if spoken == "" {
		return Artifact{}, errorsx.Wrap(ErrNothingToSpeak, errorsx.ReasonTTSSynthesize)
	}
	if r.synth == nil || r.store == nil {
		return Artifact{}, errorsx.Newf(errorsx.ReasonTTSSynthesize, "voice output not configured")
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	tags := map[string]string{"locale": string(locale), "provider": r.synth.Name()}

	audio, err := r.synth.Synthesize(ctx, spoken, string(locale))
	if err != nil {
		reason := errorsx.ReasonTTSSynthesize
		if resilience.IsRateLimit(err) {
			reason = errorsx.ReasonTTSRateLimit
		}
		r.fail(err, reason, tags)
		return Artifact{}, errorsx.Wrap(err, reason)
	}
	if audio.Language == "" {
		audio.Language = string(locale)
	}
	art, err := r.store.Save(ctx, audio)
	if err != nil {
		r.fail(err, errorsx.ReasonArtifactStore, tags)
		return Artifact{}, errorsx.Wrap(err, errorsx.ReasonArtifactStore)
	}
	r.obs.RecordEvent(metrics.Event(metrics.EventVoiceSynthesized, float64(art.Bytes), tags))
	r.logger.Info("voice_synthesized",
		"locale", string(locale),
		"provider", r.synth.Name(),
		"bytes", art.Bytes,
		"url", art.URL)
	return art, nil
}

func (r *Responder) fail(err error, reason errorsx.ReasonCode, tags map[string]string) {
	r.obs.RecordEvent(metrics.Event(metrics.EventVoiceFailed, 1, tags))
	r.logger.Warn("voice_synthesis_failed",
		"locale", tags["locale"],
		"provider", tags["provider"],
		"reason_code", string(reason),
		"error", err)
}
