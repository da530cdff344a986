package drift

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/harunnryd/shivaay/pkg/actions"
	"github.com/harunnryd/shivaay/pkg/errorsx"
	"github.com/harunnryd/shivaay/pkg/language"
	"github.com/harunnryd/shivaay/pkg/metrics"
	"github.com/harunnryd/shivaay/pkg/translate"
)

// DefaultThreshold is the ASCII share above which a non-English reply is
// treated as having drifted to English.
const DefaultThreshold = 0.6

// Result describes what Correct did.
type Result struct {
	Text       string
	ASCIIShare float64
	Drifted    bool
	Translated bool
	Err        error
}

// Corrector re-routes replies that came back in English when another
// language was requested.
type Corrector struct {
	translator translate.Translator
	threshold  float64
	timeout    time.Duration
	obs        metrics.Observer
	logger     *slog.Logger
}

type Options struct {
	Threshold float64
	Timeout   time.Duration
	Observer  metrics.Observer
	Logger    *slog.Logger
}

func NewCorrector(translator translate.Translator, opts Options) *Corrector {
	if translator == nil {
		translator = translate.Disabled{}
	}
	if opts.Threshold <= 0 || opts.Threshold >= 1 {
		opts.Threshold = DefaultThreshold
	}
	if opts.Observer == nil {
		opts.Observer = metrics.NoopObserver{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Corrector{
		translator: translator,
		threshold:  opts.Threshold,
		timeout:    opts.Timeout,
		obs:        opts.Observer,
		logger:     opts.Logger,
	}
}

// Threshold returns the configured ASCII share cut-off.
func (c *Corrector) Threshold() float64 { return c.threshold }

// Correct returns text unchanged for English or empty replies. Otherwise a
// reply whose ASCII share exceeds the threshold is translated into code once;
// a failed translation keeps the original text.
func (c *Corrector) Correct(ctx context.Context, text string, code language.Code) Result {
	res := Result{Text: text}
	if language.Normalize(string(code)) == language.English || text == "" {
		return res
	}
	res.ASCIIShare = ASCIIShare(text)
	if res.ASCIIShare <= c.threshold {
		return res
	}
	res.Drifted = true
	c.obs.RecordEvent(metrics.Event(metrics.EventDriftDetected, res.ASCIIShare, map[string]string{
		"language": string(code),
		"provider": c.translator.Name(),
	}))

	body, markers := actions.Lift(text)
	if strings.TrimSpace(body) == "" {
		return res
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	translated, err := c.translator.Translate(ctx, body, translate.SourceAuto, string(code))
	if err == nil && strings.TrimSpace(translated) == "" {
		err = errorsx.Newf(errorsx.ReasonTranslate, "empty translation")
	}
	if err != nil {
		res.Err = errorsx.Wrap(err, errorsx.ReasonTranslate)
		c.logger.Warn("drift_translate_failed",
			"language", string(code),
			"provider", c.translator.Name(),
			errorsx.Attr(res.Err),
			"error", err)
		c.obs.RecordEvent(metrics.Event(metrics.EventDriftTranslateFailed, 1, map[string]string{
			"language": string(code),
			"provider": c.translator.Name(),
		}))
		return res
	}
	res.Text = actions.Reattach(translated, markers)
	res.Translated = true
	return res
}

// ASCIIShare is the fraction of runes in text that fit in a single ASCII
// byte. Empty text has a share of zero.
func ASCIIShare(text string) float64 {
	total := utf8.RuneCountInString(text)
	if total == 0 {
		return 0
	}
	ascii := 0
	for _, r := range text {
		if r < utf8.RuneSelf {
			ascii++
		}
	}
	return float64(ascii) / float64(total)
}
