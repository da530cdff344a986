package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/harunnryd/shivaay/pkg/resilience"
	"github.com/harunnryd/shivaay/pkg/translate"
)

var ErrMalformedTranslation = errors.New("google translate: malformed response")

// Translator calls the gtx translate endpoint.
type Translator struct {
	cfg    Config
	client *http.Client
	retry  resilience.RetryPolicy
}

func NewTranslator(cfg Config) *Translator {
	cfg = cfg.withDefaults()
	return &Translator{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		retry:  resilience.NewRetryPolicy(cfg.MaxRetries, cfg.Backoff),
	}
}

func (t *Translator) Name() string { return "google_translate" }

func (t *Translator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if source == "" {
		source = translate.SourceAuto
	}
	if utf8.RuneCountInString(text) <= t.cfg.MaxQueryChars {
		return t.translateOne(ctx, text, source, target)
	}
	parts := Chunk(text, t.cfg.MaxQueryChars)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		translated, err := t.translateOne(ctx, part, source, target)
		if err != nil {
			return "", err
		}
		out = append(out, translated)
	}
	return strings.Join(out, " "), nil
}

func (t *Translator) translateOne(ctx context.Context, text, source, target string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)
	u := t.cfg.TranslateURL + "?" + q.Encode()

	var out string
	err := t.retry.Do(ctx, func(ctx context.Context) error {
		body, err := get(ctx, t.client, "google_translate", u)
		if err != nil {
			return err
		}
		out, err = parseTranslation(body)
		return err
	})
	return out, err
}

// parseTranslation joins the translated segments of a gtx response:
// [[["translated","original",...],...],null,"en",...].
func parseTranslation(body []byte) (string, error) {
	var root []json.RawMessage
	if err := json.Unmarshal(body, &root); err != nil || len(root) == 0 {
		return "", ErrMalformedTranslation
	}
	var segments [][]any
	if err := json.Unmarshal(root[0], &segments); err != nil {
		return "", ErrMalformedTranslation
	}
	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			b.WriteString(s)
		}
	}
	if b.Len() == 0 {
		return "", ErrMalformedTranslation
	}
	return b.String(), nil
}

var _ translate.Translator = (*Translator)(nil)
