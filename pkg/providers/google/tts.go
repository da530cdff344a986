package google

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/harunnryd/shivaay/pkg/resilience"
	"github.com/harunnryd/shivaay/pkg/tts"
)

// maxChunkRunes is the longest text the translate_tts endpoint accepts.
const maxChunkRunes = 100

var ErrEmptyText = errors.New("google tts: nothing to speak")

// Synthesizer produces MP3 speech through the translate_tts endpoint, one
// request per chunk, concatenated in order.
type Synthesizer struct {
	cfg    Config
	client *http.Client
	retry  resilience.RetryPolicy
}

func NewSynthesizer(cfg Config) *Synthesizer {
	cfg = cfg.withDefaults()
	return &Synthesizer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		retry:  resilience.NewRetryPolicy(cfg.MaxRetries, cfg.Backoff),
	}
}

func (s *Synthesizer) Name() string { return "google_tts" }

func (s *Synthesizer) Synthesize(ctx context.Context, text, language string) (tts.Audio, error) {
	chunks := Chunk(text, maxChunkRunes)
	if len(chunks) == 0 {
		return tts.Audio{}, ErrEmptyText
	}
	started := time.Now()
	var buf bytes.Buffer
	for i, c := range chunks {
		u := s.chunkURL(c, language, i, len(chunks))
		err := s.retry.Do(ctx, func(ctx context.Context) error {
			data, err := get(ctx, s.client, "google_tts", u)
			if err != nil {
				return err
			}
			buf.Write(data)
			return nil
		})
		if err != nil {
			return tts.Audio{}, err
		}
	}
	return tts.Audio{
		Data:        buf.Bytes(),
		Format:      "mp3",
		ContentType: "audio/mpeg",
		Language:    language,
		Provider:    s.Name(),
		Elapsed:     time.Since(started),
	}, nil
}

func (s *Synthesizer) chunkURL(text, language string, idx, total int) string {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", language)
	q.Set("q", text)
	q.Set("total", strconv.Itoa(total))
	q.Set("idx", strconv.Itoa(idx))
	q.Set("textlen", strconv.Itoa(utf8.RuneCountInString(text)))
	base := s.cfg.TTSURL
	if s.cfg.Domain != "" && base == DefaultTTSURL {
		base = "https://translate.google." + s.cfg.Domain + "/translate_tts"
	}
	return base + "?" + q.Encode()
}

// Chunk splits text into pieces of at most max runes, preferring sentence
// ends, then spaces. Words longer than max are cut hard.
func Chunk(text string, max int) []string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}
	var out []string
	for {
		runes := []rune(text)
		if len(runes) <= max {
			return append(out, text)
		}
		cut := breakPoint(runes[:max+1])
		part := strings.TrimSpace(string(runes[:cut]))
		if part != "" {
			out = append(out, part)
		}
		text = strings.TrimSpace(string(runes[cut:]))
		if text == "" {
			return out
		}
	}
}

func breakPoint(window []rune) int {
	limit := len(window) - 1
	for i := limit; i > limit/2; i-- {
		switch window[i-1] {
		case '.', '!', '?', '।':
			if i == limit || unicode.IsSpace(window[i]) {
				return i
			}
		}
	}
	for i := limit; i > 0; i-- {
		if unicode.IsSpace(window[i]) {
			return i
		}
	}
	return limit
}

var _ tts.Synthesizer = (*Synthesizer)(nil)
