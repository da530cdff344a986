package deepgram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/v3/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/interfaces"
	client "github.com/deepgram/deepgram-go-sdk/v3/pkg/client/listen"

	"github.com/harunnryd/shivaay/pkg/logging"
	"github.com/harunnryd/shivaay/pkg/stt"
)

var ErrEmptyTranscript = errors.New("deepgram returned no transcript")

type Config struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Language string `mapstructure:"language"`
	Host     string `mapstructure:"host"`
}

type recognizeFunc func(ctx context.Context, audio io.Reader, opts *interfaces.PreRecordedTranscriptionOptions) (stt.Transcript, error)

// Transcriber sends recorded clips to Deepgram's prerecorded endpoint.
type Transcriber struct {
	cfg       Config
	recognize recognizeFunc
	logger    *slog.Logger
}

func New(cfg Config) *Transcriber {
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	t := &Transcriber{
		cfg:    cfg,
		logger: logging.NewComponentLogger(slog.Default(), "deepgram_stt"),
	}
	t.recognize = t.fromStream
	return t
}

func (t *Transcriber) Name() string { return "deepgram_prerecorded" }

func (t *Transcriber) Transcribe(ctx context.Context, audio io.Reader, mimeType string) (stt.Transcript, error) {
	if t.cfg.APIKey == "" {
		return stt.Transcript{}, errors.New("missing deepgram api key")
	}
	if audio == nil {
		return stt.Transcript{}, errors.New("no audio")
	}
	started := time.Now()
	out, err := t.recognize(ctx, audio, t.options())
	if err != nil {
		t.logger.Error("deepgram_transcribe_error", "error", err, "mime_type", mimeType)
		return stt.Transcript{}, err
	}
	if strings.TrimSpace(out.Text) == "" {
		return stt.Transcript{}, ErrEmptyTranscript
	}
	t.logger.Info("deepgram_transcribed",
		"language", out.Language,
		"confidence", out.Confidence,
		"elapsed_ms", time.Since(started).Milliseconds())
	return out, nil
}

// options pins the language when configured and asks Deepgram to detect it
// otherwise.
func (t *Transcriber) options() *interfaces.PreRecordedTranscriptionOptions {
	opts := &interfaces.PreRecordedTranscriptionOptions{
		Model:       t.cfg.Model,
		SmartFormat: true,
		Punctuate:   true,
	}
	if t.cfg.Language != "" {
		opts.Language = t.cfg.Language
	} else {
		opts.DetectLanguage = true
	}
	return opts
}

func (t *Transcriber) fromStream(ctx context.Context, audio io.Reader, opts *interfaces.PreRecordedTranscriptionOptions) (stt.Transcript, error) {
	c := client.NewREST(t.cfg.APIKey, &interfaces.ClientOptions{Host: t.cfg.Host})
	res, err := api.New(c).FromStream(ctx, audio, opts)
	if err != nil {
		return stt.Transcript{}, err
	}
	if res == nil || res.Results == nil || len(res.Results.Channels) == 0 {
		return stt.Transcript{}, ErrEmptyTranscript
	}
	ch := res.Results.Channels[0]
	if len(ch.Alternatives) == 0 {
		return stt.Transcript{}, ErrEmptyTranscript
	}
	lang := ch.DetectedLanguage
	if lang == "" {
		lang = t.cfg.Language
	}
	return stt.Transcript{
		Text:       strings.TrimSpace(ch.Alternatives[0].Transcript),
		Language:   lang,
		Confidence: ch.Alternatives[0].Confidence,
	}, nil
}

var _ stt.Transcriber = (*Transcriber)(nil)
