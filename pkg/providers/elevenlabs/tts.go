package elevenlabs

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/harunnryd/shivaay/pkg/resilience"
	"github.com/harunnryd/shivaay/pkg/tts"
)

const (
	DefaultBaseURL      = "wss://api.elevenlabs.io"
	DefaultModelID      = "eleven_multilingual_v2"
	DefaultOutputFormat = "mp3_44100_128"
)

var ErrNoAudio = errors.New("elevenlabs returned no audio")

type Config struct {
	APIKey       string            `mapstructure:"api_key"`
	VoiceID      string            `mapstructure:"voice_id"`
	Voices       map[string]string `mapstructure:"voices"`
	ModelID      string            `mapstructure:"model_id"`
	OutputFormat string            `mapstructure:"output_format"`
	BaseURL      string            `mapstructure:"base_url"`
}

// Synthesizer renders a whole reply over one stream-input websocket session.
type Synthesizer struct {
	cfg    Config
	dialer websocket.Dialer
	logger *slog.Logger
}

type inbound struct {
	Audio   string `json:"audio"`
	IsFinal bool   `json:"isFinal"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func New(cfg Config) *Synthesizer {
	if cfg.ModelID == "" {
		cfg.ModelID = DefaultModelID
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = DefaultOutputFormat
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return &Synthesizer{
		cfg:    cfg,
		dialer: websocket.Dialer{Proxy: http.ProxyFromEnvironment, HandshakeTimeout: 10 * time.Second},
		logger: slog.Default().With("component", "elevenlabs_tts"),
	}
}

func (s *Synthesizer) Name() string { return "elevenlabs_tts" }

func (s *Synthesizer) Synthesize(ctx context.Context, text, language string) (tts.Audio, error) {
	voice := s.voiceFor(language)
	if s.cfg.APIKey == "" || voice == "" {
		return tts.Audio{}, errors.New("missing elevenlabs config")
	}
	started := time.Now()
	u := s.buildURL(voice)
	conn, resp, err := s.dialer.DialContext(ctx, u, http.Header{"xi-api-key": []string{s.cfg.APIKey}})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
			s.logger.Error("tts_rate_limited", "status", resp.Status)
			return tts.Audio{}, resilience.FromResponse("elevenlabs", resp)
		}
		return tts.Audio{}, err
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if err := s.sendAll(conn, text); err != nil {
		return tts.Audio{}, err
	}

	var buf bytes.Buffer
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return tts.Audio{}, ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) && buf.Len() > 0 {
				break
			}
			return tts.Audio{}, err
		}
		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("tts_message_invalid", "error", err)
			continue
		}
		if msg.Error != "" {
			return tts.Audio{}, errors.New("elevenlabs: " + msg.Error)
		}
		if msg.Audio != "" {
			raw, err := base64.StdEncoding.DecodeString(msg.Audio)
			if err != nil {
				return tts.Audio{}, err
			}
			buf.Write(raw)
		}
		if msg.IsFinal {
			break
		}
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if buf.Len() == 0 {
		return tts.Audio{}, ErrNoAudio
	}
	format, contentType := describeFormat(s.cfg.OutputFormat)
	s.logger.Debug("tts_clip_ready", "language", language, "size_bytes", buf.Len())
	return tts.Audio{
		Data:        buf.Bytes(),
		Format:      format,
		ContentType: contentType,
		Language:    language,
		Provider:    s.Name(),
		Elapsed:     time.Since(started),
	}, nil
}

// sendAll opens the stream, sends the text and an empty chunk to end input.
func (s *Synthesizer) sendAll(conn *websocket.Conn, text string) error {
	text = strings.TrimSpace(text)
	if !strings.HasSuffix(text, " ") {
		text += " "
	}
	msgs := []map[string]any{
		{
			"text": " ",
			"voice_settings": map[string]any{
				"stability":        0.5,
				"similarity_boost": 0.8,
			},
		},
		{"text": text, "try_trigger_generation": true},
		{"text": ""},
	}
	for _, m := range msgs {
		if err := conn.WriteJSON(m); err != nil {
			return err
		}
	}
	return nil
}

func (s *Synthesizer) voiceFor(language string) string {
	if v := s.cfg.Voices[language]; v != "" {
		return v
	}
	return s.cfg.VoiceID
}

func (s *Synthesizer) buildURL(voice string) string {
	q := url.Values{}
	q.Set("model_id", s.cfg.ModelID)
	q.Set("output_format", s.cfg.OutputFormat)
	return strings.TrimRight(s.cfg.BaseURL, "/") + "/v1/text-to-speech/" + url.PathEscape(voice) + "/stream-input?" + q.Encode()
}

func describeFormat(outputFormat string) (string, string) {
	switch {
	case strings.HasPrefix(outputFormat, "ulaw"):
		return "ulaw", "audio/basic"
	case strings.HasPrefix(outputFormat, "pcm"):
		return "pcm", "audio/L16"
	default:
		return "mp3", "audio/mpeg"
	}
}

var _ tts.Synthesizer = (*Synthesizer)(nil)
