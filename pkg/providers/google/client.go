// Package google talks to the keyless Google Translate web endpoints used for
// reply translation and gTTS-style speech.
package google

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/harunnryd/shivaay/pkg/resilience"
)

const (
	DefaultTranslateURL = "https://translate.googleapis.com/translate_a/single"
	DefaultTTSURL       = "https://translate.google.com/translate_tts"

	userAgent = "Mozilla/5.0 (X11; Linux x86_64) shivaay"
)

type Config struct {
	TranslateURL string        `mapstructure:"translate_url"`
	TTSURL       string        `mapstructure:"tts_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
	Backoff      time.Duration `mapstructure:"backoff"`
	// Domain selects the accent for English speech, e.g. "co.in".
	Domain string `mapstructure:"domain"`
	// MaxQueryChars caps the text sent in one translate request; longer
	// replies are split at sentence ends and translated piece by piece.
	MaxQueryChars int `mapstructure:"max_query_chars"`
}

func (c Config) withDefaults() Config {
	if c.TranslateURL == "" {
		c.TranslateURL = DefaultTranslateURL
	}
	if c.TTSURL == "" {
		c.TTSURL = DefaultTTSURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 2
	}
	if c.MaxQueryChars <= 0 {
		c.MaxQueryChars = 1500
	}
	return c
}

func get(ctx context.Context, client *http.Client, provider, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, resilience.FromResponse(provider, resp)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: unexpected status %s", provider, resp.Status)
	}
	return body, nil
}
