package shivaay

import (
	"errors"
	"fmt"

	"github.com/harunnryd/shivaay/pkg/configutil"
	"github.com/harunnryd/shivaay/pkg/llm"
	"github.com/harunnryd/shivaay/pkg/providers/deepgram"
	"github.com/harunnryd/shivaay/pkg/providers/elevenlabs"
	"github.com/harunnryd/shivaay/pkg/providers/google"
	"github.com/harunnryd/shivaay/pkg/providers/mock"
	"github.com/harunnryd/shivaay/pkg/providers/openai"
	"github.com/harunnryd/shivaay/pkg/stt"
	"github.com/harunnryd/shivaay/pkg/translate"
	"github.com/harunnryd/shivaay/pkg/tts"
)

var (
	openaiSchema = configutil.Schema{
		Required: []string{"api_key"},
		Optional: []string{"base_url", "model", "max_tokens", "temperature", "top_p", "timeout"},
	}
	googleSchema = configutil.Schema{
		Optional: []string{"translate_url", "tts_url", "timeout", "max_retries", "backoff", "domain", "max_query_chars"},
	}
	elevenlabsSchema = configutil.Schema{
		Required: []string{"api_key"},
		Optional: []string{"model_id", "output_format", "base_url"},
		AnyOf:    [][]string{{"voice_id", "voices"}},
	}
	deepgramSchema = configutil.Schema{
		Required: []string{"api_key"},
		Optional: []string{"model", "language", "host"},
	}
	mockSchema = configutil.Schema{AllowUnknown: true}
)

// DefaultRegistry registers every built-in provider.
func DefaultRegistry() *ProviderRegistry {
	r := NewProviderRegistry()
	r.RegisterLLM("openai", newOpenAI)
	r.RegisterLLM("mock", func(cfg Config) (llm.Adapter, error) {
		var mc struct {
			ResponseText string `mapstructure:"response_text"`
			Error        string `mapstructure:"error"`
		}
		if err := decode(cfg.Vendors.LLM.Settings, mockSchema, &mc, "vendors.llm"); err != nil {
			return nil, err
		}
		lc := mock.LLMConfig{ResponseText: mc.ResponseText}
		if mc.Error != "" {
			lc.Err = errors.New(mc.Error)
		}
		return mock.NewLLMAdapter(lc), nil
	})

	r.RegisterTranslate("google", func(cfg Config) (translate.Translator, error) {
		var gc google.Config
		if err := decode(cfg.Vendors.Translate.Settings, googleSchema, &gc, "vendors.translate"); err != nil {
			return nil, err
		}
		if gc.Timeout <= 0 {
			gc.Timeout = millis(cfg.Timeouts.TranslateMS)
		}
		return google.NewTranslator(gc), nil
	})
	r.RegisterTranslate("mock", func(cfg Config) (translate.Translator, error) {
		var tc mock.TranslatorConfig
		if err := decode(cfg.Vendors.Translate.Settings, mockSchema, &tc, "vendors.translate"); err != nil {
			return nil, err
		}
		return mock.NewTranslator(tc), nil
	})
	r.RegisterTranslate("none", func(Config) (translate.Translator, error) { return translate.Disabled{}, nil })

	r.RegisterTTS("google", func(cfg Config) (tts.Synthesizer, error) {
		var gc google.Config
		if err := decode(cfg.Vendors.TTS.Settings, googleSchema, &gc, "vendors.tts"); err != nil {
			return nil, err
		}
		return google.NewSynthesizer(gc), nil
	})
	r.RegisterTTS("elevenlabs", func(cfg Config) (tts.Synthesizer, error) {
		var ec elevenlabs.Config
		if err := decode(cfg.Vendors.TTS.Settings, elevenlabsSchema, &ec, "vendors.tts"); err != nil {
			return nil, err
		}
		return elevenlabs.New(ec), nil
	})
	r.RegisterTTS("mock", func(Config) (tts.Synthesizer, error) { return mock.NewSynthesizer(mock.TTSConfig{}), nil })

	r.RegisterSTT("deepgram", func(cfg Config) (stt.Transcriber, error) {
		var dc deepgram.Config
		if err := decode(cfg.Vendors.STT.Settings, deepgramSchema, &dc, "vendors.stt"); err != nil {
			return nil, err
		}
		return deepgram.New(dc), nil
	})
	r.RegisterSTT("mock", func(cfg Config) (stt.Transcriber, error) {
		var sc mock.STTConfig
		if err := decode(cfg.Vendors.STT.Settings, mockSchema, &sc, "vendors.stt"); err != nil {
			return nil, err
		}
		return mock.NewTranscriber(sc), nil
	})
	r.RegisterSTT("none", func(Config) (stt.Transcriber, error) { return nil, nil })
	return r
}

// newOpenAI layers vendor settings over the llm section.
func newOpenAI(cfg Config) (llm.Adapter, error) {
	oc := openai.Config{
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		TopP:        cfg.LLM.TopP,
		Timeout:     millis(cfg.Timeouts.CompletionMS),
	}
	if err := decode(cfg.Vendors.LLM.Settings, openaiSchema, &oc, "vendors.llm"); err != nil {
		return nil, err
	}
	return openai.NewAdapter(oc), nil
}

func decode(settings map[string]any, schema configutil.Schema, out any, path string) error {
	if err := configutil.ValidateSettings(settings, schema); err != nil {
		return fmt.Errorf("%s.settings: %w", path, err)
	}
	if err := configutil.DecodeSettings(settings, out); err != nil {
		return fmt.Errorf("%s.settings: %w", path, err)
	}
	return nil
}
