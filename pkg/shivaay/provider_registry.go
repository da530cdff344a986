package shivaay

import (
	"fmt"
	"strings"

	"github.com/harunnryd/shivaay/pkg/llm"
	"github.com/harunnryd/shivaay/pkg/stt"
	"github.com/harunnryd/shivaay/pkg/translate"
	"github.com/harunnryd/shivaay/pkg/tts"
)

type LLMFactory func(cfg Config) (llm.Adapter, error)
type TranslateFactory func(cfg Config) (translate.Translator, error)
type TTSFactory func(cfg Config) (tts.Synthesizer, error)

// STTFactory may return a nil Transcriber to disable /transcribe.
type STTFactory func(cfg Config) (stt.Transcriber, error)

type ProviderRegistry struct {
	llm       map[string]LLMFactory
	translate map[string]TranslateFactory
	tts       map[string]TTSFactory
	stt       map[string]STTFactory
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		llm:       make(map[string]LLMFactory),
		translate: make(map[string]TranslateFactory),
		tts:       make(map[string]TTSFactory),
		stt:       make(map[string]STTFactory),
	}
}

func key(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

func (r *ProviderRegistry) RegisterLLM(name string, factory LLMFactory) { r.llm[key(name)] = factory }

func (r *ProviderRegistry) RegisterTranslate(name string, factory TranslateFactory) {
	r.translate[key(name)] = factory
}

func (r *ProviderRegistry) RegisterTTS(name string, factory TTSFactory) { r.tts[key(name)] = factory }

func (r *ProviderRegistry) RegisterSTT(name string, factory STTFactory) { r.stt[key(name)] = factory }

func (r *ProviderRegistry) BuildLLM(provider string, cfg Config) (llm.Adapter, error) {
	fn := r.llm[key(provider)]
	if fn == nil {
		return nil, fmt.Errorf("llm provider not registered: %s", provider)
	}
	return fn(cfg)
}

func (r *ProviderRegistry) BuildTranslator(provider string, cfg Config) (translate.Translator, error) {
	fn := r.translate[key(provider)]
	if fn == nil {
		return nil, fmt.Errorf("translate provider not registered: %s", provider)
	}
	return fn(cfg)
}

func (r *ProviderRegistry) BuildTTS(provider string, cfg Config) (tts.Synthesizer, error) {
	fn := r.tts[key(provider)]
	if fn == nil {
		return nil, fmt.Errorf("tts provider not registered: %s", provider)
	}
	return fn(cfg)
}

func (r *ProviderRegistry) BuildSTT(provider string, cfg Config) (stt.Transcriber, error) {
	fn := r.stt[key(provider)]
	if fn == nil {
		return nil, fmt.Errorf("stt provider not registered: %s", provider)
	}
	return fn(cfg)
}
