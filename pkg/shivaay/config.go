package shivaay

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/harunnryd/shivaay/pkg/language"
)

const EnvPrefix = "SHIVAAY"

type Config struct {
	Server     ServerConfig   `mapstructure:"server"`
	Vendors    VendorsConfig  `mapstructure:"vendors"`
	LLM        LLMConfig      `mapstructure:"llm"`
	Languages  LanguageConfig `mapstructure:"languages"`
	Timeouts   TimeoutsConfig `mapstructure:"timeouts"`
	Breaker    BreakerConfig  `mapstructure:"breaker"`
	BasePrompt string         `mapstructure:"base_prompt"`
	LogLevel   string         `mapstructure:"log_level"`
	LogFormat  string         `mapstructure:"log_format"`
	Privacy    PrivacyConfig  `mapstructure:"privacy"`
	Metrics    MetricsConfig  `mapstructure:"metrics"`
	Loan       LoanConfig     `mapstructure:"loan"`
}

type ServerConfig struct {
	Addr           string `mapstructure:"addr"`
	StaticDir      string `mapstructure:"static_dir"`
	PublicPrefix   string `mapstructure:"public_prefix"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes"`
	ShutdownMS     int    `mapstructure:"shutdown_ms"`
}

type VendorConfig struct {
	Provider string         `mapstructure:"provider"`
	Settings map[string]any `mapstructure:"settings"`
}

type VendorsConfig struct {
	LLM       VendorConfig `mapstructure:"llm"`
	Translate VendorConfig `mapstructure:"translate"`
	TTS       VendorConfig `mapstructure:"tts"`
	STT       VendorConfig `mapstructure:"stt"`
}

// LLMConfig holds the sampling sent with every completion.
type LLMConfig struct {
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float32 `mapstructure:"temperature"`
	TopP        float32 `mapstructure:"top_p"`
}

type LanguageConfig struct {
	ClassifierAllow []string `mapstructure:"classifier_allow"`
	Keywords        []string `mapstructure:"keywords"`
	DriftThreshold  float64  `mapstructure:"drift_threshold"`
}

type TimeoutsConfig struct {
	CompletionMS int `mapstructure:"completion_ms"`
	TranslateMS  int `mapstructure:"translate_ms"`
	SynthesisMS  int `mapstructure:"synthesis_ms"`
	TranscribeMS int `mapstructure:"transcribe_ms"`
}

type BreakerConfig struct {
	Threshold  int `mapstructure:"threshold"`
	CooldownMS int `mapstructure:"cooldown_ms"`
}

type PrivacyConfig struct {
	RedactPII bool `mapstructure:"redact_pii"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type LoanConfig struct {
	// FixedScore pins the mock bureau; zero draws at random.
	FixedScore int `mapstructure:"fixed_score"`
}

// LoadConfig reads defaults, then the YAML file at path (optional), then
// SHIVAAY_* environment overrides, e.g. SHIVAAY_SERVER_ADDR.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	expandEnvStrings(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.static_dir", "static")
	v.SetDefault("server.public_prefix", "static")
	v.SetDefault("server.max_upload_bytes", 10<<20)
	v.SetDefault("server.shutdown_ms", 10000)
	v.SetDefault("vendors.llm.provider", "openai")
	v.SetDefault("vendors.translate.provider", "google")
	v.SetDefault("vendors.tts.provider", "google")
	v.SetDefault("vendors.stt.provider", "none")
	v.SetDefault("llm.model", "shivaay")
	v.SetDefault("llm.max_tokens", 1000)
	v.SetDefault("llm.temperature", 0.8)
	v.SetDefault("llm.top_p", 0.9)
	v.SetDefault("languages.classifier_allow", []string{"en", "hi"})
	v.SetDefault("languages.keywords", []string{})
	v.SetDefault("languages.drift_threshold", 0.6)
	v.SetDefault("timeouts.completion_ms", 60000)
	v.SetDefault("timeouts.translate_ms", 10000)
	v.SetDefault("timeouts.synthesis_ms", 30000)
	v.SetDefault("timeouts.transcribe_ms", 30000)
	v.SetDefault("breaker.threshold", 3)
	v.SetDefault("breaker.cooldown_ms", 30000)
	v.SetDefault("base_prompt", DefaultPersona)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("privacy.redact_pii", true)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("loan.fixed_score", 0)
}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if strings.TrimSpace(c.Vendors.LLM.Provider) == "" {
		errs = append(errs, errors.New("vendors.llm.provider is required"))
	}
	if c.LLM.MaxTokens <= 0 {
		errs = append(errs, errors.New("llm.max_tokens must be positive"))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, errors.New("llm.temperature must be within [0, 2]"))
	}
	if c.LLM.TopP <= 0 || c.LLM.TopP > 1 {
		errs = append(errs, errors.New("llm.top_p must be within (0, 1]"))
	}
	if c.Languages.DriftThreshold <= 0 || c.Languages.DriftThreshold >= 1 {
		errs = append(errs, errors.New("languages.drift_threshold must be within (0, 1)"))
	}
	for _, code := range c.Languages.ClassifierAllow {
		if !language.IsSupported(code) {
			errs = append(errs, fmt.Errorf("languages.classifier_allow: unsupported code %q", code))
		}
	}
	if c.Loan.FixedScore != 0 && (c.Loan.FixedScore < 650 || c.Loan.FixedScore > 900) {
		errs = append(errs, errors.New("loan.fixed_score must be within [650, 900]"))
	}
	return errors.Join(errs...)
}

// AllowedLanguages converts classifier_allow into language codes.
func (c Config) AllowedLanguages() []language.Code {
	out := make([]language.Code, 0, len(c.Languages.ClassifierAllow))
	for _, code := range c.Languages.ClassifierAllow {
		out = append(out, language.Normalize(code))
	}
	return out
}

// ShutdownTimeout bounds graceful HTTP shutdown plus observer drain.
func (c Config) ShutdownTimeout() time.Duration { return millis(c.Server.ShutdownMS) }

func millis(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }

func expandEnvStrings(cfg *Config) {
	expandValue(reflect.ValueOf(cfg))
	cfg.Vendors.LLM.Settings = expandSettings(cfg.Vendors.LLM.Settings)
	cfg.Vendors.Translate.Settings = expandSettings(cfg.Vendors.Translate.Settings)
	cfg.Vendors.TTS.Settings = expandSettings(cfg.Vendors.TTS.Settings)
	cfg.Vendors.STT.Settings = expandSettings(cfg.Vendors.STT.Settings)
}

func expandSettings(settings map[string]any) map[string]any {
	for k, v := range settings {
		settings[k] = expandAny(v)
	}
	return settings
}

func expandAny(v any) any {
	switch val := v.(type) {
	case string:
		return os.ExpandEnv(val)
	case []any:
		for i := range val {
			val[i] = expandAny(val[i])
		}
		return val
	case map[string]any:
		for k, v := range val {
			val[k] = expandAny(v)
		}
		return val
	default:
		return v
	}
}

// expandValue walks the typed fields. BasePrompt is skipped so literal
// dollar signs in the persona survive.
func expandValue(v reflect.Value) {
	if !v.IsValid() {
		return
	}
	switch v.Kind() {
	case reflect.Pointer:
		if !v.IsNil() {
			expandValue(v.Elem())
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if t.Field(i).Name == "BasePrompt" {
				continue
			}
			expandValue(v.Field(i))
		}
	case reflect.String:
		if v.CanSet() {
			v.SetString(os.ExpandEnv(v.String()))
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			expandValue(v.Index(i))
		}
	}
}
