package configutil

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type sample struct {
	APIKey  string            `mapstructure:"api_key"`
	Timeout time.Duration     `mapstructure:"timeout"`
	Retries int               `mapstructure:"max_retries"`
	Voices  map[string]string `mapstructure:"voices"`
}

func TestDecodeSettingsNormalizesKeys(t *testing.T) {
	var out sample
	err := DecodeSettings(map[string]any{
		"API-KEY":    "secret",
		"timeout":    "15s",
		"MaxRetries": "3",
		"voices":     map[string]any{"hi": "voice-hi"},
	}, &out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.APIKey != "secret" || out.Timeout != 15*time.Second || out.Retries != 3 {
		t.Fatalf("unexpected decode result: %+v", out)
	}
	if out.Voices["hi"] != "voice-hi" {
		t.Fatalf("expected nested map, got %+v", out.Voices)
	}
}

func TestDecodeSettingsEmptyIsNoop(t *testing.T) {
	out := sample{APIKey: "keep"}
	if err := DecodeSettings(nil, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.APIKey != "keep" {
		t.Fatalf("expected untouched struct")
	}
}

func TestValidateSettings(t *testing.T) {
	schema := Schema{Required: []string{"api_key"}, Optional: []string{"base_url"}}
	if err := ValidateSettings(map[string]any{"api_key": "k", "base_url": "u"}, schema); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := ValidateSettings(map[string]any{"api_key": " ", "colour": "red"}, schema)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "missing: api_key") || !strings.Contains(err.Error(), "unknown: colour") {
		t.Fatalf("unexpected message: %v", err)
	}
	if err := ValidateSettings(map[string]any{}, Schema{Required: []string{"api_key"}}); err == nil {
		t.Fatalf("expected missing key error")
	}
}

func TestValidateSettingsAnyOf(t *testing.T) {
	schema := Schema{Required: []string{"api_key"}, AnyOf: [][]string{{"voice_id", "voices"}}}
	if err := ValidateSettings(map[string]any{"api_key": "k", "voices": map[string]any{"hi": "v"}}, schema); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := ValidateSettings(map[string]any{"api_key": "k", "voices": map[string]any{}}, schema)
	var se *SettingsError
	if !errors.As(err, &se) {
		t.Fatalf("expected SettingsError, got %v", err)
	}
	if len(se.Unmet) != 1 || !strings.Contains(err.Error(), "need voice_id or voices") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateSettingsAllowUnknown(t *testing.T) {
	if err := ValidateSettings(map[string]any{"anything": 1}, Schema{AllowUnknown: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
