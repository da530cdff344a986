package translate

import (
	"context"
	"errors"
)

// SourceAuto asks the backend to detect the source language.
const SourceAuto = "auto"

var ErrDisabled = errors.New("translation disabled")

// Translator is a machine-translation backend. Language codes are ISO 639-1.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
	Name() string
}

// Disabled is a Translator that always fails, for deployments without one.
type Disabled struct{}

func (Disabled) Name() string { return "none" }

func (Disabled) Translate(context.Context, string, string, string) (string, error) {
	return "", ErrDisabled
}

var _ Translator = Disabled{}
