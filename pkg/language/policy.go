package language

import "strings"

// Code is an ISO 639-1 language code from the supported set.
type Code string

const (
	English   Code = "en"
	Hindi     Code = "hi"
	Bengali   Code = "bn"
	Tamil     Code = "ta"
	Telugu    Code = "te"
	Malayalam Code = "ml"
	Marathi   Code = "mr"
	Gujarati  Code = "gu"
	Punjabi   Code = "pa"
	Urdu      Code = "ur"
	Kannada   Code = "kn"
)

// Entry is one row of the language policy table.
type Entry struct {
	Code          Code
	DisplayName   string
	Synthesizable bool
}

var table = []Entry{
	{Code: English, DisplayName: "English", Synthesizable: true},
	{Code: Hindi, DisplayName: "Hindi", Synthesizable: true},
	{Code: Bengali, DisplayName: "Bengali", Synthesizable: true},
	{Code: Tamil, DisplayName: "Tamil", Synthesizable: true},
	{Code: Telugu, DisplayName: "Telugu", Synthesizable: true},
	{Code: Malayalam, DisplayName: "Malayalam", Synthesizable: true},
	{Code: Marathi, DisplayName: "Marathi", Synthesizable: true},
	{Code: Gujarati, DisplayName: "Gujarati", Synthesizable: true},
	{Code: Punjabi, DisplayName: "Punjabi", Synthesizable: true},
	{Code: Urdu, DisplayName: "Urdu", Synthesizable: true},
	{Code: Kannada, DisplayName: "Kannada", Synthesizable: true},
}

var byCode = func() map[Code]Entry {
	m := make(map[Code]Entry, len(table))
	for _, e := range table {
		m[e.Code] = e
	}
	return m
}()

// Resolve returns the policy entry for code. Unknown codes resolve to English.
func Resolve(code Code) Entry {
	if e, ok := byCode[Normalize(string(code))]; ok {
		return e
	}
	return byCode[English]
}

// Normalize lowercases and trims raw, strips any region suffix ("hi-IN"),
// and maps anything outside the supported set to English.
func Normalize(raw string) Code {
	c := strings.ToLower(strings.TrimSpace(raw))
	if idx := strings.IndexAny(c, "-_"); idx >= 0 {
		c = c[:idx]
	}
	if _, ok := byCode[Code(c)]; ok {
		return Code(c)
	}
	return English
}

// IsSupported reports whether raw names a code in the policy table.
func IsSupported(raw string) bool {
	c := strings.ToLower(strings.TrimSpace(raw))
	_, ok := byCode[Code(c)]
	return ok
}

// SynthesisLocale returns code when speech synthesis supports it, English otherwise.
func SynthesisLocale(code Code) Code {
	e := Resolve(code)
	if e.Synthesizable {
		return e.Code
	}
	return English
}

// Supported lists the policy table in its fixed order.
func Supported() []Entry {
	out := make([]Entry, len(table))
	copy(out, table)
	return out
}
