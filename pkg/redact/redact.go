package redact

import (
	"regexp"
	"strings"
	"sync/atomic"
)

var enabled atomic.Bool

type rule struct {
	re    *regexp.Regexp
	label string
}

// Order matters: a twelve-digit Aadhaar number also looks like a phone
// number, so identity rules run first.
var rules = []rule{
	{regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`), "[REDACTED_EMAIL]"},
	{regexp.MustCompile(`\b\d{4}\s?\d{4}\s?\d{4}\b`), "[REDACTED_AADHAAR]"},
	{regexp.MustCompile(`(?i)\b[a-z]{5}\d{4}[a-z]\b`), "[REDACTED_PAN]"},
	{regexp.MustCompile(`\b\+?\d[\d\s\-]{7,}\d\b`), "[REDACTED_PHONE]"},
}

func SetEnabled(v bool) { enabled.Store(v) }

func Enabled() bool { return enabled.Load() }

// Text masks emails, Aadhaar and PAN numbers and phone numbers in text
// headed for logs. It returns in untouched while redaction is off.
func Text(in string) string {
	if !enabled.Load() || strings.TrimSpace(in) == "" {
		return in
	}
	out := in
	for _, r := range rules {
		out = r.re.ReplaceAllString(out, r.label)
	}
	return out
}
