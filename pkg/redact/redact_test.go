package redact

import (
	"strings"
	"testing"
)

func TestRedactDisabled(t *testing.T) {
	SetEnabled(false)
	in := "email a@b.com and phone +91 98765 43210"
	if got := Text(in); got != in {
		t.Fatalf("expected no redaction, got %q", got)
	}
}

func TestRedactEnabled(t *testing.T) {
	SetEnabled(true)
	in := "email a@b.com and phone +91 98765 43210"
	got := Text(in)
	if got == in {
		t.Fatalf("expected redaction")
	}
	if want := "[REDACTED_EMAIL]"; !strings.Contains(got, want) {
		t.Fatalf("expected %q in output", want)
	}
	if want := "[REDACTED_PHONE]"; !strings.Contains(got, want) {
		t.Fatalf("expected %q in output", want)
	}
}

func TestRedactIdentityNumbers(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)
	got := Text("my aadhaar is 1234 5678 9012 and pan ABCDE1234F")
	if strings.Contains(got, "9012") || strings.Contains(got, "ABCDE1234F") {
		t.Fatalf("identity numbers leaked: %q", got)
	}
	if want := "[REDACTED_AADHAAR]"; !strings.Contains(got, want) {
		t.Fatalf("expected %q in %q", want, got)
	}
	if want := "[REDACTED_PAN]"; !strings.Contains(got, want) {
		t.Fatalf("expected %q in %q", want, got)
	}
}
