// Package actions parses the hidden command markers the assistant persona
// appends to replies, e.g. [ACTION:GET_SCORE] or
// [ACTION:OFFER_SANCTION|{"name":"Asha","amount":"500000"}].
package actions

import (
	"encoding/json"
	"regexp"
	"strings"
)

const (
	GetScore      = "GET_SCORE"
	VerifyKYC     = "VERIFY_KYC"
	OfferSanction = "OFFER_SANCTION"
)

var markerRe = regexp.MustCompile(`(?s)\[ACTION:([A-Z][A-Z0-9_]*)(?:\|(\{.*?\}))?\]`)

// Action is one parsed marker.
type Action struct {
	Name    string         `json:"name"`
	Payload map[string]any `json:"payload,omitempty"`
	Raw     string         `json:"-"`
}

// Extract returns every marker in text, in order. A payload that is not
// valid JSON is dropped and the action is kept without it.
func Extract(text string) []Action {
	matches := markerRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]Action, 0, len(matches))
	for _, m := range matches {
		a := Action{Name: m[1], Raw: m[0]}
		if m[2] != "" {
			var payload map[string]any
			if err := json.Unmarshal([]byte(m[2]), &payload); err == nil {
				a.Payload = payload
			}
		}
		out = append(out, a)
	}
	return out
}

// Strip removes every marker and tidies the surrounding whitespace.
func Strip(text string) string {
	body, _ := Lift(text)
	return body
}

// Lift separates the markers from the prose so the prose can be processed
// (translated, spoken) on its own.
func Lift(text string) (string, []string) {
	markers := markerRe.FindAllString(text, -1)
	if len(markers) == 0 {
		return text, nil
	}
	body := markerRe.ReplaceAllString(text, "")
	return strings.TrimSpace(collapseSpaces(body)), markers
}

// Reattach appends markers back onto body, separated by single spaces.
func Reattach(body string, markers []string) string {
	if len(markers) == 0 {
		return body
	}
	parts := append([]string{strings.TrimSpace(body)}, markers...)
	return strings.TrimSpace(strings.Join(parts, " "))
}

func collapseSpaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	return strings.Join(lines, "\n")
}
