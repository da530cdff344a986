package conversation

import (
	"errors"
	"fmt"
	"strings"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

var ErrInvalidRole = errors.New("invalid conversation role")

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// Turn is one entry of the conversation history.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// History is the ordered conversation. Index 0 holds the current system
// instruction and may be replaced; every other entry is append-only.
type History []Turn

// Validate checks every role in h.
func Validate(h History) error {
	for i, t := range h {
		if !t.Role.Valid() {
			return fmt.Errorf("history[%d]: %w: %q", i, ErrInvalidRole, t.Role)
		}
	}
	return nil
}

// EnsureSystem returns h with a system turn at index 0, prepending one with
// fallback content when h is empty or starts with another role.
func EnsureSystem(h History, fallback string) History {
	if len(h) > 0 && h[0].Role == RoleSystem {
		return Clone(h)
	}
	out := make(History, 0, len(h)+1)
	out = append(out, Turn{Role: RoleSystem, Content: fallback})
	return append(out, h...)
}

// WithSystem returns a copy of h whose index 0 is a system turn carrying
// content. The length is unchanged unless h is empty.
func WithSystem(h History, content string) History {
	if len(h) == 0 {
		return History{{Role: RoleSystem, Content: content}}
	}
	out := Clone(h)
	out[0] = Turn{Role: RoleSystem, Content: content}
	return out
}

// Append returns a copy of h with one more turn at the end.
func Append(h History, role Role, content string) History {
	out := make(History, len(h), len(h)+1)
	copy(out, h)
	return append(out, Turn{Role: role, Content: content})
}

// Clone copies h so later writes never alias the caller's slice.
func Clone(h History) History {
	if h == nil {
		return nil
	}
	out := make(History, len(h))
	copy(out, h)
	return out
}

// Last returns the most recent turn with the given role.
func Last(h History, role Role) (Turn, bool) {
	for i := len(h) - 1; i >= 0; i-- {
		if h[i].Role == role {
			return h[i], true
		}
	}
	return Turn{}, false
}

// Seed builds the default history used when a caller sends none.
func Seed(system string) History {
	system = strings.TrimSpace(system)
	if system == "" {
		system = DefaultSystemPrompt
	}
	return History{{Role: RoleSystem, Content: system}}
}

// DefaultSystemPrompt is the fallback instruction when no base prompt is configured.
const DefaultSystemPrompt = "You are a helpful assistant."
