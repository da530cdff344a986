package conversation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithSystemReplacesOnlyHead(t *testing.T) {
	h := History{
		{Role: RoleSystem, Content: "old"},
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
	}
	out := WithSystem(h, "new")
	require.Len(t, out, len(h))
	assert.Equal(t, "new", out[0].Content)
	assert.Equal(t, h[1:], out[1:])
	assert.Equal(t, "old", h[0].Content, "input must not be mutated")
}

func TestWithSystemOnEmptyHistory(t *testing.T) {
	out := WithSystem(nil, "sys")
	require.Len(t, out, 1)
	assert.Equal(t, RoleSystem, out[0].Role)
}

func TestEnsureSystemPrependsWhenMissing(t *testing.T) {
	h := History{{Role: RoleUser, Content: "q"}}
	out := EnsureSystem(h, "fallback")
	require.Len(t, out, 2)
	assert.Equal(t, RoleSystem, out[0].Role)
	assert.Equal(t, "fallback", out[0].Content)
	assert.Equal(t, h[0], out[1])

	kept := EnsureSystem(out, "other")
	assert.Equal(t, "fallback", kept[0].Content)
}

func TestAppendDoesNotAlias(t *testing.T) {
	base := make(History, 1, 4)
	base[0] = Turn{Role: RoleSystem, Content: "s"}
	a := Append(base, RoleUser, "a")
	b := Append(base, RoleUser, "b")
	assert.Equal(t, "a", a[1].Content)
	assert.Equal(t, "b", b[1].Content)
}

func TestValidateRejectsUnknownRole(t *testing.T) {
	err := Validate(History{{Role: RoleSystem}, {Role: "tool", Content: "x"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRole))
	assert.NoError(t, Validate(Seed("")))
}

func TestLast(t *testing.T) {
	h := History{{Role: RoleSystem}, {Role: RoleUser, Content: "1"}, {Role: RoleAssistant, Content: "2"}, {Role: RoleUser, Content: "3"}}
	turn, ok := Last(h, RoleUser)
	require.True(t, ok)
	assert.Equal(t, "3", turn.Content)
	_, ok = Last(History{{Role: RoleSystem}}, RoleAssistant)
	assert.False(t, ok)
}
