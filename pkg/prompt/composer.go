package prompt

import (
	"fmt"
	"strings"

	"github.com/harunnryd/shivaay/pkg/conversation"
	"github.com/harunnryd/shivaay/pkg/language"
)

// Composer rebuilds the system instruction at history index 0 every turn.
type Composer struct {
	Base string
}

func NewComposer(base string) Composer {
	return Composer{Base: strings.TrimSpace(base)}
}

// Compose returns a copy of h with index 0 replaced by the base prompt plus
// the language pin for e. Earlier pins are discarded, never accumulated.
func (c Composer) Compose(h conversation.History, e language.Entry) conversation.History {
	return conversation.WithSystem(h, c.SystemText(e))
}

// SystemText renders the full system instruction for e.
func (c Composer) SystemText(e language.Entry) string {
	pin := LanguageInstruction(e)
	if c.Base == "" {
		return pin
	}
	return c.Base + "\n\n" + pin
}

// LanguageInstruction renders the language rules pinned to the detected language.
func LanguageInstruction(e language.Entry) string {
	name := e.DisplayName
	if name == "" {
		name = language.Resolve(e.Code).DisplayName
	}
	var b strings.Builder
	b.WriteString("Language rules:\n")
	b.WriteString("- Respond only in the user's detected language.\n")
	b.WriteString("- If the user writes in English, reply in English.\n")
	b.WriteString("- If the user writes in Hindi, in Devanagari or romanized form, reply in Hindi.\n")
	b.WriteString("- If the user writes in another supported Indian language (")
	b.WriteString(otherLanguages())
	b.WriteString("), reply in that language.\n")
	b.WriteString("- Never translate or switch language unless the user explicitly asks you to.\n")
	fmt.Fprintf(&b, "The user's detected language is %s. Reply in %s.", name, name)
	return b.String()
}

func otherLanguages() string {
	var names []string
	for _, e := range language.Supported() {
		if e.Code == language.English || e.Code == language.Hindi {
			continue
		}
		names = append(names, e.DisplayName)
	}
	return strings.Join(names, ", ")
}
