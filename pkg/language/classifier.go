package language

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"
)

// Detector is a statistical language identifier.
type Detector interface {
	Detect(text string) (string, float64, error)
}

// Rule is one step of the classifier rule stack.
type Rule struct {
	Name  string
	Match func(raw, normalized string) bool
	Code  Code
}

// Decision records how a query was classified.
type Decision struct {
	Code  Code
	Rule  string
	Guess string
}

const RuleDetector = "detector"

// DefaultKeywords are romanized Hindi tokens generic detectors tend to
// mislabel as English.
var DefaultKeywords = []string{
	"chahiye", "ghar", "mujhe", "paise", "kitna", "batao",
	"kar", "len", "jan", "jankari", "sbik", "ki",
}

// Classifier picks the language of a query: rules first, detector last.
type Classifier struct {
	rules    []Rule
	detector Detector
	allow    map[Code]struct{}
	logger   *slog.Logger
}

type ClassifierOptions struct {
	Detector Detector
	// Rules replaces the default rule stack when non-nil.
	Rules []Rule
	// ExtraKeywords are added to DefaultKeywords in the romanized Hindi rule.
	ExtraKeywords []string
	// Allow is the set a detector guess may resolve to. Defaults to en and hi.
	Allow  []Code
	Logger *slog.Logger
}

func NewClassifier(opts ClassifierOptions) *Classifier {
	rules := opts.Rules
	if rules == nil {
		keywords := append(append([]string{}, DefaultKeywords...), opts.ExtraKeywords...)
		rules = []Rule{
			KeywordRule("romanized_hindi", keywords, Hindi),
			ScriptRule("devanagari_script", unicode.Devanagari, Hindi),
		}
	}
	allow := opts.Allow
	if len(allow) == 0 {
		allow = []Code{English, Hindi}
	}
	allowSet := make(map[Code]struct{}, len(allow))
	for _, c := range allow {
		allowSet[Normalize(string(c))] = struct{}{}
	}
	detector := opts.Detector
	if detector == nil {
		detector = NewWhatlangDetector()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		rules:    rules,
		detector: detector,
		allow:    allowSet,
		logger:   logger,
	}
}

// Classify returns the language code for raw.
func (c *Classifier) Classify(raw string) Code {
	return c.Explain(raw).Code
}

// Explain classifies raw and reports which rule decided.
func (c *Classifier) Explain(raw string) Decision {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for _, r := range c.rules {
		if r.Match != nil && r.Match(raw, normalized) {
			return Decision{Code: r.Code, Rule: r.Name}
		}
	}
	guess, err := c.detect(raw)
	if err != nil {
		c.logger.Debug("language_detect_failed", "error", err)
		return Decision{Code: English, Rule: RuleDetector}
	}
	code := Code(strings.ToLower(strings.TrimSpace(guess)))
	if _, ok := c.allow[code]; !ok {
		return Decision{Code: English, Rule: RuleDetector, Guess: guess}
	}
	return Decision{Code: code, Rule: RuleDetector, Guess: guess}
}

func (c *Classifier) detect(raw string) (guess string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("detector panic: %v", r)
		}
	}()
	guess, _, err = c.detector.Detect(raw)
	return guess, err
}

// KeywordRule matches when any keyword occurs anywhere in the normalized
// text, inside longer words too, so spellings like "chahiyee" still count.
func KeywordRule(name string, keywords []string, code Code) Rule {
	list := keywordList(keywords)
	return Rule{
		Name: name,
		Code: code,
		Match: func(_, normalized string) bool {
			for _, k := range list {
				if strings.Contains(normalized, k) {
					return true
				}
			}
			return false
		},
	}
}

// TokenKeywordRule is the stricter variant: a keyword must be a whole word
// token of the normalized text.
func TokenKeywordRule(name string, keywords []string, code Code) Rule {
	set := make(map[string]struct{}, len(keywords))
	for _, k := range keywordList(keywords) {
		set[k] = struct{}{}
	}
	return Rule{
		Name: name,
		Code: code,
		Match: func(_, normalized string) bool {
			for _, tok := range Tokens(normalized) {
				if _, ok := set[tok]; ok {
					return true
				}
			}
			return false
		},
	}
}

func keywordList(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// ScriptRule matches when the raw text contains any rune of script.
func ScriptRule(name string, script *unicode.RangeTable, code Code) Rule {
	return Rule{
		Name: name,
		Code: code,
		Match: func(raw, _ string) bool {
			for _, r := range raw {
				if unicode.Is(script, r) {
					return true
				}
			}
			return false
		},
	}
}

// Tokens splits s on anything that is not a letter, mark or digit.
func Tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsMark(r) && !unicode.IsDigit(r)
	})
}
