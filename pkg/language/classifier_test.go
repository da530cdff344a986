package language

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDetector struct {
	code  string
	err   error
	panic bool
	calls []string
}

func (d *stubDetector) Detect(text string) (string, float64, error) {
	d.calls = append(d.calls, text)
	if d.panic {
		panic("boom")
	}
	return d.code, 0.9, d.err
}

func TestKeywordOverridesDetector(t *testing.T) {
	det := &stubDetector{code: "fr"}
	c := NewClassifier(ClassifierOptions{Detector: det})
	queries := []string{
		"mujhe ghar ke liye loan chahiye",
		"  MUJHE Loan  ",
		"Please BATAO the interest rate",
		"what is the rate, kitna?",
		"sbik loan details",
	}
	for _, q := range queries {
		d := c.Explain(q)
		assert.Equal(t, Hindi, d.Code, q)
		assert.Equal(t, "romanized_hindi", d.Rule, q)
	}
	assert.Empty(t, det.calls, "detector must not run when a keyword matches")
}

func TestKeywordMatchesInsideLongerWords(t *testing.T) {
	det := &stubDetector{code: "en"}
	c := NewClassifier(ClassifierOptions{Detector: det})
	for _, q := range []string{"Loan chahiyee bhai", "kitnaa paisa milega", "GHARWALA loan"} {
		d := c.Explain(q)
		assert.Equal(t, Hindi, d.Code, q)
		assert.Equal(t, "romanized_hindi", d.Rule, q)
	}
	assert.Empty(t, det.calls)
}

func TestTokenKeywordRuleNeedsWholeWords(t *testing.T) {
	det := &stubDetector{code: "en"}
	c := NewClassifier(ClassifierOptions{
		Detector: det,
		Rules:    []Rule{TokenKeywordRule("romanized_hindi", DefaultKeywords, Hindi)},
	})
	assert.Equal(t, English, c.Classify("Tell me about the kitchen renovation loan"))
	require.Len(t, det.calls, 1)
	assert.Equal(t, Hindi, c.Classify("mujhe loan"))
}

func TestDevanagariScriptIsHindi(t *testing.T) {
	det := &stubDetector{code: "mr"}
	c := NewClassifier(ClassifierOptions{Detector: det})
	assert.Equal(t, Hindi, c.Classify("मुझे लोन चाहिए"))
	assert.Empty(t, det.calls)
}

func TestDetectorReceivesRawQuery(t *testing.T) {
	det := &stubDetector{code: "en"}
	c := NewClassifier(ClassifierOptions{Detector: det})
	raw := "  What is my Loan Eligibility?  "
	assert.Equal(t, English, c.Classify(raw))
	require.Len(t, det.calls, 1)
	assert.Equal(t, raw, det.calls[0])
}

func TestGuessOutsideAllowListCollapsesToEnglish(t *testing.T) {
	for _, guess := range []string{"bn", "ta", "fr", "de", "zz"} {
		det := &stubDetector{code: guess}
		c := NewClassifier(ClassifierOptions{Detector: det})
		d := c.Explain("some text without keywords")
		assert.Equal(t, English, d.Code, guess)
		assert.Equal(t, guess, d.Guess)
	}
}

func TestDetectorHindiGuessIsKept(t *testing.T) {
	c := NewClassifier(ClassifierOptions{Detector: &stubDetector{code: "HI"}})
	assert.Equal(t, Hindi, c.Classify("namaste dost"))
}

func TestWidenedAllowList(t *testing.T) {
	c := NewClassifier(ClassifierOptions{
		Detector: &stubDetector{code: "bn"},
		Allow:    []Code{English, Hindi, Bengali},
	})
	assert.Equal(t, Bengali, c.Classify("amar loan proyojon"))
}

func TestDetectorFailureDefaultsToEnglish(t *testing.T) {
	failing := &stubDetector{err: errors.New("detector down")}
	c := NewClassifier(ClassifierOptions{Detector: failing})
	assert.Equal(t, English, c.Classify(""))
	assert.Equal(t, English, c.Classify("   "))
	assert.Len(t, failing.calls, 2, "detector still runs on empty input")

	panicking := &stubDetector{panic: true}
	c = NewClassifier(ClassifierOptions{Detector: panicking})
	assert.Equal(t, English, c.Classify("anything"))
}

func TestExtraKeywords(t *testing.T) {
	c := NewClassifier(ClassifierOptions{
		Detector:      &stubDetector{code: "en"},
		ExtraKeywords: []string{"bataye"},
	})
	assert.Equal(t, Hindi, c.Classify("loan ke bare me bataye"))
	assert.Equal(t, Hindi, c.Classify("mujhe"), "defaults are kept")
}

func TestCustomRuleStack(t *testing.T) {
	c := NewClassifier(ClassifierOptions{
		Detector: &stubDetector{code: "en"},
		Rules: []Rule{
			KeywordRule("tamil", []string{"vanakkam"}, Tamil),
		},
	})
	assert.Equal(t, Tamil, c.Classify("Vanakkam!"))
	assert.Equal(t, English, c.Classify("mujhe loan"), "default rules replaced")
}

func TestClassificationIsDeterministic(t *testing.T) {
	c := NewClassifier(ClassifierOptions{Detector: &stubDetector{code: "en"}})
	for i := 0; i < 5; i++ {
		assert.Equal(t, Hindi, c.Classify("paise kitna lagega"))
	}
}
