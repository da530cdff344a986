package drift

import (
	"context"
	"errors"
	"testing"

	"github.com/harunnryd/shivaay/pkg/errorsx"
	"github.com/harunnryd/shivaay/pkg/language"
	"github.com/harunnryd/shivaay/pkg/metrics"
	"github.com/harunnryd/shivaay/pkg/providers/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnglishReplyInHindiTurnIsTranslatedOnce(t *testing.T) {
	tr := mock.NewTranslator(mock.TranslatorConfig{Output: "आपकी मासिक किस्त लगभग ₹12,000 होगी।"})
	obs := metrics.NewMemoryObserver()
	c := NewCorrector(tr, Options{Observer: obs})

	res := c.Correct(context.Background(), "Your monthly EMI will be around Rs 12,000.", language.Hindi)
	assert.True(t, res.Drifted)
	assert.True(t, res.Translated)
	assert.Equal(t, "आपकी मासिक किस्त लगभग ₹12,000 होगी।", res.Text)
	require.Len(t, tr.Calls(), 1)
	assert.Equal(t, "auto", tr.Calls()[0].Source)
	assert.Equal(t, "hi", tr.Calls()[0].Target)
	assert.Len(t, obs.Named(metrics.EventDriftDetected), 1)
}

func TestNativeScriptReplyIsLeftAlone(t *testing.T) {
	tr := mock.NewTranslator(mock.TranslatorConfig{})
	c := NewCorrector(tr, Options{})
	text := "आपका लोन स्वीकृत हो गया है, EMI 12000"
	res := c.Correct(context.Background(), text, language.Hindi)
	assert.False(t, res.Drifted)
	assert.Equal(t, text, res.Text)
	assert.Empty(t, tr.Calls())
}

func TestEnglishAndEmptyAreNoOps(t *testing.T) {
	tr := mock.NewTranslator(mock.TranslatorConfig{})
	c := NewCorrector(tr, Options{})
	assert.Equal(t, "Hello there", c.Correct(context.Background(), "Hello there", language.English).Text)
	assert.Equal(t, "", c.Correct(context.Background(), "", language.Hindi).Text)
	assert.Empty(t, tr.Calls())
}

func TestBengaliTargetIsPassedThrough(t *testing.T) {
	tr := mock.NewTranslator(mock.TranslatorConfig{Output: "আপনার ঋণ অনুমোদিত"})
	c := NewCorrector(tr, Options{})
	res := c.Correct(context.Background(), "Your loan is approved", language.Bengali)
	require.Len(t, tr.Calls(), 1)
	assert.Equal(t, "bn", tr.Calls()[0].Target)
	assert.Equal(t, "আপনার ঋণ অনুমোদিত", res.Text)
}

func TestTranslationFailureKeepsOriginal(t *testing.T) {
	tr := mock.NewTranslator(mock.TranslatorConfig{Err: errors.New("quota exceeded")})
	obs := metrics.NewMemoryObserver()
	c := NewCorrector(tr, Options{Observer: obs})
	text := "Your loan is approved"
	res := c.Correct(context.Background(), text, language.Tamil)
	assert.Equal(t, text, res.Text)
	assert.True(t, res.Drifted)
	assert.False(t, res.Translated)
	require.Error(t, res.Err)
	assert.Equal(t, errorsx.ReasonTranslate, errorsx.Reason(res.Err))
	assert.Len(t, tr.Calls(), 1)
	assert.Len(t, obs.Named(metrics.EventDriftTranslateFailed), 1)
}

func TestEmptyTranslationIsAFailure(t *testing.T) {
	tr := mock.NewTranslator(mock.TranslatorConfig{Output: "   "})
	c := NewCorrector(tr, Options{})
	res := c.Correct(context.Background(), "Approved", language.Hindi)
	assert.Equal(t, "Approved", res.Text)
	assert.Error(t, res.Err)
}

func TestMarkersSurviveTranslation(t *testing.T) {
	tr := mock.NewTranslator(mock.TranslatorConfig{Output: "मैं आपका स्कोर देख रही हूँ।"})
	c := NewCorrector(tr, Options{})
	res := c.Correct(context.Background(), "Let me check your score. [ACTION:GET_SCORE]", language.Hindi)
	require.Len(t, tr.Calls(), 1)
	assert.Equal(t, "Let me check your score.", tr.Calls()[0].Text)
	assert.Equal(t, "मैं आपका स्कोर देख रही हूँ। [ACTION:GET_SCORE]", res.Text)
}

func TestASCIIShare(t *testing.T) {
	assert.Equal(t, 0.0, ASCIIShare(""))
	assert.Equal(t, 1.0, ASCIIShare("abc"))
	assert.InDelta(t, 0.5, ASCIIShare("abनम"), 1e-9)
}

func TestThresholdDefaults(t *testing.T) {
	assert.Equal(t, DefaultThreshold, NewCorrector(nil, Options{Threshold: 2}).Threshold())
	assert.Equal(t, 0.8, NewCorrector(nil, Options{Threshold: 0.8}).Threshold())
}

func TestMarkerOnlyReplyIsNotTranslated(t *testing.T) {
	tr := mock.NewTranslator(mock.TranslatorConfig{})
	obs := metrics.NewMemoryObserver()
	c := NewCorrector(tr, Options{Observer: obs})

	res := c.Correct(context.Background(), "[ACTION:GET_SCORE]", language.Hindi)
	assert.True(t, res.Drifted)
	assert.False(t, res.Translated)
	assert.NoError(t, res.Err)
	assert.Equal(t, "[ACTION:GET_SCORE]", res.Text)
	assert.Empty(t, tr.Calls())
	assert.Len(t, obs.Named(metrics.EventDriftDetected), 1)
}
