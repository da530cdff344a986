package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/harunnryd/shivaay/pkg/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateJoinsSegments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "gtx", q.Get("client"))
		assert.Equal(t, "auto", q.Get("sl"))
		assert.Equal(t, "hi", q.Get("tl"))
		assert.Equal(t, "Your loan is approved. Congratulations!", q.Get("q"))
		_, _ = w.Write([]byte(`[[["आपका लोन स्वीकृत है। ","Your loan is approved. ",null,null,10],["बधाई हो!","Congratulations!",null,null,10]],null,"en"]`))
	}))
	defer srv.Close()

	tr := NewTranslator(Config{TranslateURL: srv.URL})
	out, err := tr.Translate(context.Background(), "Your loan is approved. Congratulations!", "", "hi")
	require.NoError(t, err)
	assert.Equal(t, "आपका लोन स्वीकृत है। बधाई हो!", out)
}

func TestTranslateRetriesServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[[["ঠিক আছে","ok"]]]`))
	}))
	defer srv.Close()

	tr := NewTranslator(Config{TranslateURL: srv.URL, MaxRetries: 2, Backoff: 1})
	out, err := tr.Translate(context.Background(), "ok", "auto", "bn")
	require.NoError(t, err)
	assert.Equal(t, "ঠিক আছে", out)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestTranslateRateLimitIsNotRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewTranslator(Config{TranslateURL: srv.URL, MaxRetries: 3, Backoff: 1}).
		Translate(context.Background(), "hello", "auto", "ta")
	assert.True(t, resilience.IsRateLimit(err))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestParseTranslationRejectsGarbage(t *testing.T) {
	for _, body := range []string{`{}`, `[]`, `[[]]`, `not json`} {
		_, err := parseTranslation([]byte(body))
		assert.ErrorIs(t, err, ErrMalformedTranslation, body)
	}
}

func TestSynthesizeConcatenatesChunks(t *testing.T) {
	var idx []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "tw-ob", q.Get("client"))
		assert.Equal(t, "hi", q.Get("tl"))
		assert.LessOrEqual(t, utf8.RuneCountInString(q.Get("q")), maxChunkRunes)
		idx = append(idx, q.Get("idx"))
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3" + q.Get("idx")))
	}))
	defer srv.Close()

	text := strings.Repeat("नमस्ते दोस्त, ", 20)
	s := NewSynthesizer(Config{TTSURL: srv.URL})
	audio, err := s.Synthesize(context.Background(), text, "hi")
	require.NoError(t, err)
	require.Greater(t, len(idx), 1)
	assert.Equal(t, "0", idx[0])
	assert.True(t, strings.HasPrefix(string(audio.Data), "ID30ID31"))
	assert.Equal(t, "mp3", audio.Format)
	assert.Equal(t, "audio/mpeg", audio.ContentType)
}

func TestSynthesizeEmptyText(t *testing.T) {
	_, err := NewSynthesizer(Config{}).Synthesize(context.Background(), "   ", "en")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestChunk(t *testing.T) {
	assert.Nil(t, Chunk("  ", 100))
	assert.Equal(t, []string{"short text"}, Chunk(" short   text ", 100))

	parts := Chunk("One two three. Four five six seven.", 20)
	assert.Equal(t, []string{"One two three.", "Four five six seven."}, parts)

	hard := Chunk(strings.Repeat("a", 250), 100)
	require.Len(t, hard, 3)
	assert.Len(t, hard[2], 50)

	long := strings.Repeat("word ", 60)
	for _, p := range Chunk(long, 100) {
		assert.LessOrEqual(t, utf8.RuneCountInString(p), 100)
		assert.False(t, strings.HasSuffix(p, " "))
	}
}

func TestTranslateSplitsLongReplies(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		q := r.URL.Query().Get("q")
		assert.LessOrEqual(t, utf8.RuneCountInString(q), 500)
		assert.True(t, strings.HasSuffix(q, "."), q)
		_, _ = w.Write([]byte(`[[["अनुवाद।","x",null,null,10]],null,"en"]`))
	}))
	defer srv.Close()

	long := strings.Repeat("Your monthly instalment depends on the tenure and the rate you choose. ", 30)
	tr := NewTranslator(Config{TranslateURL: srv.URL, MaxQueryChars: 500})
	out, err := tr.Translate(context.Background(), long, "", "hi")
	require.NoError(t, err)
	n := int(atomic.LoadInt32(&hits))
	assert.GreaterOrEqual(t, n, 5)
	assert.Equal(t, strings.TrimSpace(strings.Repeat("अनुवाद। ", n)), out)
}

func TestTranslateShortReplyIsOneRequest(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`[[["ठीक है","ok",null,null,10]],null,"en"]`))
	}))
	defer srv.Close()

	out, err := NewTranslator(Config{TranslateURL: srv.URL}).Translate(context.Background(), "ok\nthanks", "", "hi")
	require.NoError(t, err)
	assert.Equal(t, "ठीक है", out)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}
