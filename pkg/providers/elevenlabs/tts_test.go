package elevenlabs

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeServer(t *testing.T, chunks [][]byte, seen chan<- []string) *httptest.Server {
	t.Helper()
	up := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("xi-api-key"))
		assert.Contains(t, r.URL.Path, "/v1/text-to-speech/voice-hi/stream-input")
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var texts []string
		for {
			var msg map[string]any
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			text, _ := msg["text"].(string)
			texts = append(texts, text)
			if text == "" {
				break
			}
		}
		seen <- texts
		for _, c := range chunks {
			_ = conn.WriteJSON(map[string]any{"audio": base64.StdEncoding.EncodeToString(c)})
		}
		_ = conn.WriteJSON(map[string]any{"isFinal": true})
		_, _, _ = conn.ReadMessage()
	}))
}

func TestSynthesizeCollectsChunksUntilFinal(t *testing.T) {
	seen := make(chan []string, 1)
	srv := fakeServer(t, [][]byte{[]byte("ab"), []byte("cd")}, seen)
	defer srv.Close()

	s := New(Config{
		APIKey:  "key",
		VoiceID: "voice-en",
		Voices:  map[string]string{"hi": "voice-hi"},
		BaseURL: "ws" + strings.TrimPrefix(srv.URL, "http"),
	})
	audio, err := s.Synthesize(context.Background(), "नमस्ते", "hi")
	require.NoError(t, err)
	assert.Equal(t, []byte("abcd"), audio.Data)
	assert.Equal(t, "mp3", audio.Format)
	assert.Equal(t, "hi", audio.Language)

	texts := <-seen
	require.Len(t, texts, 3)
	assert.Equal(t, "नमस्ते ", texts[1])
	assert.Equal(t, "", texts[2])
}

func TestSynthesizeNeedsKeyAndVoice(t *testing.T) {
	_, err := New(Config{}).Synthesize(context.Background(), "hi", "en")
	assert.Error(t, err)
}

func TestBuildURL(t *testing.T) {
	s := New(Config{VoiceID: "v1"})
	u := s.buildURL("v1")
	assert.True(t, strings.HasPrefix(u, "wss://api.elevenlabs.io/v1/text-to-speech/v1/stream-input?"))
	assert.Contains(t, u, "model_id="+DefaultModelID)
	assert.Contains(t, u, "output_format="+DefaultOutputFormat)
}
