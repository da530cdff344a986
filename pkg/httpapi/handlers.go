package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harunnryd/shivaay/pkg/actions"
	"github.com/harunnryd/shivaay/pkg/assistant"
	"github.com/harunnryd/shivaay/pkg/conversation"
	"github.com/harunnryd/shivaay/pkg/errorsx"
	"github.com/harunnryd/shivaay/pkg/redact"
)

type askRequest struct {
	Query   string               `json:"query"`
	IsVoice bool                 `json:"is_voice"`
	History conversation.History `json:"history"`
}

type askResponse struct {
	Response   string               `json:"response"`
	History    conversation.History `json:"history,omitempty"`
	Language   string               `json:"language,omitempty"`
	Actions    []actions.Action     `json:"actions,omitempty"`
	Audio      string               `json:"audio,omitempty"`
	AudioError string               `json:"audio_error,omitempty"`
}

type transcribeResponse struct {
	Transcript string       `json:"transcript"`
	Language   string       `json:"language,omitempty"`
	Turn       *askResponse `json:"turn,omitempty"`
}

func (s *Server) HandleAsk(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, askResponse{Response: "Invalid request: " + err.Error()})
		return
	}
	status, body := s.runTurn(c, req)
	c.JSON(status, body)
}

func (s *Server) runTurn(c *gin.Context, req askRequest) (int, askResponse) {
	if s.opts.Turner == nil {
		return http.StatusServiceUnavailable, askResponse{Response: "assistant is not configured"}
	}
	res, err := s.opts.Turner.Handle(c.Request.Context(), assistant.Request{
		RequestID: c.GetString(ctxKeyRequestID),
		Query:     req.Query,
		IsVoice:   req.IsVoice,
		History:   req.History,
	})
	body := askResponse{
		Response:   res.Response,
		History:    res.History,
		Language:   string(res.Language),
		Actions:    res.Actions,
		AudioError: res.AudioError,
	}
	if res.Audio != nil {
		body.Audio = res.Audio.URL
	}
	if err == nil {
		return http.StatusOK, body
	}
	var cerr *assistant.CompletionError
	switch {
	case errors.Is(err, assistant.ErrInvalidRequest):
		return http.StatusBadRequest, askResponse{Response: err.Error()}
	case errors.As(err, &cerr):
		return http.StatusInternalServerError, askResponse{Response: cerr.Response(), History: res.History}
	default:
		s.log.Error("ask_failed", "request_id", c.GetString(ctxKeyRequestID), "error", err)
		return http.StatusInternalServerError, askResponse{Response: "Error contacting AI: " + err.Error()}
	}
}

// HandleTranscribe accepts a multipart "audio" file or a raw audio body.
// With ?ask=true the transcript is run as a voice turn.
func (s *Server) HandleTranscribe(c *gin.Context) {
	if s.opts.Transcriber == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "transcription is not configured"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxUploadBytes)

	audio, mime, closeFn, err := audioFrom(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.opts.TranscribeTimeout)
	defer cancel()
	tr, err := s.opts.Transcriber.Transcribe(ctx, audio, mime)
	if err != nil {
		err = errorsx.Wrap(err, errorsx.ReasonSTTTranscribe)
		s.log.Error("stt_transcribe_error",
			"request_id", c.GetString(ctxKeyRequestID),
			"provider", s.opts.Transcriber.Name(),
			errorsx.Attr(err),
			"error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Error transcribing audio: " + err.Error()})
		return
	}
	s.log.Info("stt_transcribed",
		"request_id", c.GetString(ctxKeyRequestID),
		"language", tr.Language,
		"text", redact.Text(tr.Text))

	out := transcribeResponse{Transcript: tr.Text, Language: tr.Language}
	if c.Query("ask") != "true" {
		c.JSON(http.StatusOK, out)
		return
	}
	var history conversation.History
	if raw := strings.TrimSpace(c.PostForm("history")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &history); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid history: " + err.Error()})
			return
		}
	}
	status, turn := s.runTurn(c, askRequest{Query: tr.Text, IsVoice: true, History: history})
	out.Turn = &turn
	c.JSON(status, out)
}

func audioFrom(c *gin.Context) (io.Reader, string, func(), error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("audio")
		if err != nil {
			return nil, "", nil, errors.New("missing audio file")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, "", nil, err
		}
		return f, fh.Header.Get("Content-Type"), func() { _ = f.Close() }, nil
	}
	if c.Request.ContentLength == 0 {
		return nil, "", nil, errors.New("missing audio body")
	}
	return c.Request.Body, c.ContentType(), func() {}, nil
}

func (s *Server) HandleMockScore(c *gin.Context) {
	score, text := s.opts.Loan.CreditCheck()
	c.JSON(http.StatusOK, gin.H{"response": text, "score": score})
}

func (s *Server) HandleVerifyKYC(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"response": s.opts.Loan.VerifyKYC()})
}
