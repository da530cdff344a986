// Package httpapi exposes the assistant over HTTP with gin.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harunnryd/shivaay/pkg/assistant"
	"github.com/harunnryd/shivaay/pkg/loan"
	"github.com/harunnryd/shivaay/pkg/stt"
)

const (
	HeaderRequestID   = "X-Request-ID"
	ctxKeyRequestID   = "request_id"
	defaultMaxUpload  = 10 << 20
	defaultTranscribe = 30 * time.Second
)

// Turner runs one conversation turn.
type Turner interface {
	Handle(ctx context.Context, req assistant.Request) (assistant.Result, error)
}

type Options struct {
	Turner      Turner
	Transcriber stt.Transcriber
	Loan        *loan.Service
	// StaticDir is served below /<PublicPrefix>.
	StaticDir         string
	PublicPrefix      string
	Gatherer          prometheus.Gatherer
	MaxUploadBytes    int64
	TranscribeTimeout time.Duration
	Logger            *slog.Logger
}

type Server struct {
	opts Options
	log  *slog.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Loan == nil {
		opts.Loan = loan.NewService(nil)
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUpload
	}
	if opts.TranscribeTimeout <= 0 {
		opts.TranscribeTimeout = defaultTranscribe
	}
	s := &Server{opts: opts, log: opts.Logger}

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(opts.Logger))
	s.SetupRoutes(router)
	return router
}

func (s *Server) SetupRoutes(router *gin.Engine) {
	router.GET("/healthz", HealthCheck)
	router.POST("/ask", s.HandleAsk)
	router.POST("/transcribe", s.HandleTranscribe)
	router.POST("/get_mock_score", s.HandleMockScore)
	router.POST("/verify_kyc", s.HandleVerifyKYC)
	if s.opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})))
	}
	if s.opts.StaticDir != "" {
		router.Static(staticRoute(s.opts.PublicPrefix), s.opts.StaticDir)
	}
}

// staticRoute is the local route for stored clips. An absolute-URL prefix
// (a CDN in front of the server) contributes only its path.
func staticRoute(prefix string) string {
	if u, err := url.Parse(prefix); err == nil && u.Scheme != "" && u.Host != "" {
		prefix = u.Path
	}
	route := "/" + strings.Trim(prefix, "/")
	if route == "/" {
		return "/static"
	}
	return route
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RequestID reuses an inbound X-Request-ID or mints a uuid.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func AccessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		logger.Info("http_request",
			"request_id", c.GetString(ctxKeyRequestID),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed_ms", time.Since(started).Milliseconds())
	}
}
