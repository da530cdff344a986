package shivaay

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/harunnryd/shivaay/pkg/assistant"
	"github.com/harunnryd/shivaay/pkg/drift"
	"github.com/harunnryd/shivaay/pkg/httpapi"
	"github.com/harunnryd/shivaay/pkg/language"
	"github.com/harunnryd/shivaay/pkg/llm"
	"github.com/harunnryd/shivaay/pkg/loan"
	"github.com/harunnryd/shivaay/pkg/logging"
	"github.com/harunnryd/shivaay/pkg/metrics"
	"github.com/harunnryd/shivaay/pkg/prompt"
	"github.com/harunnryd/shivaay/pkg/redact"
	"github.com/harunnryd/shivaay/pkg/resilience"
	"github.com/harunnryd/shivaay/pkg/stt"
	"github.com/harunnryd/shivaay/pkg/voice"
)

// App is a fully wired assistant.
type App struct {
	Config      Config
	Pipeline    *assistant.Pipeline
	Router      *gin.Engine
	Transcriber stt.Transcriber
	Metrics     *prometheus.Registry
	Observer    metrics.Observer
	logger      *slog.Logger
	async       *metrics.AsyncObserver
}

// New builds every component named in cfg through reg. A nil reg uses
// DefaultRegistry.
func New(cfg Config, reg *ProviderRegistry, logger *slog.Logger) (*App, error) {
	if reg == nil {
		reg = DefaultRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	redact.SetEnabled(cfg.Privacy.RedactPII)

	app := &App{Config: cfg, logger: logger}
	obs, err := app.buildObserver()
	if err != nil {
		return nil, err
	}
	app.Observer = obs

	adapter, err := reg.BuildLLM(cfg.Vendors.LLM.Provider, cfg)
	if err != nil {
		return nil, fmt.Errorf("build llm: %w", err)
	}
	breaker := llm.NewCircuitBreakerAdapter(adapter, resilience.NewCircuitBreaker(cfg.Breaker.Threshold, millis(cfg.Breaker.CooldownMS)))
	breaker.SetObserver(obs)

	translator, err := reg.BuildTranslator(providerOr(cfg.Vendors.Translate.Provider, "none"), cfg)
	if err != nil {
		return nil, fmt.Errorf("build translator: %w", err)
	}
	corrector := drift.NewCorrector(translator, drift.Options{
		Threshold: cfg.Languages.DriftThreshold,
		Timeout:   millis(cfg.Timeouts.TranslateMS),
		Observer:  obs,
		Logger:    logging.NewComponentLogger(logger, "drift"),
	})

	var speaker assistant.Speaker
	if cfg.Vendors.TTS.Provider != "" {
		synth, err := reg.BuildTTS(cfg.Vendors.TTS.Provider, cfg)
		if err != nil {
			return nil, fmt.Errorf("build tts: %w", err)
		}
		store, err := voice.NewFileStore(cfg.Server.StaticDir, cfg.Server.PublicPrefix)
		if err != nil {
			return nil, err
		}
		speaker = voice.NewResponder(synth, store, voice.Options{
			Timeout:  millis(cfg.Timeouts.SynthesisMS),
			Observer: obs,
			Logger:   logging.NewComponentLogger(logger, "voice"),
		})
	}

	transcriber, err := reg.BuildSTT(providerOr(cfg.Vendors.STT.Provider, "none"), cfg)
	if err != nil {
		return nil, fmt.Errorf("build stt: %w", err)
	}
	app.Transcriber = transcriber

	pipeline, err := assistant.New(assistant.Config{
		Classifier: language.NewClassifier(language.ClassifierOptions{
			ExtraKeywords: cfg.Languages.Keywords,
			Allow:         cfg.AllowedLanguages(),
			Logger:        logging.NewComponentLogger(logger, "classifier"),
		}),
		Composer:  prompt.NewComposer(cfg.BasePrompt),
		Adapter:   breaker,
		Corrector: corrector,
		Speaker:   speaker,
		Sampling: assistant.Sampling{
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			TopP:        cfg.LLM.TopP,
		},
		CompletionTimeout: millis(cfg.Timeouts.CompletionMS),
		Observer:          obs,
		Logger:            logging.NewComponentLogger(logger, "assistant"),
	})
	if err != nil {
		return nil, err
	}
	app.Pipeline = pipeline

	scores := loan.ScoreSource(nil)
	if cfg.Loan.FixedScore > 0 {
		scores = loan.FixedScore(cfg.Loan.FixedScore)
	}
	opts := httpapi.Options{
		Turner:            pipeline,
		Transcriber:       transcriber,
		Loan:              loan.NewService(scores),
		StaticDir:         cfg.Server.StaticDir,
		PublicPrefix:      cfg.Server.PublicPrefix,
		MaxUploadBytes:    cfg.Server.MaxUploadBytes,
		TranscribeTimeout: millis(cfg.Timeouts.TranscribeMS),
		Logger:            logging.NewComponentLogger(logger, "http"),
	}
	if app.Metrics != nil {
		opts.Gatherer = app.Metrics
	}
	app.Router = httpapi.NewRouter(opts)

	logger.Info("app_ready",
		"llm", adapter.Name(),
		"translate", translator.Name(),
		"tts", cfg.Vendors.TTS.Provider,
		"stt", providerOr(cfg.Vendors.STT.Provider, "none"),
		"classifier_allow", cfg.Languages.ClassifierAllow)
	return app, nil
}

func (a *App) buildObserver() (metrics.Observer, error) {
	list := []metrics.Observer{metrics.NewLoggerObserver(logging.NewComponentLogger(a.logger, "metrics"))}
	if a.Config.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		prom, err := metrics.NewPrometheusObserver(reg)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		a.Metrics = reg
		list = append(list, prom)
	}
	a.async = metrics.NewAsyncObserver(metrics.NewMultiObserver(list...), 1024)
	return a.async, nil
}

// HTTPServer wraps Router in an *http.Server bound to server.addr.
func (a *App) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              a.Config.Server.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Ask runs a single turn without the HTTP layer.
func (a *App) Ask(ctx context.Context, req assistant.Request) (assistant.Result, error) {
	return a.Pipeline.Handle(ctx, req)
}

// Drain flushes buffered metric events.
func (a *App) Drain() error {
	if a.async == nil {
		return nil
	}
	if dropped := a.async.Close(); dropped > 0 {
		a.logger.Warn("metrics_events_dropped", "count", dropped)
	}
	return nil
}

func providerOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
