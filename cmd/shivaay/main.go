package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harunnryd/shivaay/pkg/assistant"
	"github.com/harunnryd/shivaay/pkg/logging"
	"github.com/harunnryd/shivaay/pkg/runner"
	"github.com/harunnryd/shivaay/pkg/shivaay"
)

var (
	configPath string
	askVoice   bool
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shivaay",
		Short:         "Multilingual loan assistant backend",
		SilenceUsage:  true,
		SilenceErrors: false,
		Version:       runner.Version,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
	askCmd := &cobra.Command{
		Use:   "ask [query]",
		Short: "Run a single assistant turn and print the result as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	}
	askCmd.Flags().BoolVar(&askVoice, "voice", false, "synthesize a spoken reply")

	root.AddCommand(serveCmd, askCmd)
	return root
}

func loadApp() (*shivaay.App, shivaay.Config, error) {
	cfg, err := shivaay.LoadConfig(configPath)
	if err != nil {
		return nil, cfg, err
	}
	logger := logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	app, err := shivaay.New(cfg, nil, logger)
	if err != nil {
		logger.Error("app_init_failed", "error", err)
		return nil, cfg, err
	}
	return app, cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, cfg, err := loadApp()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lr := runner.NewLifecycleRunner(runner.Options{
		Server:          app.HTTPServer(),
		Drainer:         runner.DrainFunc(app.Drain),
		ShutdownTimeout: cfg.ShutdownTimeout(),
		Banner:          os.Stdout,
		Hooks: runner.Hooks{
			OnStart: func() { slog.Info("server_listening", "addr", cfg.Server.Addr) },
			OnStop:  func() { slog.Info("server_stopped") },
		},
	})
	return lr.Run(ctx)
}

func runAsk(cmd *cobra.Command, args []string) error {
	app, _, err := loadApp()
	if err != nil {
		return err
	}
	defer func() { _ = app.Drain() }()

	res, err := app.Ask(cmd.Context(), assistant.Request{
		Query:   strings.Join(args, " "),
		IsVoice: askVoice,
	})
	if err != nil {
		if res.Response == "" {
			return err
		}
		fmt.Fprintln(os.Stderr, err)
	}
	out := map[string]any{
		"response": res.Response,
		"language": res.Language,
		"history":  res.History,
	}
	if res.Audio != nil {
		out["audio"] = res.Audio.URL
	}
	if res.AudioError != "" {
		out["audio_error"] = res.AudioError
	}
	if len(res.Actions) > 0 {
		out["actions"] = res.Actions
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
