package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/interview-agent/internal/config"
	"github.com/jonathan/interview-agent/internal/identity"
	"github.com/jonathan/interview-agent/internal/interview"
	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/logger"
	"github.com/jonathan/interview-agent/internal/server"
	"github.com/jonathan/interview-agent/internal/sink"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the interview session endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	log, err := logger.New(cfg.JSONLogs, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	gemini := llm.NewGemini(cfg.Gemini)
	defer func() { _ = gemini.Close() }()

	engine := llm.NewEngine(log,
		gemini,
		llm.NewGroq(cfg.Groq),
		llm.NewOllama(cfg.Ollama),
	)

	opts := []interview.Option{}
	if cfg.DatabaseURL != "" {
		pg, err := sink.Connect(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect result sink: %w", err)
		}
		defer pg.Close()
		opts = append(opts, interview.WithSink(pg))
		log.Info("result sink enabled")
	} else {
		log.Info("no DATABASE_URL set, completed analyses will not be persisted")
	}

	orchestrator := interview.NewOrchestrator(engine, interview.NewMemoryStore(), log, opts...)

	var resolver identity.Resolver = identity.Unresolved{}
	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}
	if jwtCfg != nil {
		resolver = identity.NewJWTResolver(jwtCfg)
	} else {
		log.Info("no JWT_SECRET set, all interview owners will be unresolved")
	}

	logProviderHealth(cmd.Context(), log, engine)

	srv := server.New(server.Config{
		Port:         cfg.Port,
		Orchestrator: orchestrator,
		Resolver:     resolver,
		Prober:       engine,
		Logger:       log,
	})

	return srv.Start()
}

// logProviderHealth reports backend readiness once at startup so a
// misconfigured credential shows up before the first interview does.
func logProviderHealth(ctx context.Context, log *zap.Logger, engine *llm.Engine) {
	for _, status := range engine.Health(ctx) {
		log.Info("provider",
			zap.String("name", string(status.Provider)),
			zap.Bool("configured", status.Configured),
			zap.Bool("reachable", status.Reachable),
			zap.String("detail", status.Detail),
		)
	}
}
