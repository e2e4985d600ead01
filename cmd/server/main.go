package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wordspy/backend/internal/config"
	"github.com/wordspy/backend/internal/gateway"
	"github.com/wordspy/backend/internal/httpapi"
	"github.com/wordspy/backend/internal/ident"
	"github.com/wordspy/backend/internal/oracle"
	"github.com/wordspy/backend/internal/round"
	"github.com/wordspy/backend/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := buildLogger(cfg.Debug)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	// Oracle backend is chosen exactly once, here.
	var oracleClient *oracle.Client
	switch cfg.OracleBackend {
	case "ollama":
		oracleClient = oracle.NewClient(oracle.NewOllama(cfg.OllamaHost, cfg.OllamaModel), logger)
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			logger.Fatal("OPENAI_API_KEY is required for the openai backend")
		}
		oracleClient = oracle.NewClient(oracle.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel), logger)
	default:
		logger.Fatal("unsupported oracle backend", zap.String("backend", cfg.OracleBackend))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := session.NewStore(logger)
	ctrl := round.NewController(store, oracleClient, round.RandomTerm, logger)
	hub := gateway.NewHub(ctx, ctrl, store, logger)
	registry := ident.NewRegistry()

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpapi.SetupRoutes(hub, registry, cfg.DefaultRoom, cfg.AllowedOrigins, logger),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening",
			zap.String("addr", cfg.Addr),
			zap.String("oracle", cfg.OracleBackend),
		)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		hub.Inbox() <- gateway.ShutdownHub{}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
