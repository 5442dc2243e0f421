package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/sscprep/mocktest-backend/internal/config"
	"github.com/sscprep/mocktest-backend/internal/database"
	"github.com/sscprep/mocktest-backend/internal/handler"
	"github.com/sscprep/mocktest-backend/internal/logger"
	"github.com/sscprep/mocktest-backend/internal/questionbank"
	"github.com/sscprep/mocktest-backend/internal/router"
	"github.com/sscprep/mocktest-backend/internal/service"
	"github.com/sscprep/mocktest-backend/internal/store"
	"github.com/sscprep/mocktest-backend/internal/testset"
	"github.com/sscprep/mocktest-backend/internal/timer"
	"github.com/sscprep/mocktest-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("store", cfg.StoreDriver).
		Msg("Starting Mock Test Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Load Question Bank ────────────────────────────────────────────
	// A load failure is fatal to startup; there is no automatic retry.
	questions, err := questionbank.Load(ctx, cfg.QuestionBankSource)
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.QuestionBankSource).
			Msg("Failed to load question bank; check the source and restart")
	}

	repo := questionbank.NewRepository(questions)
	builder := testset.NewBuilder(repo, nil)
	log.Info().
		Int("questions", repo.Len()).
		Int("subjects", len(repo.Categories())).
		Int("mock_sets", len(builder.MockSets())).
		Msg("Question bank loaded")

	// ─── Initialize Persistence Gateway ────────────────────────────────
	gw, closeStore, err := buildGateway(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize persistence gateway")
	}
	defer closeStore()

	// ─── Initialize Services ──────────────────────────────────────────
	testService := service.NewTestService(repo, builder, log)
	sessionService := service.NewSessionService(builder, gw, timer.New(log), cfg.TestDuration, log)
	defer sessionService.Close()

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Bank:    handler.NewBankHandler(testService),
		Test:    handler.NewTestHandler(sessionService),
		Session: handler.NewSessionHandler(sessionService),
		WS:      handler.NewWSHandler(sessionService, log, cfg.AllowedOrigins),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// buildGateway selects the persistence gateway by config. The returned
// close function releases the underlying connection, if any.
func buildGateway(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Gateway, func(), error) {
	switch cfg.StoreDriver {
	case "redis":
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedisStore(rdb), func() { _ = rdb.Close() }, nil

	case "postgres":
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgresStore(pool), pool.Close, nil

	default:
		log.Info().Msg("Using in-memory persistence gateway")
		return store.NewMemoryStore(), func() {}, nil
	}
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
