package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"wa-interaction-ingress-service/internal/app"
	"wa-interaction-ingress-service/internal/config"
	"wa-interaction-ingress-service/internal/events"
	"wa-interaction-ingress-service/internal/extract"
	ingresshttp "wa-interaction-ingress-service/internal/http"
	"wa-interaction-ingress-service/internal/observability"
	"wa-interaction-ingress-service/internal/pipeline"
	"wa-interaction-ingress-service/internal/store"
	"wa-interaction-ingress-service/internal/whatsapp"
)

func main() {
	cfg := config.Load()
	application := app.New(cfg)
	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("Application startup failed")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Postgres pool")
	}
	defer pool.Close()

	interactions := store.NewPostgresStore(pool)
	if cfg.Database.Migrate {
		if err := interactions.Migrate(ctx); err != nil {
			log.Fatal().Err(err).Msg("Schema migration failed")
		}
	}

	transcriber, err := application.NewSTTAdapter(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create STT adapter")
	}

	// Kafka publisher with separate topics for recorded and confirmed events
	publisher := events.New(&events.Config{
		Enabled:        cfg.Kafka.Enabled,
		Brokers:        cfg.Kafka.Brokers,
		TopicRecorded:  cfg.Kafka.TopicRecorded,
		TopicConfirmed: cfg.Kafka.TopicConfirmed,
		Principal:      cfg.Kafka.Principal,
	})
	defer publisher.Close()

	waClient := whatsapp.NewClient(cfg.WhatsApp)
	extractor := extract.NewClient(cfg.Extractor)
	pipe := pipeline.New(waClient, transcriber, extractor, interactions, waClient, publisher)

	handler := ingresshttp.NewWebhookHandler(cfg.WhatsApp.VerifyToken, pipe)
	router := ingresshttp.NewRouter(handler)

	obsServer := observability.NewServer(cfg.Observability.MetricsAddr)
	obsServer.Start()

	srv := &http.Server{
		Addr:         ":" + cfg.Service.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Service.HTTPPort).Msg("Webhook server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP serve failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutting down webhook server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown failed")
	}
	obsServer.Shutdown(shutdownCtx)
	application.Shutdown()
}
