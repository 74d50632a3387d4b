package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"wa-interaction-ingress-service/internal/app"
	"wa-interaction-ingress-service/internal/config"
	"wa-interaction-ingress-service/internal/extract/llm"
	"wa-interaction-ingress-service/internal/observability"
)

func main() {
	cfg := config.Load()
	application := app.New(cfg)
	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("Application startup failed")
	}

	extractor := llm.New(cfg.Extractor)
	router := llm.NewRouter(extractor)

	obsServer := observability.NewServer(cfg.Observability.MetricsAddr)
	obsServer.Start()

	srv := &http.Server{
		Addr:         ":" + cfg.Extractor.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Extractor.LLMTimeout + 15*time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Extractor.HTTPPort).Msg("Extraction server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP serve failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutting down extraction server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown failed")
	}
	obsServer.Shutdown(shutdownCtx)
	application.Shutdown()
}
