// Package app holds process-wide state and wires collaborators together.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wa-interaction-ingress-service/internal/config"
	"wa-interaction-ingress-service/internal/observability/logging"
	"wa-interaction-ingress-service/internal/service/stt"
	"wa-interaction-ingress-service/internal/service/stt/google"
	sttmock "wa-interaction-ingress-service/internal/service/stt/mock"
	"wa-interaction-ingress-service/internal/service/stt/whisper"
)

// Application holds process-wide state for the service.
type Application struct {
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Configuration
}

// New constructs a new Application from the provided configuration and
// initializes the global logger.
func New(cfg *config.Configuration) *Application {
	format := "json"
	if os.Getenv("ENV") == "dev" {
		format = "console"
	}
	logging.Init(logging.Config{
		Level:      cfg.Observability.LogLevel,
		Format:     format,
		TimeFormat: time.RFC3339,
		Service:    cfg.Service.Principal,
	})

	a := &Application{
		Cfg:    cfg,
		Logger: logging.WithComponent("application"),
	}
	a.Logger.Info().Msg("Interaction ingress application created")
	return a
}

// NewSTTAdapter creates the configured speech-to-text adapter.
func (a *Application) NewSTTAdapter(ctx context.Context) (stt.Adapter, error) {
	switch a.Cfg.STT.Provider {
	case "whisper":
		return whisper.New(a.Cfg.STT), nil
	case "google":
		return google.New(ctx, a.Cfg.STT)
	case "mock":
		return sttmock.New(), nil
	default:
		return nil, fmt.Errorf("app: unknown STT provider %q", a.Cfg.STT.Provider)
	}
}

// Start performs any startup work required before serving traffic.
func (a *Application) Start() error {
	a.StartupTime = time.Now().UTC()
	a.Logger.Info().
		Time("startupTime", a.StartupTime).
		Msg("Interaction ingress service starting")
	return nil
}

// Shutdown performs a best-effort cleanup before process exit.
func (a *Application) Shutdown() {
	log.Info().Msg("Interaction ingress service shutting down")
}
