package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"wa-interaction-ingress-service/internal/extract"
	"wa-interaction-ingress-service/internal/models"
)

// FieldExtractor is the extraction operation exposed over HTTP. *Extractor
// satisfies it; tests substitute a stub.
type FieldExtractor interface {
	Extract(ctx context.Context, text, sender string) (models.ExtractedFields, error)
}

// NewRouter constructs the HTTP router for the extraction service.
func NewRouter(extractor FieldExtractor) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/parse", parseHandler(extractor))

	return r
}

func parseHandler(extractor FieldExtractor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req extract.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		fields, err := extractor.Extract(r.Context(), req.Text, req.Sender)
		if err != nil {
			if errors.Is(err, ErrInvalidJSON) {
				writeError(w, http.StatusUnprocessableEntity, "LLM returned invalid JSON")
				return
			}
			log.Error().Err(err).Msg("Extraction failed")
			writeError(w, http.StatusBadGateway, "extraction backend unavailable")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(fields); err != nil {
			log.Error().Err(err).Msg("Failed to encode extraction response")
		}
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
