package api

import (
	"net/http"

	"github.com/vytor/learnearn/internal/logger"
)

// readinessKey is never written; reading it only proves the store answers.
const readinessKey = "__readyz"

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleReady returns 503 when the key-value store cannot be read.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if s.Store != nil {
		if _, _, err := s.Store.Get(r.Context(), readinessKey); err != nil {
			log.Warn("readiness check failed - store: %v", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Store unavailable"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
