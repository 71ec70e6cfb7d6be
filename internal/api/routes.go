package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/", s.handleScreen)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/api/state", s.handleState)
	r.Get("/api/accounts", s.handleAccounts)

	r.Post("/onboarding/complete", s.handleCompleteOnboarding)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)
	r.Post("/language", s.handleSelectLanguage)
	r.Post("/navigate/{screen}", s.handleNavigate)
	r.Post("/lessons/{id}/start", s.handleStartLesson)
	r.Post("/lesson/answer", s.handleAnswer)
	r.Post("/lesson/finish", s.handleFinishLesson)
	r.Post("/lesson/leave", s.handleLeaveLesson)
	r.Post("/wallet/{action}", s.handleWallet)
	r.Post("/daily-reward/claim", s.handleClaimDailyReward)
	r.Post("/profile", s.handleUpdateProfile)
	r.Post("/settings", s.handleUpdateSettings)

	return r
}
