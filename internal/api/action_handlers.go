package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/learnearn/internal/errors"
	"github.com/vytor/learnearn/internal/logger"
	"github.com/vytor/learnearn/internal/models"
)

func (s *Server) handleCompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	if err := s.Session.CompleteOnboarding(r.Context()); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, r)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	if err := s.Session.Login(r.Context(), username, r.FormValue("pin")); err != nil {
		s.handleLoginError(w, r, err, username)
		return
	}
	s.respond(w, r)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.Session.Logout(r.Context())
	s.respond(w, r)
}

func (s *Server) handleSelectLanguage(w http.ResponseWriter, r *http.Request) {
	if err := s.Session.SelectLanguage(r.Context(), r.FormValue("language")); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, r)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	screen := models.Screen(chi.URLParam(r, "screen"))
	if err := s.Session.Navigate(r.Context(), screen); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, r)
}

func (s *Server) handleStartLesson(w http.ResponseWriter, r *http.Request) {
	if err := s.Session.StartLesson(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, r)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	raw := r.FormValue("option")
	option, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn("invalid option: %s", raw)
		s.handleError(w, r, errors.NewValidationError("Please choose an answer", err))
		return
	}
	if _, err := s.Session.Answer(r.Context(), option); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, r)
}

func (s *Server) handleFinishLesson(w http.ResponseWriter, r *http.Request) {
	viewWallet := r.FormValue("next") == string(models.ScreenWallet)
	if err := s.Session.FinishLesson(r.Context(), viewWallet); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, r)
}

func (s *Server) handleLeaveLesson(w http.ResponseWriter, r *http.Request) {
	if err := s.Session.LeaveLesson(r.Context()); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, r)
}

func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	action := chi.URLParam(r, "action")
	amount := r.FormValue("amount")

	var op func(ctx context.Context, amount string) (models.Transaction, error)
	switch action {
	case "deposit":
		op = s.Session.Deposit
	case "withdraw":
		op = s.Session.Withdraw
	case "send":
		op = s.Session.Send
	default:
		s.handleError(w, r, errors.NewNotFoundError("wallet action", action))
		return
	}

	if _, err := op(r.Context(), amount); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, r)
}

func (s *Server) handleClaimDailyReward(w http.ResponseWriter, r *http.Request) {
	if _, err := s.Session.ClaimDailyReward(r.Context()); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, r)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := s.Session.UpdateProfile(r.Context(), r.FormValue("username"), r.FormValue("avatar")); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, r)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	sound := r.FormValue("sound") == "on"
	// an unparsable goal is left for the session to reject
	goal, _ := strconv.Atoi(r.FormValue("daily_goal"))
	if err := s.Session.UpdateSettings(r.Context(), sound, goal); err != nil {
		s.handleError(w, r, err)
		return
	}
	s.respond(w, r)
}
