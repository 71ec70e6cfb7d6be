package api

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/vytor/learnearn/internal/catalog"
	"github.com/vytor/learnearn/internal/logger"
	"github.com/vytor/learnearn/internal/notify"
	"github.com/vytor/learnearn/internal/repository"
	"github.com/vytor/learnearn/internal/services"
)

type Server struct {
	Session   services.SessionService
	Accounts  services.AccountService
	Catalog   *catalog.Catalog
	Notices   *notify.Queue
	Store     repository.KVStore
	Templates *template.Template

	// Delays mirrored into meta refresh so pages poll while a timer runs.
	SplashDelay   time.Duration
	FeedbackDelay time.Duration
	LoginDelay    time.Duration

	// Clock dates the transaction history; time.Now when nil.
	Clock func() time.Time
}

type pageData map[string]any

// render executes a page template, adding the session snapshot and any
// queued toasts and haptic pulses.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	if data == nil {
		data = pageData{}
	}
	if _, ok := data["snap"]; !ok {
		data["snap"] = s.Session.Snapshot()
	}
	data["now"] = s.now()
	toasts, pulses := s.Notices.Drain()
	data["toasts"] = toasts
	data["pulses"] = pulses

	log := logger.FromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// respond finishes a successful action: JSON clients get the new state,
// browsers are sent back to the screen router.
func (s *Server) respond(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		writeJSON(w, r, http.StatusOK, s.Session.Snapshot())
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Warn("failed to encode response: %v", err)
	}
}

func (s *Server) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock()
}
