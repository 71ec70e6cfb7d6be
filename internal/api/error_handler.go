package api

import (
	"net/http"
	"net/url"

	"github.com/vytor/learnearn/internal/errors"
	"github.com/vytor/learnearn/internal/logger"
	"github.com/vytor/learnearn/internal/notify"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleError centralizes error handling for HTTP responses. JSON clients
// get the error envelope; browsers get an error toast on the next screen.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.NewInternalError(err)
	}

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	if wantsJSON(r) {
		writeJSON(w, r, appErr.Status, errorBody{Error: errorDetail{Code: appErr.Code, Message: appErr.Message}})
		return
	}

	if r.Method == http.MethodGet {
		http.Error(w, appErr.Message, appErr.Status)
		return
	}

	s.Notices.Notify(notify.Error, appErr.Message)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLoginError sends the browser back to the login form with the
// message shown inline and the typed name kept.
func (s *Server) handleLoginError(w http.ResponseWriter, r *http.Request, err error, username string) {
	appErr, ok := errors.As(err)
	if wantsJSON(r) || !ok || appErr.Status >= 500 {
		s.handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Warn("login rejected: %v", appErr)

	s.Notices.Notify(notify.Error, appErr.Message)
	q := url.Values{}
	q.Set("login_error", appErr.Message)
	if username != "" {
		q.Set("username", username)
	}
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}
