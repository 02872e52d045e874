package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-propdash/pkg/session"
	"github.com/goliatone/go-propdash/pkg/visibility"
)

const loginEndpoint = "/api/session/login"

type submittedResponse struct {
	ID      string    `json:"id"`
	Form    string    `json:"form"`
	At      time.Time `json:"at"`
	Message string    `json:"message,omitempty"`
}

type sessionResponse struct {
	LoggedIn bool   `json:"loggedIn"`
	Redirect string `json:"redirect"`
	Login    string `json:"login,omitempty"`
}

func visibilityPolicy(raw string) visibility.Policy {
	return visibility.ParsePolicy(raw)
}

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.session.Landing(), http.StatusFound)
}

// handleDashboard serves the dashboard summary to a logged-in user and sends
// everyone else to the login page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !s.session.LoggedIn() {
		http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, s.catalog.Summary())
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.session.LoggedIn() {
		http.Redirect(w, r, session.DashboardPath, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		LoggedIn: false,
		Redirect: session.LoginPath,
		Login:    loginEndpoint,
	})
}

func (s *Server) handleAPIDashboard(w http.ResponseWriter, _ *http.Request) {
	if !s.session.LoggedIn() {
		writeError(w, http.StatusUnauthorized, "log in to view the dashboard")
		return
	}
	writeJSON(w, http.StatusOK, s.catalog.Summary())
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.docJSON)
}

func (s *Server) handleFormDefinition(w http.ResponseWriter, r *http.Request) {
	form, ok := s.lookupForm(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, form.Definition())
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	form, ok := s.lookupForm(w, r)
	if !ok {
		return
	}
	values, ok := s.decodeValues(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, form.Validate(values))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	form, ok := s.lookupForm(w, r)
	if !ok {
		return
	}
	if !s.limiter.allow(clientKey(r)) {
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusTooManyRequests, "too many submissions, slow down")
		return
	}
	values, ok := s.decodeValues(w, r)
	if !ok {
		return
	}

	result := form.Validate(values)
	if !result.OK() {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	receipt, err := s.sink.Submit(r.Context(), form.ID(), result.Values())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusServiceUnavailable
		}
		s.logger.Warn("submit failed", zap.String("form", form.ID()), zap.Error(err))
		writeError(w, status, "submission failed")
		return
	}

	writeJSON(w, http.StatusCreated, submittedResponse{
		ID:      receipt.ID,
		Form:    receipt.Form,
		At:      receipt.At,
		Message: form.Definition().SuccessMessage,
	})
}

func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	s.writeSession(w)
}

func (s *Server) handleLogin(w http.ResponseWriter, _ *http.Request) {
	s.session.LogIn()
	s.logger.Info("logged in")
	s.writeSession(w)
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.session.LogOut()
	s.logger.Info("logged out")
	s.writeSession(w)
}

func (s *Server) writeSession(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, sessionResponse{
		LoggedIn: s.session.LoggedIn(),
		Redirect: s.session.Landing(),
	})
}
