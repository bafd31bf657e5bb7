package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/mkravets/nutrilog-server/internal/api/http/middleware"
	"github.com/mkravets/nutrilog-server/internal/logger"
	"github.com/mkravets/nutrilog-server/internal/model"
)

// SessionService defines signup, login and logout operations.
type SessionService interface {
	Signup(ctx context.Context, email, password string) (model.SessionRecord, string, error)
	Login(ctx context.Context, email, password string) (model.SessionRecord, string, error)
	Logout(ctx context.Context) error
}

// Auth handles authentication endpoints.
type Auth struct {
	sessions SessionService
	logger   *logger.Logger
}

func NewAuth(sessions SessionService, logger *logger.Logger) *Auth {
	return &Auth{
		sessions: sessions,
		logger:   logger,
	}
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func setSessionCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  expiry,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (h *Auth) decodeCredentials(w http.ResponseWriter, r *http.Request) (authRequest, bool) {
	var in authRequest
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return in, false
	}

	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		errorJSON(w, http.StatusBadRequest, "Email and password are required")
		return in, false
	}
	return in, true
}

// Signup registers a new user and starts a session.
func (h *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	session, token, err := h.sessions.Signup(r.Context(), in.Email, in.Password)
	if err != nil {
		h.logger.Debug("auth handler: signup failed", "email", in.Email, "error", err.Error())
		handleError(w, err)
		return
	}

	setSessionCookie(w, token, session.Expiry)
	writeJSON(w, http.StatusOK, Result{Success: true, Message: "Account created successfully"})
}

// Login verifies credentials and starts a session.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	session, token, err := h.sessions.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		h.logger.Debug("auth handler: login failed", "email", in.Email, "error", err.Error())
		handleError(w, err)
		return
	}

	setSessionCookie(w, token, session.Expiry)
	writeJSON(w, http.StatusOK, Result{Success: true, Message: "Login successful"})
}

// Logout destroys the session unconditionally.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		h.logger.Error("auth handler: logout failed", "error", err.Error())
		handleError(w, err)
		return
	}

	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, Result{Success: true, Message: "Logged out"})
}

// Me returns the active session record.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		handleError(w, model.ErrNoSession)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
