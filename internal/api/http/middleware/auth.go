package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mkravets/nutrilog-server/internal/logger"
	"github.com/mkravets/nutrilog-server/internal/model"
)

// CookieName is the session cookie set at login.
const CookieName = "nutrilog_session"

type ctxKey int

const sessionKey ctxKey = iota

// SessionFromContext returns the session attached by the Auth middleware.
func SessionFromContext(ctx context.Context) (model.SessionRecord, bool) {
	s, ok := ctx.Value(sessionKey).(model.SessionRecord)
	return s, ok
}

// SetSessionToContext attaches a session record, exposed for handler tests.
func SetSessionToContext(ctx context.Context, s model.SessionRecord) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionChecker validates a presented session token.
type SessionChecker interface {
	Check(ctx context.Context, token string) (model.SessionRecord, error)
}

// Auth guards routes behind a valid session. The token comes from the
// session cookie or an Authorization bearer header.
type Auth struct {
	sessions SessionChecker
	logger   *logger.Logger
}

func NewAuth(sessions SessionChecker, logger *logger.Logger) *Auth {
	return &Auth{sessions: sessions, logger: logger}
}

func extractToken(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func (a *Auth) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			http.Error(w, `{"success":false,"message":"Not authenticated"}`, http.StatusUnauthorized)
			return
		}

		session, err := a.sessions.Check(r.Context(), token)
		if err != nil {
			a.logger.Debug("auth middleware: rejected request",
				"path", r.URL.Path,
				"error", err.Error())
			http.Error(w, `{"success":false,"message":"Not authenticated"}`, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(SetSessionToContext(r.Context(), session)))
	})
}
