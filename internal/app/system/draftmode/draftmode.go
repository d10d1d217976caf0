// Package draftmode carries the preview/draft flag from a signed cookie into
// the request context, where the CMS client reads it.
package draftmode

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// CookieName is the draft cookie. Its presence with a valid signature turns
// draft mode on for the requests that carry it.
const CookieName = "cleansite_draft"

// DefaultMaxAge bounds how long a preview session lasts.
const DefaultMaxAge = 1 * time.Hour

type ctxKey struct{}

// WithDraft returns a context flagged for draft content.
func WithDraft(ctx context.Context, on bool) context.Context {
	return context.WithValue(ctx, ctxKey{}, on)
}

// Enabled reports whether ctx prefers draft content.
func Enabled(ctx context.Context) bool {
	on, _ := ctx.Value(ctxKey{}).(bool)
	return on
}

// Manager signs, verifies and clears the draft cookie.
type Manager struct {
	sc     *securecookie.SecureCookie
	maxAge time.Duration
	secure bool
	logger *zap.Logger
}

// NewManager creates a Manager. hashKey signs the cookie (32+ bytes recommended).
func NewManager(hashKey []byte, maxAge time.Duration, secure bool, logger *zap.Logger) *Manager {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	sc := securecookie.New(hashKey, nil)
	sc.MaxAge(int(maxAge.Seconds()))
	return &Manager{sc: sc, maxAge: maxAge, secure: secure, logger: logger}
}

// Enable sets a freshly signed draft cookie on the response.
func (m *Manager) Enable(w http.ResponseWriter) error {
	encoded, err := m.sc.Encode(CookieName, uuid.NewString())
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Disable expires the draft cookie.
func (m *Manager) Disable(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Active reports whether r carries a valid draft cookie.
func (m *Manager) Active(r *http.Request) bool {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return false
	}
	var nonce string
	if err := m.sc.Decode(CookieName, c.Value, &nonce); err != nil {
		m.logger.Debug("ignoring invalid draft cookie", zap.Error(err))
		return false
	}
	return true
}

// Middleware flags the request context when a valid draft cookie is present.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Active(r) {
			r = r.WithContext(WithDraft(r.Context(), true))
		}
		next.ServeHTTP(w, r)
	})
}
