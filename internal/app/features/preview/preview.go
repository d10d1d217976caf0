// Package preview toggles draft mode for CMS editors.
//
// GET /api/preview?secret=...&url=...&status=...
//
// A matching secret sets the signed draft cookie (or clears it when
// status=published) and redirects to url. Only same-site relative paths are
// followed; anything else redirects to the site root.
package preview

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/cleansite/internal/app/system/draftmode"
	"github.com/dalemusser/cleansite/internal/app/system/jsonutil"
	"github.com/dalemusser/cleansite/internal/app/system/normalize"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// StatusPublished is the status value that turns draft mode off.
const StatusPublished = "published"

// Handler serves the preview toggle.
type Handler struct {
	secrets [][]byte
	draft   *draftmode.Manager
	log     *zap.Logger
}

// NewHandler creates a preview handler accepting any of secrets.
// Empty entries are ignored; with no secrets every request is rejected.
func NewHandler(secrets []string, draft *draftmode.Manager, logger *zap.Logger) *Handler {
	h := &Handler{draft: draft, log: logger}
	for _, s := range secrets {
		if s = strings.TrimSpace(s); s != "" {
			h.secrets = append(h.secrets, []byte(s))
		}
	}
	return h
}

// Routes returns the preview router.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.ServeHTTP)
	return r
}

// ServeHTTP implements the toggle.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !h.validSecret(normalize.QueryParam(q.Get("secret"))) {
		h.log.Warn("preview request rejected",
			zap.String("remote_addr", r.RemoteAddr),
			zap.String("user_agent", r.UserAgent()))
		jsonutil.Unauthorized(w, "Invalid token")
		return
	}

	if normalize.Status(q.Get("status")) == StatusPublished {
		h.draft.Disable(w)
	} else if err := h.draft.Enable(w); err != nil {
		h.log.Error("preview: sign draft cookie", zap.Error(err))
		jsonutil.InternalError(w, "Internal server error")
		return
	}

	http.Redirect(w, r, SafeRedirect(q.Get("url")), http.StatusTemporaryRedirect)
}

// validSecret compares candidate against every configured secret in
// constant time.
func (h *Handler) validSecret(candidate string) bool {
	if candidate == "" {
		return false
	}
	c := []byte(candidate)
	match := 0
	for _, s := range h.secrets {
		match |= subtle.ConstantTimeCompare(c, s)
	}
	return match == 1
}

// SafeRedirect returns target if it is a path on this site, otherwise "/".
func SafeRedirect(target string) string {
	target = strings.TrimSpace(target)
	if target == "" || target[0] != '/' {
		return "/"
	}
	if strings.HasPrefix(target, "//") || strings.ContainsAny(target, "\\\r\n\t") {
		return "/"
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return target
}
