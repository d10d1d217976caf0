package content

import (
	"net/http"

	errorsfeature "github.com/dalemusser/cleansite/internal/app/features/errors"
	"github.com/dalemusser/cleansite/internal/app/system/auth"
	"github.com/dalemusser/cleansite/internal/app/system/authz"
	"github.com/dalemusser/cleansite/internal/app/system/jsonutil"
	"github.com/dalemusser/cleansite/internal/app/system/normalize"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves /api/content.
type Handler struct {
	Registry *Registry
	ErrLog   *errorsfeature.ErrorLogger
	Log      *zap.Logger
}

// NewHandler creates a content handler over reg.
func NewHandler(reg *Registry, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Registry: reg, ErrLog: errLog, Log: logger}
}

// Get serves GET /{type}: a singleton section, or the page list of a
// slug-keyed type.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	key := normalize.ContentType(chi.URLParam(r, "type"))

	if s, ok := h.Registry.Section(key); ok {
		data, source, err := s.ReadAny(r.Context())
		if err != nil {
			h.fail(w, r, key, err)
			return
		}
		jsonutil.Success(w, data, source)
		return
	}
	if p, ok := h.Registry.Pages(key); ok {
		data, source, err := p.ListAny(r.Context())
		if err != nil {
			h.fail(w, r, key, err)
			return
		}
		jsonutil.Success(w, data, source)
		return
	}
	jsonutil.NotFound(w, "Unknown content type")
}

// Post serves POST /{type}. Slug-keyed types refuse every write before the
// caller's role is looked at.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	key := normalize.ContentType(chi.URLParam(r, "type"))

	if _, ok := h.Registry.Pages(key); ok {
		h.fail(w, r, key, ErrCMSManaged)
		return
	}
	s, ok := h.Registry.Section(key)
	if !ok {
		jsonutil.NotFound(w, "Unknown content type")
		return
	}

	authz.RequireWriter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := jsonutil.DecodeMap(r)
		if err != nil {
			h.fail(w, r, key, err)
			return
		}
		user, _ := auth.CurrentUser(r)
		data, err := s.WriteAny(r.Context(), user, body)
		if err != nil {
			h.fail(w, r, key, err)
			return
		}
		jsonutil.Success(w, data, SourceStore)
	})).ServeHTTP(w, r)
}

// GetPage serves GET /{type}/{slug}.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	key := normalize.ContentType(chi.URLParam(r, "type"))
	p, ok := h.Registry.Pages(key)
	if !ok {
		jsonutil.NotFound(w, "Unknown content type")
		return
	}

	slug := normalize.Slug(chi.URLParam(r, "slug"))
	data, source, md, err := p.ReadAny(r.Context(), slug)
	if err != nil {
		h.fail(w, r, key, err)
		return
	}
	jsonutil.SuccessWithMetadata(w, data, source, md)
}

// PostPage serves POST /{type}/{slug}, which is always refused.
func (h *Handler) PostPage(w http.ResponseWriter, r *http.Request) {
	key := normalize.ContentType(chi.URLParam(r, "type"))
	if _, ok := h.Registry.Pages(key); !ok {
		jsonutil.NotFound(w, "Unknown content type")
		return
	}
	h.fail(w, r, key, ErrCMSManaged)
}

// fail writes the envelope for err. Backend failures are logged with their
// detail; the caller only sees a generic message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, key string, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		h.ErrLog.LogWithFields(r, "content request failed", err, zap.String("type", key))
	}
	jsonutil.Error(w, status, MessageFor(err))
}
