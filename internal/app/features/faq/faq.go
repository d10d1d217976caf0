// Package faq serves the FAQ collection and its duplicate sweep.
//
// Routes (mounted at /api/faq):
//   - GET  /        questions in display order, CMS first
//   - POST /        append a question (admin)
//   - POST /dedupe  remove repeated questions (admin)
package faq

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"

	errorsfeature "github.com/dalemusser/cleansite/internal/app/features/errors"
	faqstore "github.com/dalemusser/cleansite/internal/app/store/faq"
	"github.com/dalemusser/cleansite/internal/app/system/authz"
	"github.com/dalemusser/cleansite/internal/app/system/cms"
	"github.com/dalemusser/cleansite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/cleansite/internal/app/system/jsonutil"
	"github.com/dalemusser/cleansite/internal/app/system/timeouts"
	"github.com/dalemusser/cleansite/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CMSCollection is the CMS collection holding FAQ entries.
const CMSCollection = "faqs"

// Provenance values, matching the content endpoints.
const (
	sourceCMS   = "strapi"
	sourceStore = "mongodb"
)

// Store is the local FAQ collection. *faqstore.Store satisfies it.
type Store interface {
	List(ctx context.Context) ([]models.FAQQuestion, error)
	Add(ctx context.Context, q models.FAQQuestion) (models.FAQQuestion, error)
	Dedupe(ctx context.Context) (faqstore.DedupeResult, error)
}

// Handler serves the FAQ endpoints.
type Handler struct {
	CMS    cms.Source
	Store  Store
	ErrLog *errorsfeature.ErrorLogger
	Log    *zap.Logger
}

// NewHandler creates a FAQ handler. A nil src means no CMS.
func NewHandler(src cms.Source, store Store, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	if src == nil {
		src = cms.Disabled{}
	}
	return &Handler{CMS: src, Store: store, ErrLog: errLog, Log: logger}
}

// Routes returns the FAQ router.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.With(authz.RequireWriter).Post("/", h.Add)
	r.With(authz.RequireWriter).Post("/dedupe", h.Dedupe)
	return r
}

// List serves GET /. The CMS answers when it has entries; otherwise the
// local collection does.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var qs []models.FAQQuestion
	err := h.CMS.List(r.Context(), CMSCollection, &qs)
	switch {
	case err == nil:
		sort.SliceStable(qs, func(i, j int) bool { return qs[i].Order < qs[j].Order })
		jsonutil.Success(w, prepare(qs), sourceCMS)
		return
	case !errors.Is(err, cms.ErrNotFound):
		h.ErrLog.Log(r, "faq cms list failed", err)
		jsonutil.InternalError(w, "Internal server error")
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Read(), h.Log, "faq list")
	defer cancel()

	qs, err = h.Store.List(ctx)
	if err != nil {
		h.ErrLog.Log(r, "faq store list failed", err)
		jsonutil.InternalError(w, "Internal server error")
		return
	}
	jsonutil.Success(w, prepare(qs), sourceStore)
}

type addInput struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Order    int    `json:"order"`
}

// Add serves POST /.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var in addInput
	if err := jsonutil.Decode(r, &in); err != nil {
		h.ErrLog.Log(r, "faq add: decode body", err)
		jsonutil.InternalError(w, "Internal server error")
		return
	}
	in.Question = strings.TrimSpace(in.Question)
	if in.Question == "" {
		jsonutil.BadRequest(w, "question is required")
		return
	}

	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Write(), h.Log, "faq add")
	defer cancel()

	q, err := h.Store.Add(ctx, models.FAQQuestion{
		Question: in.Question,
		Answer:   strings.TrimSpace(in.Answer),
		Order:    in.Order,
	})
	if err != nil {
		h.ErrLog.Log(r, "faq add failed", err)
		jsonutil.InternalError(w, "Internal server error")
		return
	}
	jsonutil.Success(w, q, sourceStore)
}

// Dedupe serves POST /dedupe.
func (h *Handler) Dedupe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.Detached(r.Context(), timeouts.Batch(), h.Log, "faq dedupe")
	defer cancel()

	res, err := h.Store.Dedupe(ctx)
	if err != nil {
		h.ErrLog.Log(r, "faq dedupe failed", err)
		jsonutil.InternalError(w, "Internal server error")
		return
	}
	h.Log.Info("faq dedupe complete",
		zap.Int64("duplicates_removed", res.DuplicatesRemoved),
		zap.Int64("remaining", res.Remaining))
	jsonutil.Success(w, res, sourceStore)
}

// prepare sanitizes answers for display. A nil list becomes empty.
func prepare(qs []models.FAQQuestion) []models.FAQQuestion {
	if qs == nil {
		return []models.FAQQuestion{}
	}
	for i := range qs {
		qs[i].Answer = htmlsanitize.PrepareRichText(qs[i].Answer)
	}
	return qs
}
