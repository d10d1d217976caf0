package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sluggedstore "github.com/dalemusser/cleansite/internal/app/store/slugged"
	"github.com/dalemusser/cleansite/internal/app/system/auth"
	"github.com/dalemusser/cleansite/internal/app/system/cms"
	"github.com/dalemusser/cleansite/internal/app/system/seo"
	"github.com/dalemusser/cleansite/internal/app/system/timeouts"
	"github.com/dalemusser/cleansite/internal/domain/models"
	"go.uber.org/zap"
)

// Page is implemented by pointers to slug-keyed page types.
type Page[T any] interface {
	sluggedstore.Sluggable[T]
	SEOData() *models.SEO
	DisplayName() string
}

// SlugFallback is the local, pre-seeded copy of a page collection.
// *sluggedstore.Store satisfies it.
type SlugFallback[T any] interface {
	GetBySlug(ctx context.Context, slug string) (T, error)
	List(ctx context.Context) ([]T, error)
}

// PageResult is a resolved page with its metadata.
type PageResult[T any] struct {
	Data     T
	Source   string
	Metadata seo.Metadata
}

// SlugResolver serves one CMS-owned page collection.
//
// The local collection is consulted only when no CMS is configured. With a
// CMS, a slug it does not have is a 404: pages never get local defaults.
type SlugResolver[T any, PT Page[T]] struct {
	desc   Descriptor[T]
	cms    cms.Source
	local  SlugFallback[T]
	site   seo.Site
	logger *zap.Logger
}

// NewSlugResolver creates a resolver for the collection named by desc.Key,
// which is both the CMS collection and the URL prefix of its pages.
func NewSlugResolver[T any, PT Page[T]](desc Descriptor[T], src cms.Source, local SlugFallback[T], site seo.Site, logger *zap.Logger) *SlugResolver[T, PT] {
	if src == nil {
		src = cms.Disabled{}
	}
	return &SlugResolver[T, PT]{desc: desc, cms: src, local: local, site: site, logger: logger}
}

// Key returns the collection's type key.
func (r *SlugResolver[T, PT]) Key() string { return r.desc.Key }

// Read returns the page whose slug matches exactly.
func (r *SlugResolver[T, PT]) Read(ctx context.Context, slug string) (PageResult[T], error) {
	rec, source, err := r.lookup(ctx, slug)
	if err != nil {
		return PageResult[T]{}, err
	}
	r.decorate(&rec)

	p := PT(&rec)
	return PageResult[T]{
		Data:     rec,
		Source:   source,
		Metadata: seo.Build(r.site, p.SEOData(), p.DisplayName(), "/"+r.desc.Key+"/"+p.SlugValue()),
	}, nil
}

func (r *SlugResolver[T, PT]) lookup(ctx context.Context, slug string) (T, string, error) {
	var rec T
	if slug == "" {
		return rec, "", ErrNotFound
	}

	if r.cms.Enabled() {
		err := r.cms.BySlug(ctx, r.desc.Key, slug, &rec)
		switch {
		case err == nil:
			return rec, SourceCMS, nil
		case errors.Is(err, cms.ErrNotFound):
			return rec, "", ErrNotFound
		default:
			return rec, "", fmt.Errorf("%s/%s: cms read: %w", r.desc.Key, slug, err)
		}
	}

	sctx, cancel := timeouts.Detached(ctx, timeouts.Read(), r.logger, r.desc.Key+" read")
	defer cancel()

	rec, err := r.local.GetBySlug(sctx, slug)
	switch {
	case err == nil:
		return rec, SourceStore, nil
	case errors.Is(err, sluggedstore.ErrNotFound):
		return rec, "", ErrNotFound
	default:
		return rec, "", fmt.Errorf("%s/%s: store read: %w", r.desc.Key, slug, err)
	}
}

// List returns every page of the collection from whichever source is active.
// An empty CMS collection yields an empty list, not an error.
func (r *SlugResolver[T, PT]) List(ctx context.Context) (Result[[]T], error) {
	if r.cms.Enabled() {
		var recs []T
		err := r.cms.List(ctx, r.desc.Key, &recs)
		switch {
		case err == nil:
		case errors.Is(err, cms.ErrNotFound):
			recs = []T{}
		default:
			return Result[[]T]{}, fmt.Errorf("%s: cms list: %w", r.desc.Key, err)
		}
		r.decorateAll(recs)
		return Result[[]T]{Data: recs, Source: SourceCMS}, nil
	}

	sctx, cancel := timeouts.Detached(ctx, timeouts.Read(), r.logger, r.desc.Key+" list")
	defer cancel()

	recs, err := r.local.List(sctx)
	if err != nil {
		return Result[[]T]{}, fmt.Errorf("%s: store list: %w", r.desc.Key, err)
	}
	if recs == nil {
		recs = []T{}
	}
	r.decorateAll(recs)
	return Result[[]T]{Data: recs, Source: SourceStore}, nil
}

// Write always fails: these pages are edited in the CMS.
func (r *SlugResolver[T, PT]) Write(context.Context, *auth.SessionUser, map[string]json.RawMessage) (T, error) {
	var zero T
	return zero, ErrCMSManaged
}

func (r *SlugResolver[T, PT]) decorate(rec *T) {
	if r.desc.Decorate != nil {
		r.desc.Decorate(rec)
	}
}

func (r *SlugResolver[T, PT]) decorateAll(recs []T) {
	for i := range recs {
		r.decorate(&recs[i])
	}
}
