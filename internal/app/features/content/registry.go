package content

import (
	"context"
	"encoding/json"
	"sort"

	contentstore "github.com/dalemusser/cleansite/internal/app/store/content"
	sluggedstore "github.com/dalemusser/cleansite/internal/app/store/slugged"
	"github.com/dalemusser/cleansite/internal/app/system/auth"
	"github.com/dalemusser/cleansite/internal/app/system/cms"
	"github.com/dalemusser/cleansite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/cleansite/internal/app/system/mongoconn"
	"github.com/dalemusser/cleansite/internal/app/system/seo"
	"github.com/dalemusser/cleansite/internal/domain/models"
	"go.uber.org/zap"
)

// Section is the type-erased view of a singleton resolver the handler uses.
type Section interface {
	Key() string
	ReadAny(ctx context.Context) (data any, source string, err error)
	WriteAny(ctx context.Context, user *auth.SessionUser, body map[string]json.RawMessage) (any, error)
}

// Pages is the type-erased view of a slug resolver.
type Pages interface {
	Key() string
	ListAny(ctx context.Context) (data any, source string, err error)
	ReadAny(ctx context.Context, slug string) (data any, source string, md seo.Metadata, err error)
	WriteAny(ctx context.Context, user *auth.SessionUser, body map[string]json.RawMessage) (any, error)
}

// ReadAny implements Section.
func (r *Resolver[T, PT]) ReadAny(ctx context.Context) (any, string, error) {
	res, err := r.Read(ctx)
	return res.Data, res.Source, err
}

// WriteAny implements Section.
func (r *Resolver[T, PT]) WriteAny(ctx context.Context, user *auth.SessionUser, body map[string]json.RawMessage) (any, error) {
	return r.Write(ctx, user, body)
}

// ListAny implements Pages.
func (r *SlugResolver[T, PT]) ListAny(ctx context.Context) (any, string, error) {
	res, err := r.List(ctx)
	return res.Data, res.Source, err
}

// ReadAny implements Pages.
func (r *SlugResolver[T, PT]) ReadAny(ctx context.Context, slug string) (any, string, seo.Metadata, error) {
	res, err := r.Read(ctx, slug)
	return res.Data, res.Source, res.Metadata, err
}

// WriteAny implements Pages.
func (r *SlugResolver[T, PT]) WriteAny(ctx context.Context, user *auth.SessionUser, body map[string]json.RawMessage) (any, error) {
	return r.Write(ctx, user, body)
}

// Registry maps type keys to their resolvers.
type Registry struct {
	sections map[string]Section
	pages    map[string]Pages
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sections: map[string]Section{}, pages: map[string]Pages{}}
}

// AddSection registers a singleton section under its key.
func (g *Registry) AddSection(s Section) { g.sections[s.Key()] = s }

// AddPages registers a slug-keyed collection under its key.
func (g *Registry) AddPages(p Pages) { g.pages[p.Key()] = p }

// Section returns the singleton resolver for key.
func (g *Registry) Section(key string) (Section, bool) {
	s, ok := g.sections[key]
	return s, ok
}

// Pages returns the slug resolver for key.
func (g *Registry) Pages(key string) (Pages, bool) {
	p, ok := g.pages[key]
	return p, ok
}

// Keys lists every registered type key in order.
func (g *Registry) Keys() []string {
	keys := make([]string, 0, len(g.sections)+len(g.pages))
	for k := range g.sections {
		keys = append(keys, k)
	}
	for k := range g.pages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Deps are what the site's standard sections need.
type Deps struct {
	CMS    cms.Source
	DB     mongoconn.Provider
	Site   seo.Site
	Logger *zap.Logger
}

// DefaultRegistry registers every section and page collection of the site.
func DefaultRegistry(d Deps) *Registry {
	src := d.CMS
	if src == nil {
		src = cms.Disabled{}
	}
	g := NewRegistry()

	g.AddSection(section(src, d, models.TypeHero, models.CollHero, models.DefaultHero, decorateHero))
	g.AddSection(section(src, d, models.TypeComparison, models.CollComparison, models.DefaultComparison, nil))
	g.AddSection(section(src, d, models.TypeReviews, models.CollReviews, models.DefaultReviews, nil))
	g.AddSection(section(src, d, models.TypeHowItWorks, models.CollHowItWorks, models.DefaultHowItWorks, nil))
	g.AddSection(section(src, d, models.TypeCTA, models.CollCTA, models.DefaultCTA, nil))
	g.AddSection(section(src, d, models.TypePrivacyPolicy, models.CollPrivacyPolicy, models.DefaultPrivacyPolicy, decoratePrivacyPolicy))

	g.AddPages(NewSlugResolver[models.Location](
		Descriptor[models.Location]{Key: models.TypeLocations},
		src, sluggedstore.New[models.Location](d.DB, models.CollLocations), d.Site, d.Logger))
	g.AddPages(NewSlugResolver[models.Service](
		Descriptor[models.Service]{Key: models.TypeServices, Decorate: decorateService},
		src, sluggedstore.New[models.Service](d.DB, models.CollServices), d.Site, d.Logger))

	return g
}

func section[T any, PT models.Record[T]](src cms.Source, d Deps, key, coll string, defaults func() T, decorate func(*T)) *Resolver[T, PT] {
	return NewResolver[T, PT](
		Descriptor[T]{Key: key, Decorate: decorate},
		CMSSingle[T]{Source: src, APIID: key},
		contentstore.New[T, PT](d.DB, coll, defaults),
		d.Logger,
	)
}

func decorateHero(h *models.Hero) {
	h.TitleHTML = htmlsanitize.BlueMarkup(h.Title)
}

func decoratePrivacyPolicy(p *models.PrivacyPolicy) {
	p.Introduction = htmlsanitize.PrepareRichText(p.Introduction)
	for i := range p.Sections {
		p.Sections[i].Body = htmlsanitize.PrepareRichText(p.Sections[i].Body)
	}
}

func decorateService(s *models.Service) {
	s.Body = htmlsanitize.PrepareRichText(s.Body)
}
