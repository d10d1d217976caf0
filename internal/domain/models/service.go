// internal/domain/models/service.go
package models

// Service is a cleaning service offering page (standard, deep, move-out, ...).
type Service struct {
	Base `bson:",inline" yaml:"-"`

	Slug      string   `bson:"slug" json:"slug" yaml:"slug"`
	Name      string   `bson:"name" json:"name" yaml:"name"`
	Summary   string   `bson:"summary" json:"summary" yaml:"summary"`
	Body      string   `bson:"body" json:"body" yaml:"body"` // rich text
	PriceFrom int      `bson:"price_from,omitempty" json:"priceFrom,omitempty" yaml:"price_from,omitempty"`
	Features  []string `bson:"features" json:"features" yaml:"features"`
	SEO       *SEO     `bson:"seo,omitempty" json:"seo,omitempty" yaml:"seo,omitempty"`
}

// SlugValue returns the page slug.
func (s *Service) SlugValue() string { return s.Slug }

// SEOData returns the attached SEO metadata, or nil.
func (s *Service) SEOData() *SEO { return s.SEO }

// DisplayName is used as the page title when no SEO title is set.
func (s *Service) DisplayName() string { return s.Name }
