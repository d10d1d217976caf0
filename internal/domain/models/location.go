// internal/domain/models/location.go
package models

// Location is a service-area landing page (one per city or region).
// The CMS owns these; the local copies are a closed, pre-seeded fallback set.
type Location struct {
	Base `bson:",inline" yaml:"-"`

	Slug          string   `bson:"slug" json:"slug" yaml:"slug"`
	Name          string   `bson:"name" json:"name" yaml:"name"`
	Region        string   `bson:"region" json:"region" yaml:"region"`
	Headline      string   `bson:"headline" json:"headline" yaml:"headline"`
	Intro         string   `bson:"intro" json:"intro" yaml:"intro"`
	Neighborhoods []string `bson:"neighborhoods" json:"neighborhoods" yaml:"neighborhoods"`
	Services      []string `bson:"services" json:"services" yaml:"services"`
	SEO           *SEO     `bson:"seo,omitempty" json:"seo,omitempty" yaml:"seo,omitempty"`
}

// SlugValue returns the page slug.
func (l *Location) SlugValue() string { return l.Slug }

// SEOData returns the attached SEO metadata, or nil.
func (l *Location) SEOData() *SEO { return l.SEO }

// DisplayName is used as the page title when no SEO title is set.
func (l *Location) DisplayName() string {
	if l.Headline != "" {
		return l.Headline
	}
	return "House Cleaning in " + l.Name
}
