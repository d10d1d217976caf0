// internal/domain/models/hero.go
package models

// Hero is the landing page hero section.
// Title may contain <blue>...</blue> markup for the accent color.
type Hero struct {
	Base `bson:",inline"`

	Title           string   `bson:"title" json:"title"`
	TitleHTML       string   `bson:"-" json:"titleHtml,omitempty"` // rendered from Title on read
	Subtitle        string   `bson:"subtitle" json:"subtitle"`
	PrimaryCTA      Link     `bson:"primary_cta" json:"primaryCta"`
	SecondaryCTA    Link     `bson:"secondary_cta" json:"secondaryCta"`
	BackgroundImage string   `bson:"background_image,omitempty" json:"backgroundImage,omitempty"`
	Badges          []string `bson:"badges" json:"badges"`
}

// DefaultHero returns the hero content used before an admin edits it.
func DefaultHero() Hero {
	return Hero{
		Title:    "Professional Home Cleaning <blue>You Can Trust</blue>",
		Subtitle: "Insured, background-checked cleaners serving your neighborhood. Book in 60 seconds.",
		PrimaryCTA: Link{
			Label: "Get a Free Quote",
			Href:  "/quote",
		},
		SecondaryCTA: Link{
			Label: "Call Us",
			Href:  "tel:+15555550123",
		},
		Badges: []string{
			"Licensed & Insured",
			"100% Satisfaction Guarantee",
			"Eco-Friendly Products",
		},
	}
}
