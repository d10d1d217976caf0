// internal/domain/models/cta.go
package models

// CTA is the closing call-to-action banner.
type CTA struct {
	Base `bson:",inline"`

	Heading string `bson:"heading" json:"heading"`
	Body    string `bson:"body" json:"body"`
	Button  Link   `bson:"button" json:"button"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// DefaultCTA returns the default call-to-action banner.
func DefaultCTA() CTA {
	return CTA{
		Heading: "Ready for a Cleaner Home?",
		Body:    "Get a free, no-obligation quote in under a minute.",
		Button:  Link{Label: "Get My Free Quote", Href: "/quote"},
		Phone:   "(555) 555-0123",
	}
}
