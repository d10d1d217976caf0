// internal/domain/models/howitworks.go
package models

// Step is one numbered step in the "how it works" section.
type Step struct {
	Number      int    `bson:"number" json:"number"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Icon        string `bson:"icon,omitempty" json:"icon,omitempty"`
}

// HowItWorks describes the booking process.
type HowItWorks struct {
	Base `bson:",inline"`

	Heading string `bson:"heading" json:"heading"`
	Steps   []Step `bson:"steps" json:"steps"`
}

// DefaultHowItWorks returns the default three-step process.
func DefaultHowItWorks() HowItWorks {
	return HowItWorks{
		Heading: "How It Works",
		Steps: []Step{
			{Number: 1, Title: "Book Online", Description: "Pick a date and time that works for you.", Icon: "calendar"},
			{Number: 2, Title: "We Clean", Description: "A vetted professional arrives with everything needed.", Icon: "sparkles"},
			{Number: 3, Title: "Relax", Description: "Enjoy a clean home. Not happy? We come back free.", Icon: "home"},
		},
	}
}
