// internal/domain/models/privacypolicy.go
package models

// PolicySection is one headed block of the privacy policy. Body is rich text.
type PolicySection struct {
	Heading string `bson:"heading" json:"heading"`
	Body    string `bson:"body" json:"body"`
}

// PrivacyPolicy is the legal privacy page.
type PrivacyPolicy struct {
	Base `bson:",inline"`

	Title        string          `bson:"title" json:"title"`
	LastUpdated  string          `bson:"last_updated" json:"lastUpdated"`
	Introduction string          `bson:"introduction" json:"introduction"`
	Sections     []PolicySection `bson:"sections" json:"sections"`
}

// DefaultPrivacyPolicy returns a generic policy suitable until legal copy is supplied.
func DefaultPrivacyPolicy() PrivacyPolicy {
	return PrivacyPolicy{
		Title:        "Privacy Policy",
		LastUpdated:  "January 1, 2025",
		Introduction: "<p>We respect your privacy. This policy explains what we collect and why.</p>",
		Sections: []PolicySection{
			{Heading: "Information We Collect", Body: "<p>Your name, address, phone number and email when you request a quote or book a cleaning.</p>"},
			{Heading: "How We Use It", Body: "<p>To schedule and perform services, send reminders, and respond to your questions.</p>"},
			{Heading: "Sharing", Body: "<p>We never sell your information. We share it only with the cleaner assigned to your home.</p>"},
			{Heading: "Contact", Body: "<p>Questions about this policy? Call or email us any time.</p>"},
		},
	}
}
