// internal/domain/models/contenttypes.go
package models

// Content type keys. They double as the CMS single-type / collection API IDs
// and as the path segment under /api/content.
const (
	TypeHero          = "hero"
	TypeComparison    = "comparison"
	TypeReviews       = "reviews"
	TypeHowItWorks    = "how-it-works"
	TypeCTA           = "cta"
	TypePrivacyPolicy = "privacy-policy"

	TypeLocations = "locations"
	TypeServices  = "services"

	TypeFAQ = "faq"
)

// Collection names for locally stored content.
const (
	CollHero          = "hero_sections"
	CollComparison    = "comparison_tables"
	CollReviews       = "review_sections"
	CollHowItWorks    = "how_it_works"
	CollCTA           = "cta_sections"
	CollPrivacyPolicy = "privacy_policies"
	CollLocations     = "locations"
	CollServices      = "services"
	CollFAQ           = "faq_questions"
)

// SingletonCollections lists every collection that holds at most one live record.
func SingletonCollections() []string {
	return []string{
		CollHero,
		CollComparison,
		CollReviews,
		CollHowItWorks,
		CollCTA,
		CollPrivacyPolicy,
	}
}

// SlugCollections lists the collections keyed by slug.
func SlugCollections() []string {
	return []string{CollLocations, CollServices}
}
