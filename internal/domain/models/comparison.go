// internal/domain/models/comparison.go
package models

// ComparisonRow is one feature line in the comparison table.
type ComparisonRow struct {
	Feature string `bson:"feature" json:"feature"`
	Ours    bool   `bson:"ours" json:"ours"`
	Theirs  bool   `bson:"theirs" json:"theirs"`
	Note    string `bson:"note,omitempty" json:"note,omitempty"`
}

// Comparison is the "us vs. typical cleaners" table.
type Comparison struct {
	Base `bson:",inline"`

	Heading     string          `bson:"heading" json:"heading"`
	Subheading  string          `bson:"subheading,omitempty" json:"subheading,omitempty"`
	OursLabel   string          `bson:"ours_label" json:"oursLabel"`
	TheirsLabel string          `bson:"theirs_label" json:"theirsLabel"`
	Rows        []ComparisonRow `bson:"rows" json:"rows"`
}

// DefaultComparison returns the default comparison table.
func DefaultComparison() Comparison {
	return Comparison{
		Heading:     "Why Homeowners Choose Us",
		OursLabel:   "Us",
		TheirsLabel: "Typical Cleaners",
		Rows: []ComparisonRow{
			{Feature: "Background-checked staff", Ours: true, Theirs: false},
			{Feature: "Same cleaner every visit", Ours: true, Theirs: false},
			{Feature: "Supplies included", Ours: true, Theirs: true},
			{Feature: "24-hour re-clean guarantee", Ours: true, Theirs: false},
			{Feature: "Online booking", Ours: true, Theirs: true},
		},
	}
}
