// internal/domain/models/reviews.go
package models

// Review is a single customer testimonial.
type Review struct {
	Author   string `bson:"author" json:"author"`
	Location string `bson:"location,omitempty" json:"location,omitempty"`
	Rating   int    `bson:"rating" json:"rating"`
	Text     string `bson:"text" json:"text"`
	Date     string `bson:"date,omitempty" json:"date,omitempty"`
}

// Reviews is the testimonials section.
type Reviews struct {
	Base `bson:",inline"`

	Heading       string   `bson:"heading" json:"heading"`
	AverageRating float64  `bson:"average_rating" json:"averageRating"`
	ReviewCount   int      `bson:"review_count" json:"reviewCount"`
	Items         []Review `bson:"items" json:"items"`
}

// DefaultReviews returns the default testimonials section.
func DefaultReviews() Reviews {
	return Reviews{
		Heading:       "What Our Customers Say",
		AverageRating: 4.9,
		ReviewCount:   3,
		Items: []Review{
			{Author: "Maria G.", Rating: 5, Text: "Spotless every single time. I don't know how I managed without them."},
			{Author: "James T.", Rating: 5, Text: "Booked on Monday, cleaned on Tuesday. Friendly and thorough."},
			{Author: "Priya K.", Rating: 5, Text: "They remembered every detail from our first visit. Highly recommend."},
		},
	}
}
