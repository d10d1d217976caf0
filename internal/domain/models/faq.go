// internal/domain/models/faq.go
package models

// FAQQuestion is one question/answer pair in the FAQ collection.
// Unlike the singleton sections there are many of these; Order controls display.
type FAQQuestion struct {
	Base `bson:",inline"`

	Question string `bson:"question" json:"question"`
	Answer   string `bson:"answer" json:"answer"`
	Order    int    `bson:"order" json:"order"`
}
