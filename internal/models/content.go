package models

import "time"

type NewsletterSection struct {
	Base     `bson:",inline"`
	Title    string `json:"title" bson:"title"`
	Subtitle string `json:"subtitle" bson:"subtitle"`
	Body     string `json:"body" bson:"body"`
	Order    int    `json:"order" bson:"order"`
	Active   bool   `json:"active" bson:"active"`
}

type Contact struct {
	Base     `bson:",inline"`
	Name     string `json:"name" bson:"name"`
	Email    string `json:"email" bson:"email"`
	Phone    string `json:"phone" bson:"phone"`
	Subject  string `json:"subject" bson:"subject"`
	Message  string `json:"message" bson:"message"`
	Resolved bool   `json:"resolved" bson:"resolved"`
}

// PrivacyPolicy is stored as a single document.
type PrivacyPolicy struct {
	Base          `bson:",inline"`
	Content       string    `json:"content" bson:"content"`
	Version       int       `json:"version" bson:"version"`
	EffectiveDate time.Time `json:"effectiveDate" bson:"effectiveDate"`
}
