package models

type SEO struct {
	MetaTitle       string   `json:"metaTitle" bson:"metaTitle"`
	MetaDescription string   `json:"metaDescription" bson:"metaDescription"`
	Keywords        []string `json:"keywords" bson:"keywords"`
}

type ContactInfo struct {
	Email   string `json:"email" bson:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" bson:"phone" validate:"omitempty,phone"`
	Website string `json:"website" bson:"website" validate:"omitempty,url"`
}

// UniversityCourse is a marketing record looked up by its unique slug.
type UniversityCourse struct {
	Base            `bson:",inline"`
	Slug            string      `json:"slug" bson:"slug"`
	Title           string      `json:"title" bson:"title"`
	University      string      `json:"university" bson:"university"`
	Level           string      `json:"level" bson:"level"`
	Mode            string      `json:"mode" bson:"mode"`
	Duration        string      `json:"duration" bson:"duration"`
	Fees            float64     `json:"fees" bson:"fees"`
	Description     string      `json:"description" bson:"description"`
	Eligibility     []string    `json:"eligibility" bson:"eligibility"`
	Highlights      []string    `json:"highlights" bson:"highlights"`
	CareerProspects []string    `json:"careerProspects" bson:"careerProspects"`
	SEO             SEO         `json:"seo" bson:"seo"`
	Contact         ContactInfo `json:"contact" bson:"contact"`
	Published       bool        `json:"published" bson:"published"`
}
