package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Course is the root of the content tree. Children are stored by reference,
// in submission order.
type Course struct {
	Base         `bson:",inline"`
	Title        string               `json:"title" bson:"title"`
	Description  string               `json:"description" bson:"description"`
	Price        float64              `json:"price" bson:"price"`
	PreviewImage string               `json:"previewImage" bson:"previewImage"`
	Subjects     []primitive.ObjectID `json:"subjects" bson:"subjects"`
}

type Subject struct {
	Base     `bson:",inline"`
	Title    string               `json:"title" bson:"title"`
	Chapters []primitive.ObjectID `json:"chapters" bson:"chapters"`
}

// Chapter holds subchapters created through the course tree and topics
// attached directly through the chapter scoped topic endpoints.
type Chapter struct {
	Base        `bson:",inline"`
	Title       string               `json:"title" bson:"title"`
	Subchapters []primitive.ObjectID `json:"subchapters" bson:"subchapters"`
	Topics      []primitive.ObjectID `json:"topics" bson:"topics"`
}

type Subchapter struct {
	Base   `bson:",inline"`
	Title  string               `json:"title" bson:"title"`
	Topics []primitive.ObjectID `json:"topics" bson:"topics"`
}

type Topic struct {
	Base      `bson:",inline"`
	Title     string              `json:"title" bson:"title"`
	Content   string              `json:"content" bson:"content"`
	VideoURL  string              `json:"videoUrl" bson:"videoUrl"`
	ChapterID *primitive.ObjectID `json:"chapterId,omitempty" bson:"chapterId,omitempty"`
	Quiz      *primitive.ObjectID `json:"quiz,omitempty" bson:"quiz,omitempty"`
}
