package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Question is a multiple choice question. Answer is the zero based index of
// the correct entry in Options.
type Question struct {
	Text    string   `json:"text" bson:"text" validate:"notblank"`
	Options []string `json:"options" bson:"options" validate:"min=2,dive,notblank"`
	Answer  int      `json:"answer" bson:"answer"`
}

// Quiz is owned by exactly one Topic.
type Quiz struct {
	Base      `bson:",inline"`
	TopicID   primitive.ObjectID `json:"topicId" bson:"topicId"`
	Title     string             `json:"title" bson:"title"`
	Questions []Question         `json:"questions" bson:"questions"`
}
