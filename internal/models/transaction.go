package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction statuses
const (
	TransactionPending  = "pending"
	TransactionApproved = "approved"
	TransactionRejected = "rejected"
)

// Transaction is an offline payment claim, proven by a bank UTR and
// verified manually by an admin.
type Transaction struct {
	Base       `bson:",inline"`
	UserID     *primitive.ObjectID `json:"userId,omitempty" bson:"userId,omitempty"`
	Name       string              `json:"name" bson:"name"`
	Email      string              `json:"email" bson:"email"`
	Phone      string              `json:"phone" bson:"phone"`
	CourseID   primitive.ObjectID  `json:"courseId" bson:"courseId"`
	Amount     float64             `json:"amount" bson:"amount"`
	UTR        string              `json:"utr" bson:"utr"`
	Screenshot string              `json:"screenshot" bson:"screenshot"`
	Status     string              `json:"status" bson:"status"`
	Remarks    string              `json:"remarks" bson:"remarks"`
	VerifiedBy string              `json:"verifiedBy,omitempty" bson:"verifiedBy,omitempty"`
	VerifiedAt *time.Time          `json:"verifiedAt,omitempty" bson:"verifiedAt,omitempty"`
}
