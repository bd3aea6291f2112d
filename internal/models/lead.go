package models

// Lead statuses
const (
	LeadNew       = "new"
	LeadContacted = "contacted"
	LeadAdmitted  = "admitted"
	LeadClosed    = "closed"
)

type Lead struct {
	Base    `bson:",inline"`
	Name    string `json:"name" bson:"name"`
	Email   string `json:"email" bson:"email"`
	Phone   string `json:"phone" bson:"phone"`
	Course  string `json:"course" bson:"course"`
	Source  string `json:"source" bson:"source"`
	Message string `json:"message" bson:"message"`
	Status  string `json:"status" bson:"status"`
	Notes   string `json:"notes" bson:"notes"`
}

type Center struct {
	Base    `bson:",inline"`
	Name    string `json:"name" bson:"name"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	Address string `json:"address" bson:"address"`
	Pincode string `json:"pincode" bson:"pincode"`
	Phone   string `json:"phone" bson:"phone"`
	Email   string `json:"email" bson:"email"`
	MapURL  string `json:"mapUrl" bson:"mapUrl"`
	Active  bool   `json:"active" bson:"active"`
}
