package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Return statuses
const (
	ReturnDraft     = "draft"
	ReturnFiled     = "filed"
	ReturnProcessed = "processed"
	ReturnRejected  = "rejected"
)

// Generated document statuses
const (
	DocumentPending   = "pending"
	DocumentGenerated = "generated"
	DocumentPaid      = "paid"
)

type Address struct {
	Line1   string `json:"line1" bson:"line1"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	Pincode string `json:"pincode" bson:"pincode" validate:"omitempty,pincode"`
}

type Deductor struct {
	Name              string  `json:"name" bson:"name"`
	TAN               string  `json:"tan" bson:"tan" validate:"omitempty,tan"`
	PAN               string  `json:"pan" bson:"pan" validate:"omitempty,pan"`
	Address           Address `json:"address" bson:"address"`
	Email             string  `json:"email" bson:"email" validate:"omitempty,email"`
	Phone             string  `json:"phone" bson:"phone" validate:"omitempty,phone"`
	ResponsiblePerson string  `json:"responsiblePerson" bson:"responsiblePerson"`
}

// DeducteeStatus tracks the practice steps completed for one line item.
type DeducteeStatus struct {
	DetailsVerified   bool `json:"detailsVerified" bson:"detailsVerified"`
	ChallanPaid       bool `json:"challanPaid" bson:"challanPaid"`
	CertificateIssued bool `json:"certificateIssued" bson:"certificateIssued"`
}

// Deductee is one line item. TDSAmount and NetAmount are derived on save.
type Deductee struct {
	Name        string         `json:"name" bson:"name"`
	PAN         string         `json:"pan" bson:"pan" validate:"omitempty,pan"`
	Section     string         `json:"section" bson:"section" validate:"notblank"`
	Nature      string         `json:"nature" bson:"nature"`
	GrossAmount float64        `json:"grossAmount" bson:"grossAmount" validate:"gte=0"`
	TDSRate     float64        `json:"tdsRate" bson:"tdsRate" validate:"gte=0,lte=100"`
	TDSAmount   float64        `json:"tdsAmount" bson:"tdsAmount"`
	NetAmount   float64        `json:"netAmount" bson:"netAmount"`
	PaymentDate *time.Time     `json:"paymentDate,omitempty" bson:"paymentDate,omitempty"`
	Status      DeducteeStatus `json:"status" bson:"status"`
}

type SectionSummary struct {
	Section     string  `json:"section" bson:"section"`
	Count       int     `json:"count" bson:"count"`
	GrossAmount float64 `json:"grossAmount" bson:"grossAmount"`
	TDSAmount   float64 `json:"tdsAmount" bson:"tdsAmount"`
}

// TDSSummary is a view over Deductees. It is rebuilt wholesale on every save.
type TDSSummary struct {
	TotalGrossAmount   float64          `json:"totalGrossAmount" bson:"totalGrossAmount"`
	TotalTDSAmount     float64          `json:"totalTdsAmount" bson:"totalTdsAmount"`
	TotalNetAmount     float64          `json:"totalNetAmount" bson:"totalNetAmount"`
	TotalChallanAmount float64          `json:"totalChallanAmount" bson:"totalChallanAmount"`
	TotalDeductees     int              `json:"totalDeductees" bson:"totalDeductees"`
	Sections           []SectionSummary `json:"sections" bson:"sections"`
}

type TDSReturn struct {
	FormType              string     `json:"formType" bson:"formType" validate:"oneof=24Q 26Q 27Q 27EQ"`
	AcknowledgementNumber string     `json:"acknowledgementNumber" bson:"acknowledgementNumber"`
	FiledAt               *time.Time `json:"filedAt,omitempty" bson:"filedAt,omitempty"`
	Status                string     `json:"status" bson:"status" validate:"omitempty,oneof=draft filed processed rejected"`
}

type Certificate struct {
	Number      string     `json:"number" bson:"number"`
	GeneratedAt *time.Time `json:"generatedAt,omitempty" bson:"generatedAt,omitempty"`
	Status      string     `json:"status" bson:"status"`
}

type Challan struct {
	Number      string     `json:"number" bson:"number"`
	BSRCode     string     `json:"bsrCode" bson:"bsrCode"`
	Amount      float64    `json:"amount" bson:"amount"`
	GeneratedAt *time.Time `json:"generatedAt,omitempty" bson:"generatedAt,omitempty"`
	PaidAt      *time.Time `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	Status      string     `json:"status" bson:"status"`
}

type LearningProgress struct {
	CurrentStep    int        `json:"currentStep" bson:"currentStep"`
	CompletedSteps []int      `json:"completedSteps" bson:"completedSteps"`
	Score          float64    `json:"score" bson:"score"`
	TimeSpent      int64      `json:"timeSpent" bson:"timeSpent"` // seconds
	LastAccessedAt *time.Time `json:"lastAccessedAt,omitempty" bson:"lastAccessedAt,omitempty"`
	Completed      bool       `json:"completed" bson:"completed"`
}

// TDSSimulation is one practice exercise owned by a user.
type TDSSimulation struct {
	Base             `bson:",inline"`
	UserID           primitive.ObjectID `json:"userId" bson:"userId"`
	Title            string             `json:"title" bson:"title"`
	AssessmentYear   string             `json:"assessmentYear" bson:"assessmentYear"`
	FinancialYear    string             `json:"financialYear" bson:"financialYear"`
	Quarter          string             `json:"quarter" bson:"quarter"`
	Deductor         Deductor           `json:"deductor" bson:"deductor"`
	Deductees        []Deductee         `json:"deductees" bson:"deductees"`
	TDSSummary       TDSSummary         `json:"tdsSummary" bson:"tdsSummary"`
	Returns          []TDSReturn        `json:"returns" bson:"returns"`
	Certificate      Certificate        `json:"certificate" bson:"certificate"`
	Challan          Challan            `json:"challan" bson:"challan"`
	LearningProgress LearningProgress   `json:"learningProgress" bson:"learningProgress"`
}
