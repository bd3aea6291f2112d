package tds

import (
	"context"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"learnhub/internal/models"
	"learnhub/internal/store"
	"learnhub/internal/utility"
)

// SimulationInput is the writable part of a simulation.
type SimulationInput struct {
	Title            string                   `json:"title"`
	AssessmentYear   string                   `json:"assessmentYear"`
	FinancialYear    string                   `json:"financialYear"`
	Quarter          string                   `json:"quarter" validate:"omitempty,oneof=Q1 Q2 Q3 Q4"`
	Deductor         models.Deductor          `json:"deductor"`
	Deductees        []models.Deductee        `json:"deductees" validate:"dive"`
	Returns          []models.TDSReturn       `json:"returns" validate:"dive"`
	LearningProgress *models.LearningProgress `json:"learningProgress"`
}

// ProgressPatch lists the learningProgress fields a client may update.
// Absent fields are left unchanged.
type ProgressPatch struct {
	CurrentStep    *int     `json:"currentStep" validate:"omitempty,gte=0"`
	CompletedSteps *[]int   `json:"completedSteps"`
	Score          *float64 `json:"score" validate:"omitempty,gte=0"`
	TimeSpent      *int64   `json:"timeSpent" validate:"omitempty,gte=0"`
	Completed      *bool    `json:"completed"`
}

type Service struct {
	sims store.Repository[models.TDSSimulation]
	now  func() time.Time
}

func NewService(sims store.Repository[models.TDSSimulation]) *Service {
	return &Service{sims: sims, now: time.Now}
}

func (in *SimulationInput) apply(sim *models.TDSSimulation) {
	sim.Title = in.Title
	sim.AssessmentYear = in.AssessmentYear
	sim.FinancialYear = in.FinancialYear
	sim.Quarter = in.Quarter
	sim.Deductor = in.Deductor
	sim.Deductees = in.Deductees
	sim.Returns = in.Returns
	if sim.Deductees == nil {
		sim.Deductees = []models.Deductee{}
	}
	if sim.Returns == nil {
		sim.Returns = []models.TDSReturn{}
	}
	for i := range sim.Returns {
		if sim.Returns[i].Status == "" {
			sim.Returns[i].Status = models.ReturnDraft
		}
	}
	if in.LearningProgress != nil {
		sim.LearningProgress = *in.LearningProgress
	}
}

func (s *Service) Create(ctx context.Context, owner primitive.ObjectID, in SimulationInput) (*models.TDSSimulation, error) {
	if err := utility.Validate(&in); err != nil {
		return nil, err
	}
	sim := &models.TDSSimulation{UserID: owner}
	sim.Init(s.now())
	in.apply(sim)
	sim.Certificate.Status = models.DocumentPending
	sim.Challan.Status = models.DocumentPending

	Recalculate(sim)
	if err := s.sims.Insert(ctx, sim); err != nil {
		return nil, errors.Wrap(err, "create simulation")
	}
	return sim, nil
}

func (s *Service) List(ctx context.Context, owner primitive.ObjectID) ([]models.TDSSimulation, error) {
	return s.sims.Find(ctx, bson.M{"userId": owner}, store.FindOptions{Newest: true})
}

// Get returns the simulation only when it belongs to owner.
func (s *Service) Get(ctx context.Context, owner, id primitive.ObjectID) (*models.TDSSimulation, error) {
	return s.sims.FindOne(ctx, bson.M{"_id": id, "userId": owner})
}

func (s *Service) save(ctx context.Context, sim *models.TDSSimulation) error {
	sim.Touch(s.now())
	Recalculate(sim)
	return errors.Wrap(s.sims.Replace(ctx, sim.ID, sim), "save simulation")
}

func (s *Service) Update(ctx context.Context, owner, id primitive.ObjectID, in SimulationInput) (*models.TDSSimulation, error) {
	if err := utility.Validate(&in); err != nil {
		return nil, err
	}
	sim, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	in.apply(sim)
	if err = s.save(ctx, sim); err != nil {
		return nil, err
	}
	return sim, nil
}

func (s *Service) Delete(ctx context.Context, owner, id primitive.ObjectID) error {
	if _, err := s.Get(ctx, owner, id); err != nil {
		return err
	}
	return s.sims.Delete(ctx, id)
}

// DecodeProgress turns a raw JSON object into a ProgressPatch, rejecting
// unknown keys.
func DecodeProgress(raw map[string]interface{}) (*ProgressPatch, error) {
	var patch ProgressPatch
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		ErrorUnused: true,
		Result:      &patch,
	})
	if err != nil {
		return nil, errors.Wrap(err, "progress decoder")
	}
	if err = dec.Decode(raw); err != nil {
		return nil, utility.BadRequest("invalid progress: %v", err)
	}
	if err = utility.Validate(&patch); err != nil {
		return nil, err
	}
	return &patch, nil
}

func (s *Service) UpdateProgress(ctx context.Context, owner, id primitive.ObjectID, patch *ProgressPatch) (*models.TDSSimulation, error) {
	sim, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	p := &sim.LearningProgress
	if patch.CurrentStep != nil {
		p.CurrentStep = *patch.CurrentStep
	}
	if patch.CompletedSteps != nil {
		p.CompletedSteps = *patch.CompletedSteps
	}
	if patch.Score != nil {
		p.Score = *patch.Score
	}
	if patch.TimeSpent != nil {
		p.TimeSpent = *patch.TimeSpent
	}
	if patch.Completed != nil {
		p.Completed = *patch.Completed
	}
	now := s.now().UTC()
	p.LastAccessedAt = &now

	if err = s.save(ctx, sim); err != nil {
		return nil, err
	}
	return sim, nil
}

func (s *Service) GenerateCertificate(ctx context.Context, owner, id primitive.ObjectID) (*models.TDSSimulation, error) {
	sim, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	sim.Certificate = models.Certificate{
		Number:      DocumentNumber("CERT"),
		GeneratedAt: &now,
		Status:      models.DocumentGenerated,
	}
	for i := range sim.Deductees {
		sim.Deductees[i].Status.CertificateIssued = true
	}
	if err = s.save(ctx, sim); err != nil {
		return nil, err
	}
	return sim, nil
}

func (s *Service) GenerateChallan(ctx context.Context, owner, id primitive.ObjectID) (*models.TDSSimulation, error) {
	sim, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	Recalculate(sim)
	now := s.now().UTC()
	sim.Challan = models.Challan{
		Number:      DocumentNumber("CHLN"),
		BSRCode:     utility.GenerateRandomDigits(7),
		Amount:      sim.TDSSummary.TotalTDSAmount,
		GeneratedAt: &now,
		Status:      models.DocumentGenerated,
	}
	if err = s.save(ctx, sim); err != nil {
		return nil, err
	}
	return sim, nil
}

// PayChallan settles a generated challan: every deductee is marked
// challanPaid, so the challan total covers the whole return.
func (s *Service) PayChallan(ctx context.Context, owner, id primitive.ObjectID) (*models.TDSSimulation, error) {
	sim, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	switch sim.Challan.Status {
	case models.DocumentGenerated:
	case models.DocumentPaid:
		return nil, utility.BadRequest("challan %s is already paid", sim.Challan.Number)
	default:
		return nil, utility.BadRequest("challan has not been generated")
	}
	for i := range sim.Deductees {
		sim.Deductees[i].Status.ChallanPaid = true
	}
	now := s.now().UTC()
	sim.Challan.PaidAt = &now
	sim.Challan.Status = models.DocumentPaid
	if err = s.save(ctx, sim); err != nil {
		return nil, err
	}
	return sim, nil
}
