package tds

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"learnhub/internal/models"
	"learnhub/internal/store"
	"learnhub/internal/utility"
)

func newService(t *testing.T) (*Service, *store.Memory[models.TDSSimulation]) {
	t.Helper()
	repo := store.NewMemory[models.TDSSimulation](store.TDSSimulationsCollection)
	svc := NewService(repo)
	fixed := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	return svc, repo
}

func validInput() SimulationInput {
	return SimulationInput{
		Title:         "Q1 practice",
		FinancialYear: "2024-25",
		Quarter:       "Q1",
		Deductor: models.Deductor{
			Name: "Acme Pvt Ltd",
			TAN:  "ABCD12345E",
			PAN:  "ABCDE1234F",
		},
		Deductees: []models.Deductee{
			{Name: "Ravi", PAN: "ABCDE1234F", Section: "194J", GrossAmount: 10000, TDSRate: 10},
		},
	}
}

func TestCreateComputesSummary(t *testing.T) {
	svc, repo := newService(t)
	owner := primitive.NewObjectID()

	sim, err := svc.Create(context.Background(), owner, validInput())
	require.NoError(t, err)
	assert.Equal(t, owner, sim.UserID)
	assert.Equal(t, models.DocumentPending, sim.Certificate.Status)

	stored, err := repo.Get(context.Background(), sim.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, stored.TDSSummary.TotalTDSAmount)
	assert.Equal(t, 9000.0, stored.TDSSummary.TotalNetAmount)
	assert.Equal(t, 1, stored.TDSSummary.TotalDeductees)
}

func TestCreateValidates(t *testing.T) {
	svc, _ := newService(t)
	in := validInput()
	in.Deductor.TAN = "bad"
	in.Deductees[0].TDSRate = 140

	_, err := svc.Create(context.Background(), primitive.NewObjectID(), in)
	var verr *utility.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "deductor.tan")
	assert.Contains(t, verr.Fields, "deductees[0].tdsRate")
}

func TestOwnerScoping(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	owner, other := primitive.NewObjectID(), primitive.NewObjectID()

	sim, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	_, err = svc.Get(ctx, other, sim.ID)
	assert.Equal(t, store.ErrNotFound, errors.Cause(err))
	assert.Equal(t, store.ErrNotFound, errors.Cause(svc.Delete(ctx, other, sim.ID)))

	list, err := svc.List(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = svc.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, owner, sim.ID))
	_, err = svc.Get(ctx, owner, sim.ID)
	assert.Equal(t, store.ErrNotFound, errors.Cause(err))
}

func TestProgressPatchKeepsSummaryConsistent(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	owner := primitive.NewObjectID()

	sim, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	// corrupt the stored summary behind the service's back
	sim.TDSSummary.TotalTDSAmount = 42
	require.NoError(t, repo.Replace(ctx, sim.ID, sim))

	patch, err := DecodeProgress(map[string]interface{}{
		"currentStep":    float64(2),
		"completedSteps": []interface{}{float64(0), float64(1)},
		"timeSpent":      float64(120),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProgress(ctx, owner, sim.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.LearningProgress.CurrentStep)
	assert.Equal(t, []int{0, 1}, updated.LearningProgress.CompletedSteps)
	assert.Equal(t, int64(120), updated.LearningProgress.TimeSpent)
	assert.False(t, updated.LearningProgress.Completed)
	require.NotNil(t, updated.LearningProgress.LastAccessedAt)

	stored, err := repo.Get(ctx, sim.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, stored.TDSSummary.TotalTDSAmount)
}

func TestDecodeProgressRejectsUnknownKeys(t *testing.T) {
	_, err := DecodeProgress(map[string]interface{}{"tdsSummary": map[string]interface{}{}})
	assert.Error(t, err)

	_, err = DecodeProgress(map[string]interface{}{"currentStep": float64(-1)})
	assert.Error(t, err)
}

func TestUpdateReplacesDeductees(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	owner := primitive.NewObjectID()

	sim, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Deductees = append(in.Deductees, models.Deductee{Name: "Asha", Section: "194C", GrossAmount: 5000, TDSRate: 2})
	updated, err := svc.Update(ctx, owner, sim.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 1100.0, updated.TDSSummary.TotalTDSAmount)
	assert.Equal(t, 2, updated.TDSSummary.TotalDeductees)
	assert.Len(t, updated.TDSSummary.Sections, 2)
}

func TestGenerateDocuments(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	owner := primitive.NewObjectID()

	sim, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	withCert, err := svc.GenerateCertificate(ctx, owner, sim.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(withCert.Certificate.Number, "CERT-"))
	assert.Equal(t, models.DocumentGenerated, withCert.Certificate.Status)
	require.NotNil(t, withCert.Certificate.GeneratedAt)
	for _, d := range withCert.Deductees {
		assert.True(t, d.Status.CertificateIssued)
	}

	withChallan, err := svc.GenerateChallan(ctx, owner, sim.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(withChallan.Challan.Number, "CHLN-"))
	assert.Equal(t, 1000.0, withChallan.Challan.Amount)
	assert.Len(t, withChallan.Challan.BSRCode, 7)
	assert.Equal(t, models.DocumentGenerated, withChallan.Challan.Status)
	assert.Equal(t, withCert.Certificate.Number, withChallan.Certificate.Number)

	_, err = svc.GenerateChallan(ctx, primitive.NewObjectID(), sim.ID)
	assert.Equal(t, store.ErrNotFound, errors.Cause(err))
}
