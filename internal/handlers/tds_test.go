package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"learnhub/internal/models"
)

func simulationBody() map[string]interface{} {
	return map[string]interface{}{
		"title":         "Quarter one filing",
		"financialYear": "2024-25",
		"quarter":       "Q1",
		"deductor": map[string]interface{}{
			"name": "Acme Traders",
			"tan":  "ABCD12345E",
		},
		"deductees": []map[string]interface{}{
			{"name": "Meera", "section": "194C", "grossAmount": 100000, "tdsRate": 1, "status": map[string]bool{"challanPaid": true}},
			{"name": "Karan", "section": "194J", "grossAmount": 55555, "tdsRate": 10},
			{"name": "Zoya", "section": "194C", "grossAmount": 20000, "tdsRate": 2},
		},
	}
}

func TestSimulationCreateComputesSummary(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(http.MethodPost, "/tds-simulations", simulationBody(), e.userToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var sim models.TDSSimulation
	decode(t, rec, &sim)
	assert.Equal(t, e.userID, sim.UserID)
	require.Len(t, sim.Deductees, 3)
	assert.Equal(t, 1000.0, sim.Deductees[0].TDSAmount)
	assert.Equal(t, 99000.0, sim.Deductees[0].NetAmount)
	assert.Equal(t, 5556.0, sim.Deductees[1].TDSAmount)
	assert.Equal(t, 49999.0, sim.Deductees[1].NetAmount)

	s := sim.TDSSummary
	assert.Equal(t, 175555.0, s.TotalGrossAmount)
	assert.Equal(t, 6956.0, s.TotalTDSAmount)
	assert.Equal(t, 168599.0, s.TotalNetAmount)
	assert.Equal(t, 1000.0, s.TotalChallanAmount)
	assert.Equal(t, 3, s.TotalDeductees)
	require.Len(t, s.Sections, 2)
	assert.Equal(t, models.SectionSummary{Section: "194C", Count: 2, GrossAmount: 120000, TDSAmount: 1400}, s.Sections[0])
	assert.Equal(t, "194J", s.Sections[1].Section)
}

func TestSimulationValidation(t *testing.T) {
	e := newTestEnv(t)
	body := simulationBody()
	body["deductor"] = map[string]interface{}{"name": "Acme", "tan": "ABC123"}

	rec := e.do(http.MethodPost, "/tds-simulations", body, e.userToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec, nil)
	assert.Equal(t, "validation failed", env.Error)
	assert.Contains(t, env.Fields, "deductor.tan")
}

func TestSimulationMinimalBody(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(http.MethodPost, "/tds-simulations", map[string]interface{}{
		"deductees": []map[string]interface{}{
			{"section": "194C", "grossAmount": 10000, "tdsRate": 10},
		},
	}, e.userToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var sim models.TDSSimulation
	decode(t, rec, &sim)
	assert.Equal(t, models.TDSSummary{
		TotalGrossAmount: 10000,
		TotalTDSAmount:   1000,
		TotalNetAmount:   9000,
		TotalDeductees:   1,
		Sections:         []models.SectionSummary{{Section: "194C", Count: 1, GrossAmount: 10000, TDSAmount: 1000}},
	}, sim.TDSSummary)

	rec = e.do(http.MethodPost, "/tds-simulations", map[string]interface{}{
		"deductees": []map[string]interface{}{{"grossAmount": 10000, "tdsRate": 10}},
	}, e.userToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec, nil).Fields, "deductees[0].section")
}

func TestSimulationOwnership(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(http.MethodPost, "/tds-simulations", simulationBody(), e.userToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	var sim models.TDSSimulation
	decode(t, rec, &sim)
	path := "/tds-simulations/" + sim.ID.Hex()

	other := e.token(primitive.NewObjectID(), "other@example.com", models.RoleUser)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, path, nil, other).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodDelete, path, nil, other).Code)

	rec = e.do(http.MethodGet, "/tds-simulations", nil, other)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.TDSSimulation
	decode(t, rec, &list)
	assert.Empty(t, list)

	rec = e.do(http.MethodGet, "/tds-simulations", nil, e.userToken)
	decode(t, rec, &list)
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusOK, e.do(http.MethodDelete, path, nil, e.userToken).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, path, nil, e.userToken).Code)
}

func TestSimulationUpdateAndProgress(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(http.MethodPost, "/tds-simulations", simulationBody(), e.userToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	var sim models.TDSSimulation
	decode(t, rec, &sim)
	path := "/tds-simulations/" + sim.ID.Hex()

	body := simulationBody()
	body["deductees"] = []map[string]interface{}{
		{"name": "Meera", "section": "194C", "grossAmount": 50000, "tdsRate": 2},
	}
	rec = e.do(http.MethodPut, path, body, e.userToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &sim)
	assert.Equal(t, 1000.0, sim.TDSSummary.TotalTDSAmount)
	assert.Equal(t, 1, sim.TDSSummary.TotalDeductees)

	rec = e.do(http.MethodPatch, path+"/progress", map[string]interface{}{"currentStep": 3, "completedSteps": []int{1, 2}}, e.userToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &sim)
	assert.Equal(t, 3, sim.LearningProgress.CurrentStep)
	assert.Equal(t, []int{1, 2}, sim.LearningProgress.CompletedSteps)
	assert.NotNil(t, sim.LearningProgress.LastAccessedAt)
	assert.Equal(t, 1000.0, sim.TDSSummary.TotalTDSAmount)

	rec = e.do(http.MethodPatch, path+"/progress", map[string]interface{}{"tdsSummary": map[string]int{"totalTdsAmount": 1}}, e.userToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulationFieldValidation(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(http.MethodPost, "/tds-simulations", simulationBody(), e.userToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	var sim models.TDSSimulation
	decode(t, rec, &sim)
	path := "/tds-simulations/" + sim.ID.Hex() + "/validate"

	cases := []struct {
		field, value string
		valid        bool
	}{
		{"tan", "ABCD12345E", true},
		{"tan", "abcd12345e", false},
		{"pan", "ABCDE1234F", true},
		{"pincode", "011001", false},
		{"email", "a@b.co", true},
		{"phone", "9876543210", true},
	}
	for _, c := range cases {
		rec = e.do(http.MethodPost, path, fieldCheck{Field: c.field, Value: c.value}, e.userToken)
		require.Equal(t, http.StatusOK, rec.Code)
		var out struct {
			Valid   bool   `json:"valid"`
			Message string `json:"message"`
		}
		decode(t, rec, &out)
		assert.Equal(t, c.valid, out.Valid, "%s=%s", c.field, c.value)
		assert.NotEmpty(t, out.Message)
	}

	rec = e.do(http.MethodPost, path, fieldCheck{Field: "gstin", Value: "x"}, e.userToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulationDocuments(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(http.MethodPost, "/tds-simulations", simulationBody(), e.userToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	var sim models.TDSSimulation
	decode(t, rec, &sim)
	path := "/tds-simulations/" + sim.ID.Hex()

	rec = e.do(http.MethodPost, path+"/generate-certificate", nil, e.userToken)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &sim)
	assert.True(t, strings.HasPrefix(sim.Certificate.Number, "CERT-"))
	assert.Equal(t, models.DocumentGenerated, sim.Certificate.Status)
	for _, d := range sim.Deductees {
		assert.True(t, d.Status.CertificateIssued)
	}

	rec = e.do(http.MethodPost, path+"/generate-challan", nil, e.userToken)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &sim)
	assert.True(t, strings.HasPrefix(sim.Challan.Number, "CHLN-"))
	assert.Equal(t, sim.TDSSummary.TotalTDSAmount, sim.Challan.Amount)
	assert.Len(t, sim.Challan.BSRCode, 7)

	rec = e.do(http.MethodPost, path+"/pay-challan", nil, e.userToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &sim)
	assert.Equal(t, models.DocumentPaid, sim.Challan.Status)
	assert.NotNil(t, sim.Challan.PaidAt)
	for _, d := range sim.Deductees {
		assert.True(t, d.Status.ChallanPaid)
	}
	assert.Equal(t, sim.TDSSummary.TotalTDSAmount, sim.TDSSummary.TotalChallanAmount)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, path+"/pay-challan", nil, e.userToken).Code)
}

func TestPayChallanNeedsGeneratedChallan(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(http.MethodPost, "/tds-simulations", simulationBody(), e.userToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	var sim models.TDSSimulation
	decode(t, rec, &sim)

	rec = e.do(http.MethodPost, "/tds-simulations/"+sim.ID.Hex()+"/pay-challan", nil, e.userToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "challan has not been generated", decode(t, rec, nil).Error)
}
