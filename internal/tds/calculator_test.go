package tds

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/internal/models"
)

func deductee(section string, gross, rate float64) models.Deductee {
	return models.Deductee{Name: "Payee", Section: section, GrossAmount: gross, TDSRate: rate}
}

func TestRecalculateSingleDeductee(t *testing.T) {
	sim := &models.TDSSimulation{Deductees: []models.Deductee{deductee("194J", 10000, 10)}}
	Recalculate(sim)

	assert.Equal(t, 1000.0, sim.Deductees[0].TDSAmount)
	assert.Equal(t, 9000.0, sim.Deductees[0].NetAmount)
	assert.Equal(t, models.TDSSummary{
		TotalGrossAmount: 10000,
		TotalTDSAmount:   1000,
		TotalNetAmount:   9000,
		TotalDeductees:   1,
		Sections: []models.SectionSummary{
			{Section: "194J", Count: 1, GrossAmount: 10000, TDSAmount: 1000},
		},
	}, sim.TDSSummary)
}

func TestRecalculateRounding(t *testing.T) {
	tests := []struct {
		gross, rate float64
		tds, net    float64
	}{
		{gross: 10005, rate: 10, tds: 1001, net: 9004}, // 1000.5 rounds up
		{gross: 12345, rate: 2, tds: 247, net: 12098},  // 246.9
		{gross: 999, rate: 1, tds: 10, net: 989},       // 9.99
		{gross: 1020, rate: 0.5, tds: 5, net: 1015},    // 5.1
		{gross: 0, rate: 30, tds: 0, net: 0},
	}
	for _, tt := range tests {
		sim := &models.TDSSimulation{Deductees: []models.Deductee{deductee("194C", tt.gross, tt.rate)}}
		Recalculate(sim)
		assert.Equal(t, tt.tds, sim.Deductees[0].TDSAmount, "gross %v rate %v", tt.gross, tt.rate)
		assert.Equal(t, tt.net, sim.Deductees[0].NetAmount, "gross %v rate %v", tt.gross, tt.rate)
	}
}

func TestRecalculateSectionsAndTotals(t *testing.T) {
	paid := deductee("194C", 20000, 1)
	paid.Status.ChallanPaid = true
	sim := &models.TDSSimulation{
		Deductees: []models.Deductee{
			deductee("194J", 50000, 10),
			paid,
			deductee("194J", 30000, 10),
			deductee("194H", 15000, 5),
		},
		// stale summary is thrown away
		TDSSummary: models.TDSSummary{TotalTDSAmount: 1, TotalDeductees: 99},
	}
	Recalculate(sim)

	var tdsSum float64
	for _, d := range sim.Deductees {
		assert.Equal(t, d.GrossAmount-d.TDSAmount, d.NetAmount)
		tdsSum += d.TDSAmount
	}
	s := sim.TDSSummary
	assert.Equal(t, tdsSum, s.TotalTDSAmount)
	assert.Equal(t, 115000.0, s.TotalGrossAmount)
	assert.Equal(t, 200.0, s.TotalChallanAmount)
	assert.Equal(t, 4, s.TotalDeductees)

	require.Len(t, s.Sections, 3)
	assert.Equal(t, []string{"194J", "194C", "194H"}, []string{s.Sections[0].Section, s.Sections[1].Section, s.Sections[2].Section})
	assert.Equal(t, models.SectionSummary{Section: "194J", Count: 2, GrossAmount: 80000, TDSAmount: 8000}, s.Sections[0])

	count := 0
	for _, sec := range s.Sections {
		count += sec.Count
	}
	assert.Equal(t, s.TotalDeductees, count)
}

func TestRecalculateEmpty(t *testing.T) {
	sim := &models.TDSSimulation{TDSSummary: models.TDSSummary{TotalGrossAmount: 5}}
	Recalculate(sim)
	assert.Equal(t, 0.0, sim.TDSSummary.TotalGrossAmount)
	assert.Equal(t, 0, sim.TDSSummary.TotalDeductees)
	assert.NotNil(t, sim.TDSSummary.Sections)
}

func TestDocumentNumber(t *testing.T) {
	a, b := DocumentNumber("CERT"), DocumentNumber("CERT")
	assert.True(t, strings.HasPrefix(a, "CERT-"))
	assert.Len(t, a, len("CERT-")+12)
	assert.Equal(t, strings.ToUpper(a), a)
	assert.NotEqual(t, a, b)
}

func TestValidateField(t *testing.T) {
	tests := []struct {
		field, value string
		valid        bool
	}{
		{"tan", "ABCD12345E", true},
		{"tan", "ABC12345E", false},
		{"pan", "ABCDE1234F", true},
		{"PAN", "abcde1234f", false},
		{"pincode", "560001", true},
		{"pincode", "060001", false},
		{"phone", "9876543210", true},
		{"phone", "5876543210", false},
		{"email", "a@b.co", true},
		{"email", "not-an-email", false},
	}
	for _, tt := range tests {
		valid, msg, err := ValidateField(tt.field, tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.valid, valid, "%s=%s", tt.field, tt.value)
		assert.NotEmpty(t, msg)
	}

	_, _, err := ValidateField("gstin", "x")
	assert.Error(t, err)
}
