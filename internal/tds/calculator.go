// Package tds holds the TDS practice simulations: the aggregate calculator
// that runs before every save, identifier validation and document numbers.
package tds

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"learnhub/internal/models"
)

// Round rounds an amount to the nearest rupee, halves away from zero.
func Round(amount float64) float64 {
	return math.Round(amount)
}

// Recalculate derives every deductee's tax and net amount and rebuilds the
// summary from scratch.
func Recalculate(sim *models.TDSSimulation) {
	summary := models.TDSSummary{Sections: []models.SectionSummary{}}
	sectionIndex := make(map[string]int)

	for i := range sim.Deductees {
		d := &sim.Deductees[i]
		d.TDSAmount = Round(d.GrossAmount * d.TDSRate / 100)
		d.NetAmount = d.GrossAmount - d.TDSAmount

		summary.TotalGrossAmount += d.GrossAmount
		summary.TotalTDSAmount += d.TDSAmount
		summary.TotalNetAmount += d.NetAmount
		if d.Status.ChallanPaid {
			summary.TotalChallanAmount += d.TDSAmount
		}

		idx, ok := sectionIndex[d.Section]
		if !ok {
			idx = len(summary.Sections)
			sectionIndex[d.Section] = idx
			summary.Sections = append(summary.Sections, models.SectionSummary{Section: d.Section})
		}
		s := &summary.Sections[idx]
		s.Count++
		s.GrossAmount += d.GrossAmount
		s.TDSAmount += d.TDSAmount
	}
	summary.TotalDeductees = len(sim.Deductees)
	sim.TDSSummary = summary
}

// DocumentNumber returns prefix followed by twelve upper-case hex digits.
func DocumentNumber(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(id[:12])
}
