package analyzer

import (
	"github.com/arnavshah/double-bubble-api-go/pkg/models"
)

// Analyzer runs the compliance pipeline for one parameter set.
// Every Run starts from the raw rows; nothing is shared between runs.
type Analyzer struct {
	Params models.Params
}

// NewAnalyzer creates a new analyzer instance
func NewAnalyzer(params models.Params) *Analyzer {
	return &Analyzer{Params: params}
}

// Run normalizes the rows, flags rest gaps over the full history, filters
// to the requested window, flags deviations, then searches alternates and
// estimates savings for every flagged shift in the window.
func (a *Analyzer) Run(rows []models.RawRow) *models.AnalysisResult {
	p := a.Params

	shifts, stats := Normalize(rows, p)
	FlagRestAndDoubleBubble(shifts, p.RestThresholdHours)

	window := ApplyFilters(shifts, p)
	baselines := EstimateBaselines(window, p.BaselineMode)
	FlagDeviations(window, baselines, p.DeviationThresholdHours)

	idx := BuildIndex(shifts)

	result := &models.AnalysisResult{
		Params:    p,
		Stats:     stats,
		Baselines: baselines,
		Shifts:    shifts,
		Window:    window,
		Flagged:   []*models.Shift{},
	}

	for _, s := range window {
		s.Alternates = nil
		s.EstimatedSavings = 0
		if !s.IsFlagged() {
			continue
		}

		alts, ex := idx.search(s, p.AvailabilityMatchColumn, p.RestThresholdHours)
		s.Alternates = alts
		s.EstimatedSavings = EstimateSavings(s, alts, p.BaseRate, p.DoubleBubbleMultiplier)
		if len(alts) == 0 {
			result.CoverageGaps = append(result.CoverageGaps, models.CoverageGap{
				EmployeeID: s.EmployeeID,
				Start:      s.Start,
				Reasons:    ex.Reasons(),
			})
		}
		result.Flagged = append(result.Flagged, s)
	}

	result.Summary = summarize(idx, window, result.Flagged)
	return result
}

func summarize(idx *AvailabilityIndex, window, flagged []*models.Shift) models.Summary {
	sum := models.Summary{
		Employees:      len(idx.Employees()),
		ShiftsInWindow: len(window),
		Flagged:        len(flagged),
	}
	for _, id := range idx.Employees() {
		sum.Shifts += len(idx.Shifts(id))
	}
	for _, s := range window {
		if s.IsDoubleBubble {
			sum.DoubleBubbles++
		}
		if s.IsDeviation {
			sum.Deviations++
		}
	}
	for _, s := range flagged {
		sum.AlternatesFound += len(s.Alternates)
		sum.TotalSavings += s.EstimatedSavings
	}
	return sum
}
