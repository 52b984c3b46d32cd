package analyzer

import (
	"slices"
	"strings"

	"github.com/arnavshah/double-bubble-api-go/pkg/models"
)

// ApplyFilters keeps the shifts inside the date window, on the selected days
// of week and in the selected cost centers. Empty filters keep everything.
// Dates compare on the calendar day of the shift start, inclusive.
func ApplyFilters(shifts []*models.Shift, p models.Params) []*models.Shift {
	days := make(map[int]bool, len(p.DaysOfWeek))
	for _, d := range p.DaysOfWeek {
		days[d] = true
	}
	centers := make(map[string]bool, len(p.CostCenters))
	for _, c := range p.CostCenters {
		if c = strings.TrimSpace(c); c != "" {
			centers[c] = true
		}
	}

	out := make([]*models.Shift, 0, len(shifts))
	for _, s := range shifts {
		day := calendarDay(s.Start)
		if p.DateStart != nil && day < calendarDay(*p.DateStart) {
			continue
		}
		if p.DateEnd != nil && day > calendarDay(*p.DateEnd) {
			continue
		}
		if len(days) > 0 && !days[int(s.Start.Weekday())] {
			continue
		}
		if len(centers) > 0 && !centers[s.CostCenter] {
			continue
		}
		out = append(out, s)
	}
	return slices.Clip(out)
}
