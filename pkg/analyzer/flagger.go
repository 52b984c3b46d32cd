package analyzer

import "github.com/arnavshah/double-bubble-api-go/pkg/models"

// FlagRestAndDoubleBubble annotates each shift with the rest gap since the
// same employee's previous shift and the double-bubble flag. shifts must be
// sorted by (employee, start, end) and should be the full history so the
// first shift of every employee really has no predecessor.
func FlagRestAndDoubleBubble(shifts []*models.Shift, restThreshold float64) []*models.Shift {
	last := make(map[string]*models.Shift)
	for _, s := range shifts {
		s.RestGapHours = nil
		s.IsDoubleBubble = false

		if prev, ok := last[s.EmployeeID]; ok {
			gap := HoursBetween(prev.End, s.Start)
			s.RestGapHours = &gap
			s.IsDoubleBubble = prev.ShiftType.IsOvertime() && gap < restThreshold
		}
		last[s.EmployeeID] = s
	}
	return shifts
}
