package analyzer

import (
	"math"

	"github.com/arnavshah/double-bubble-api-go/pkg/models"
)

// EstimateBaselines computes each employee's median start and end
// minute-of-day. In scheduled mode only reg/chol shifts feed the median,
// falling back to every shift when the employee has none.
func EstimateBaselines(shifts []*models.Shift, mode models.BaselineMode) models.Baselines {
	byEmployee := make(map[string][]*models.Shift)
	for _, s := range shifts {
		byEmployee[s.EmployeeID] = append(byEmployee[s.EmployeeID], s)
	}

	baselines := make(models.Baselines, len(byEmployee))
	for id, list := range byEmployee {
		pool := list
		if mode == models.BaselineScheduled {
			var scheduled []*models.Shift
			for _, s := range list {
				if s.ShiftType.IsScheduled() {
					scheduled = append(scheduled, s)
				}
			}
			if len(scheduled) > 0 {
				pool = scheduled
			}
		}

		starts := make([]float64, len(pool))
		ends := make([]float64, len(pool))
		for i, s := range pool {
			starts[i] = MinuteOfDay(s.Start)
			ends[i] = MinuteOfDay(s.End)
		}
		startMin, okStart := Median(starts)
		endMin, okEnd := Median(ends)
		if !okStart || !okEnd {
			continue
		}
		baselines[id] = models.Baseline{StartMinute: startMin, EndMinute: endMin, PoolSize: len(pool)}
	}
	return baselines
}

// FlagDeviations sets DeviationHours and IsDeviation against the baselines.
// Differences are taken on raw minute-of-day, without unwrapping midnight.
func FlagDeviations(shifts []*models.Shift, baselines models.Baselines, threshold float64) []*models.Shift {
	for _, s := range shifts {
		s.DeviationHours = nil
		s.IsDeviation = false

		bl, ok := baselines.Lookup(s.EmployeeID)
		if !ok {
			continue
		}
		startDiff := math.Abs(MinuteOfDay(s.Start) - bl.StartMinute)
		endDiff := math.Abs(MinuteOfDay(s.End) - bl.EndMinute)
		dev := math.Max(startDiff, endDiff) / 60
		s.DeviationHours = &dev
		s.IsDeviation = dev > threshold
	}
	return shifts
}
