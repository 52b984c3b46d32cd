package analyzer

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/arnavshah/double-bubble-api-go/pkg/models"
)

// Normalize turns raw rows into shifts sorted by (employee, start, end).
// Defective rows are dropped and counted in the returned stats, never
// reported as errors.
func Normalize(rows []models.RawRow, p models.Params) ([]*models.Shift, models.DropStats) {
	var stats models.DropStats
	var shifts []*models.Shift

	required := make([]string, 0, len(p.RequiredTags))
	for _, tag := range p.RequiredTags {
		if tag = models.CanonicalTagName(tag); tag != "" {
			required = append(required, tag)
		}
	}

	for _, row := range rows {
		stats.RowsRead++
		if row == nil {
			stats.MissingEmployeeID++
			continue
		}

		employeeID := strings.TrimSpace(row.Employee())
		if employeeID == "" {
			stats.MissingEmployeeID++
			continue
		}

		var out []*models.Shift
		switch r := row.(type) {
		case models.HourlyGridRow:
			template, ok := newShift(employeeID, r.ShiftType, r.CostCenter, r.Tags, required, &stats)
			if !ok {
				continue
			}
			day, ok := ParseDate(r.CalendarDate)
			if !ok {
				stats.BadTimestamp++
				continue
			}
			out = gridSegments(template, day, r.Hours)
			if len(out) == 0 {
				stats.EmptyGridRows++
			}
		case models.IntervalRow:
			template, ok := newShift(employeeID, r.ShiftType, r.CostCenter, r.Tags, required, &stats)
			if !ok {
				continue
			}
			start, okStart := ParseTimestamp(r.Start)
			end, okEnd := ParseTimestamp(r.End)
			if !okStart || !okEnd {
				stats.BadTimestamp++
				continue
			}
			if end.Before(start) {
				end = end.AddDate(0, 0, 1)
			}
			if !end.After(start) {
				stats.EmptyInterval++
				continue
			}
			template.Start = start
			template.End = end
			out = []*models.Shift{template}
		}

		stats.ShiftsProduced += len(out)
		shifts = append(shifts, out...)
	}

	SortShifts(shifts)
	return shifts, stats
}

// SortShifts orders shifts by (employee, start, end). Every later stage
// depends on this order.
func SortShifts(shifts []*models.Shift) {
	slices.SortStableFunc(shifts, func(a, b *models.Shift) int {
		if c := strings.Compare(a.EmployeeID, b.EmployeeID); c != 0 {
			return c
		}
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return a.End.Compare(b.End)
	})
}

// newShift validates the classification fields shared by both row shapes
func newShift(employeeID, rawType, costCenter string, tags map[string]string, required []string, stats *models.DropStats) (*models.Shift, bool) {
	shiftType := models.CanonicalShiftType(rawType)
	if shiftType == "" {
		stats.MissingShiftType++
		return nil, false
	}

	s := &models.Shift{
		EmployeeID: employeeID,
		ShiftType:  shiftType,
		CostCenter: strings.TrimSpace(costCenter),
	}
	for k, v := range tags {
		key := models.CanonicalTagName(k)
		v = strings.TrimSpace(v)
		if key == "" || v == "" {
			continue
		}
		if key == models.CostCenterTag {
			if s.CostCenter == "" {
				s.CostCenter = v
			}
			continue
		}
		if s.Tags == nil {
			s.Tags = make(map[string]string)
		}
		s.Tags[key] = v
	}

	for _, tag := range required {
		if s.Tag(tag) == "" {
			stats.MissingTag++
			return nil, false
		}
	}
	return s, true
}

// gridSegments merges contiguous non-zero hour slots. The segment end is
// the segment start plus the running sum of fractional hours, so fully
// worked adjacent slots coalesce without a gap.
func gridSegments(template *models.Shift, day time.Time, hours [24]float64) []*models.Shift {
	var out []*models.Shift
	var current *models.Shift
	var worked float64

	flush := func() {
		if current != nil && worked > 0 {
			current.End = current.Start.Add(time.Duration(worked * float64(time.Hour)))
			out = append(out, current)
		}
		current = nil
		worked = 0
	}

	for h, v := range hours {
		v = clampUnit(v)
		if v == 0 {
			flush()
			continue
		}
		if current == nil {
			seg := *template
			seg.Tags = maps.Clone(template.Tags)
			seg.Start = day.Add(time.Duration(h) * time.Hour)
			current = &seg
		}
		worked += v
	}
	flush()
	return out
}

func clampUnit(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	return min(v, 1)
}
