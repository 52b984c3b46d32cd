package analyzer

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/arnavshah/double-bubble-api-go/pkg/models"
)

// AvailabilityIndex holds every employee's shifts sorted by start, for
// interval queries across employees. Build it once per run, over the whole
// history, before searching for alternates.
type AvailabilityIndex struct {
	employees []string
	shifts    map[string][]*models.Shift
}

// Exclusions counts why candidates were rejected for one flagged shift
type Exclusions struct {
	TagMismatch int
	Busy        int
	UnderRested int
}

// BuildIndex groups shifts per employee, each list sorted by start
func BuildIndex(shifts []*models.Shift) *AvailabilityIndex {
	idx := &AvailabilityIndex{shifts: make(map[string][]*models.Shift)}
	for _, s := range shifts {
		if _, ok := idx.shifts[s.EmployeeID]; !ok {
			idx.employees = append(idx.employees, s.EmployeeID)
		}
		idx.shifts[s.EmployeeID] = append(idx.shifts[s.EmployeeID], s)
	}
	slices.Sort(idx.employees)
	for _, list := range idx.shifts {
		slices.SortStableFunc(list, func(a, b *models.Shift) int {
			return a.Start.Compare(b.Start)
		})
	}
	return idx
}

// Employees returns the indexed employee ids, sorted
func (idx *AvailabilityIndex) Employees() []string {
	return idx.employees
}

// Shifts returns one employee's shifts sorted by start
func (idx *AvailabilityIndex) Shifts(employeeID string) []*models.Shift {
	return idx.shifts[employeeID]
}

// FindAlternates lists the other employees who were free during f and had
// at least restThreshold hours of rest before it. When matchColumn is set
// the candidate's first shift must carry the same tag value as f.
func (idx *AvailabilityIndex) FindAlternates(f *models.Shift, matchColumn string, restThreshold float64) []models.Alternate {
	alts, _ := idx.search(f, matchColumn, restThreshold)
	return alts
}

func (idx *AvailabilityIndex) search(f *models.Shift, matchColumn string, restThreshold float64) ([]models.Alternate, Exclusions) {
	var alts []models.Alternate
	var ex Exclusions

	var want string
	if matchColumn != "" {
		want = f.Tag(matchColumn)
	}

	for _, id := range idx.employees {
		if id == f.EmployeeID {
			continue
		}
		list := idx.shifts[id]
		if len(list) == 0 {
			continue
		}
		if matchColumn != "" && list[0].Tag(matchColumn) != want {
			ex.TagMismatch++
			continue
		}

		busy, prevEnd, hasPrev := scanBefore(list, f.Start, f.End)
		if busy {
			ex.Busy++
			continue
		}
		rest := math.Inf(1)
		if hasPrev {
			rest = HoursBetween(prevEnd, f.Start)
		}
		if rest < restThreshold {
			ex.UnderRested++
			continue
		}
		alts = append(alts, models.Alternate{EmployeeID: id, RestHours: rest})
	}
	return alts, ex
}

// scanBefore walks the shifts that start before end. It reports whether any
// of them overlaps [start, end) and the latest end at or before start.
func scanBefore(list []*models.Shift, start, end time.Time) (busy bool, prevEnd time.Time, hasPrev bool) {
	n := sort.Search(len(list), func(i int) bool {
		return !list[i].Start.Before(end)
	})
	for _, s := range list[:n] {
		if Overlap(s.Start, s.End, start, end) {
			return true, time.Time{}, false
		}
		if !s.End.After(start) && (!hasPrev || s.End.After(prevEnd)) {
			prevEnd = s.End
			hasPrev = true
		}
	}
	return false, prevEnd, hasPrev
}

// Reasons renders the exclusion counts as readable sentences
func (ex Exclusions) Reasons() []string {
	var reasons []string
	if ex.Busy > 0 {
		reasons = append(reasons, fmt.Sprintf("%d employees had overlapping shifts", ex.Busy))
	}
	if ex.UnderRested > 0 {
		reasons = append(reasons, fmt.Sprintf("%d employees had insufficient rest", ex.UnderRested))
	}
	if ex.TagMismatch > 0 {
		reasons = append(reasons, fmt.Sprintf("%d employees did not match the availability column", ex.TagMismatch))
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "no other employees found")
	}
	return reasons
}
