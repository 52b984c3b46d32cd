package analyzer

import (
	"testing"
	"time"

	"github.com/arnavshah/double-bubble-api-go/pkg/models"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", s, err)
	}
	return ts
}

func interval(emp, start, end, shiftType string) models.IntervalRow {
	return models.IntervalRow{EmployeeID: emp, Start: start, End: end, ShiftType: shiftType}
}

func shift(t *testing.T, emp, start, end string, shiftType models.ShiftType) *models.Shift {
	t.Helper()
	return &models.Shift{
		EmployeeID: emp,
		Start:      mustTime(t, start),
		End:        mustTime(t, end),
		ShiftType:  shiftType,
	}
}

func rows(in ...models.RawRow) []models.RawRow {
	return in
}
