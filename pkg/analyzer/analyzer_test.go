package analyzer

import (
	"bytes"
	"testing"
	"time"

	"github.com/arnavshah/double-bubble-api-go/pkg/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// doubleBubbleWeek is E1 working reg, then ot2 in the evening, then reg
// again the next morning after only seven hours off. E2 works one day shift.
func doubleBubbleWeek() []models.RawRow {
	return rows(
		interval("E1", "2024-03-04 08:00", "2024-03-04 16:00", "reg"),
		interval("E1", "2024-03-04 17:00", "2024-03-04 23:00", "ot2"),
		interval("E1", "2024-03-05 06:00", "2024-03-05 14:00", "reg"),
		interval("E2", "2024-03-04 08:00", "2024-03-04 16:00", "reg"),
	)
}

func TestRun_DoubleBubbleEndToEnd(t *testing.T) {
	result := NewAnalyzer(models.DefaultParams()).Run(doubleBubbleWeek())

	require.Len(t, result.Shifts, 4)
	e1 := result.Shifts[:3]
	assert.Nil(t, e1[0].RestGapHours)
	assert.InDelta(t, 1.0, *e1[1].RestGapHours, 1e-9)
	assert.False(t, e1[1].IsDoubleBubble)
	assert.InDelta(t, 7.0, *e1[2].RestGapHours, 1e-9)
	assert.True(t, e1[2].IsDoubleBubble)

	// E1's scheduled baseline is 07:00-15:00, so the evening ot2 deviates.
	bl, ok := result.Baselines.Lookup("E1")
	require.True(t, ok)
	assert.Equal(t, 420.0, bl.StartMinute)
	assert.Equal(t, 900.0, bl.EndMinute)

	require.Len(t, result.Flagged, 2)
	deviation, bubble := result.Flagged[0], result.Flagged[1]

	assert.True(t, deviation.IsDeviation)
	assert.False(t, deviation.IsDoubleBubble)
	assert.Empty(t, deviation.Alternates)
	assert.Zero(t, deviation.EstimatedSavings)

	assert.Equal(t, mustTime(t, "2024-03-05 06:00"), bubble.Start)
	require.Len(t, bubble.Alternates, 1)
	assert.Equal(t, models.Alternate{EmployeeID: "E2", RestHours: 14}, bubble.Alternates[0])
	assert.Equal(t, 800.0, bubble.EstimatedSavings)

	require.Len(t, result.CoverageGaps, 1)
	assert.Equal(t, models.CoverageGap{
		EmployeeID: "E1",
		Start:      mustTime(t, "2024-03-04 17:00"),
		Reasons:    []string{"1 employees had insufficient rest"},
	}, result.CoverageGaps[0])

	assert.Equal(t, models.Summary{
		Employees:       2,
		Shifts:          4,
		ShiftsInWindow:  4,
		DoubleBubbles:   1,
		Deviations:      1,
		Flagged:         2,
		AlternatesFound: 1,
		TotalSavings:    800,
	}, result.Summary)
}

func TestRun_DeviationWithCoverageEarnsSavings(t *testing.T) {
	result := NewAnalyzer(models.DefaultParams()).Run(rows(
		interval("E1", "2024-03-04 08:00", "2024-03-04 16:00", "reg"),
		interval("E1", "2024-03-05 08:00", "2024-03-05 16:00", "reg"),
		interval("E1", "2024-03-06 12:00", "2024-03-06 20:00", "reg"),
		interval("E2", "2024-03-04 08:00", "2024-03-04 16:00", "reg"),
	))

	require.Len(t, result.Flagged, 1)
	late := result.Flagged[0]
	assert.True(t, late.IsDeviation)
	assert.False(t, late.IsDoubleBubble)
	assert.Equal(t, []models.Alternate{{EmployeeID: "E2", RestHours: 44}}, late.Alternates)
	assert.Equal(t, 800.0, late.EstimatedSavings)
	assert.Empty(t, result.CoverageGaps)
	assert.Equal(t, 800.0, result.Summary.TotalSavings)
}

func TestRun_IsDeterministic(t *testing.T) {
	a := NewAnalyzer(models.DefaultParams())

	first := a.Run(doubleBubbleWeek())
	second := a.Run(doubleBubbleWeek())

	if diff := cmp.Diff(first.Flagged, second.Flagged); diff != "" {
		t.Errorf("flagged shifts differ between runs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Summary, second.Summary); diff != "" {
		t.Errorf("summary differs between runs (-first +second):\n%s", diff)
	}

	var out1, out2 bytes.Buffer
	require.NoError(t, WriteCSV(&out1, first.Flagged))
	require.NoError(t, WriteCSV(&out2, second.Flagged))
	assert.Equal(t, out1.String(), out2.String())
}

func TestRun_WindowKeepsPredecessorsOutsideIt(t *testing.T) {
	p := models.DefaultParams()
	start := mustTime(t, "2024-03-05 00:00")
	p.DateStart = &start

	result := NewAnalyzer(p).Run(doubleBubbleWeek())

	require.Len(t, result.Window, 1)
	require.Len(t, result.Flagged, 1)
	flagged := result.Flagged[0]
	assert.InDelta(t, 7.0, *flagged.RestGapHours, 1e-9)
	assert.True(t, flagged.IsDoubleBubble)
	assert.Equal(t, 1, result.Summary.DoubleBubbles)
	assert.Equal(t, 4, result.Summary.Shifts)
	assert.Equal(t, 1, result.Summary.ShiftsInWindow)
}

func TestRun_EmptyInput(t *testing.T) {
	result := NewAnalyzer(models.DefaultParams()).Run(nil)

	assert.NotNil(t, result.Flagged)
	assert.Empty(t, result.Flagged)
	assert.Equal(t, models.Summary{}, result.Summary)
}

func TestRun_FirstShiftNeverFlaggedForRest(t *testing.T) {
	p := models.DefaultParams()
	p.DeviationThresholdHours = 24

	in := rows(
		interval("E1", "2024-03-04 00:00", "2024-03-04 06:00", "ot2"),
		interval("E2", "2024-03-04 07:00", "2024-03-04 12:00", "reg"),
	)
	result := NewAnalyzer(p).Run(in)

	assert.Empty(t, result.Flagged)
	for _, s := range result.Shifts {
		assert.Nil(t, s.RestGapHours, s.EmployeeID)
	}
}

func TestRun_GridAndIntervalRowsMix(t *testing.T) {
	grid := models.HourlyGridRow{EmployeeID: "E1", CalendarDate: "2024-03-04", ShiftType: "OT2"}
	for h := 16; h < 24; h++ {
		grid.Hours[h] = 1
	}
	in := rows(
		grid,
		interval("E1", "2024-03-05 02:00", "2024-03-05 10:00", "REG"),
	)

	result := NewAnalyzer(models.DefaultParams()).Run(in)

	require.Len(t, result.Shifts, 2)
	assert.Equal(t, mustTime(t, "2024-03-05 00:00"), result.Shifts[0].End)
	assert.InDelta(t, 2.0, *result.Shifts[1].RestGapHours, 1e-9)
	assert.True(t, result.Shifts[1].IsDoubleBubble)
	assert.Equal(t, 1, result.Summary.DoubleBubbles)
	assert.WithinDuration(t, mustTime(t, "2024-03-05 02:00"), result.Shifts[1].Start, time.Second)
}
