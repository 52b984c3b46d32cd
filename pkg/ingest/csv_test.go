package ingest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/arnavshah/double-bubble-api-go/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_Interval(t *testing.T) {
	in := "\ufeffEmployee ID,Start DateTime,End DateTime,Shift Type,Cost Center,Crew\n" +
		"E1,2024-03-04 08:00,2024-03-04 16:00,REG,CC1,A\n" +
		",,,,,\n" +
		"E2,2024-03-04 22:00,2024-03-05 06:00,OT2,,\n"

	rows, h, err := ReadCSV(strings.NewReader(in))

	require.NoError(t, err)
	assert.Equal(t, LayoutInterval, h.Layout)
	require.Len(t, rows, 2)
	assert.Equal(t, models.IntervalRow{
		EmployeeID: "E1",
		Start:      "2024-03-04 08:00",
		End:        "2024-03-04 16:00",
		ShiftType:  "REG",
		CostCenter: "CC1",
		Tags:       map[string]string{"crew": "A"},
	}, rows[0])
	assert.Nil(t, rows[1].(models.IntervalRow).Tags)
}

func TestReadCSV_HourlyGrid(t *testing.T) {
	header := []string{"emp_id", "calendar_date", "shift_time"}
	for h := 0; h < 24; h++ {
		header = append(header, fmt.Sprintf("%02d", h))
	}
	record := []string{"E7", "2024-03-04", "reg"}
	for h := 0; h < 24; h++ {
		v := ""
		if h >= 8 && h < 12 {
			v = "1"
		}
		if h == 12 {
			v = "0.5"
		}
		record = append(record, v)
	}
	in := strings.Join(header, ",") + "\n" + strings.Join(record, ",") + "\n"

	rows, h, err := ReadCSV(strings.NewReader(in))

	require.NoError(t, err)
	assert.Equal(t, LayoutHourlyGrid, h.Layout)
	require.Len(t, rows, 1)
	grid, ok := rows[0].(models.HourlyGridRow)
	require.True(t, ok)
	assert.Equal(t, "E7", grid.EmployeeID)
	assert.Equal(t, "2024-03-04", grid.CalendarDate)
	assert.Equal(t, "reg", grid.ShiftType)
	assert.Equal(t, 1.0, grid.Hours[8])
	assert.Equal(t, 0.5, grid.Hours[12])
	assert.Zero(t, grid.Hours[13])
}

func TestReadCSV_ShortRecordsKeepEmptyCells(t *testing.T) {
	in := "employee,start,end,type\nE1,2024-03-04 08:00\n"

	rows, _, err := ReadCSV(strings.NewReader(in))

	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0].(models.IntervalRow)
	assert.Equal(t, "E1", row.EmployeeID)
	assert.Empty(t, row.End)
	assert.Empty(t, row.ShiftType)
}

func TestReadCSV_Errors(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, _, err = ReadCSV(strings.NewReader("start,end\n"))
	assert.ErrorIs(t, err, ErrMissingEmployee)

	_, _, err = ReadCSV(strings.NewReader("employee,start,type\n"))
	assert.ErrorIs(t, err, ErrUnknownLayout)
}

func TestResolveHeader_AliasPriority(t *testing.T) {
	h, err := ResolveHeader([]string{"Type", "Employee", "Pay Code", "Employee ID", "Clock In", "Clock Out"})

	require.NoError(t, err)
	assert.Equal(t, 3, h.Employee)
	assert.Equal(t, 2, h.ShiftType)
	assert.Equal(t, 4, h.Start)
	assert.Equal(t, 5, h.End)
	assert.Equal(t, map[string]int{"type": 0, "employee": 1}, h.Tags)
}
