// Package ingest reads attendance exports into raw rows. Column names are
// resolved once per file against ordered alias lists, and each file is
// recognized as either an hourly grid or a start/end interval layout.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arnavshah/double-bubble-api-go/pkg/models"
	"github.com/spf13/cast"
)

// Layout is the shape of an attendance file
type Layout string

const (
	LayoutHourlyGrid Layout = "hourly_grid"
	LayoutInterval   Layout = "interval"
)

var (
	ErrEmptyFile       = errors.New("file has no header row")
	ErrUnknownLayout   = errors.New("header matches neither the hourly grid nor the start/end layout")
	ErrMissingEmployee = errors.New("header has no employee id column")
)

// Aliases per logical field, compared after lowercasing and removing
// everything but letters and digits. Earlier entries win.
var (
	employeeAliases  = []string{"employeeid", "empid", "employeenumber", "employee", "emp"}
	dateAliases      = []string{"calendardate", "workdate", "date", "day"}
	startAliases     = []string{"startdatetime", "start", "starttime", "shiftstart", "startts", "clockin"}
	endAliases       = []string{"enddatetime", "end", "endtime", "shiftend", "endts", "clockout"}
	shiftTypeAliases = []string{"shifttime", "shifttype", "paycode", "type"}
	costCenterAlias  = []string{"costcenter", "costcentre", "cc"}
)

// Header is a resolved column mapping
type Header struct {
	Layout     Layout
	Employee   int
	Date       int
	Start      int
	End        int
	ShiftType  int
	CostCenter int
	Hours      [24]int
	Tags       map[string]int
}

// ResolveHeader maps a header row onto logical fields. Columns that are not
// a recognized field become dimension tags.
func ResolveHeader(header []string) (*Header, error) {
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = aliasKey(h)
	}

	h := &Header{
		Employee:   find(keys, employeeAliases),
		Date:       find(keys, dateAliases),
		Start:      find(keys, startAliases),
		End:        find(keys, endAliases),
		ShiftType:  find(keys, shiftTypeAliases),
		CostCenter: find(keys, costCenterAlias),
		Tags:       make(map[string]int),
	}
	for i := range h.Hours {
		h.Hours[i] = -1
	}

	used := map[int]bool{h.Employee: true, h.Date: true, h.Start: true, h.End: true, h.ShiftType: true, h.CostCenter: true}
	gridColumns := 0
	for i, raw := range header {
		if hour, ok := hourColumn(raw); ok {
			if h.Hours[hour] == -1 {
				h.Hours[hour] = i
				gridColumns++
			}
			used[i] = true
		}
	}

	if h.Employee == -1 {
		return nil, ErrMissingEmployee
	}
	switch {
	case gridColumns > 0 && h.Date != -1:
		h.Layout = LayoutHourlyGrid
	case h.Start != -1 && h.End != -1:
		h.Layout = LayoutInterval
	default:
		return nil, ErrUnknownLayout
	}

	for i, raw := range header {
		if used[i] {
			continue
		}
		if name := models.CanonicalTagName(raw); name != "" {
			h.Tags[name] = i
		}
	}
	return h, nil
}

// ReadCSV parses an attendance CSV into raw rows. Short or malformed records
// are kept with their missing cells empty so the normalizer can count them.
func ReadCSV(r io.Reader) ([]models.RawRow, *Header, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headerRow, err := reader.Read()
	if err == io.EOF {
		return nil, nil, ErrEmptyFile
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	headerRow[0] = strings.TrimPrefix(headerRow[0], "\ufeff")

	h, err := ResolveHeader(headerRow)
	if err != nil {
		return nil, nil, err
	}

	var rows []models.RawRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read line %d: %w", line, err)
		}
		if blank(record) {
			continue
		}
		rows = append(rows, h.Row(record))
	}
	return rows, h, nil
}

// Row converts one record using the resolved header
func (h *Header) Row(record []string) models.RawRow {
	var tags map[string]string
	for name, i := range h.Tags {
		if v := cell(record, i); v != "" {
			if tags == nil {
				tags = make(map[string]string)
			}
			tags[name] = v
		}
	}

	if h.Layout == LayoutHourlyGrid {
		row := models.HourlyGridRow{
			EmployeeID:   cell(record, h.Employee),
			CalendarDate: cell(record, h.Date),
			ShiftType:    cell(record, h.ShiftType),
			CostCenter:   cell(record, h.CostCenter),
			Tags:         tags,
		}
		for hour, i := range h.Hours {
			row.Hours[hour] = hourValue(cell(record, i))
		}
		return row
	}
	return models.IntervalRow{
		EmployeeID: cell(record, h.Employee),
		Start:      cell(record, h.Start),
		End:        cell(record, h.End),
		ShiftType:  cell(record, h.ShiftType),
		CostCenter: cell(record, h.CostCenter),
		Tags:       tags,
	}
}

func aliasKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return -1
	}, s)
}

func find(keys []string, aliases []string) int {
	for _, alias := range aliases {
		for i, k := range keys {
			if k == alias {
				return i
			}
		}
	}
	return -1
}

// hourColumn recognizes "0".."23" and "00".."23" headers
func hourColumn(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if len(s) == 0 || len(s) > 2 {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 23 {
		return 0, false
	}
	return n, true
}

func hourValue(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0
	}
	return v
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
