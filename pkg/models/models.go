package models

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// ShiftType is the canonical classification of a shift
type ShiftType string

const (
	ShiftRegular   ShiftType = "reg"
	ShiftHoliday   ShiftType = "chol"
	ShiftOT1       ShiftType = "ot1"
	ShiftOT2       ShiftType = "ot2"
	ShiftCallIn    ShiftType = "call-in"
	ShiftPaidLeave ShiftType = "plve"
	ShiftPTO       ShiftType = "pto"
)

// IsScheduled reports regular time or company holiday
func (t ShiftType) IsScheduled() bool {
	return t == ShiftRegular || t == ShiftHoliday
}

// IsCallIn reports call-in style work (call-in, ot2, ot1)
func (t ShiftType) IsCallIn() bool {
	return t == ShiftCallIn || t == ShiftOT2 || t == ShiftOT1
}

// IsOvertime reports whether a shift ending this way can start a double bubble
func (t ShiftType) IsOvertime() bool {
	return t == ShiftOT1 || t == ShiftOT2 || t == ShiftCallIn
}

var shiftTypeAliases = map[string]ShiftType{
	"reg":            ShiftRegular,
	"regular":        ShiftRegular,
	"rt":             ShiftRegular,
	"chol":           ShiftHoliday,
	"hol":            ShiftHoliday,
	"holiday":        ShiftHoliday,
	"companyholiday": ShiftHoliday,
	"ot1":            ShiftOT1,
	"ot":             ShiftOT1,
	"overtime":       ShiftOT1,
	"ot2":            ShiftOT2,
	"dt":             ShiftOT2,
	"doubletime":     ShiftOT2,
	"callin":         ShiftCallIn,
	"callout":        ShiftCallIn,
	"plve":           ShiftPaidLeave,
	"paidleave":      ShiftPaidLeave,
	"pto":            ShiftPTO,
	"paidtimeoff":    ShiftPTO,
	"vacation":       ShiftPTO,
}

// CanonicalShiftType maps a raw shift code onto the fixed alphabet.
// Unknown codes pass through lowercased and trimmed.
func CanonicalShiftType(raw string) ShiftType {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '.':
			return -1
		}
		return r
	}, trimmed)
	if t, ok := shiftTypeAliases[key]; ok {
		return t
	}
	return ShiftType(trimmed)
}

// CostCenterTag is the canonical tag name for the cost center dimension
const CostCenterTag = "cost_center"

// CanonicalTagName normalizes a dimension name so "Cost Center", "costCenter"
// and "cost_center" all resolve to the same key.
func CanonicalTagName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer(" ", "_", "-", "_").Replace(n)
	switch n {
	case "cost_center", "costcenter", "cost_centre", "costcentre", "cc":
		return CostCenterTag
	}
	return n
}

// Shift is one contiguous worked interval for an employee. End is exclusive.
type Shift struct {
	EmployeeID string            `json:"employee_id"`
	Start      time.Time         `json:"start"`
	End        time.Time         `json:"end"`
	ShiftType  ShiftType         `json:"shift_type"`
	CostCenter string            `json:"cost_center,omitempty"`
	Tags       map[string]string `json:"tags,omitempty"`

	// Derived by the analyzer
	RestGapHours     *float64    `json:"rest_gap_hours"`
	IsDoubleBubble   bool        `json:"double_bubble"`
	DeviationHours   *float64    `json:"deviation_hours"`
	IsDeviation      bool        `json:"deviation"`
	Alternates       []Alternate `json:"alternates,omitempty"`
	EstimatedSavings float64     `json:"estimated_savings"`
}

// DurationHours returns the shift length in hours
func (s *Shift) DurationHours() float64 {
	return s.End.Sub(s.Start).Hours()
}

// Tag returns the value of a dimension tag, or "" when absent
func (s *Shift) Tag(name string) string {
	key := CanonicalTagName(name)
	if key == CostCenterTag {
		return s.CostCenter
	}
	return s.Tags[key]
}

// IsFlagged reports whether the shift is a double bubble or a deviation
func (s *Shift) IsFlagged() bool {
	return s.IsDoubleBubble || s.IsDeviation
}

// Alternate is an employee who could have covered a flagged shift.
// RestHours is +Inf when the employee had no earlier shift.
type Alternate struct {
	EmployeeID string  `json:"employee_id"`
	RestHours  float64 `json:"rest_hours"`
}

type alternateJSON struct {
	EmployeeID string   `json:"employee_id"`
	RestHours  *float64 `json:"rest_hours"`
}

// MarshalJSON encodes an infinite rest as null
func (a Alternate) MarshalJSON() ([]byte, error) {
	out := alternateJSON{EmployeeID: a.EmployeeID}
	if !math.IsInf(a.RestHours, 0) {
		rest := a.RestHours
		out.RestHours = &rest
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a null rest back to +Inf
func (a *Alternate) UnmarshalJSON(data []byte) error {
	var in alternateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	a.EmployeeID = in.EmployeeID
	if in.RestHours == nil {
		a.RestHours = math.Inf(1)
	} else {
		a.RestHours = *in.RestHours
	}
	return nil
}

// Baseline is an employee's median start and end minute-of-day
type Baseline struct {
	StartMinute float64 `json:"start_min"`
	EndMinute   float64 `json:"end_min"`
	PoolSize    int     `json:"pool_size"`
}

// Baselines maps employee id to baseline. A missing entry means the
// baseline is undefined; use Lookup so the caller has to handle that.
type Baselines map[string]Baseline

// Lookup returns the employee's baseline and whether one is defined
func (b Baselines) Lookup(employeeID string) (Baseline, bool) {
	bl, ok := b[employeeID]
	return bl, ok
}

// DropStats counts rows excluded during normalization, by reason
type DropStats struct {
	RowsRead          int `json:"rows_read"`
	ShiftsProduced    int `json:"shifts_produced"`
	EmptyGridRows     int `json:"empty_grid_rows"`
	MissingEmployeeID int `json:"missing_employee_id"`
	MissingShiftType  int `json:"missing_shift_type"`
	MissingTag        int `json:"missing_tag"`
	BadTimestamp      int `json:"bad_timestamp"`
	EmptyInterval     int `json:"empty_interval"`
}

// Dropped returns the total number of excluded rows
func (d DropStats) Dropped() int {
	return d.MissingEmployeeID + d.MissingShiftType + d.MissingTag + d.BadTimestamp + d.EmptyInterval
}

// Summary aggregates one analysis run
type Summary struct {
	Employees       int     `json:"employees"`
	Shifts          int     `json:"shifts"`
	ShiftsInWindow  int     `json:"shifts_in_window"`
	DoubleBubbles   int     `json:"double_bubbles"`
	Deviations      int     `json:"deviations"`
	Flagged         int     `json:"flagged"`
	AlternatesFound int     `json:"alternates_found"`
	TotalSavings    float64 `json:"total_savings"`
}

// CoverageGap explains why a flagged shift has no alternates
type CoverageGap struct {
	EmployeeID string    `json:"employee_id"`
	Start      time.Time `json:"start"`
	Reasons    []string  `json:"reasons"`
}

// AnalysisResult is the output of one pipeline run
type AnalysisResult struct {
	Params       Params        `json:"params"`
	Stats        DropStats     `json:"stats"`
	Baselines    Baselines     `json:"baselines"`
	Shifts       []*Shift      `json:"-"`
	Window       []*Shift      `json:"-"`
	Flagged      []*Shift      `json:"flagged"`
	CoverageGaps []CoverageGap `json:"coverage_gaps,omitempty"`
	Summary      Summary       `json:"summary"`
}

// AnalyzeResponse is the data structure for the analysis result
type AnalyzeResponse struct {
	RunID string `json:"run_id"`
	*AnalysisResult
}
