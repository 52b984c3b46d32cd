package models

// RawRow is one ingested attendance row. It is either an HourlyGridRow or an
// IntervalRow; the set is closed.
type RawRow interface {
	rawRow()
	Employee() string
}

// HourlyGridRow is one employee-day with fractional hours per clock hour
type HourlyGridRow struct {
	EmployeeID   string            `json:"employee_id"`
	CalendarDate string            `json:"calendar_date"`
	Hours        [24]float64       `json:"hours"`
	ShiftType    string            `json:"shift_type"`
	CostCenter   string            `json:"cost_center,omitempty"`
	Tags         map[string]string `json:"tags,omitempty"`
}

// IntervalRow is a legacy row with explicit start and end timestamps
type IntervalRow struct {
	EmployeeID string            `json:"employee_id"`
	Start      string            `json:"start_datetime"`
	End        string            `json:"end_datetime"`
	ShiftType  string            `json:"shift_type"`
	CostCenter string            `json:"cost_center,omitempty"`
	Tags       map[string]string `json:"tags,omitempty"`
}

func (HourlyGridRow) rawRow() {}
func (IntervalRow) rawRow()   {}

func (r HourlyGridRow) Employee() string { return r.EmployeeID }
func (r IntervalRow) Employee() string   { return r.EmployeeID }

// AnalyzeInput is the JSON body of an analysis request
type AnalyzeInput struct {
	GridRows     []HourlyGridRow `json:"grid_rows"`
	IntervalRows []IntervalRow   `json:"interval_rows"`
	Params       map[string]any  `json:"params"`
}

// Rows flattens both row lists into RawRows, grid rows first
func (in AnalyzeInput) Rows() []RawRow {
	rows := make([]RawRow, 0, len(in.GridRows)+len(in.IntervalRows))
	for _, r := range in.GridRows {
		rows = append(rows, r)
	}
	for _, r := range in.IntervalRows {
		rows = append(rows, r)
	}
	return rows
}
