package models

import "time"

// BaselineMode selects which shifts feed an employee's baseline
type BaselineMode string

const (
	BaselineScheduled BaselineMode = "scheduled"
	BaselineAll       BaselineMode = "all"
)

// Params are the caller-supplied thresholds and filters for one run
type Params struct {
	RestThresholdHours      float64      `json:"rest_threshold_hours"`
	DeviationThresholdHours float64      `json:"deviation_threshold_hours"`
	BaselineMode            BaselineMode `json:"baseline_mode"`
	BaseRate                float64      `json:"base_rate"`
	DoubleBubbleMultiplier  float64      `json:"double_bubble_multiplier"`

	// Filters applied after rest flagging
	DateStart   *time.Time `json:"date_start,omitempty"`
	DateEnd     *time.Time `json:"date_end,omitempty"`
	DaysOfWeek  []int      `json:"days_of_week,omitempty"`
	CostCenters []string   `json:"cost_centers,omitempty"`

	AvailabilityMatchColumn string   `json:"availability_match_column,omitempty"`
	RequiredTags            []string `json:"required_tags,omitempty"`
}

// DefaultParams returns the documented fallback values
func DefaultParams() Params {
	return Params{
		RestThresholdHours:      8,
		DeviationThresholdHours: 1,
		BaselineMode:            BaselineScheduled,
		BaseRate:                100,
		DoubleBubbleMultiplier:  2,
	}
}
