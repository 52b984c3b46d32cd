package analyzer

import (
	"math"
	"slices"
	"strings"

	"github.com/arnavshah/double-bubble-api-go/pkg/models"
	"github.com/spf13/cast"
)

// ParseParams overlays string-valued parameters onto defaults. Keys may be
// snake_case or camelCase. A value that does not parse, or is out of range,
// keeps the default instead of failing the run.
func ParseParams(values map[string]string, defaults models.Params) models.Params {
	p := defaults
	for rawKey, raw := range values {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		switch paramKey(rawKey) {
		case "restthresholdhours", "restthreshold":
			p.RestThresholdHours = nonNegative(raw, p.RestThresholdHours)
		case "deviationthresholdhours", "devthreshold", "deviationthreshold":
			p.DeviationThresholdHours = nonNegative(raw, p.DeviationThresholdHours)
		case "baserate":
			p.BaseRate = nonNegative(raw, p.BaseRate)
		case "doublebubblemultiplier", "premiummultiplier":
			p.DoubleBubbleMultiplier = nonNegative(raw, p.DoubleBubbleMultiplier)
		case "baselinemode":
			switch mode := models.BaselineMode(strings.ToLower(raw)); mode {
			case models.BaselineScheduled, models.BaselineAll:
				p.BaselineMode = mode
			}
		case "datestart":
			if t, ok := ParseDate(raw); ok {
				p.DateStart = &t
			}
		case "dateend":
			if t, ok := ParseDate(raw); ok {
				p.DateEnd = &t
			}
		case "daysofweek":
			if days := parseDays(raw); len(days) > 0 {
				p.DaysOfWeek = days
			}
		case "costcenters":
			p.CostCenters = splitList(raw)
		case "requiredtags":
			p.RequiredTags = splitList(raw)
		case "availabilitymatchcolumn", "matchcolumn":
			p.AvailabilityMatchColumn = raw
		}
	}
	return p
}

// StringParams flattens JSON-decoded parameter values for ParseParams.
// Lists are joined with commas. Values that cannot be rendered as a string
// are dropped so the default applies.
func StringParams(values map[string]any) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if list, ok := v.([]any); ok {
			parts, err := cast.ToStringSliceE(list)
			if err != nil {
				continue
			}
			out[k] = strings.Join(parts, ",")
			continue
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			continue
		}
		out[k] = s
	}
	return out
}

func paramKey(k string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(strings.TrimSpace(k)))
}

func nonNegative(raw string, fallback float64) float64 {
	v, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fallback
	}
	return v
}

func parseDays(raw string) []int {
	var days []int
	for _, part := range splitList(raw) {
		d, err := cast.ToIntE(part)
		if err != nil || d < 0 || d > 6 || slices.Contains(days, d) {
			continue
		}
		days = append(days, d)
	}
	slices.Sort(days)
	return days
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
