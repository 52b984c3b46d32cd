package analyzer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/arnavshah/double-bubble-api-go/pkg/models"
)

// ExportHeader is the column contract of the flagged-shift export
var ExportHeader = []string{
	"employee_id",
	"start_datetime",
	"end_datetime",
	"duration_hours",
	"rest_gap_hours",
	"double_bubble",
	"shift_type",
	"deviation_hours",
	"alternates_available",
	"est_savings",
}

const exportTimeLayout = "2006-01-02 15:04"

// WriteCSV writes one row per flagged shift. Floats use two decimals,
// booleans 1/0, and an undefined rest gap or deviation an empty cell.
func WriteCSV(w io.Writer, flagged []*models.Shift) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, s := range flagged {
		record := []string{
			s.EmployeeID,
			s.Start.Format(exportTimeLayout),
			s.End.Format(exportTimeLayout),
			fmt.Sprintf("%.2f", s.DurationHours()),
			optionalHours(s.RestGapHours),
			boolFlag(s.IsDoubleBubble),
			string(s.ShiftType),
			optionalHours(s.DeviationHours),
			strconv.Itoa(len(s.Alternates)),
			fmt.Sprintf("%.2f", s.EstimatedSavings),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row for %s: %w", s.EmployeeID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func optionalHours(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
