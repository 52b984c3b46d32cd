package analyzer

import (
	"math"

	"github.com/arnavshah/double-bubble-api-go/pkg/models"
)

// EstimateSavings is the premium paid over base rate for the flagged shift's
// hours, when at least one alternate could have worked it at base rate.
func EstimateSavings(f *models.Shift, alternates []models.Alternate, baseRate, premiumMultiplier float64) float64 {
	if len(alternates) == 0 {
		return 0
	}
	hours := math.Max(0, HoursBetween(f.Start, f.End))
	return (baseRate*premiumMultiplier - baseRate) * hours
}
