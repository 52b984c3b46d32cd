package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arnavshah/double-bubble-api-go/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "api_keys.db", cfg.DataPath)
	assert.Equal(t, 24*time.Hour, cfg.ResultTTL)
	assert.Equal(t, models.DefaultParams(), cfg.Analysis)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
port: "9000"
result_ttl: 2h
analysis:
  rest_threshold_hours: 10
  baseline_mode: all
  days_of_week: [1, 5]
  cost_centers: [CC1, CC2]
`)
	t.Setenv("PORT", "9100")
	t.Setenv("DB_ANALYSIS_BASE_RATE", "55")
	t.Setenv("DB_ANALYSIS_MATCH_COLUMN", "unit")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.ResultTTL)
	assert.Equal(t, 10.0, cfg.Analysis.RestThresholdHours)
	assert.Equal(t, models.BaselineAll, cfg.Analysis.BaselineMode)
	assert.Equal(t, 55.0, cfg.Analysis.BaseRate)
	assert.Equal(t, []int{1, 5}, cfg.Analysis.DaysOfWeek)
	assert.Equal(t, []string{"CC1", "CC2"}, cfg.Analysis.CostCenters)
	assert.Equal(t, "unit", cfg.Analysis.AvailabilityMatchColumn)
}

func TestLoad_MalformedAnalysisValueFallsBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_ANALYSIS_REST_THRESHOLD_HOURS", "eight")
	t.Setenv("DB_ANALYSIS_DOUBLE_BUBBLE_MULTIPLIER", "-2")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, 8.0, cfg.Analysis.RestThresholdHours)
	assert.Equal(t, 2.0, cfg.Analysis.DoubleBubbleMultiplier)
}
