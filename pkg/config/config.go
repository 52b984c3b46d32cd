package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/arnavshah/double-bubble-api-go/pkg/analyzer"
	"github.com/arnavshah/double-bubble-api-go/pkg/models"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Port        string `mapstructure:"port"`
	GinMode     string `mapstructure:"gin_mode"`
	LogLevel    string `mapstructure:"log_level"`
	DatabaseURL string `mapstructure:"database_url"`
	DataPath    string `mapstructure:"data_path"`
	RedisURL    string `mapstructure:"redis_url"`

	// Result handles are kept this long
	ResultTTL time.Duration `mapstructure:"result_ttl"`

	// Auth
	JWTSecret       string `mapstructure:"jwt_secret"`
	APIMasterSecret string `mapstructure:"api_master_secret"`
	AdminUsername   string `mapstructure:"admin_username"`
	AdminPassword   string `mapstructure:"admin_password"`

	// Default analysis parameters, overridable per request
	Analysis models.Params `mapstructure:"-"`
}

// envPaths are tried in order; the first .env found is loaded
var envPaths = []string{".env", "../.env", "../../.env"}

// Load reads configuration from an optional file, .env and the environment.
// An empty path searches ./config and . for config.yaml.
func Load(path string) (*Config, error) {
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	v := viper.New()

	defaults := models.DefaultParams()
	v.SetDefault("port", "8000")
	v.SetDefault("log_level", "info")
	v.SetDefault("data_path", "api_keys.db")
	v.SetDefault("result_ttl", "24h")
	v.SetDefault("admin_username", "admin")
	v.SetDefault("admin_password", "admin123")
	v.SetDefault("analysis.rest_threshold_hours", defaults.RestThresholdHours)
	v.SetDefault("analysis.deviation_threshold_hours", defaults.DeviationThresholdHours)
	v.SetDefault("analysis.baseline_mode", string(defaults.BaselineMode))
	v.SetDefault("analysis.base_rate", defaults.BaseRate)
	v.SetDefault("analysis.double_bubble_multiplier", defaults.DoubleBubbleMultiplier)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	_ = v.BindEnv("port", "PORT")
	_ = v.BindEnv("gin_mode", "GIN_MODE")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("data_path", "DATA_PATH")
	_ = v.BindEnv("redis_url", "REDIS_URL")
	_ = v.BindEnv("result_ttl", "RESULT_TTL")
	_ = v.BindEnv("jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("api_master_secret", "API_MASTER_SECRET")
	_ = v.BindEnv("admin_username", "ADMIN_USERNAME")
	_ = v.BindEnv("admin_password", "ADMIN_PASSWORD")
	_ = v.BindEnv("analysis.rest_threshold_hours", "DB_ANALYSIS_REST_THRESHOLD_HOURS")
	_ = v.BindEnv("analysis.deviation_threshold_hours", "DB_ANALYSIS_DEVIATION_THRESHOLD_HOURS")
	_ = v.BindEnv("analysis.baseline_mode", "DB_ANALYSIS_BASELINE_MODE")
	_ = v.BindEnv("analysis.base_rate", "DB_ANALYSIS_BASE_RATE")
	_ = v.BindEnv("analysis.double_bubble_multiplier", "DB_ANALYSIS_DOUBLE_BUBBLE_MULTIPLIER")
	_ = v.BindEnv("analysis.availability_match_column", "DB_ANALYSIS_MATCH_COLUMN")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Analysis = analyzer.ParseParams(analysisValues(v), defaults)
	return &cfg, nil
}

var (
	analysisScalars = []string{
		"rest_threshold_hours",
		"deviation_threshold_hours",
		"baseline_mode",
		"base_rate",
		"double_bubble_multiplier",
		"date_start",
		"date_end",
		"availability_match_column",
	}
	analysisLists = []string{"days_of_week", "cost_centers", "required_tags"}
)

// analysisValues collects the analysis section as strings so malformed
// values fall back to defaults instead of failing the load.
func analysisValues(v *viper.Viper) map[string]string {
	out := make(map[string]string)
	for _, k := range analysisScalars {
		if key := "analysis." + k; v.IsSet(key) {
			out[k] = v.GetString(key)
		}
	}
	for _, k := range analysisLists {
		if key := "analysis." + k; v.IsSet(key) {
			out[k] = strings.Join(v.GetStringSlice(key), ",")
		}
	}
	return out
}
