package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// APIKey represents the api_keys table. Revoked keys are soft deleted so
// their signature stays on record and is refused.
type APIKey struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Key        string         `gorm:"unique;not null" json:"-"`
	KeyPreview string         `json:"key_preview"`
	Name       string         `gorm:"not null" json:"name"`
	RateLimit  int            `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time      `json:"created_at"`
	LastUsed   *time.Time     `json:"last_used"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// APIUsage represents the api_usage table, one row per key per day
type APIUsage struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	KeyID          uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date           string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount   int    `gorm:"default:0" json:"request_count"`
	TotalShifts    int    `gorm:"default:0" json:"total_shifts"`
	TotalEmployees int    `gorm:"default:0" json:"total_employees"`
	TotalFlagged   int    `gorm:"default:0" json:"total_flagged"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Open connects to Postgres when dsn is set, otherwise to the SQLite file at
// dataPath, and migrates the schema.
func Open(dsn, dataPath string) (*gorm.DB, error) {
	return open(dsn, dataPath, log.New(os.Stdout, "\r\n", log.LstdFlags))
}

// newLogger reports slow queries and errors. Missing rows are an expected
// lookup outcome and stay quiet.
func newLogger(w logger.Writer) logger.Interface {
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func open(dsn, dataPath string, w logger.Writer) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	cfg := &gorm.Config{Logger: newLogger(w)}
	if dsn != "" {
		cfg.PrepareStmt = false
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), cfg)
	} else {
		if dataPath == "" {
			dataPath = "api_keys.db"
		}
		db, err = gorm.Open(sqlite.Open(dataPath), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(&APIKey{}, &APIUsage{}, &MasterUser{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return db, nil
}
