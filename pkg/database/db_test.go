package database

import (
	"bytes"
	"log"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOpen_MissingRowIsNotLogged(t *testing.T) {
	var buf bytes.Buffer
	db, err := open("", filepath.Join(t.TempDir(), "quiet.db"), log.New(&buf, "", 0))
	require.NoError(t, err)
	buf.Reset()

	err = db.Where("key_id = ? AND date = ?", 1, "2024-03-04").First(&APIUsage{}).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	err = db.Raw("SELECT * FROM no_such_table").Scan(&[]APIUsage{}).Error
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "no_such_table")
}

func TestAPIKey_DeleteIsSoft(t *testing.T) {
	db, err := Open("", filepath.Join(t.TempDir(), "keys.db"))
	require.NoError(t, err)
	key := APIKey{Key: "ops.abc", Name: "ops"}
	require.NoError(t, db.Create(&key).Error)

	require.NoError(t, db.Delete(&APIKey{}, key.ID).Error)

	var live, all int64
	require.NoError(t, db.Model(&APIKey{}).Count(&live).Error)
	require.NoError(t, db.Unscoped().Model(&APIKey{}).Count(&all).Error)
	assert.Equal(t, int64(0), live)
	assert.Equal(t, int64(1), all)
}
