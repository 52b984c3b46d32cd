package auth

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arnavshah/double-bubble-api-go/pkg/database"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("", filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	return db
}

func TestHMACKeyRoundTrip(t *testing.T) {
	s := NewSigner("jwt", "master")

	key := s.GenerateHMACKey("payroll")
	require.True(t, strings.HasPrefix(key, "payroll."))

	userID, err := s.VerifyHMACKey(key)
	require.NoError(t, err)
	assert.Equal(t, "payroll", userID)
}

func TestVerifyHMACKey_Rejects(t *testing.T) {
	s := NewSigner("jwt", "master")
	key := s.GenerateHMACKey("payroll")

	_, err := s.VerifyHMACKey("payroll")
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)

	_, err = s.VerifyHMACKey("." + strings.Split(key, ".")[1])
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)

	_, err = s.VerifyHMACKey("ops." + strings.Split(key, ".")[1])
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = NewSigner("jwt", "other").VerifyHMACKey(key)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokenRoundTrip(t *testing.T) {
	s := NewSigner("jwt", "master")

	token, err := s.CreateToken("admin")
	require.NoError(t, err)

	claims, err := s.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)

	_, err = NewSigner("other", "master").VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyToken_RejectsExpiredAndForeignAlgorithm(t *testing.T) {
	s := NewSigner("jwt", "master")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Username: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("jwt"))
	require.NoError(t, err)
	_, err = s.VerifyToken(signed)
	assert.Error(t, err)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{Username: "admin"})
	signed, err = hs512.SignedString([]byte("jwt"))
	require.NoError(t, err)
	_, err = s.VerifyToken(signed)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("guess", hash))
}

func TestKeyPreview(t *testing.T) {
	assert.Equal(t, "pay...cdef", KeyPreview("payroll.0123456789abcdef"))
	assert.Equal(t, "****", KeyPreview("short"))
}

func TestTouchAPIKey(t *testing.T) {
	db := testDB(t)
	key := NewSigner("jwt", "master").GenerateHMACKey("ops")

	first, err := TouchAPIKey(db, key, "ops")
	require.NoError(t, err)
	assert.Equal(t, "ops", first.Name)
	assert.Equal(t, 10000, first.RateLimit)
	assert.Equal(t, KeyPreview(key), first.KeyPreview)
	require.NotNil(t, first.LastUsed)

	second, err := TouchAPIKey(db, key, "ops")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&database.APIKey{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTouchAPIKey_RefusesRevokedKey(t *testing.T) {
	db := testDB(t)
	key := NewSigner("jwt", "master").GenerateHMACKey("ops")

	first, err := TouchAPIKey(db, key, "ops")
	require.NoError(t, err)
	require.NoError(t, db.Delete(&database.APIKey{}, first.ID).Error)

	_, err = TouchAPIKey(db, key, "ops")
	assert.ErrorIs(t, err, ErrKeyRevoked)

	var count int64
	require.NoError(t, db.Unscoped().Model(&database.APIKey{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEnsureAdminExists(t *testing.T) {
	db := testDB(t)

	created, err := EnsureAdminExists(db, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureAdminExists(db, "admin", "admin123")
	require.NoError(t, err)
	assert.False(t, created)

	var user database.MasterUser
	require.NoError(t, db.First(&user).Error)
	assert.True(t, CheckPasswordHash("admin123", user.PasswordHash))
}
