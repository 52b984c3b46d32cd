package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/arnavshah/double-bubble-api-go/pkg/database"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var jwtAlgorithm = jwt.SigningMethodHS256

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidKeyFormat = errors.New("invalid key format")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrKeyRevoked       = errors.New("api key revoked")
)

// Claims represents the JWT claims
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Signer issues and checks admin tokens and HMAC API keys
type Signer struct {
	jwtSecret []byte
	apiSecret []byte
	tokenTTL  time.Duration
}

// NewSigner creates a signer from the configured secrets
func NewSigner(jwtSecret, apiMasterSecret string) *Signer {
	return &Signer{
		jwtSecret: []byte(jwtSecret),
		apiSecret: []byte(apiMasterSecret),
		tokenTTL:  24 * time.Hour,
	}
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CreateToken creates a new JWT token for an admin
func (s *Signer) CreateToken(username string) (string, error) {
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwtAlgorithm, claims)
	return token.SignedString(s.jwtSecret)
}

// VerifyToken verifies a JWT token
func (s *Signer) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwtAlgorithm {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateHMACKey creates a signed API key of the form "<userID>.<hex sig>"
func (s *Signer) GenerateHMACKey(userID string) string {
	return userID + "." + s.sign(userID)
}

// VerifyHMACKey validates an HMAC-signed API key and returns its user id
func (s *Signer) VerifyHMACKey(key string) (string, error) {
	userID, signature, ok := strings.Cut(key, ".")
	if !ok || userID == "" || strings.Contains(signature, ".") {
		return "", ErrInvalidKeyFormat
	}

	// Constant-time comparison
	if !hmac.Equal([]byte(signature), []byte(s.sign(userID))) {
		return "", ErrInvalidSignature
	}
	return userID, nil
}

func (s *Signer) sign(userID string) string {
	h := hmac.New(sha256.New, s.apiSecret)
	h.Write([]byte(userID))
	return hex.EncodeToString(h.Sum(nil))
}

// KeyPreview shortens a key for display, e.g. "ops...9f3a"
func KeyPreview(key string) string {
	if len(key) > 8 {
		return key[:3] + "..." + key[len(key)-4:]
	}
	return "****"
}

// TouchAPIKey fetches or creates the record for a verified key and stamps
// its last use. A key that was revoked returns ErrKeyRevoked.
func TouchAPIKey(db *gorm.DB, key, userID string) (*database.APIKey, error) {
	var apiKey database.APIKey
	err := db.Unscoped().Where(database.APIKey{Key: key}).Attrs(database.APIKey{
		Name:       userID,
		KeyPreview: KeyPreview(key),
		RateLimit:  10000,
	}).FirstOrCreate(&apiKey).Error
	if err != nil {
		return nil, err
	}
	if apiKey.DeletedAt.Valid {
		return nil, ErrKeyRevoked
	}

	now := time.Now()
	apiKey.LastUsed = &now
	if err := db.Model(&apiKey).Update("last_used", now).Error; err != nil {
		return nil, err
	}
	return &apiKey, nil
}

// EnsureAdminExists creates the admin user when no admin exists yet.
// It reports whether a user was created.
func EnsureAdminExists(db *gorm.DB, username, password string) (bool, error) {
	var count int64
	if err := db.Model(&database.MasterUser{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	user := database.MasterUser{
		Username:     username,
		PasswordHash: hash,
	}
	if err := db.Create(&user).Error; err != nil {
		return false, err
	}
	return true, nil
}
