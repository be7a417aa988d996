package auth

import (
	"testing"
	"time"

	"pet_rescue_backend/internal/common"
	"pet_rescue_backend/internal/config"
	"pet_rescue_backend/internal/shared"
	"pet_rescue_backend/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestJWTService(t *testing.T, expiry time.Duration) shared.TokenService {
	cfg := &config.Config{
		JWTSecret: "test-secret-do-not-use-in-production",
		JWTExpiry: expiry,
	}
	return NewJWTService(cfg, zap.NewNop())
}

func testUser() *user.User {
	return &user.User{
		BaseModel: common.BaseModel{ID: uuid.New()},
		Email:     "adopter@example.com",
		Role:      shared.RoleUser,
	}
}

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	service := newTestJWTService(t, time.Hour)
	u := testUser()

	tokenString, expiresAt, err := service.GenerateAccessToken(u)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := service.ValidateToken(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, shared.RoleUser, claims.Role)
	assert.Equal(t, u.ID.String(), claims.Subject)
}

func TestJWTService_RefreshTokenOutlivesAccessToken(t *testing.T) {
	service := newTestJWTService(t, time.Hour)
	u := testUser()

	_, accessExpiry, err := service.GenerateAccessToken(u)
	assert.NoError(t, err)

	refreshToken, refreshExpiry, err := service.GenerateRefreshToken(u)
	assert.NoError(t, err)
	assert.WithinDuration(t, accessExpiry.Add(6*time.Hour), refreshExpiry, 5*time.Second)

	claims, err := service.ParseRefreshToken(refreshToken)
	assert.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTService_ExpiredTokenIsRejected(t *testing.T) {
	service := newTestJWTService(t, -time.Minute)
	u := testUser()

	tokenString, _, err := service.GenerateAccessToken(u)
	assert.NoError(t, err)

	claims, err := service.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_WrongSecretIsRejected(t *testing.T) {
	service := newTestJWTService(t, time.Hour)
	other := NewJWTService(&config.Config{JWTSecret: "a-different-secret", JWTExpiry: time.Hour}, zap.NewNop())

	tokenString, _, err := service.GenerateAccessToken(testUser())
	assert.NoError(t, err)

	claims, err := other.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_UnexpectedSigningMethodIsRejected(t *testing.T) {
	service := newTestJWTService(t, time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	claims, err := service.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_GarbageTokenIsRejected(t *testing.T) {
	service := newTestJWTService(t, time.Hour)

	claims, err := service.ValidateToken("not.a.token")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_ConfiguredRefreshExpiryWins(t *testing.T) {
	service := NewJWTService(&config.Config{
		JWTSecret:        "test-secret-do-not-use-in-production",
		JWTExpiry:        time.Hour,
		JWTRefreshExpiry: 48 * time.Hour,
	}, zap.NewNop())

	_, refreshExpiry, err := service.GenerateRefreshToken(testUser())
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(48*time.Hour), refreshExpiry, 5*time.Second)
}
