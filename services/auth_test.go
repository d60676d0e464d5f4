package services

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lac-hong-legacy/codequest_api/config"
	"github.com/lac-hong-legacy/codequest_api/dto"
	"github.com/lac-hong-legacy/codequest_api/model"
)

const testSecret = "test-secret"

func newJWT(t *testing.T, ttl time.Duration) *JWTService {
	t.Helper()
	svc := NewJWTService(config.Auth{JWTSecret: testSecret, AccessTokenTTL: ttl})
	require.NoError(t, svc.Start())
	return svc
}

func newAuthService(t *testing.T, db DatabaseProvider, adminCode string) (*AuthService, *JWTService) {
	t.Helper()
	tokens := newJWT(t, time.Hour)
	svc := NewAuthService(config.Auth{AdminSecretCode: adminCode, AccessTokenTTL: time.Hour})
	svc.wire(db, tokens)
	return svc, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc, tokens := newAuthService(t, db, "")

	reg, err := svc.Register(dto.RegisterRequest{Email: "Ada@Example.com", Username: "ada", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", reg.Email)
	assert.Equal(t, "ada", reg.Username)
	assert.Equal(t, model.RoleUser, reg.Role)
	assert.NotEmpty(t, reg.UserID)

	stored := loadUser(t, db, reg.UserID)
	assert.NotEqual(t, "secret123", stored.Password)

	login, err := svc.Login(dto.LoginRequest{Email: "ADA@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", login.TokenType)
	assert.Equal(t, int64(3600), login.ExpiresIn)
	assert.Equal(t, model.RoleUser, login.Role)

	claims, err := tokens.VerifyJWTToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, claims.UserID)
	assert.Equal(t, model.RoleUser, claims.Role)

	assert.NotNil(t, loadUser(t, db, reg.UserID).LastLogin)
}

func TestRegisterConflicts(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAuthService(t, db, "")

	_, err := svc.Register(dto.RegisterRequest{Email: "a@x.io", Username: "alpha", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(dto.RegisterRequest{Email: "A@X.io", Username: "other", Password: "secret123"})
	appErr := requireStatus(t, err, http.StatusConflict)
	assert.Equal(t, "This email is already registered", appErr.Message)

	_, err = svc.Register(dto.RegisterRequest{Email: "b@x.io", Username: "alpha", Password: "secret123"})
	appErr = requireStatus(t, err, http.StatusConflict)
	assert.Equal(t, "Username is already taken", appErr.Message)
}

func TestRegisterDerivesUsername(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAuthService(t, db, "")

	first, err := svc.Register(dto.RegisterRequest{Email: "john.doe@x.io", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "john_doe", first.Username)

	second, err := svc.Register(dto.RegisterRequest{Email: "john.doe@y.io", Password: "secret123"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(second.Username, "john_doe_"), second.Username)
	assert.NotEqual(t, first.Username, second.Username)

	short, err := svc.Register(dto.RegisterRequest{Email: "jo@x.io", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "user_jo", short.Username)
}

func TestRegisterAdminSecretCode(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAuthService(t, db, "let-me-in")

	admin, err := svc.Register(dto.RegisterRequest{Email: "root@x.io", Password: "secret123", SecretCode: "let-me-in"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)

	user, err := svc.Register(dto.RegisterRequest{Email: "guess@x.io", Password: "secret123", SecretCode: "wrong"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)

	noCode, _ := newAuthService(t, db, "")
	blank, err := noCode.Register(dto.RegisterRequest{Email: "blank@x.io", Password: "secret123", SecretCode: ""})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, blank.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAuthService(t, db, "")

	_, err := svc.Register(dto.RegisterRequest{Email: "a@x.io", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Login(dto.LoginRequest{Email: "a@x.io", Password: "wrong-pass"})
	appErr := requireStatus(t, err, http.StatusUnauthorized)
	assert.Equal(t, "Invalid email or password", appErr.Message)

	_, err = svc.Login(dto.LoginRequest{Email: "nobody@x.io", Password: "secret123"})
	appErr = requireStatus(t, err, http.StatusUnauthorized)
	assert.Equal(t, "Invalid email or password", appErr.Message)
}

func TestResolveUser(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAuthService(t, db, "")
	user := addUser(t, db, "a@x.io", 0, 0)

	found, err := svc.ResolveUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)

	_, err = svc.ResolveUser("gone")
	requireStatus(t, err, http.StatusNotFound)
}

func TestJWTRejectsExpiredAndForeignTokens(t *testing.T) {
	svc := newJWT(t, time.Hour)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, CustomClaims{
		UserID: "u1",
		Role:   model.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "CodeQuest",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.VerifyJWTToken(signed)
	assert.ErrorIs(t, err, ErrTokenExpired)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, CustomClaims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "CodeQuest",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err = foreign.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = svc.VerifyJWTToken(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.VerifyJWTToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExtractTokenFromHeader(t *testing.T) {
	svc := newJWT(t, time.Hour)

	token, err := svc.ExtractTokenFromHeader("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = svc.ExtractTokenFromHeader("")
	assert.ErrorIs(t, err, ErrMissingAuthHeader)

	_, err = svc.ExtractTokenFromHeader("Basic abc")
	assert.ErrorIs(t, err, ErrBadAuthHeader)

	_, err = svc.ExtractTokenFromHeader("Bearer ")
	assert.Error(t, err)
}

func TestJWTStartRequiresSecret(t *testing.T) {
	svc := NewJWTService(config.Auth{})
	assert.ErrorIs(t, svc.Start(), config.ErrMissingJWTSecret)
}
