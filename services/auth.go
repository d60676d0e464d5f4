package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/codequest_api/config"
	"github.com/lac-hong-legacy/codequest_api/dto"
	"github.com/lac-hong-legacy/codequest_api/model"
	"github.com/lac-hong-legacy/codequest_api/services/repositories"
	"github.com/lac-hong-legacy/codequest_api/shared"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenIssuer signs access tokens for a user.
type TokenIssuer interface {
	ToJWT(userID, role string) (string, error)
}

type AuthService struct {
	context.DefaultService

	users  *repositories.UserRepository
	tokens TokenIssuer
	dbSvc  DatabaseProvider

	adminSecretCode string
	tokenTTL        time.Duration
}

const AUTH_SVC = "auth_svc"

var usernameCleaner = regexp.MustCompile(`[^a-zA-Z0-9_]`)

func NewAuthService(cfg config.Auth) *AuthService {
	return &AuthService{adminSecretCode: cfg.AdminSecretCode, tokenTTL: cfg.AccessTokenTTL}
}

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	jwtSvc := svc.Service(JWT_SVC).(*JWTService)
	svc.wire(svc.Service(DATABASE_SVC).(DatabaseProvider), jwtSvc)
	if svc.tokenTTL <= 0 {
		svc.tokenTTL = jwtSvc.AccessTokenDuration
	}
	return nil
}

func (svc *AuthService) wire(db DatabaseProvider, tokens TokenIssuer) {
	svc.dbSvc = db
	svc.users = repositories.NewUserRepository(db.Db())
	svc.tokens = tokens
}

func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := svc.users.GetUserByEmail(email); err == nil {
		return nil, shared.NewConflictError(nil, "This email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to register user")
	}

	username := strings.TrimSpace(req.Username)
	if username != "" {
		if _, err := svc.users.GetUserByUsername(username); err == nil {
			return nil, shared.NewConflictError(nil, "Username is already taken")
		}
	} else {
		username = svc.deriveUsername(email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to hash password")
	}

	role := model.RoleUser
	if svc.isAdminCode(req.SecretCode) {
		role = model.RoleAdmin
	}

	user := &model.User{
		Email:    email,
		Username: username,
		Password: string(hashedPassword),
		Role:     role,
	}
	if err := svc.users.CreateUser(user); err != nil {
		if isUniqueViolation(err) {
			return nil, shared.NewConflictError(err, "This email is already registered")
		}
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to register user")
	}

	log.WithFields(log.Fields{"user_id": user.ID, "role": role}).Info("User registered")

	return &dto.RegisterResponse{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

func (svc *AuthService) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := svc.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewUnauthorizedError(nil, "Invalid email or password")
		}
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to login")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, shared.NewUnauthorizedError(nil, "Invalid email or password")
	}

	token, err := svc.tokens.ToJWT(user.ID, user.Role)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to issue token")
	}

	if err := svc.users.UpdateLastLogin(user.ID, time.Now()); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Warn("Failed to update last login")
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(svc.tokenTTL.Seconds()),
		Role:        user.Role,
	}, nil
}

// ResolveUser loads the account a verified token points at.
func (svc *AuthService) ResolveUser(userID string) (*model.User, error) {
	user, err := svc.users.GetUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "User not found")
		}
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to load user")
	}
	return user, nil
}

func (svc *AuthService) isAdminCode(code string) bool {
	if svc.adminSecretCode == "" || code == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(code), []byte(svc.adminSecretCode)) == 1
}

// deriveUsername builds a free username from the email's local part.
func (svc *AuthService) deriveUsername(email string) string {
	base := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		base = email[:at]
	}
	base = usernameCleaner.ReplaceAllString(base, "_")
	if len(base) < 3 {
		base = "user_" + base
	}
	if len(base) > 24 {
		base = base[:24]
	}

	candidate := base
	for i := 0; i < 5; i++ {
		if _, err := svc.users.GetUserByUsername(candidate); errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate
		}
		id := repositories.NewID()
		candidate = fmt.Sprintf("%s_%s", base, id[len(id)-5:])
	}
	return candidate
}
