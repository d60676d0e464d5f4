package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lac-hong-legacy/codequest_api/dto"
	"github.com/lac-hong-legacy/codequest_api/model"
	"github.com/lac-hong-legacy/codequest_api/shared"
)

type TokenVerifier interface {
	ExtractTokenFromHeader(authHeader string) (string, error)
	VerifyJWTToken(token string) (*dto.TokenClaims, error)
}

type UserResolver interface {
	ResolveUser(userID string) (*model.User, error)
}

type AuthMiddleware struct {
	tokens TokenVerifier
	users  UserResolver
}

func NewAuthMiddleware(tokens TokenVerifier, users UserResolver) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		users:  users,
	}
}

// RequiredAuth rejects the request unless the bearer token is valid and its
// user still exists. The role is read from the stored user, not the token.
func (m *AuthMiddleware) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := m.tokens.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return shared.NewUnauthorizedError(err, "Missing or malformed authorization header")
		}

		user, err := m.authenticate(token)
		if err != nil {
			return err
		}

		c.Locals(shared.UserID, user.ID)
		c.Locals(shared.UserRole, user.Role)
		return c.Next()
	}
}

// OptionalAuth sets the user when a usable token is sent and otherwise lets
// the request through anonymously.
func (m *AuthMiddleware) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := m.tokens.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return c.Next()
		}

		if user, err := m.authenticate(token); err == nil {
			c.Locals(shared.UserID, user.ID)
			c.Locals(shared.UserRole, user.Role)
		}
		return c.Next()
	}
}

func (m *AuthMiddleware) authenticate(token string) (*model.User, error) {
	claims, err := m.tokens.VerifyJWTToken(token)
	if err != nil {
		return nil, shared.NewUnauthorizedError(err, "Invalid or expired token")
	}
	if claims.UserID == "" {
		return nil, shared.NewUnauthorizedError(nil, "Invalid user ID in token")
	}

	return m.users.ResolveUser(claims.UserID)
}
