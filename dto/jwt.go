package dto

// TokenClaims is what a verified access token resolves to.
type TokenClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}
