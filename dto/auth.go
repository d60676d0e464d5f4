package dto

type RegisterRequest struct {
	Email      string `json:"email" validate:"required,email" example:"user@example.com"`
	Username   string `json:"username" validate:"omitempty,username" example:"johndoe"`
	Password   string `json:"password" validate:"required,min=6,max=72" example:"SecurePass123!"`
	SecretCode string `json:"secret_code,omitempty" example:""`
}

func (r RegisterRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"user@example.com"`
	Password string `json:"password" validate:"required" example:"SecurePass123!"`
}

func (l LoginRequest) Validate() error {
	return GetValidator().Struct(l)
}

type RegisterResponse struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Role        string `json:"role"`
}
