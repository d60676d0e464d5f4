package shared

const (
	UserID   = "user_id"
	UserRole = "user_role"

	HeaderAuthorization = "Authorization"
)
