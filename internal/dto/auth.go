package dto

type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Username        string `json:"username" binding:"required,min=3,max=30"`
	Password        string `json:"password" binding:"required,min=8,max=100"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
	FirstName       string `json:"first_name" binding:"omitempty,max=50"`
	LastName        string `json:"last_name" binding:"omitempty,max=50"`
}

type RegisterResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse keys follow the externally observable contract
type LoginResponse struct {
	Refresh  string `json:"refresh"`
	Access   string `json:"access"`
	Email    string `json:"email"`
	Username string `json:"username"`
	ID       uint   `json:"id"`
}

type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password" binding:"required,min=8"`
	NewPassword        string `json:"new_password" binding:"required,min=8,max=100"`
	NewPasswordConfirm string `json:"new_password_confirm" binding:"required,min=8"`
}

type ChangeEmailRequest struct {
	Email    string `json:"email" binding:"required,email"`
	NewEmail string `json:"new_email" binding:"required,email"`
}

// TokenPair carries a freshly issued access+refresh pair
type TokenPair struct {
	Access    string `json:"access"`
	Refresh   string `json:"refresh"`
	ExpiresIn int    `json:"expires_in"` // access token expiry in seconds
}
