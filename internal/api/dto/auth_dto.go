package dto

// RegisterRequest payload for new users.
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=5,max=100"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=6,max=128"`
	ConfirmPassword string `json:"confirm_password" validate:"required,min=6,eqfield=Password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// LoginResponse is returned with the access token header and refresh cookie.
type LoginResponse struct {
	Message string      `json:"message"`
	User    UserSummary `json:"user"`
}

// MessageResponse is a body carrying only a message.
type MessageResponse struct {
	Message string `json:"message"`
}
