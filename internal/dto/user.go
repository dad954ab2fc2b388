package dto

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the JSON body for POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=20"`
	Password string `json:"password" binding:"required,min=6"`
}

// UserResponse is returned when user info is needed (e.g. after login).
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// NotificationResponse reports the welcome notification outcome.
type NotificationResponse struct {
	Sent      bool   `json:"sent"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// RegisterResponse is the success envelope for POST /auth/register.
type RegisterResponse struct {
	User         UserResponse         `json:"user"`
	WelcomePost  PostResponse         `json:"welcome_post"`
	Notification NotificationResponse `json:"notification"`
}

// ProfileResponse is the current user with their posts.
type ProfileResponse struct {
	User  UserResponse   `json:"user"`
	Posts []PostResponse `json:"posts"`
}
