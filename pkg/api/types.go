package api

import "time"

// UserView is the JSON projection of a user returned by the endpoints.
// Password hashes and reset tokens never leave the server.
type UserView struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	FirstName   string    `json:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StatusResponse is returned by GET /api/v1/status.
type StatusResponse struct {
	Status string `json:"status"`
}

// StatsResponse is returned by GET /api/v1/stats.
type StatsResponse struct {
	Users int `json:"users"`
}

// MessageResponse carries an email and a human readable message,
// as returned by the account endpoints.
type MessageResponse struct {
	Email   string `json:"email,omitempty"`
	Message string `json:"message"`
}

// ResetTokenResponse is returned by POST /reset_password.
type ResetTokenResponse struct {
	Email      string `json:"email"`
	ResetToken string `json:"reset_token"`
}

// ProfileResponse is returned by GET /profile.
type ProfileResponse struct {
	Email string `json:"email"`
}
