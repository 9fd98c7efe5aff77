package dto

import "time"

// LoginRequest defines the credentials payload for /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token. The refresh token travels in
// an http-only cookie, not in the body.
type LoginResponse struct {
	EmployeeID  string    `json:"employeeID"`
	Name        string    `json:"name"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
