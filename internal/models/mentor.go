package models

import "time"

// Mentor is an authenticated account holder who owns mentee records and,
// transitively, their tasks, uploads, and meetings.
type Mentor struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// MentorSession represents an authenticated mentor session
type MentorSession struct {
	MentorID  int64  `json:"mentor_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	ExpiresAt int64  `json:"exp"`
	IssuedAt  int64  `json:"iat"`
}

// RegisterMentorRequest is the payload for creating a mentor account
type RegisterMentorRequest struct {
	Email           string `json:"email" binding:"required,email,max=255"`
	Name            string `json:"name" binding:"required,max=255"`
	Password        string `json:"password" binding:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

// LoginRequest is the payload for mentor login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=72"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Success bool           `json:"success"`
	Session *MentorSession `json:"session,omitempty"`
}

// LogoutResponse is returned after logout
type LogoutResponse struct {
	Success bool `json:"success"`
}

// SubmitTokenRequest is the payload for the mentee token-entry endpoint
type SubmitTokenRequest struct {
	Token string `form:"token" json:"token" binding:"required,max=32"`
}
