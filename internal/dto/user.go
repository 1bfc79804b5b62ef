package dto

import (
	"encoding/json"
	"time"
)

type ProfileResponse struct {
	ID             uint       `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Bio            string     `json:"bio,omitempty"`
	TelegramChatID string     `json:"telegram_chat_id,omitempty"`
	IsPremium      bool       `json:"is_premium"`
	PremiumExpires *time.Time `json:"premium_expires_at,omitempty"`
	LastLogin      time.Time  `json:"last_login"`
	CreatedAt      time.Time  `json:"date_joined"`
}

// AuthEventResponse is one entry of the account's security audit trail
type AuthEventResponse struct {
	Action    string          `json:"action"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type UpdateProfileRequest struct {
	Username       string `json:"username" binding:"omitempty,min=3,max=30"`
	FirstName      string `json:"first_name" binding:"omitempty,max=50"`
	LastName       string `json:"last_name" binding:"omitempty,max=50"`
	Bio            string `json:"bio" binding:"omitempty,max=1000"`
	TelegramChatID string `json:"telegram_chat_id" binding:"omitempty,max=20"`
}
