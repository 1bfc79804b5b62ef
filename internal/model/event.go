package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuthEvent actions
const (
	EventRegister       = "register"
	EventLogin          = "login"
	EventLogout         = "logout"
	EventPasswordChange = "password_change"
	EventEmailChange    = "email_change"
)

// AuthEvent is an append-only audit record of account security events
type AuthEvent struct {
	ID        uint           `gorm:"primarykey"`
	UserID    uint           `gorm:"column:user_id;index;not null"`
	Action    string         `gorm:"column:action;size:32;index;not null"`
	Metadata  datatypes.JSON `gorm:"column:metadata"`
	CreatedAt time.Time
}
