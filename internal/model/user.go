package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	FirstName        string     `gorm:"column:first_name"`
	LastName         string     `gorm:"column:last_name"`
	Username         string     `gorm:"column:username;size:30;uniqueIndex;not null"`
	Email            string     `gorm:"column:email;uniqueIndex;not null"`
	Password         string     `gorm:"column:password;not null"`
	Bio              string     `gorm:"column:bio"`
	TelegramChatID   string     `gorm:"column:telegram_chat_id;size:20"`
	IsActive         bool       `gorm:"column:is_active;default:true;not null"`
	IsPremium        bool       `gorm:"column:is_premium;default:false;not null"`
	PremiumExpiresAt *time.Time `gorm:"column:premium_expires_at"`
	LastLogin        time.Time  `gorm:"column:last_login"`
}

// PremiumActive reports whether the premium flag is currently in effect
func (u *User) PremiumActive(now time.Time) bool {
	if !u.IsPremium {
		return false
	}
	return u.PremiumExpiresAt == nil || u.PremiumExpiresAt.After(now)
}
