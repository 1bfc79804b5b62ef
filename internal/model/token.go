package model

import (
	"time"

	"gorm.io/gorm"
)

// RefreshToken is the durable half of an issued token pair. The access JWT
// carries the pair's JTI; revoking the row invalidates both tokens.
// Only a SHA-256 digest of the refresh secret is stored.
type RefreshToken struct {
	gorm.Model
	JTI       string     `gorm:"column:jti;size:36;uniqueIndex;not null"`
	TokenHash string     `gorm:"column:token_hash;size:64;uniqueIndex;not null"`
	UserID    uint       `gorm:"column:user_id;index;not null"`
	IssuedAt  time.Time  `gorm:"column:issued_at;not null"`
	ExpiresAt time.Time  `gorm:"column:expires_at;index;not null"`
	Revoked   bool       `gorm:"column:revoked;default:false;not null"`
	RevokedAt *time.Time `gorm:"column:revoked_at"`
}

// Expired reports whether the pair has passed its refresh expiry
func (t *RefreshToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
