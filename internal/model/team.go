package model

import "gorm.io/gorm"

type Team struct {
	gorm.Model
	Name     string       `gorm:"column:name;size:100;uniqueIndex;not null"`
	LeaderID uint         `gorm:"column:leader_id;index;not null"`
	Members  []Membership `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
}

// Membership links a user to a team. A user belongs to a team at most once.
type Membership struct {
	gorm.Model
	TeamID uint   `gorm:"column:team_id;uniqueIndex:idx_memberships_team_user;not null"`
	UserID uint   `gorm:"column:user_id;uniqueIndex:idx_memberships_team_user;not null"`
	Role   string `gorm:"column:role;size:100;not null"`
	Order  uint   `gorm:"column:position;not null"`
}
