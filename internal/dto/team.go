package dto

import "time"

type CreateTeamRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

type AddMemberRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"omitempty,max=100"`
}

type MemberResponse struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Order    uint   `json:"order"`
}

type TeamResponse struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	LeaderID  uint             `json:"leader_id"`
	Members   []MemberResponse `json:"members"`
	CreatedAt time.Time        `json:"created_at"`
}
