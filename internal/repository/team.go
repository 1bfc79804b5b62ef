package repository

import (
	"context"

	"github.com/crewhub/accounts/internal/model"
	ctxutil "github.com/crewhub/accounts/pkg/context"
	"github.com/crewhub/accounts/pkg/logger"
	"gorm.io/gorm"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create inserts the team and its leader's membership atomically.
// The leader-must-be-a-member invariant holds from the first commit.
func (r *TeamRepository) Create(ctx context.Context, team *model.Team, leaderMembership *model.Membership) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}
		leaderMembership.TeamID = team.ID
		return tx.Create(leaderMembership).Error
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to create team").
			String("name", team.Name).
			Uint("leader_id", team.LeaderID).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Team created").
		String("name", team.Name).
		Uint("team_id", team.ID).
		Uint("leader_id", team.LeaderID).
		Log()

	return nil
}

// GetByID loads a team with its members in join order
func (r *TeamRepository) GetByID(ctx context.Context, id uint) (*model.Team, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByID")

	var team model.Team
	result := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&team)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Failed to get team by ID").
			Uint("team_id", id).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &team, nil
}

// AddMember appends a membership row. The (team_id, user_id) unique index
// decides races between concurrent adds; duplicates surface as
// gorm.ErrDuplicatedKey. The position is assigned inside the transaction.
func (r *TeamRepository) AddMember(ctx context.Context, membership *model.Membership) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "AddMember")

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxOrder *uint
		if err := tx.Model(&model.Membership{}).
			Where("team_id = ?", membership.TeamID).
			Select("MAX(position)").
			Scan(&maxOrder).Error; err != nil {
			return err
		}
		if maxOrder != nil {
			membership.Order = *maxOrder + 1
		}
		return tx.Create(membership).Error
	})
	if err != nil {
		logger.DebugWithContext(ctx, "Failed to add team member").
			Uint("team_id", membership.TeamID).
			Uint("user_id", membership.UserID).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Team member added").
		Uint("team_id", membership.TeamID).
		Uint("user_id", membership.UserID).
		String("role", membership.Role).
		Log()

	return nil
}

// RemoveMember deletes the membership row; the returned count is 0 when the
// user was not a member.
func (r *TeamRepository) RemoveMember(ctx context.Context, teamID, userID uint) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "RemoveMember")

	// Hard delete: a soft-deleted row would keep the (team_id, user_id)
	// unique index occupied and block a later re-add.
	result := r.db.WithContext(ctx).Unscoped().
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&model.Membership{})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to remove team member").
			Uint("team_id", teamID).
			Uint("user_id", userID).
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func (r *TeamRepository) GetMembership(ctx context.Context, teamID, userID uint) (*model.Membership, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetMembership")

	var membership model.Membership
	result := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&membership)
	if result.Error != nil {
		return nil, result.Error
	}

	return &membership, nil
}

// Delete removes the team and all of its membership rows (ownership cascade)
func (r *TeamRepository) Delete(ctx context.Context, teamID uint) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Delete")

	// Hard delete so the team name and membership slots free up immediately
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("team_id = ?", teamID).Delete(&model.Membership{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Team{}, teamID).Error
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to delete team").
			Uint("team_id", teamID).
			Err(err).
			Log()
		return err
	}

	logger.InfoWithContext(ctx, "Team deleted").
		Uint("team_id", teamID).
		Log()

	return nil
}
