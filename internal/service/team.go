package service

import (
	"context"
	"errors"
	"strings"

	"github.com/crewhub/accounts/internal/constants"
	"github.com/crewhub/accounts/internal/dto"
	apperrors "github.com/crewhub/accounts/internal/errors"
	"github.com/crewhub/accounts/internal/model"
	"github.com/crewhub/accounts/internal/repository"
	ctxutil "github.com/crewhub/accounts/pkg/context"
	"github.com/crewhub/accounts/pkg/logger"
	"gorm.io/gorm"
)

// TeamService enforces the team membership invariants: unique team names,
// leader-only composition changes, one membership per (team, user), and a
// leader who is always a member.
type TeamService struct {
	teams *repository.TeamRepository
	users *repository.UserRepository
}

func NewTeamService(teams *repository.TeamRepository, users *repository.UserRepository) *TeamService {
	return &TeamService{teams: teams, users: users}
}

// CreateTeam creates a team with the requester as leader and first member
func (s *TeamService) CreateTeam(ctx context.Context, leader *model.User, req *dto.CreateTeamRequest) (*dto.TeamResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "CreateTeam")

	team := &model.Team{
		Name:     strings.TrimSpace(req.Name),
		LeaderID: leader.ID,
	}
	leaderMembership := &model.Membership{
		UserID: leader.ID,
		Role:   constants.RoleLeader,
		Order:  0,
	}

	if err := s.teams.Create(ctx, team, leaderMembership); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrTeamNameExists
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// Reload so the response carries the leader membership
	return s.GetTeam(ctx, team.ID)
}

// GetTeam returns a team with its members in join order
func (s *TeamService) GetTeam(ctx context.Context, id uint) (*dto.TeamResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetTeam")

	team, err := s.loadTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.buildTeamResponse(ctx, team)
}

// AddMember inserts a membership for target. Authorization is a pure
// precondition check; the mutation happens only after it passes.
func (s *TeamService) AddMember(ctx context.Context, teamID uint, requester *model.User, req *dto.AddMemberRequest) (*dto.MemberResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "AddMember")

	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if err := s.requireLeader(ctx, team, requester); err != nil {
		return nil, err
	}

	target, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	// Friendly pre-check; the composite unique index still decides races
	if _, err := s.teams.GetMembership(ctx, team.ID, target.ID); err == nil {
		return nil, apperrors.ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = constants.RoleMember
	}

	membership := &model.Membership{
		TeamID: team.ID,
		UserID: target.ID,
		Role:   role,
	}

	if err := s.teams.AddMember(ctx, membership); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrAlreadyMember
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return &dto.MemberResponse{
		UserID:   target.ID,
		Username: target.Username,
		Role:     membership.Role,
		Order:    membership.Order,
	}, nil
}

// RemoveMember deletes target's membership. The leader cannot be removed;
// that would break the leader-is-a-member invariant.
func (s *TeamService) RemoveMember(ctx context.Context, teamID uint, requester *model.User, targetUserID uint) error {
	ctx = ctxutil.WithOperation(ctx, "service", "RemoveMember")

	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return err
	}

	if err := s.requireLeader(ctx, team, requester); err != nil {
		return err
	}

	if targetUserID == team.LeaderID {
		return apperrors.ErrLeaderRemoval
	}

	affected, err := s.teams.RemoveMember(ctx, team.ID, targetUserID)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if affected == 0 {
		return apperrors.ErrNotMember
	}

	logger.InfoWithContext(ctx, "Team member removed").
		Uint("team_id", team.ID).
		Uint("user_id", targetUserID).
		Log()

	return nil
}

// DeleteTeam destroys the team and cascades its membership rows
func (s *TeamService) DeleteTeam(ctx context.Context, teamID uint, requester *model.User) error {
	ctx = ctxutil.WithOperation(ctx, "service", "DeleteTeam")

	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return err
	}

	if err := s.requireLeader(ctx, team, requester); err != nil {
		return err
	}

	if err := s.teams.Delete(ctx, team.ID); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	return nil
}

func (s *TeamService) loadTeam(ctx context.Context, id uint) (*model.Team, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return team, nil
}

// requireLeader is the sole authorization gate for composition changes
func (s *TeamService) requireLeader(ctx context.Context, team *model.Team, requester *model.User) error {
	if requester.ID != team.LeaderID {
		logger.WarnWithContext(ctx, "Team mutation rejected, requester is not the leader").
			Uint("team_id", team.ID).
			Uint("requester_id", requester.ID).
			Uint("leader_id", team.LeaderID).
			Log()
		return apperrors.ErrNotLeader
	}
	return nil
}

func (s *TeamService) buildTeamResponse(ctx context.Context, team *model.Team) (*dto.TeamResponse, error) {
	members := make([]dto.MemberResponse, 0, len(team.Members))
	for _, m := range team.Members {
		username := ""
		if user, err := s.users.GetByID(ctx, m.UserID); err == nil {
			username = user.Username
		}
		members = append(members, dto.MemberResponse{
			UserID:   m.UserID,
			Username: username,
			Role:     m.Role,
			Order:    m.Order,
		})
	}

	return &dto.TeamResponse{
		ID:        team.ID,
		Name:      team.Name,
		LeaderID:  team.LeaderID,
		Members:   members,
		CreatedAt: team.CreatedAt,
	}, nil
}
