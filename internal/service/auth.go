package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/crewhub/accounts/internal/dto"
	apperrors "github.com/crewhub/accounts/internal/errors"
	"github.com/crewhub/accounts/internal/model"
	"github.com/crewhub/accounts/internal/repository"
	ctxutil "github.com/crewhub/accounts/pkg/context"
	"github.com/crewhub/accounts/pkg/logger"
	"github.com/crewhub/accounts/pkg/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuthService orchestrates registration, authentication and credential
// changes on top of the credential store and the token service.
type AuthService struct {
	users  *repository.UserRepository
	events *repository.EventRepository
	tokens *TokenService
	policy *validation.PasswordPolicy
}

func NewAuthService(users *repository.UserRepository, events *repository.EventRepository, tokens *TokenService, policy *validation.PasswordPolicy) *AuthService {
	return &AuthService{
		users:  users,
		events: events,
		tokens: tokens,
		policy: policy,
	}
}

// Register creates a new account. The password is stored only as a bcrypt
// hash; email and username uniqueness is pre-checked for friendly errors and
// enforced by constraints for races.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Register")

	logger.InfoWithContext(ctx, "Registering new user").
		String("email", req.Email).
		String("username", req.Username).
		Log()

	if req.Password != req.PasswordConfirm {
		return nil, apperrors.ErrPasswordMismatch
	}

	if err := s.policy.Validate(req.Password, req.Username, req.Email); err != nil {
		logger.WarnWithContext(ctx, "Password rejected by policy").
			String("email", req.Email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrWeakPassword, err)
	}

	email := normalizeEmail(req.Email)

	if err := s.checkEmailAvailable(ctx, email); err != nil {
		return nil, err
	}
	if err := s.checkUsernameAvailable(ctx, req.Username); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to hash password").
			String("email", email).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Username:  strings.TrimSpace(req.Username),
		Email:     email,
		Password:  passwordHash,
		IsActive:  true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent registration; re-check which
			// constraint fired so the caller gets a field-scoped error.
			if emailErr := s.checkEmailAvailable(ctx, email); emailErr != nil {
				return nil, emailErr
			}
			return nil, apperrors.ErrUsernameExists
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.recordEvent(ctx, user.ID, model.EventRegister, map[string]any{"email": user.Email})

	return &dto.RegisterResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

// Login verifies credentials and issues a token pair. Unknown email and
// wrong password produce the same failure so neither factor leaks.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Login")

	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.InfoWithContext(ctx, "Login failed, user not found").
				String("email", email).
				Log()
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if !checkPassword(user.Password, password) {
		logger.WarnWithContext(ctx, "Login failed, incorrect password").
			Uint("user_id", user.ID).
			Log()
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		logger.WarnWithContext(ctx, "Login rejected, account inactive").
			Uint("user_id", user.ID).
			Log()
		return nil, apperrors.ErrAccountInactive
	}

	pair, err := s.tokens.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.WarnWithContext(ctx, "Failed to update last login").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		// Not fatal
	}

	s.recordEvent(ctx, user.ID, model.EventLogin, nil)

	logger.InfoWithContext(ctx, "User logged in").
		Uint("user_id", user.ID).
		String("email", user.Email).
		Log()

	return &dto.LoginResponse{
		Refresh:  pair.Refresh,
		Access:   pair.Access,
		Email:    user.Email,
		Username: user.Username,
		ID:       user.ID,
	}, nil
}

// Logout revokes the presented refresh token. Known token failures map to
// InvalidToken; anything else is recovered here and surfaced as a generic
// failure carrying the message, per the operation-boundary contract.
func (s *AuthService) Logout(ctx context.Context, userID uint, refreshToken string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "Logout")

	if refreshToken == "" {
		return apperrors.ErrMissingToken
	}

	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		if errors.Is(err, apperrors.ErrInvalidToken) {
			return apperrors.ErrInvalidToken
		}
		logger.ErrorWithContext(ctx, "Unexpected failure during logout").
			Uint("user_id", userID).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.recordEvent(ctx, userID, model.EventLogout, nil)

	logger.InfoWithContext(ctx, "User logged out").
		Uint("user_id", userID).
		Log()

	return nil
}

// ChangePassword overwrites the stored hash after verifying the old
// password. Outstanding token pairs remain valid.
func (s *AuthService) ChangePassword(ctx context.Context, user *model.User, req *dto.ChangePasswordRequest) error {
	ctx = ctxutil.WithOperation(ctx, "service", "ChangePassword")

	if !checkPassword(user.Password, req.OldPassword) {
		logger.WarnWithContext(ctx, "Password change rejected, wrong old password").
			Uint("user_id", user.ID).
			Log()
		return apperrors.ErrIncorrectPassword
	}

	if req.NewPassword != req.NewPasswordConfirm {
		return apperrors.ErrPasswordMismatch
	}

	if err := s.policy.Validate(req.NewPassword, user.Username, user.Email); err != nil {
		return apperrors.WrapError(apperrors.ErrWeakPassword, err)
	}

	passwordHash, err := hashPassword(req.NewPassword)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.recordEvent(ctx, user.ID, model.EventPasswordChange, nil)

	logger.InfoWithContext(ctx, "Password changed").
		Uint("user_id", user.ID).
		Log()

	return nil
}

// ChangeEmail mutates the account email. The caller must present the current
// email, guarding against stale client state.
func (s *AuthService) ChangeEmail(ctx context.Context, user *model.User, currentEmail, newEmail string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "ChangeEmail")

	if normalizeEmail(currentEmail) != user.Email {
		return apperrors.ErrEmailMismatch
	}

	newEmail = normalizeEmail(newEmail)

	if err := s.checkEmailAvailable(ctx, newEmail); err != nil {
		return err
	}

	if err := s.users.UpdateEmail(ctx, user.ID, newEmail); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrEmailExists
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.recordEvent(ctx, user.ID, model.EventEmailChange, map[string]any{
		"old_email": user.Email,
		"new_email": newEmail,
	})

	logger.InfoWithContext(ctx, "Email changed").
		Uint("user_id", user.ID).
		Log()

	return nil
}

// GetUser loads a user by ID for the auth middleware and profile reads
func (s *AuthService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "GetUser")

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	return user, nil
}

// RecentEvents returns the newest entries of the user's security audit trail
func (s *AuthService) RecentEvents(ctx context.Context, userID uint, limit int) ([]dto.AuthEventResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "RecentEvents")

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	events, err := s.events.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	out := make([]dto.AuthEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, dto.AuthEventResponse{
			Action:    e.Action,
			Metadata:  json.RawMessage(e.Metadata),
			CreatedAt: e.CreatedAt,
		})
	}
	return out, nil
}

// UpdateProfile mutates profile fields; only non-empty fields change
func (s *AuthService) UpdateProfile(ctx context.Context, user *model.User, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "UpdateProfile")

	if req.Username != "" && req.Username != user.Username {
		if err := s.checkUsernameAvailable(ctx, req.Username); err != nil {
			return nil, err
		}
		user.Username = strings.TrimSpace(req.Username)
	}
	if req.FirstName != "" {
		user.FirstName = strings.TrimSpace(req.FirstName)
	}
	if req.LastName != "" {
		user.LastName = strings.TrimSpace(req.LastName)
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.TelegramChatID != "" {
		user.TelegramChatID = req.TelegramChatID
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUsernameExists
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := Profile(user)
	return &resp, nil
}

// Profile projects a user row into the profile response
func Profile(user *model.User) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Bio:            user.Bio,
		TelegramChatID: user.TelegramChatID,
		IsPremium:      user.PremiumActive(time.Now()),
		PremiumExpires: user.PremiumExpiresAt,
		LastLogin:      user.LastLogin,
		CreatedAt:      user.CreatedAt,
	}
}

func (s *AuthService) checkEmailAvailable(ctx context.Context, email string) error {
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return apperrors.ErrEmailExists
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return apperrors.WrapError(apperrors.ErrInternal, err)
}

func (s *AuthService) checkUsernameAvailable(ctx context.Context, username string) error {
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return apperrors.ErrUsernameExists
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return apperrors.WrapError(apperrors.ErrInternal, err)
}

// recordEvent appends to the audit trail; failures are logged, not surfaced
func (s *AuthService) recordEvent(ctx context.Context, userID uint, action string, metadata map[string]any) {
	event := &model.AuthEvent{
		UserID: userID,
		Action: action,
	}
	if metadata != nil {
		if raw, err := json.Marshal(metadata); err == nil {
			event.Metadata = datatypes.JSON(raw)
		}
	}
	_ = s.events.Create(ctx, event)
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func checkPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
