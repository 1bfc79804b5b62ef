package service

import (
	"context"
	"errors"
	"testing"

	"github.com/crewhub/accounts/internal/dto"
	apperrors "github.com/crewhub/accounts/internal/errors"
	"github.com/crewhub/accounts/internal/model"
	"gorm.io/gorm"
)

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:           "alice@example.com",
		Username:        "alice",
		Password:        "str0ng-Passw0rd!",
		PasswordConfirm: "str0ng-Passw0rd!",
		FirstName:       "Alice",
		LastName:        "Cooper",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.auth.Register(ctx, registerRequest())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if resp.ID == 0 {
		t.Error("Register() returned zero ID")
	}
	if resp.Email != "alice@example.com" || resp.Username != "alice" {
		t.Errorf("Register() response = %+v", resp)
	}

	var stored model.User
	if err := env.db.First(&stored, resp.ID).Error; err != nil {
		t.Fatalf("failed to load stored user: %v", err)
	}
	if stored.Password == "str0ng-Passw0rd!" {
		t.Error("password stored in clear text")
	}
	if !stored.IsActive {
		t.Error("new account not active")
	}

	login, err := env.auth.Login(ctx, "alice@example.com", "str0ng-Passw0rd!")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if login.ID != resp.ID {
		t.Errorf("Login() ID = %d, want %d", login.ID, resp.ID)
	}
	if login.Access == "" || login.Refresh == "" {
		t.Error("Login() returned an empty token pair")
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := registerRequest()
	req.Email = "  Alice@Example.COM "

	resp, err := env.auth.Register(ctx, req)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if resp.Email != "alice@example.com" {
		t.Errorf("Register() email = %q, want lowercase trimmed", resp.Email)
	}

	// Login with a differently cased email still resolves the account
	if _, err := env.auth.Login(ctx, "ALICE@example.com", "str0ng-Passw0rd!"); err != nil {
		t.Errorf("Login() with cased email error = %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*dto.RegisterRequest)
		wantErr *apperrors.DomainError
	}{
		{
			name:    "password mismatch",
			mutate:  func(r *dto.RegisterRequest) { r.PasswordConfirm = "different-Passw0rd" },
			wantErr: apperrors.ErrPasswordMismatch,
		},
		{
			name:    "entirely numeric password",
			mutate:  func(r *dto.RegisterRequest) { r.Password = "84301975624"; r.PasswordConfirm = "84301975624" },
			wantErr: apperrors.ErrWeakPassword,
		},
		{
			name:    "common password",
			mutate:  func(r *dto.RegisterRequest) { r.Password = "password123"; r.PasswordConfirm = "password123" },
			wantErr: apperrors.ErrWeakPassword,
		},
		{
			name:    "password contains username",
			mutate:  func(r *dto.RegisterRequest) { r.Password = "xx-alice-42!"; r.PasswordConfirm = "xx-alice-42!" },
			wantErr: apperrors.ErrWeakPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			req := registerRequest()
			tt.mutate(req)

			_, err := env.auth.Register(context.Background(), req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterDuplicates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.auth.Register(ctx, registerRequest()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	sameEmail := registerRequest()
	sameEmail.Username = "alice2"
	if _, err := env.auth.Register(ctx, sameEmail); !errors.Is(err, apperrors.ErrEmailExists) {
		t.Errorf("Register() with taken email error = %v, want ErrEmailExists", err)
	}

	sameUsername := registerRequest()
	sameUsername.Email = "other@example.com"
	if _, err := env.auth.Register(ctx, sameUsername); !errors.Is(err, apperrors.ErrUsernameExists) {
		t.Errorf("Register() with taken username error = %v, want ErrUsernameExists", err)
	}
}

// raceCompetitor commits a conflicting user through a second connection
// right before the registration insert runs, after the availability
// pre-checks have already passed.
func raceCompetitor(t *testing.T, db *gorm.DB, rival *model.User) {
	t.Helper()

	rivalDB := openDB(t, testDSN(t))

	var fired bool
	err := db.Callback().Create().Before("gorm:create").Register("competing_insert", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*model.User); !ok || fired {
			return
		}
		fired = true
		if err := rivalDB.Create(rival).Error; err != nil {
			t.Errorf("competing insert failed: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("failed to register create callback: %v", err)
	}
	t.Cleanup(func() {
		db.Callback().Create().Remove("competing_insert")
	})
}

func TestRegisterLosesEmailInsertRace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	raceCompetitor(t, env.db, &model.User{
		Username: "rival",
		Email:    "alice@example.com",
		Password: "x",
		IsActive: true,
	})

	_, err := env.auth.Register(ctx, registerRequest())
	if !errors.Is(err, apperrors.ErrEmailExists) {
		t.Fatalf("Register() error = %v, want ErrEmailExists", err)
	}

	// The loser must not leave a duplicate row behind
	var count int64
	if err := env.db.Model(&model.User{}).Where("email = ?", "alice@example.com").Count(&count).Error; err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("rows with raced email = %d, want exactly 1", count)
	}
}

func TestRegisterLosesUsernameInsertRace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	raceCompetitor(t, env.db, &model.User{
		Username: "alice",
		Email:    "rival@example.com",
		Password: "x",
		IsActive: true,
	})

	_, err := env.auth.Register(ctx, registerRequest())
	if !errors.Is(err, apperrors.ErrUsernameExists) {
		t.Fatalf("Register() error = %v, want ErrUsernameExists", err)
	}

	var count int64
	if err := env.db.Model(&model.User{}).Where("username = ?", "alice").Count(&count).Error; err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("rows with raced username = %d, want exactly 1", count)
	}
}

func TestLoginFailureIsUniform(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	createTestUser(t, env.db, "alice", "alice@example.com")

	// Unknown email and wrong password must be indistinguishable
	_, unknownErr := env.auth.Login(ctx, "nobody@example.com", "str0ng-Passw0rd!")
	_, wrongErr := env.auth.Login(ctx, "alice@example.com", "wrong-password")

	if !errors.Is(unknownErr, apperrors.ErrInvalidCredentials) {
		t.Errorf("Login() with unknown email error = %v, want ErrInvalidCredentials", unknownErr)
	}
	if !errors.Is(wrongErr, apperrors.ErrInvalidCredentials) {
		t.Errorf("Login() with wrong password error = %v, want ErrInvalidCredentials", wrongErr)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.db, "alice", "alice@example.com")

	if err := env.db.Model(user).Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate user: %v", err)
	}

	if _, err := env.auth.Login(ctx, "alice@example.com", "str0ng-Passw0rd!"); !errors.Is(err, apperrors.ErrAccountInactive) {
		t.Errorf("Login() error = %v, want ErrAccountInactive", err)
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	createTestUser(t, env.db, "alice", "alice@example.com")

	login, err := env.auth.Login(ctx, "alice@example.com", "str0ng-Passw0rd!")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := env.auth.Logout(ctx, login.ID, login.Refresh); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	// The paired access token dies with the refresh token
	if _, err := env.tokens.Validate(ctx, login.Access); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("Validate() after logout error = %v, want ErrInvalidToken", err)
	}

	// Replaying the same refresh token fails
	if err := env.auth.Logout(ctx, login.ID, login.Refresh); !errors.Is(err, apperrors.ErrInvalidToken) {
		t.Errorf("second Logout() error = %v, want ErrInvalidToken", err)
	}
}

func TestLogoutWithoutToken(t *testing.T) {
	env := newTestEnv(t)

	err := env.auth.Logout(context.Background(), 1, "")
	if !errors.Is(err, apperrors.ErrMissingToken) {
		t.Errorf("Logout() error = %v, want ErrMissingToken", err)
	}
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.db, "alice", "alice@example.com")

	err := env.auth.ChangePassword(ctx, user, &dto.ChangePasswordRequest{
		OldPassword:        "wrong-old-password",
		NewPassword:        "new-Sup3r-secret",
		NewPasswordConfirm: "new-Sup3r-secret",
	})
	if !errors.Is(err, apperrors.ErrIncorrectPassword) {
		t.Errorf("ChangePassword() with wrong old password error = %v, want ErrIncorrectPassword", err)
	}

	err = env.auth.ChangePassword(ctx, user, &dto.ChangePasswordRequest{
		OldPassword:        "str0ng-Passw0rd!",
		NewPassword:        "new-Sup3r-secret",
		NewPasswordConfirm: "something-else-1",
	})
	if !errors.Is(err, apperrors.ErrPasswordMismatch) {
		t.Errorf("ChangePassword() with mismatched confirm error = %v, want ErrPasswordMismatch", err)
	}

	err = env.auth.ChangePassword(ctx, user, &dto.ChangePasswordRequest{
		OldPassword:        "str0ng-Passw0rd!",
		NewPassword:        "new-Sup3r-secret",
		NewPasswordConfirm: "new-Sup3r-secret",
	})
	if err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	if _, err := env.auth.Login(ctx, "alice@example.com", "str0ng-Passw0rd!"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("Login() with old password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := env.auth.Login(ctx, "alice@example.com", "new-Sup3r-secret"); err != nil {
		t.Errorf("Login() with new password error = %v", err)
	}
}

func TestChangePasswordKeepsTokensValid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	createTestUser(t, env.db, "alice", "alice@example.com")

	login, err := env.auth.Login(ctx, "alice@example.com", "str0ng-Passw0rd!")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	user, err := env.auth.GetUser(ctx, login.ID)
	if err != nil {
		t.Fatalf("GetUser() error = %v", err)
	}

	err = env.auth.ChangePassword(ctx, user, &dto.ChangePasswordRequest{
		OldPassword:        "str0ng-Passw0rd!",
		NewPassword:        "new-Sup3r-secret",
		NewPasswordConfirm: "new-Sup3r-secret",
	})
	if err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	// Outstanding pairs survive a password change
	if _, err := env.tokens.Validate(ctx, login.Access); err != nil {
		t.Errorf("Validate() after password change error = %v", err)
	}
}

func TestChangeEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.db, "alice", "alice@example.com")
	createTestUser(t, env.db, "bob", "bob@example.com")

	err := env.auth.ChangeEmail(ctx, user, "stale@example.com", "fresh@example.com")
	if !errors.Is(err, apperrors.ErrEmailMismatch) {
		t.Errorf("ChangeEmail() with stale current email error = %v, want ErrEmailMismatch", err)
	}

	err = env.auth.ChangeEmail(ctx, user, "alice@example.com", "bob@example.com")
	if !errors.Is(err, apperrors.ErrEmailExists) {
		t.Errorf("ChangeEmail() to taken email error = %v, want ErrEmailExists", err)
	}

	if err := env.auth.ChangeEmail(ctx, user, "alice@example.com", "fresh@example.com"); err != nil {
		t.Fatalf("ChangeEmail() error = %v", err)
	}

	var stored model.User
	if err := env.db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("failed to load user: %v", err)
	}
	if stored.Email != "fresh@example.com" {
		t.Errorf("stored email = %q, want fresh@example.com", stored.Email)
	}
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.db, "alice", "alice@example.com")
	createTestUser(t, env.db, "bob", "bob@example.com")

	_, err := env.auth.UpdateProfile(ctx, user, &dto.UpdateProfileRequest{Username: "bob"})
	if !errors.Is(err, apperrors.ErrUsernameExists) {
		t.Errorf("UpdateProfile() to taken username error = %v, want ErrUsernameExists", err)
	}

	resp, err := env.auth.UpdateProfile(ctx, user, &dto.UpdateProfileRequest{
		Username:  "alice_new",
		FirstName: "Alice",
		Bio:       "hello",
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if resp.Username != "alice_new" || resp.FirstName != "Alice" || resp.Bio != "hello" {
		t.Errorf("UpdateProfile() response = %+v", resp)
	}

	var stored model.User
	if err := env.db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("failed to load user: %v", err)
	}
	if stored.Username != "alice_new" {
		t.Errorf("stored username = %q, want alice_new", stored.Username)
	}
	if stored.Email != "alice@example.com" {
		t.Errorf("email changed by profile update: %q", stored.Email)
	}
}

func TestAuthEventsRecorded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.auth.Register(ctx, registerRequest())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := env.auth.Login(ctx, "alice@example.com", "str0ng-Passw0rd!"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	var actions []string
	if err := env.db.Model(&model.AuthEvent{}).
		Where("user_id = ?", resp.ID).
		Order("id ASC").
		Pluck("action", &actions).Error; err != nil {
		t.Fatalf("failed to load events: %v", err)
	}

	want := []string{model.EventRegister, model.EventLogin}
	if len(actions) != len(want) {
		t.Fatalf("event actions = %v, want %v", actions, want)
	}
	for i := range want {
		if actions[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, actions[i], want[i])
		}
	}

	events, err := env.auth.RecentEvents(ctx, resp.ID, 10)
	if err != nil {
		t.Fatalf("RecentEvents() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("RecentEvents() count = %d, want 2", len(events))
	}
}
