package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/crewhub/accounts/internal/model"
	"github.com/crewhub/accounts/internal/repository"
	"github.com/crewhub/accounts/pkg/database"
	"github.com/crewhub/accounts/pkg/validation"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret-key-not-for-production"

// testDSN names an in-memory database shared by all connections of one test
func testDSN(t *testing.T) string {
	name := strings.ReplaceAll(t.Name(), "/", "_")
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}

func openDB(t *testing.T, dsn string) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// openTestDB opens an isolated in-memory database per test
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := openDB(t, testDSN(t))
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// fakeRevocationCache is a map-backed stand-in for the Redis deny-list cache
type fakeRevocationCache struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newFakeRevocationCache() *fakeRevocationCache {
	return &fakeRevocationCache{revoked: make(map[string]bool)}
}

func (f *fakeRevocationCache) MarkRevoked(_ context.Context, jti string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[jti] = true
}

func (f *fakeRevocationCache) IsRevoked(_ context.Context, jti string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked[jti]
}

type testEnv struct {
	db     *gorm.DB
	cache  *fakeRevocationCache
	tokens *TokenService
	auth   *AuthService
	teams  *TeamService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := openTestDB(t)
	cache := newFakeRevocationCache()

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	eventRepo := repository.NewEventRepository(db)

	tokens := NewTokenService(tokenRepo, cache, testJWTSecret, 15*time.Minute, 7*24*time.Hour)
	auth := NewAuthService(userRepo, eventRepo, tokens, validation.NewPasswordPolicy())
	teams := NewTeamService(teamRepo, userRepo)

	return &testEnv{
		db:     db,
		cache:  cache,
		tokens: tokens,
		auth:   auth,
		teams:  teams,
	}
}

// createTestUser inserts a user directly, bypassing the registration flow
func createTestUser(t *testing.T, db *gorm.DB, username, email string) *model.User {
	t.Helper()

	hash, err := hashPassword("str0ng-Passw0rd!")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: hash,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}
