package repository

import (
	"context"
	"time"

	"github.com/crewhub/accounts/internal/model"
	ctxutil "github.com/crewhub/accounts/pkg/context"
	"github.com/crewhub/accounts/pkg/logger"
	"gorm.io/gorm"
)

// TokenRepository persists token pairs and the revocation deny-list.
// The refresh_tokens table is the durable source of truth: a revoked row
// stays revoked across restarts.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	result := r.db.WithContext(ctx).Create(token)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to store token pair").
			Uint("user_id", token.UserID).
			String("jti", token.JTI).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}

// GetByJTI is the authoritative deny-list read used on every validation
func (r *TokenRepository) GetByJTI(ctx context.Context, jti string) (*model.RefreshToken, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByJTI")

	var token model.RefreshToken
	result := r.db.WithContext(ctx).Where("jti = ?", jti).First(&token)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Token pair not found by jti").
			String("jti", jti).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &token, nil
}

func (r *TokenRepository) GetByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "GetByHash")

	var token model.RefreshToken
	result := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&token)
	if result.Error != nil {
		logger.DebugWithContext(ctx, "Token pair not found by hash").
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return &token, nil
}

// Revoke flips a pair to REVOKED. The revoked = false guard makes the
// transition one-way and lets exactly one concurrent revoke win; the
// returned count is 0 when the pair was already revoked or unknown.
func (r *TokenRepository) Revoke(ctx context.Context, tokenHash string) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "Revoke")

	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&model.RefreshToken{}).
		Where("token_hash = ? AND revoked = ?", tokenHash, false).
		Updates(map[string]interface{}{
			"revoked":    true,
			"revoked_at": now,
		})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to revoke token pair").
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// DeleteExpired prunes pairs whose refresh expiry has long passed.
// Revoked rows are kept until expiry so validation still sees them.
func (r *TokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "DeleteExpired")

	result := r.db.WithContext(ctx).Unscoped().
		Where("expires_at < ?", before).
		Delete(&model.RefreshToken{})
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to prune expired token pairs").
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
