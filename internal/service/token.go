package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/crewhub/accounts/internal/dto"
	apperrors "github.com/crewhub/accounts/internal/errors"
	"github.com/crewhub/accounts/internal/model"
	"github.com/crewhub/accounts/internal/repository"
	ctxutil "github.com/crewhub/accounts/pkg/context"
	"github.com/crewhub/accounts/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RevocationCache is the fast-path deny-list consulted before the database.
// A false answer means "not known revoked", never "valid".
type RevocationCache interface {
	MarkRevoked(ctx context.Context, jti string, ttl time.Duration)
	IsRevoked(ctx context.Context, jti string) bool
}

// TokenService issues, validates and revokes paired access+refresh tokens.
// The refresh token is the durable credential; the access JWT is derived
// from it and dies with it.
type TokenService struct {
	repo       *repository.TokenRepository
	cache      RevocationCache
	secretKey  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(repo *repository.TokenRepository, cache RevocationCache, secretKey string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		repo:       repo,
		cache:      cache,
		secretKey:  secretKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Issue mints a fresh access+refresh pair bound to the user. The refresh
// secret is 32 random bytes; only its SHA-256 digest is persisted.
func (s *TokenService) Issue(ctx context.Context, user *model.User) (*dto.TokenPair, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Issue")

	refreshSecret, err := generateRefreshSecret()
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to generate refresh token").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	now := time.Now().UTC()
	pair := &model.RefreshToken{
		JTI:       uuid.NewString(),
		TokenHash: hashToken(refreshSecret),
		UserID:    user.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.refreshTTL),
	}

	if err := s.repo.Create(ctx, pair); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	access, err := s.signAccessToken(user, pair.JTI, now)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to sign access token").
			Uint("user_id", user.ID).
			Err(err).
			Log()
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Token pair issued").
		Uint("user_id", user.ID).
		String("jti", pair.JTI).
		Log()

	return &dto.TokenPair{
		Access:    access,
		Refresh:   refreshSecret,
		ExpiresIn: int(s.accessTTL.Seconds()),
	}, nil
}

// Validate checks an access token and returns the subject user ID. It fails
// when the token is malformed, expired, or its parent refresh token has been
// revoked. The deny-list is read on every call: the cache first, then the
// durable row, so revocation is immediately visible.
func (s *TokenService) Validate(ctx context.Context, accessToken string) (uint, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "Validate")

	claims, err := s.parseAccessToken(accessToken)
	if err != nil {
		logger.DebugWithContext(ctx, "Access token rejected").
			Err(err).
			Log()
		return 0, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	jti, jtiOK := claims["jti"].(string)
	userIDFloat, idOK := claims["user_id"].(float64)
	if !jtiOK || !idOK {
		return 0, apperrors.ErrInvalidToken
	}

	if s.cache != nil && s.cache.IsRevoked(ctx, jti) {
		logger.DebugWithContext(ctx, "Access token rejected by revocation cache").
			String("jti", jti).
			Log()
		return 0, apperrors.ErrInvalidToken
	}

	pair, err := s.repo.GetByJTI(ctx, jti)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrInvalidToken
		}
		return 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if pair.Revoked {
		logger.DebugWithContext(ctx, "Access token rejected, pair revoked").
			String("jti", jti).
			Log()
		return 0, apperrors.ErrInvalidToken
	}

	return uint(userIDFloat), nil
}

// Revoke marks a refresh token (and transitively its access token)
// permanently unusable. Revoking an unknown, expired or already-revoked
// token fails with InvalidToken; the operation is deliberately not
// idempotent.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	ctx = ctxutil.WithOperation(ctx, "service", "Revoke")

	pair, err := s.repo.GetByHash(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidToken
		}
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	now := time.Now().UTC()
	if pair.Revoked || pair.Expired(now) {
		return apperrors.ErrInvalidToken
	}

	affected, err := s.repo.Revoke(ctx, pair.TokenHash)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if affected == 0 {
		// A concurrent revoke won the conditional update
		return apperrors.ErrInvalidToken
	}

	if s.cache != nil {
		s.cache.MarkRevoked(ctx, pair.JTI, pair.ExpiresAt.Sub(now))
	}

	logger.InfoWithContext(ctx, "Token pair revoked").
		Uint("user_id", pair.UserID).
		String("jti", pair.JTI).
		Log()

	return nil
}

// PruneExpired removes token pairs whose refresh expiry has passed. Revoked
// rows are kept until then so validation still sees them.
func (s *TokenService) PruneExpired(ctx context.Context) (int64, error) {
	ctx = ctxutil.WithOperation(ctx, "service", "PruneExpired")

	pruned, err := s.repo.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if pruned > 0 {
		logger.InfoWithContext(ctx, "Expired token pairs pruned").
			Int64("count", pruned).
			Log()
	}

	return pruned, nil
}

func (s *TokenService) signAccessToken(user *model.User, jti string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"email":    user.Email,
		"username": user.Username,
		"jti":      jti,
		"exp":      now.Add(s.accessTTL).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secretKey))
}

func (s *TokenService) parseAccessToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func generateRefreshSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
