package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/crewhub/accounts/internal/constants"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds Redis connection settings. Enabled=false yields a client
// whose operations are no-ops; the deny-list then reads the database only.
type Config struct {
	Enabled      bool
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Client struct {
	rdb     *redis.Client
	enabled bool
	logger  *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if !cfg.Enabled {
		logger.Info("Redis disabled, revocation cache will be skipped")
		return &Client{enabled: false, logger: logger}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	client := &Client{rdb: rdb, enabled: true, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		// Degrade to database-only deny-list reads instead of failing startup
		logger.Warn("Failed to connect to Redis, running without revocation cache",
			zap.String("address", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
			zap.Error(err),
		)
		client.enabled = false
		return client
	}

	logger.Info("Connected to Redis",
		zap.String("address", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("database", cfg.DB),
	)

	return client
}

func (c *Client) IsEnabled() bool {
	return c.enabled
}

func (c *Client) Ping(ctx context.Context) error {
	if !c.enabled {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// MarkRevoked records a revoked token pair ID until the pair would have
// expired anyway. Errors are logged, not returned: the database row is the
// durable source of truth and every validation still reads it.
func (c *Client) MarkRevoked(ctx context.Context, jti string, ttl time.Duration) {
	if !c.enabled || ttl <= 0 {
		return
	}

	key := constants.CacheKeyRevokedToken + jti
	if err := c.rdb.Set(ctx, key, "1", ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache token revocation",
			zap.String("jti", jti),
			zap.Error(err),
		)
		return
	}

	c.logger.Debug("Token revocation cached",
		zap.String("jti", jti),
		zap.Duration("ttl", ttl),
	)
}

// IsRevoked is the fast-path deny-list check. A miss (or any cache failure)
// means "unknown", never "valid"; callers must still consult the database.
func (c *Client) IsRevoked(ctx context.Context, jti string) bool {
	if !c.enabled {
		return false
	}

	n, err := c.rdb.Exists(ctx, constants.CacheKeyRevokedToken+jti).Result()
	if err != nil {
		c.logger.Warn("Revocation cache read failed",
			zap.String("jti", jti),
			zap.Error(err),
		)
		return false
	}
	return n > 0
}
