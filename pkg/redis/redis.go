package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopline/shop-backend/config"
	"github.com/shopline/shop-backend/pkg/logger"
)

const revokedKeyPrefix = "session:revoked:"

// Connect opens a Redis connection and pings it.
func Connect(cfg *config.RedisConfig) (*redis.Client, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr(),
		})
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return client, nil
}

// SessionBlacklist stores revoked session tokens until they would have expired anyway.
type SessionBlacklist struct {
	client *redis.Client
}

func NewSessionBlacklist(client *redis.Client) *SessionBlacklist {
	return &SessionBlacklist{client: client}
}

// BlacklistToken revokes a token for the given duration.
func (b *SessionBlacklist) BlacklistToken(ctx context.Context, token string, expiry time.Duration) error {
	if expiry <= 0 {
		return nil
	}

	logger.Debug("Adding session token to blacklist", map[string]interface{}{
		"expiry": expiry.String(),
	})

	if err := b.client.Set(ctx, revokedKeyPrefix+token, "revoked", expiry).Err(); err != nil {
		logger.Error("Failed to blacklist session token", err)
		return err
	}
	return nil
}

// IsTokenBlacklisted reports whether the token was revoked by a logout.
func (b *SessionBlacklist) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	val, err := b.client.Get(ctx, revokedKeyPrefix+token).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check session blacklist", err)
		return false, err
	}
	return val == "revoked", nil
}

func (b *SessionBlacklist) Close() error {
	logger.Info("Closing Redis connection")
	return b.client.Close()
}
