package ratelimit

import (
	"context"
	"fmt"
	"strings"

	"github.com/halaltools/amanah/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const keyGeneratePerIP = "contract:generate:ip:%s"

// Burst protection for the generate endpoint, on top of the monthly quota.
const (
	generateRate  = 1.0
	generateBurst = 10
)

// GenerateLimiter throttles contract generation per caller IP. It is nil-safe
// and disabled when redis is not configured.
type GenerateLimiter struct {
	bucket *TokenBucket
}

func NewGenerateLimiter(cfg config.Config) *GenerateLimiter {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
	})
	return &GenerateLimiter{bucket: NewTokenBucket(client)}
}

func (l *GenerateLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

func (l *GenerateLimiter) Allow(ctx context.Context, ip string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyGeneratePerIP, strings.TrimSpace(ip)), generateRate, generateBurst)
}
