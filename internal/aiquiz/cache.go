package aiquiz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// HintCache stores generated hints so repeated requests for the same question
// skip the model call.
type HintCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, hint string) error
}

type redisHintCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewRedisHintCache(ctx context.Context, addr string, ttl time.Duration) (HintCache, error) {
	if addr == "" {
		return nil, errors.New("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisHintCache{rdb: rdb, ttl: ttl}, nil
}

func (c *redisHintCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *redisHintCache) Set(ctx context.Context, key, hint string) error {
	return c.rdb.Set(ctx, key, hint, c.ttl).Err()
}

func hintCacheKey(req HintRequest) string {
	h := sha256.New()
	h.Write([]byte(req.Subject))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(req.Grade)))
	h.Write([]byte{0})
	h.Write([]byte(req.Question))
	return "quizzer:hint:" + hex.EncodeToString(h.Sum(nil))
}
