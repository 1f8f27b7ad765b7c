package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts per username before a block
	IPMaxAttempts int           // failed attempts per client IP, across usernames, before a block
	AttemptWindow time.Duration // window in which failures are counted
	BlockDuration time.Duration
	UseIPTracking bool // also count and block by client IP
}

// DefaultLoginTrackerConfig returns sensible defaults
func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		IPMaxAttempts: 20,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
		UseIPTracking: true,
	}
}

// LoginTracker counts failed logins in Redis and blocks brute force attempts.
// With a nil client every method is a no-op that never blocks.
type LoginTracker struct {
	client *goredis.Client
	config LoginTrackerConfig
	logger *SecurityLogger
}

func NewLoginTracker(client *goredis.Client, config LoginTrackerConfig, logger *SecurityLogger) *LoginTracker {
	if logger == nil {
		logger = DefaultLogger()
	}
	return &LoginTracker{client: client, config: config, logger: logger}
}

const (
	failLoginUserPrefix    = "fail:login:user:"
	failLoginIPPrefix      = "fail:login:ip:"
	blockedLoginUserPrefix = "blocked:login:user:"
	blockedLoginIPPrefix   = "blocked:login:ip:"
)

// KEYS[1] = counter key, ARGV[1] = TTL in seconds. Returns the new count.
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

// IsBlocked checks if the given username or IP is currently blocked
func (lt *LoginTracker) IsBlocked(ctx context.Context, username, ip string) (bool, error) {
	if lt.client == nil {
		return false, nil
	}

	keys := []string{blockedLoginUserPrefix + username}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, blockedLoginIPPrefix+ip)
	}

	n, err := lt.client.Exists(ctx, keys...).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check login block: %w", err)
	}
	if n > 0 {
		lt.logger.LogLoginBlocked(ctx, username, ip)
		return true, nil
	}
	return false, nil
}

// RecordFailedAttempt increments the failure counters and reports whether a block was created.
// The username and the client IP each have their own threshold, so one IP
// cycling through usernames is stopped even though no single username trips.
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, username, ip, reason string) (bool, error) {
	lt.logger.LogLoginFailed(ctx, username, ip, reason)

	if lt.client == nil {
		return false, nil
	}

	ttlSeconds := int(lt.config.AttemptWindow.Seconds())

	userCount, err := lt.atomicIncrement(ctx, failLoginUserPrefix+username, ttlSeconds)
	if err != nil {
		return false, fmt.Errorf("failed to increment user counter: %w", err)
	}

	ipCount := 0
	if lt.config.UseIPTracking && ip != "" {
		if ipCount, err = lt.atomicIncrement(ctx, failLoginIPPrefix+ip, ttlSeconds); err != nil {
			return false, fmt.Errorf("failed to increment IP counter: %w", err)
		}
	}

	blockUser, blockIP := lt.thresholdsReached(userCount, ipCount)
	if blockUser {
		if err := lt.createBlock(ctx, blockedLoginUserPrefix+username, "username", username, ip); err != nil {
			return true, fmt.Errorf("failed to create user block: %w", err)
		}
	}
	if blockIP {
		if err := lt.createBlock(ctx, blockedLoginIPPrefix+ip, "ip", ip, ip); err != nil {
			return true, fmt.Errorf("failed to create IP block: %w", err)
		}
	}
	return blockUser || blockIP, nil
}

// thresholdsReached reports which subjects crossed their limit. A zero
// IPMaxAttempts disables IP blocks while the IP counter keeps running.
func (lt *LoginTracker) thresholdsReached(userCount, ipCount int) (blockUser, blockIP bool) {
	blockUser = userCount >= lt.config.MaxAttempts
	blockIP = lt.config.UseIPTracking && lt.config.IPMaxAttempts > 0 && ipCount >= lt.config.IPMaxAttempts
	return blockUser, blockIP
}

func (lt *LoginTracker) atomicIncrement(ctx context.Context, key string, ttlSeconds int) (int, error) {
	result, err := lt.client.Eval(ctx, incrWithTTLScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, err
	}
	count, ok := result.(int64)
	if !ok {
		return 0, errors.New("unexpected result type from Lua script")
	}
	return int(count), nil
}

func (lt *LoginTracker) createBlock(ctx context.Context, key, subjectType, subjectValue, ip string) error {
	blockTTL := lt.config.BlockDuration
	if err := lt.client.Set(ctx, key, "1", blockTTL).Err(); err != nil {
		return err
	}
	lt.logger.LogBlockCreated(ctx, subjectType, subjectValue, ip, int(blockTTL.Minutes()))
	return nil
}

// ClearAttempts clears failed login attempts on successful login
func (lt *LoginTracker) ClearAttempts(ctx context.Context, username, ip string) error {
	if lt.client == nil {
		return nil
	}

	if err := lt.client.Del(ctx, failLoginUserPrefix+username).Err(); err != nil {
		return fmt.Errorf("failed to clear user attempts: %w", err)
	}
	if lt.config.UseIPTracking && ip != "" {
		_ = lt.client.Del(ctx, failLoginIPPrefix+ip).Err()
	}
	return nil
}
