package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cuenta solicitudes en una ventana fija y devuelve {contador, pttl}.
const redisCodeQuotaScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`

const redisCodeQuotaPrefix = "predisalaire:code-quota:"

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// codeQuota es el estado de la ventana de un email tras una solicitud.
type codeQuota struct {
	count      int64
	retryAfter time.Duration
}

type redisOTPRateLimiter struct {
	client  redisEvaler
	window  time.Duration
	max     int64
	timeout time.Duration
	logger  *zap.Logger
}

// NewRedisOTPRateLimiter comparte el limite de codigos entre instancias.
// La clave que recibe Allow es "<proposito>:<email>".
func NewRedisOTPRateLimiter(client *redis.Client, window time.Duration, max int, logger *zap.Logger) OTPRateLimiter {
	if client == nil {
		return nil
	}
	if window < time.Second {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisOTPRateLimiter{
		client:  client,
		window:  window,
		max:     int64(max),
		timeout: 500 * time.Millisecond,
		logger:  logger,
	}
}

func (l *redisOTPRateLimiter) quotaKey(key string) string {
	return redisCodeQuotaPrefix + strings.ToLower(strings.TrimSpace(key))
}

func (l *redisOTPRateLimiter) hit(ctx context.Context, key string) (codeQuota, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	vals, err := l.client.Eval(ctx, redisCodeQuotaScript, []string{key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return codeQuota{}, err
	}
	if len(vals) != 2 {
		return codeQuota{}, fmt.Errorf("unexpected code quota reply %v", vals)
	}
	q := codeQuota{count: vals[0]}
	if vals[1] > 0 {
		q.retryAfter = time.Duration(vals[1]) * time.Millisecond
	}
	return q, nil
}

// Allow falla abierto si Redis no responde.
func (l *redisOTPRateLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	if strings.TrimSpace(key) == "" {
		return false
	}
	quotaKey := l.quotaKey(key)
	q, err := l.hit(ctx, quotaKey)
	if err != nil {
		l.logger.Warn("code quota unavailable", zap.Error(err), zap.String("key", quotaKey))
		return true
	}
	if q.count > l.max {
		l.logger.Info("code quota exceeded",
			zap.String("key", quotaKey),
			zap.Int64("count", q.count),
			zap.Duration("retry_after", q.retryAfter),
		)
		return false
	}
	return true
}
