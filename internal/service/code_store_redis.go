package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Resultado: {1, user_id, expires_at} en exito, {0} no existe, {-1} expirado, {-2} distinto.
const redisCodeCheckScript = `
local v = redis.call("HMGET", KEYS[1], "code_hash", "user_id", "expires_at")
if not v[1] then
  return {0}
end
if tonumber(ARGV[2]) > tonumber(v[3]) then
  redis.call("DEL", KEYS[1])
  return {-1}
end
if v[1] ~= ARGV[1] then
  return {-2}
end
if ARGV[3] == "1" then
  redis.call("DEL", KEYS[1])
end
return {1, v[2], v[3]}
`

// La clave vive mas que el codigo para poder responder ErrCodeExpired.
const redisCodeGrace = time.Hour

type redisCodeClient interface {
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
}

type redisCodeStore struct {
	client redisCodeClient
	prefix string
	now    func() time.Time
}

func NewRedisCodeStore(client *redis.Client) CodeStore {
	if client == nil {
		return nil
	}
	return &redisCodeStore{
		client: client,
		prefix: "auth:code:",
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *redisCodeStore) Put(ctx context.Context, key string, entry CodeEntry) error {
	redisKey := s.prefix + key
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, redisKey)
		pipe.HSet(ctx, redisKey,
			"code_hash", entry.CodeHash,
			"user_id", entry.UserID,
			"expires_at", entry.ExpiresAt.UnixMilli(),
		)
		pipe.PExpireAt(ctx, redisKey, entry.ExpiresAt.Add(redisCodeGrace))
		return nil
	})
	if err != nil {
		return fmt.Errorf("store code: %w", err)
	}
	return nil
}

func (s *redisCodeStore) Check(ctx context.Context, key, codeHash string, consume bool) (CodeEntry, error) {
	consumeArg := "0"
	if consume {
		consumeArg = "1"
	}
	res, err := s.client.Eval(ctx, redisCodeCheckScript, []string{s.prefix + key},
		codeHash, s.now().UnixMilli(), consumeArg).Slice()
	if err != nil {
		return CodeEntry{}, fmt.Errorf("check code: %w", err)
	}
	if len(res) == 0 {
		return CodeEntry{}, errors.New("check code: empty script result")
	}

	status, _ := res[0].(int64)
	switch status {
	case 0:
		return CodeEntry{}, ErrCodeNotFound
	case -1:
		return CodeEntry{}, ErrCodeExpired
	case -2:
		return CodeEntry{}, ErrCodeMismatch
	}
	if len(res) < 3 {
		return CodeEntry{}, errors.New("check code: malformed script result")
	}

	userID, _ := res[1].(string)
	expiresRaw, _ := res[2].(string)
	expiresMs, err := strconv.ParseInt(expiresRaw, 10, 64)
	if err != nil {
		return CodeEntry{}, fmt.Errorf("check code: parse expiry: %w", err)
	}
	return CodeEntry{
		CodeHash:  codeHash,
		UserID:    userID,
		ExpiresAt: time.UnixMilli(expiresMs).UTC(),
	}, nil
}

func (s *redisCodeStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
