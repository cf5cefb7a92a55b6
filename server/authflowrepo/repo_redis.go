package authflowrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	apperrors "github.com/nugudi/nugudi-gateway/internal/errors"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "nugudi:authflow:"

// RedisRepo keeps auth flow states in Redis so that any gateway replica can
// serve the OAuth callback. Keys expire after ttl.
type RedisRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: addr,
	})
}

func NewRedisRepo(client *redis.Client, ttl time.Duration) *RedisRepo {
	return &RedisRepo{client: client, ttl: ttl}
}

// Ping verifies connectivity.
func (r *RedisRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepo) Upsert(ctx context.Context, state string, authState *AuthFlowState) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if authState == nil {
		return errors.New("authState cannot be nil")
	}
	data, err := json.Marshal(authState)
	if err != nil {
		return apperrors.Wrapf(err, "[RedisRepo Upsert] failed to marshal state")
	}
	return apperrors.Wrapf(r.client.Set(ctx, redisKeyPrefix+state, data, r.ttl).Err(), "[RedisRepo Upsert] %s", state)
}

func (r *RedisRepo) Get(ctx context.Context, state string) (*AuthFlowState, error) {
	if state == "" {
		return nil, errors.New("state cannot be empty")
	}
	data, err := r.client.Get(ctx, redisKeyPrefix+state).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrStateNotFound
		}
		return nil, apperrors.Wrapf(err, "[RedisRepo Get] %s", state)
	}

	return decodeState(data)
}

func (r *RedisRepo) Delete(ctx context.Context, state string) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	return apperrors.Wrapf(r.client.Del(ctx, redisKeyPrefix+state).Err(), "[RedisRepo Delete] %s", state)
}

// Take uses GETDEL so concurrent callbacks cannot both redeem the state.
func (r *RedisRepo) Take(ctx context.Context, state string) (*AuthFlowState, error) {
	if state == "" {
		return nil, errors.New("state cannot be empty")
	}
	data, err := r.client.GetDel(ctx, redisKeyPrefix+state).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrStateNotFound
		}
		return nil, apperrors.Wrapf(err, "[RedisRepo Take] %s", state)
	}
	return decodeState(data)
}

func decodeState(data []byte) (*AuthFlowState, error) {
	var authState AuthFlowState
	if err := json.Unmarshal(data, &authState); err != nil {
		return nil, apperrors.Wrapf(err, "[RedisRepo] failed to unmarshal state")
	}
	return &authState, nil
}
