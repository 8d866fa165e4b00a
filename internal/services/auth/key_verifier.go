package auth

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// KeyVerifier решает, принимается ли API-ключ клиентского API.
type KeyVerifier interface {
	Verify(ctx context.Context, key string) (bool, error)
}

// StaticKeyVerifier принимает фиксированный список ключей из конфигурации.
type StaticKeyVerifier struct {
	keys map[string]struct{}
}

func NewStaticKeyVerifier(keys []string) *StaticKeyVerifier {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return &StaticKeyVerifier{keys: set}
}

func (v *StaticKeyVerifier) Verify(_ context.Context, key string) (bool, error) {
	_, ok := v.keys[key]
	return ok, nil
}

const DefaultKeySet = "client_api:keys"

// RedisKeyVerifier проверяет ключ по redis-множеству, изменения множества видны без рестарта.
type RedisKeyVerifier struct {
	client *redis.Client
	setKey string
}

func NewRedisKeyVerifier(client *redis.Client, setKey string) *RedisKeyVerifier {
	if setKey == "" {
		setKey = DefaultKeySet
	}
	return &RedisKeyVerifier{client: client, setKey: setKey}
}

// Seed добавляет ключи в множество (используется при старте).
func (v *RedisKeyVerifier) Seed(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	members := make([]interface{}, len(keys))
	for i, k := range keys {
		members[i] = k
	}
	if err := v.client.SAdd(ctx, v.setKey, members...).Err(); err != nil {
		return fmt.Errorf("failed to seed api keys: %w", err)
	}
	return nil
}

func (v *RedisKeyVerifier) Verify(ctx context.Context, key string) (bool, error) {
	ok, err := v.client.SIsMember(ctx, v.setKey, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check api key: %w", err)
	}
	return ok, nil
}
