// Package cache содержит Redis-реализацию структурированного хранилища профилей.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fieldnotes/internal/station/config"
	"fieldnotes/internal/station/domain/entities"
	"fieldnotes/internal/station/ports/cache"
	"fieldnotes/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodFindByUID = "FindByUID"
	LogMethodSave      = "Save"

	ErrorFailedToFindProfile = "failed to find profile in redis"
	ErrorFailedToSaveProfile = "failed to save profile in redis"
	ErrorFailedToClose       = "failed to close redis connection"
)

// profileKeyPrefix - префикс ключа профиля пользователя.
const profileKeyPrefix = "profile:"

// RedisProfileStore реализует интерфейс ProfileStore с использованием Redis.
// Это быстрый источник справочника пользователей; промахи обслуживает
// резервный предикатный запрос к хранилищу документов.
type RedisProfileStore struct {
	client     *redis.Client
	profileTTL time.Duration
}

// NewRedisProfileStore создает новое хранилище профилей.
func NewRedisProfileStore(ctx context.Context, cfg *config.RedisConfig) (cache.ProfileStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            cfg.GetAddressString(),
		Password:        cfg.Password,
		DB:              cfg.DB,
		DialTimeout:     cfg.ConnectTimeout,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdle,
		ConnMaxIdleTime: cfg.IdleTimeout,
		ConnMaxLifetime: cfg.MaxConnLifetime,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisProfileStore{
		client:     client,
		profileTTL: cfg.ProfileTTL,
	}, nil
}

// FindByUID читает профиль по ключу. Отсутствие записи - легитимный
// результат (nil, nil), а не ошибка.
func (s *RedisProfileStore) FindByUID(ctx context.Context, uid string) (*entities.UserProfile, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodFindByUID), zap.String("uid", uid))

	value, err := s.client.Get(ctx, profileKeyPrefix+uid).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		log.Error(ctx, ErrorFailedToFindProfile, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToFindProfile, err)
	}

	var profile entities.UserProfile
	if err := json.Unmarshal([]byte(value), &profile); err != nil {
		log.Error(ctx, ErrorFailedToFindProfile, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrorFailedToFindProfile, err)
	}

	return &profile, nil
}

// Save записывает профиль с настроенным временем жизни.
func (s *RedisProfileStore) Save(ctx context.Context, profile *entities.UserProfile) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSave), zap.String("uid", profile.UID))

	value, err := json.Marshal(profile)
	if err != nil {
		log.Error(ctx, ErrorFailedToSaveProfile, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSaveProfile, err)
	}

	if err := s.client.Set(ctx, profileKeyPrefix+profile.UID, value, s.profileTTL).Err(); err != nil {
		log.Error(ctx, ErrorFailedToSaveProfile, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorFailedToSaveProfile, err)
	}

	return nil
}

// Close закрывает соединение с Redis.
func (s *RedisProfileStore) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToClose, err)
	}
	return nil
}
