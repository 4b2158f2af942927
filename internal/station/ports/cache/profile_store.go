// Package cache определяет интерфейс структурированного хранилища профилей.
package cache

import (
	"context"

	"fieldnotes/internal/station/domain/entities"
)

// ProfileStore - быстрое структурированное хранилище профилей с чтением по ключу.
type ProfileStore interface {
	// FindByUID возвращает профиль по ключу или (nil, nil), если записи нет.
	FindByUID(ctx context.Context, uid string) (*entities.UserProfile, error)

	// Save записывает профиль для последующих чтений по ключу.
	Save(ctx context.Context, profile *entities.UserProfile) error

	Close() error
}
