// Package api определяет интерфейсы клиентов удаленного хранилища заметок.
package api

import (
	"context"

	"fieldnotes/internal/station/domain/entities"
)

// ScopeKind определяет измерение выборки заметок.
type ScopeKind string

// Виды выборки.
const (
	ScopeGlobal    ScopeKind = "global"
	ScopePublished ScopeKind = "published"
	ScopeByOwner   ScopeKind = "owner"
)

// Scope описывает фильтр полной выборки: все заметки, только
// опубликованные или заметки одного владельца.
type Scope struct {
	Kind  ScopeKind
	Owner string
}

// GlobalScope возвращает выборку всех заметок.
func GlobalScope() Scope {
	return Scope{Kind: ScopeGlobal}
}

// PublishedScope возвращает выборку только опубликованных заметок.
func PublishedScope() Scope {
	return Scope{Kind: ScopePublished}
}

// OwnerScope возвращает выборку заметок одного владельца.
func OwnerScope(owner string) Scope {
	return Scope{Kind: ScopeByOwner, Owner: owner}
}

// NotesClient определяет операции синхронизации заметок с удаленным хранилищем.
type NotesClient interface {
	// FetchAll постранично выкачивает весь корпус заметок для заданной выборки.
	FetchAll(ctx context.Context, scope Scope) ([]entities.Note, error)

	// Search возвращает заметки, у которых заголовок или теги содержат
	// ключевое слово без учета регистра.
	Search(ctx context.Context, keyword string) ([]entities.Note, error)

	// Create сохраняет новую заметку и возвращает назначенный хранилищем идентификатор.
	Create(ctx context.Context, note *entities.Note) (string, error)

	// Overwrite полностью заменяет заметку по ее идентификатору.
	Overwrite(ctx context.Context, note *entities.Note) error

	// Delete удаляет заметку по идентификатору и владельцу.
	Delete(ctx context.Context, id, creator string) error
}

// AgentQuerier определяет резервный поиск профиля пользователя
// через предикатный запрос к хранилищу документов.
type AgentQuerier interface {
	// QueryAgent возвращает профиль по uid или (nil, nil), если совпадений нет.
	QueryAgent(ctx context.Context, uid string) (*entities.UserProfile, error)

	// CreateAgent сохраняет документ профиля и возвращает его идентификатор.
	CreateAgent(ctx context.Context, profile *entities.UserProfile) (string, error)
}
