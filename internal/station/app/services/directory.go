// Package services содержит прикладные сервисы станции.
package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"fieldnotes/internal/station/domain/entities"
	"fieldnotes/internal/station/ports/api"
	"fieldnotes/internal/station/ports/cache"
	"fieldnotes/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodResolveProfile     = "ResolveProfile"
	LogMethodResolveDisplayName = "ResolveDisplayName"
	LogMethodRegisterProfile    = "RegisterProfile"

	WarnProfileStoreUnavailable = "profile store unavailable, falling back to directory query"
	WarnProfileWriteBackFailed  = "failed to write profile back to store"
	ErrorDirectoryQueryFailed   = "directory query failed"
	ErrorFailedToRegister       = "failed to register profile"
)

// Замещающие имена для случаев, когда настоящее имя недоступно.
const (
	nameWhenMissing     = "Unknown Creator"
	nameWhenNotFound    = "Creator not available"
	nameWhenLookupError = "Error retrieving creator"
)

// Ошибки разрешения профиля.
var (
	// ErrProfileNotFound возвращается, когда пользователь отсутствует
	// и в хранилище профилей, и в справочнике документов.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrNameMissing возвращается, когда профиль найден, но имя в нем пустое.
	ErrNameMissing = errors.New("profile has no display name")
)

// DirectoryService разрешает идентификаторы пользователей в профили.
// Сначала опрашивается быстрое хранилище по ключу; промах или отказ
// хранилища прозрачно уводит запрос в предикатный справочник документов,
// а найденный там профиль дописывается обратно в хранилище.
type DirectoryService struct {
	store   cache.ProfileStore
	querier api.AgentQuerier
}

// NewDirectoryService создает новый сервис справочника пользователей.
func NewDirectoryService(store cache.ProfileStore, querier api.AgentQuerier) *DirectoryService {
	return &DirectoryService{
		store:   store,
		querier: querier,
	}
}

// ResolveProfile возвращает профиль по uid или (nil, nil), когда
// пользователя нет ни в одном из источников.
func (s *DirectoryService) ResolveProfile(ctx context.Context, uid string) (*entities.UserProfile, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodResolveProfile), zap.String("uid", uid))

	profile, err := s.store.FindByUID(ctx, uid)
	if err != nil {
		// Отказ хранилища не фатален: справочник документов остается
		// авторитетным источником.
		log.Warn(ctx, WarnProfileStoreUnavailable, zap.Error(err))
	}
	if profile != nil {
		return profile, nil
	}

	profile, err = s.querier.QueryAgent(ctx, uid)
	if err != nil {
		log.Error(ctx, ErrorDirectoryQueryFailed, zap.Error(err))
		return nil, err
	}
	if profile == nil {
		return nil, nil
	}

	if err := s.store.Save(ctx, profile); err != nil {
		log.Warn(ctx, WarnProfileWriteBackFailed, zap.Error(err))
	}

	return profile, nil
}

// ResolveDisplayName возвращает отображаемое имя пользователя.
// Отсутствие пользователя и пустое имя различаются типизированными ошибками.
func (s *DirectoryService) ResolveDisplayName(ctx context.Context, uid string) (string, error) {
	profile, err := s.ResolveProfile(ctx, uid)
	if err != nil {
		return "", err
	}
	if profile == nil {
		return "", ErrProfileNotFound
	}
	if profile.Name == "" {
		return "", ErrNameMissing
	}
	return profile.Name, nil
}

// RegisterProfile сохраняет новый профиль в справочнике документов
// и возвращает назначенный хранилищем идентификатор. Профиль сразу
// дописывается в быстрое хранилище, чтобы первое чтение не ходило
// в удаленный справочник.
func (s *DirectoryService) RegisterProfile(ctx context.Context, profile *entities.UserProfile) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodRegisterProfile), zap.String("uid", profile.UID))

	id, err := s.querier.CreateAgent(ctx, profile)
	if err != nil {
		log.Error(ctx, ErrorFailedToRegister, zap.Error(err))
		return "", err
	}

	if err := s.store.Save(ctx, profile); err != nil {
		log.Warn(ctx, WarnProfileWriteBackFailed, zap.Error(err))
	}

	log.Info(ctx, "profile registered", zap.String("agent_id", id))
	return id, nil
}

// DisplayName возвращает имя пользователя или замещающую строку.
// Это презентационная обертка над ResolveDisplayName для мест,
// где отказ справочника не должен ронять операцию.
func (s *DirectoryService) DisplayName(ctx context.Context, uid string) string {
	name, err := s.ResolveDisplayName(ctx, uid)
	switch {
	case err == nil:
		return name
	case errors.Is(err, ErrNameMissing):
		return nameWhenMissing
	case errors.Is(err, ErrProfileNotFound):
		return nameWhenNotFound
	default:
		logger.Log(ctx).Warn(ctx, ErrorDirectoryQueryFailed,
			zap.String("method", LogMethodResolveDisplayName),
			zap.String("uid", uid),
			zap.Error(err))
		return nameWhenLookupError
	}
}
