package services

import (
	"context"

	"go.uber.org/zap"

	"fieldnotes/internal/station/domain/entities"
	"fieldnotes/internal/station/ports/api"
	"fieldnotes/internal/station/resilience"
	"fieldnotes/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodFetchAll  = "FetchAll"
	LogMethodSearch    = "Search"
	LogMethodCreate    = "Create"
	LogMethodOverwrite = "Overwrite"
	LogMethodDelete    = "Delete"

	ErrorFailedToFetchNotes  = "failed to fetch notes"
	ErrorFailedToCreateNote  = "failed to create note"
	ErrorFailedToUpdateNote  = "failed to update note"
	ErrorFailedToDeleteNote  = "failed to delete note"
	ErrorFailedToSearchNotes = "failed to search notes"
)

// Имена операций для отказоустойчивости.
const (
	opFetchAll  = "notes.fetch_all"
	opSearch    = "notes.search"
	opCreate    = "notes.create"
	opOverwrite = "notes.overwrite"
	opDelete    = "notes.delete"
)

// NotesService выполняет операции синхронизации заметок под защитой
// повторов и Circuit Breaker и дополняет выкачанные заметки
// отображаемыми именами их владельцев.
type NotesService struct {
	client     api.NotesClient
	directory  *DirectoryService
	resilience *resilience.Service
}

// NewNotesService создает новый сервис заметок.
func NewNotesService(client api.NotesClient, directory *DirectoryService, res *resilience.Service) *NotesService {
	return &NotesService{
		client:     client,
		directory:  directory,
		resilience: res,
	}
}

// FetchAll выкачивает корпус заметок для заданной выборки.
func (s *NotesService) FetchAll(ctx context.Context, scope api.Scope) ([]entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodFetchAll), zap.String("scope", string(scope.Kind)))

	notes, err := resilience.ExecuteWithResult(ctx, s.resilience, opFetchAll, func() ([]entities.Note, error) {
		return s.client.FetchAll(ctx, scope)
	})
	if err != nil {
		log.Error(ctx, ErrorFailedToFetchNotes, zap.Error(err))
		return nil, err
	}

	s.enrichCreatorNames(ctx, notes)
	log.Info(ctx, "notes fetched", zap.Int("count", len(notes)))
	return notes, nil
}

// Search возвращает заметки, подходящие под ключевое слово.
func (s *NotesService) Search(ctx context.Context, keyword string) ([]entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodSearch), zap.String("keyword", keyword))

	notes, err := resilience.ExecuteWithResult(ctx, s.resilience, opSearch, func() ([]entities.Note, error) {
		return s.client.Search(ctx, keyword)
	})
	if err != nil {
		log.Error(ctx, ErrorFailedToSearchNotes, zap.Error(err))
		return nil, err
	}

	s.enrichCreatorNames(ctx, notes)
	return notes, nil
}

// Create сохраняет новую заметку и возвращает назначенный хранилищем идентификатор.
func (s *NotesService) Create(ctx context.Context, note *entities.Note) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodCreate))

	id, err := resilience.ExecuteWithResult(ctx, s.resilience, opCreate, func() (string, error) {
		return s.client.Create(ctx, note)
	})
	if err != nil {
		log.Error(ctx, ErrorFailedToCreateNote, zap.Error(err))
		return "", err
	}

	log.Info(ctx, "note created", zap.String("note_id", id))
	return id, nil
}

// Overwrite полностью заменяет заметку по ее идентификатору.
func (s *NotesService) Overwrite(ctx context.Context, note *entities.Note) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodOverwrite), zap.String("note_id", note.ID))

	err := s.resilience.Execute(ctx, opOverwrite, func() error {
		return s.client.Overwrite(ctx, note)
	})
	if err != nil {
		log.Error(ctx, ErrorFailedToUpdateNote, zap.Error(err))
		return err
	}

	log.Info(ctx, "note overwritten")
	return nil
}

// Delete удаляет заметку по идентификатору и владельцу.
func (s *NotesService) Delete(ctx context.Context, id, creator string) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodDelete), zap.String("note_id", id))

	err := s.resilience.Execute(ctx, opDelete, func() error {
		return s.client.Delete(ctx, id, creator)
	})
	if err != nil {
		log.Error(ctx, ErrorFailedToDeleteNote, zap.Error(err))
		return err
	}

	log.Info(ctx, "note deleted")
	return nil
}

// enrichCreatorNames заполняет отображаемые имена владельцев.
// Отказ справочника не ломает выборку: вместо имени подставляется
// замещающая строка.
func (s *NotesService) enrichCreatorNames(ctx context.Context, notes []entities.Note) {
	if s.directory == nil {
		return
	}

	// Разрешение идет по одному uid: справочник кэширует профили,
	// поэтому повторные владельцы обходятся одним удаленным запросом.
	for i := range notes {
		if notes[i].Creator == "" {
			continue
		}
		notes[i].CreatorName = s.directory.DisplayName(ctx, notes[i].Creator)
	}
}
