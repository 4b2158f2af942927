// Package notes содержит HTTP-обработчики для синхронизации заметок.
package notes

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"fieldnotes/internal/station/adapters/rerum"
	"fieldnotes/internal/station/app/services"
	"fieldnotes/internal/station/domain/entities"
	"fieldnotes/internal/station/ports/api"
	"fieldnotes/pkg/logger"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerListNotes     = "handling list notes request"
	LogHandlerSearchNotes   = "handling search notes request"
	LogHandlerCreateNote    = "handling create note request"
	LogHandlerOverwriteNote = "handling overwrite note request"
	LogHandlerDeleteNote    = "handling delete note request"

	ErrMsgInvalidNoteID      = "invalid note id"
	ErrMsgInvalidScope       = "invalid scope parameter"
	ErrMsgMissingKeyword     = "missing search keyword"
	ErrMsgMissingCreator     = "missing creator parameter"
	ErrMsgInvalidRequestBody = "invalid request body"
)

// Handler обработчик HTTP-запросов для работы с заметками.
type Handler struct {
	notesService *services.NotesService
}

// NewHandler создает новый экземпляр обработчика заметок.
func NewHandler(notesService *services.NotesService) *Handler {
	return &Handler{
		notesService: notesService,
	}
}

// ListNotes обрабатывает запрос на выкачивание корпуса заметок.
func (h *Handler) ListNotes(ctx fiber.Ctx) error {
	userCtx, ok := ctx.Locals("userContext").(context.Context)
	if !ok {
		userCtx = ctx.Context() // Запасной вариант
	}
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.ListNotes"))
	log.Debug(userCtx, LogHandlerListNotes)

	scope, err := scopeFromQuery(ctx)
	if err != nil {
		log.Error(userCtx, ErrMsgInvalidScope, zap.Error(err))
		if err := ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ErrMsgInvalidScope,
		}); err != nil {
			return fmt.Errorf("failed to send bad request response: %w", err)
		}
		return nil
	}

	notes, err := h.notesService.FetchAll(userCtx, scope)
	if err != nil {
		log.Error(userCtx, "failed to list notes", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(notes); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// SearchNotes обрабатывает запрос на поиск заметок по ключевому слову.
func (h *Handler) SearchNotes(ctx fiber.Ctx) error {
	userCtx, ok := ctx.Locals("userContext").(context.Context)
	if !ok {
		userCtx = ctx.Context() // Запасной вариант
	}
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.SearchNotes"))
	log.Debug(userCtx, LogHandlerSearchNotes)

	keyword := ctx.Query("q")
	if keyword == "" {
		log.Error(userCtx, ErrMsgMissingKeyword)
		if err := ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ErrMsgMissingKeyword,
		}); err != nil {
			return fmt.Errorf("failed to send bad request response: %w", err)
		}
		return nil
	}

	notes, err := h.notesService.Search(userCtx, keyword)
	if err != nil {
		log.Error(userCtx, "failed to search notes", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(notes); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// CreateNote обрабатывает запрос на создание новой заметки.
func (h *Handler) CreateNote(ctx fiber.Ctx) error {
	userCtx, ok := ctx.Locals("userContext").(context.Context)
	if !ok {
		userCtx = ctx.Context() // Запасной вариант
	}
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.CreateNote"))
	log.Debug(userCtx, LogHandlerCreateNote)

	var note entities.Note
	if err := ctx.Bind().Body(&note); err != nil {
		log.Error(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		if err := ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ErrMsgInvalidRequestBody,
		}); err != nil {
			return fmt.Errorf("failed to send bad request response: %w", err)
		}
		return nil
	}

	id, err := h.notesService.Create(userCtx, &note)
	if err != nil {
		log.Error(userCtx, "failed to create note", zap.Error(err))
		return handleError(ctx, err)
	}

	note.ID = id
	if err := ctx.Status(fiber.StatusCreated).JSON(note); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// OverwriteNote обрабатывает запрос на полную замену заметки.
func (h *Handler) OverwriteNote(ctx fiber.Ctx) error {
	userCtx, ok := ctx.Locals("userContext").(context.Context)
	if !ok {
		userCtx = ctx.Context() // Запасной вариант
	}
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.OverwriteNote"))
	log.Debug(userCtx, LogHandlerOverwriteNote)

	noteID := ctx.Params("note_id")
	if noteID == "" {
		log.Error(userCtx, ErrMsgInvalidNoteID)
		if err := ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ErrMsgInvalidNoteID,
		}); err != nil {
			return fmt.Errorf("failed to send bad request response: %w", err)
		}
		return nil
	}

	var note entities.Note
	if err := ctx.Bind().Body(&note); err != nil {
		log.Error(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		if err := ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ErrMsgInvalidRequestBody,
		}); err != nil {
			return fmt.Errorf("failed to send bad request response: %w", err)
		}
		return nil
	}

	// Идентификатор в пути авторитетен.
	note.ID = noteID

	if err := h.notesService.Overwrite(userCtx, &note); err != nil {
		log.Error(userCtx, "failed to overwrite note", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(note); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// DeleteNote обрабатывает запрос на удаление заметки.
func (h *Handler) DeleteNote(ctx fiber.Ctx) error {
	userCtx, ok := ctx.Locals("userContext").(context.Context)
	if !ok {
		userCtx = ctx.Context() // Запасной вариант
	}
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.DeleteNote"))
	log.Debug(userCtx, LogHandlerDeleteNote)

	noteID := ctx.Params("note_id")
	if noteID == "" {
		log.Error(userCtx, ErrMsgInvalidNoteID)
		if err := ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ErrMsgInvalidNoteID,
		}); err != nil {
			return fmt.Errorf("failed to send bad request response: %w", err)
		}
		return nil
	}

	creator := ctx.Query("creator")
	if creator == "" {
		log.Error(userCtx, ErrMsgMissingCreator)
		if err := ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ErrMsgMissingCreator,
		}); err != nil {
			return fmt.Errorf("failed to send bad request response: %w", err)
		}
		return nil
	}

	if err := h.notesService.Delete(userCtx, noteID, creator); err != nil {
		log.Error(userCtx, "failed to delete note", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.SendStatus(fiber.StatusNoContent); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// scopeFromQuery строит выборку из параметров запроса.
func scopeFromQuery(ctx fiber.Ctx) (api.Scope, error) {
	switch ctx.Query("scope", string(api.ScopeGlobal)) {
	case string(api.ScopeGlobal):
		return api.GlobalScope(), nil
	case string(api.ScopePublished):
		return api.PublishedScope(), nil
	case string(api.ScopeByOwner):
		owner := ctx.Query("owner")
		if owner == "" {
			return api.Scope{}, errors.New("owner scope requires owner parameter")
		}
		return api.OwnerScope(owner), nil
	default:
		return api.Scope{}, fmt.Errorf("unknown scope %q", ctx.Query("scope"))
	}
}

// handleError обрабатывает ошибки и возвращает соответствующий HTTP-статус.
func handleError(ctx fiber.Ctx, err error) error {
	var statusErr *rerum.StatusError
	if errors.As(err, &statusErr) {
		if err := ctx.Status(statusErr.Status).JSON(fiber.Map{
			"error": statusErr.Error(),
		}); err != nil {
			return fmt.Errorf("status error response error: %w", err)
		}
		return nil
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if err := ctx.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
		}); err != nil {
			return fmt.Errorf("fiber error response error: %w", err)
		}
		return nil
	}

	// По умолчанию возвращаем 502: отказала удаленная сторона.
	if err := ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error": "Upstream store error",
	}); err != nil {
		return fmt.Errorf("error sending 502 response: %w", err)
	}
	return nil
}
