// Package creators содержит HTTP-обработчики справочника пользователей.
package creators

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"fieldnotes/internal/station/app/services"
	"fieldnotes/internal/station/domain/entities"
	"fieldnotes/pkg/logger"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerGetCreator      = "handling get creator request"
	LogHandlerRegisterCreator = "handling register creator request"

	ErrMsgInvalidUID         = "invalid creator uid"
	ErrMsgCreatorNotFound    = "creator not found"
	ErrMsgInvalidRequestBody = "invalid request body"
)

// Handler обработчик HTTP-запросов справочника пользователей.
type Handler struct {
	directory *services.DirectoryService
}

// NewHandler создает новый экземпляр обработчика справочника.
func NewHandler(directory *services.DirectoryService) *Handler {
	return &Handler{
		directory: directory,
	}
}

// GetCreator обрабатывает запрос на получение профиля пользователя по uid.
// Ответ дополняется отображаемым именем с учетом замещающих строк.
func (h *Handler) GetCreator(ctx fiber.Ctx) error {
	userCtx, ok := ctx.Locals("userContext").(context.Context)
	if !ok {
		userCtx = ctx.Context() // Запасной вариант
	}
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.GetCreator"))
	log.Debug(userCtx, LogHandlerGetCreator)

	uid := ctx.Params("uid")
	if uid == "" {
		log.Error(userCtx, ErrMsgInvalidUID)
		if err := ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ErrMsgInvalidUID,
		}); err != nil {
			return fmt.Errorf("failed to send bad request response: %w", err)
		}
		return nil
	}

	profile, err := h.directory.ResolveProfile(userCtx, uid)
	if err != nil {
		log.Error(userCtx, "failed to resolve creator", zap.Error(err))
		if err := ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Upstream directory error",
		}); err != nil {
			return fmt.Errorf("error sending 502 response: %w", err)
		}
		return nil
	}
	if profile == nil {
		if err := ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": ErrMsgCreatorNotFound,
		}); err != nil {
			return fmt.Errorf("error sending 404 response: %w", err)
		}
		return nil
	}

	if err := ctx.JSON(fiber.Map{
		"profile":      profile,
		"display_name": h.directory.DisplayName(userCtx, uid),
	}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// RegisterCreator обрабатывает запрос на регистрацию нового профиля.
func (h *Handler) RegisterCreator(ctx fiber.Ctx) error {
	userCtx, ok := ctx.Locals("userContext").(context.Context)
	if !ok {
		userCtx = ctx.Context() // Запасной вариант
	}
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.RegisterCreator"))
	log.Debug(userCtx, LogHandlerRegisterCreator)

	var profile entities.UserProfile
	if err := ctx.Bind().Body(&profile); err != nil || profile.UID == "" {
		log.Error(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		if err := ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ErrMsgInvalidRequestBody,
		}); err != nil {
			return fmt.Errorf("failed to send bad request response: %w", err)
		}
		return nil
	}

	id, err := h.directory.RegisterProfile(userCtx, &profile)
	if err != nil {
		log.Error(userCtx, "failed to register creator", zap.Error(err))
		if err := ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Upstream directory error",
		}); err != nil {
			return fmt.Errorf("error sending 502 response: %w", err)
		}
		return nil
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"agent_id": id,
		"profile":  profile,
	}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}
