// Package media содержит HTTP-обработчики для приема медиафайлов.
package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"fieldnotes/internal/station/app/capture"
	"fieldnotes/internal/station/domain/entities"
	"fieldnotes/pkg/logger"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerUploadMedia = "handling media upload request"

	ErrMsgMissingFile        = "missing file part"
	ErrMsgFailedToStoreFile  = "failed to store uploaded file"
	ErrMsgUnsupportedContent = "unsupported media content"
)

// Handler обработчик HTTP-запросов приема медиа.
type Handler struct {
	pipeline *capture.Controller
	tempDir  string
}

// NewHandler создает новый экземпляр обработчика медиа.
func NewHandler(pipeline *capture.Controller, tempDir string) *Handler {
	return &Handler{
		pipeline: pipeline,
		tempDir:  tempDir,
	}
}

// UploadMedia принимает файл из multipart-формы, проверяет его содержимое
// и проводит через конвейер захвата. Расширение берется из имени файла,
// а фактический тип содержимого сверяется сниффингом первых байт.
func (h *Handler) UploadMedia(ctx fiber.Ctx) error {
	userCtx, ok := ctx.Locals("userContext").(context.Context)
	if !ok {
		userCtx = ctx.Context() // Запасной вариант
	}
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.UploadMedia"))
	log.Debug(userCtx, LogHandlerUploadMedia)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		log.Error(userCtx, ErrMsgMissingFile, zap.Error(err))
		if err := ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ErrMsgMissingFile,
		}); err != nil {
			return fmt.Errorf("failed to send bad request response: %w", err)
		}
		return nil
	}

	localPath := filepath.Join(h.workDir(), uuid.New().String()+filepath.Ext(fileHeader.Filename))
	// Сохраненный файл нужен только на время обработки: после загрузки
	// запись ссылается на удаленный локатор.
	defer func() { _ = os.Remove(localPath) }()
	if err := ctx.SaveFile(fileHeader, localPath); err != nil {
		log.Error(userCtx, ErrMsgFailedToStoreFile, zap.Error(err))
		if err := ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": ErrMsgFailedToStoreFile,
		}); err != nil {
			return fmt.Errorf("error sending 500 response: %w", err)
		}
		return nil
	}

	if !contentLooksLikeMedia(localPath) {
		log.Warn(userCtx, ErrMsgUnsupportedContent, zap.String("filename", fileHeader.Filename))
		if err := ctx.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
			"error": ErrMsgUnsupportedContent,
		}); err != nil {
			return fmt.Errorf("error sending 415 response: %w", err)
		}
		return nil
	}

	asset := entities.LocalAsset{
		URI:      localPath,
		Duration: ctx.FormValue("duration"),
	}

	record, err := h.pipeline.Process(userCtx, asset)
	if err != nil {
		log.Error(userCtx, "media pipeline failed", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(record); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// workDir возвращает каталог для входящих файлов.
func (h *Handler) workDir() string {
	if h.tempDir != "" {
		return h.tempDir
	}
	return os.TempDir()
}

// contentLooksLikeMedia проверяет сниффингом, что содержимое файла
// действительно изображение или видео.
func contentLooksLikeMedia(path string) bool {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mtype.String(), "image/") || strings.HasPrefix(mtype.String(), "video/")
}

// handleError обрабатывает ошибки конвейера и возвращает соответствующий HTTP-статус.
func handleError(ctx fiber.Ctx, err error) error {
	if errors.Is(err, capture.ErrUnsupportedMedia) {
		if err := ctx.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
			"error": err.Error(),
		}); err != nil {
			return fmt.Errorf("error sending 415 response: %w", err)
		}
		return nil
	}

	var stageErr *capture.StageError
	if errors.As(err, &stageErr) {
		if err := ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": stageErr.Error(),
			"stage": string(stageErr.Stage),
		}); err != nil {
			return fmt.Errorf("error sending 502 response: %w", err)
		}
		return nil
	}

	if err := ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	}); err != nil {
		return fmt.Errorf("error sending 500 response: %w", err)
	}
	return nil
}
