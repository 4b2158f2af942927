package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"fieldnotes/internal/station/adapters/upload"
	"fieldnotes/internal/station/domain/entities"
	"fieldnotes/internal/station/ports/api"
	"fieldnotes/internal/station/resilience"
	"fieldnotes/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodUpload = "Upload"

	ErrorFailedToUpload = "failed to upload media"
)

// Имя операции для отказоустойчивости.
const opUpload = "media.upload"

// UploadService выполняет загрузки медиа под защитой повторов
// и Circuit Breaker. Реализует тот же интерфейс, что и нижележащий
// клиент, поэтому подставляется в конвейер захвата без изменений.
type UploadService struct {
	uploader   api.Uploader
	resilience *resilience.Service
}

// NewUploadService создает новый отказоустойчивый сервис загрузки.
func NewUploadService(uploader api.Uploader, res *resilience.Service) *UploadService {
	return &UploadService{
		uploader:   uploader,
		resilience: res,
	}
}

// Upload загружает файл с повторами при сбоях транспорта.
func (s *UploadService) Upload(ctx context.Context, asset entities.LocalAsset, kind entities.Kind) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodUpload), zap.String("asset", asset.URI))

	locator, err := resilience.ExecuteWithResult(ctx, s.resilience, opUpload, func() (string, error) {
		return s.uploader.Upload(ctx, asset, kind)
	})
	if err != nil {
		log.Error(ctx, ErrorFailedToUpload, zap.Error(err))
		return "", err
	}

	return locator, nil
}

// UploadShouldRetry определяет, имеет ли смысл повторять загрузку.
// Детерминированные отказы шлюза с кодом 4xx не повторяются.
func UploadShouldRetry(err error) bool {
	var rejected *upload.RejectedError
	if errors.As(err, &rejected) && rejected.Status < 500 {
		return false
	}
	return resilience.DefaultShouldRetry(err)
}
