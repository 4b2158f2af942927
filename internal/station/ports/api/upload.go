package api

import (
	"context"

	"fieldnotes/internal/station/domain/entities"
)

// Uploader определяет загрузку локального медиафайла в удаленное хранилище.
type Uploader interface {
	// Upload отправляет файл и возвращает удаленный локатор.
	Upload(ctx context.Context, asset entities.LocalAsset, kind entities.Kind) (string, error)
}
