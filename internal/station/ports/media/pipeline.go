// Package media определяет интерфейсы конвейера обработки медиа.
package media

import (
	"context"

	"fieldnotes/internal/station/domain/entities"
)

// Normalizer приводит нестандартные кодировки изображений к универсальному формату.
type Normalizer interface {
	// Normalize перекодирует файл при необходимости; файлы в поддерживаемых
	// форматах возвращаются без изменений.
	Normalize(ctx context.Context, asset entities.LocalAsset) (entities.LocalAsset, error)
}

// ThumbnailExtractor извлекает кадр-миниатюру из видеофайла.
type ThumbnailExtractor interface {
	// ExtractThumbnail возвращает локальный файл изображения с кадром видео.
	ExtractThumbnail(ctx context.Context, asset entities.LocalAsset) (entities.LocalAsset, error)
}
