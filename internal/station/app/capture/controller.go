// Package capture оркестрирует путь медиафайла от захвата до загрузки.
package capture

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fieldnotes/internal/station/domain/entities"
	"fieldnotes/internal/station/ports/api"
	"fieldnotes/internal/station/ports/media"
	"fieldnotes/pkg/logger"
)

// Stage - этап конвейера, на котором произошел отказ.
type Stage string

// Этапы конвейера.
const (
	StageNormalize Stage = "normalize"
	StageThumbnail Stage = "thumbnail"
	StageUpload    Stage = "upload"
)

// Константы для логирования.
const (
	LogMethodProcess = "Process"

	ErrorPipelineFailed = "media pipeline failed"
)

// ErrUnsupportedMedia возвращается для расширений, которые конвейер
// не умеет обрабатывать. Исходное приложение молча отбрасывало такие
// файлы; здесь отказ явный.
var ErrUnsupportedMedia = errors.New("unsupported media extension")

// StageError сообщает, на каком этапе конвейера произошел отказ.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("media pipeline failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Категории медиафайлов по расширению.
type category int

const (
	categoryUnsupported category = iota
	categoryProprietaryImage
	categoryImage
	categoryVideo
)

// categorize определяет категорию файла по расширению.
// Диспетчеризация идет только по расширению - содержимое не читается.
func categorize(ext string) category {
	switch ext {
	case "heic", "heif":
		return categoryProprietaryImage
	case "jpg", "jpeg", "png":
		return categoryImage
	case "mov", "mp4":
		return categoryVideo
	default:
		return categoryUnsupported
	}
}

// Controller проводит захваченный файл через нормализацию, извлечение
// миниатюры и загрузку в нужном порядке для каждого вида медиа.
// Каждый вызов Process независим; повторы загрузок выполняет переданный
// uploader согласно своей политике.
type Controller struct {
	normalizer media.Normalizer
	thumbnails media.ThumbnailExtractor
	uploader   api.Uploader
}

// NewController создает новый контроллер захвата медиа.
func NewController(normalizer media.Normalizer, thumbnails media.ThumbnailExtractor, uploader api.Uploader) *Controller {
	return &Controller{
		normalizer: normalizer,
		thumbnails: thumbnails,
		uploader:   uploader,
	}
}

// Process превращает локальный файл в загруженную медиазапись.
// Изображения при необходимости нормализуются перед загрузкой; для видео
// загрузка и извлечение миниатюры идут параллельно, и запись готова
// только когда завершились обе ветви.
func (c *Controller) Process(ctx context.Context, asset entities.LocalAsset) (entities.Media, error) {
	log := logger.Log(ctx).With(
		zap.String("method", LogMethodProcess),
		zap.String("asset", asset.URI),
		zap.String("ext", asset.Ext()))

	switch categorize(asset.Ext()) {
	case categoryProprietaryImage:
		normalized, err := c.normalizer.Normalize(ctx, asset)
		if err != nil {
			log.Error(ctx, ErrorPipelineFailed, zap.Error(err))
			return entities.Media{}, &StageError{Stage: StageNormalize, Err: err}
		}
		if normalized.URI != asset.URI {
			// Перекодированный файл нужен только до конца загрузки.
			defer func() { _ = os.Remove(normalized.URI) }()
		}
		return c.uploadPhoto(ctx, log, normalized)

	case categoryImage:
		return c.uploadPhoto(ctx, log, asset)

	case categoryVideo:
		return c.processVideo(ctx, log, asset)

	default:
		log.Warn(ctx, "dropping asset with unsupported extension")
		return entities.Media{}, fmt.Errorf("%w: %q", ErrUnsupportedMedia, asset.Ext())
	}
}

// uploadPhoto загружает изображение и собирает запись Photo.
func (c *Controller) uploadPhoto(ctx context.Context, log *logger.Logger, asset entities.LocalAsset) (entities.Media, error) {
	uri, err := c.uploader.Upload(ctx, asset, entities.KindImage)
	if err != nil {
		log.Error(ctx, ErrorPipelineFailed, zap.Error(err))
		return entities.Media{}, &StageError{Stage: StageUpload, Err: err}
	}

	record := entities.NewPhoto(uri)
	log.Info(ctx, "media attached", zap.String("media_id", record.ID), zap.String("uri", uri))
	return record, nil
}

// processVideo параллельно загружает видео и готовит удаленную миниатюру.
func (c *Controller) processVideo(ctx context.Context, log *logger.Logger, asset entities.LocalAsset) (entities.Media, error) {
	var videoURI, thumbnailURI string

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		uri, err := c.uploader.Upload(groupCtx, asset, entities.KindVideo)
		if err != nil {
			return &StageError{Stage: StageUpload, Err: err}
		}
		videoURI = uri
		return nil
	})

	group.Go(func() error {
		frame, err := c.thumbnails.ExtractThumbnail(groupCtx, asset)
		if err != nil {
			return &StageError{Stage: StageThumbnail, Err: err}
		}
		defer func() { _ = os.Remove(frame.URI) }()
		// Миниатюра тоже уходит в хранилище: локальный путь умирает
		// вместе с устройством.
		uri, err := c.uploader.Upload(groupCtx, frame, entities.KindImage)
		if err != nil {
			return &StageError{Stage: StageUpload, Err: err}
		}
		thumbnailURI = uri
		return nil
	})

	if err := group.Wait(); err != nil {
		log.Error(ctx, ErrorPipelineFailed, zap.Error(err))
		return entities.Media{}, err
	}

	record := entities.NewVideo(videoURI, thumbnailURI, asset.Duration)
	log.Info(ctx, "media attached",
		zap.String("media_id", record.ID),
		zap.String("uri", videoURI),
		zap.String("thumbnail", thumbnailURI))
	return record, nil
}
