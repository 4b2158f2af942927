package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fieldnotes/internal/station/config"
	"fieldnotes/internal/station/domain/entities"
	"fieldnotes/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodExtractThumbnail = "ExtractThumbnail"

	ErrorFailedToExtractFrame = "failed to extract video frame"
)

// ErrThumbnail возвращается, когда из видео не удалось извлечь ни одного кадра.
var ErrThumbnail = errors.New("thumbnail extraction failed")

// ThumbnailExtractor извлекает кадр-миниатюру из видео через ffmpeg.
// Кадр берется на стабильной отметке, чтобы повторные вызовы давали
// одинаковый результат для одного файла.
type ThumbnailExtractor struct {
	ffmpegPath string
	tempDir    string
	timeout    time.Duration
	seek       time.Duration
	runner     CommandRunner
}

// NewThumbnailExtractor создает новый извлекатель миниатюр.
func NewThumbnailExtractor(cfg *config.MediaConfig) *ThumbnailExtractor {
	return &ThumbnailExtractor{
		ffmpegPath: cfg.FFmpegPath,
		tempDir:    cfg.TempDir,
		timeout:    cfg.OperationTimeout,
		seek:       cfg.ThumbnailSeek,
		runner:     execRunner{},
	}
}

// ExtractThumbnail сохраняет один кадр видео в JPEG во временном каталоге.
// Пустое или поврежденное видео дает ErrThumbnail, а не пустой результат.
func (t *ThumbnailExtractor) ExtractThumbnail(ctx context.Context, asset entities.LocalAsset) (entities.LocalAsset, error) {
	log := logger.Log(ctx).With(
		zap.String("method", LogMethodExtractThumbnail),
		zap.String("source", asset.URI))
	log.Debug(ctx, "extracting video thumbnail")

	output := filepath.Join(t.workDir(), uuid.New().String()+".jpg")
	seekSeconds := strconv.FormatFloat(t.seek.Seconds(), 'f', -1, 64)

	opCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	err := t.runner.Run(opCtx, t.ffmpegPath,
		"-y",
		"-ss", seekSeconds,
		"-i", asset.URI,
		"-frames:v", "1",
		output)
	if err != nil {
		log.Error(ctx, ErrorFailedToExtractFrame, zap.Error(err))
		return entities.LocalAsset{}, fmt.Errorf("%w: %w", ErrThumbnail, err)
	}

	info, err := os.Stat(output)
	if err != nil || info.Size() == 0 {
		log.Error(ctx, ErrorFailedToExtractFrame, zap.Error(err))
		return entities.LocalAsset{}, fmt.Errorf("%w: no frame extracted", ErrThumbnail)
	}

	log.Debug(ctx, "thumbnail extracted", zap.String("output", output))
	return entities.LocalAsset{URI: output}, nil
}

// workDir возвращает каталог для временных файлов.
func (t *ThumbnailExtractor) workDir() string {
	if t.tempDir != "" {
		return t.tempDir
	}
	return os.TempDir()
}
