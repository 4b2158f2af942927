package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fieldnotes/internal/station/config"
	"fieldnotes/internal/station/domain/entities"
	"fieldnotes/pkg/logger"
)

// Константы для логирования.
const (
	LogMethodNormalize = "Normalize"

	ErrorFailedToConvert = "failed to convert image"
)

// ErrConversion возвращается, когда перекодирование изображения не удалось.
var ErrConversion = errors.New("image conversion failed")

// proprietaryStillFormats - расширения фирменных кодеков неподвижных
// изображений, которые хранилище не умеет отдавать.
var proprietaryStillFormats = map[string]bool{
	"heic": true,
	"heif": true,
}

// Normalizer перекодирует фирменные форматы изображений в JPEG через ffmpeg.
// У Go нет декодера HEIC, поэтому преобразование делегируется внешнему кодеку.
type Normalizer struct {
	ffmpegPath string
	tempDir    string
	timeout    time.Duration
	runner     CommandRunner
}

// NewNormalizer создает новый нормализатор форматов.
func NewNormalizer(cfg *config.MediaConfig) *Normalizer {
	return &Normalizer{
		ffmpegPath: cfg.FFmpegPath,
		tempDir:    cfg.TempDir,
		timeout:    cfg.OperationTimeout,
		runner:     execRunner{},
	}
}

// Normalize перекодирует файл с фирменным расширением в JPEG во временном
// каталоге и возвращает новый локальный файл; файлы в поддерживаемых
// форматах возвращаются без изменений. Временный файл остается на диске,
// очистка принадлежит вызывающей платформе.
func (n *Normalizer) Normalize(ctx context.Context, asset entities.LocalAsset) (entities.LocalAsset, error) {
	if !proprietaryStillFormats[asset.Ext()] {
		return asset, nil
	}

	log := logger.Log(ctx).With(
		zap.String("method", LogMethodNormalize),
		zap.String("source", asset.URI))
	log.Debug(ctx, "converting proprietary still image to jpeg")

	output := filepath.Join(n.workDir(), uuid.New().String()+".jpg")

	opCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := n.runner.Run(opCtx, n.ffmpegPath, "-y", "-i", asset.URI, output); err != nil {
		log.Error(ctx, ErrorFailedToConvert, zap.Error(err))
		return entities.LocalAsset{}, fmt.Errorf("%w: %w", ErrConversion, err)
	}

	info, err := os.Stat(output)
	if err != nil || info.Size() == 0 {
		log.Error(ctx, ErrorFailedToConvert, zap.Error(err))
		return entities.LocalAsset{}, fmt.Errorf("%w: converter produced no output", ErrConversion)
	}

	log.Debug(ctx, "image converted", zap.String("output", output))
	return entities.LocalAsset{URI: output, Duration: asset.Duration}, nil
}

// workDir возвращает каталог для временных файлов.
func (n *Normalizer) workDir() string {
	if n.tempDir != "" {
		return n.tempDir
	}
	return os.TempDir()
}
