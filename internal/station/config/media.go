package config

import "time"

// MediaConfig представляет конфигурацию обработки медиафайлов.
type MediaConfig struct {
	FFmpegPath       string        `yaml:"ffmpeg_path" env:"STATION_MEDIA_FFMPEG_PATH" env-default:"ffmpeg"`
	TempDir          string        `yaml:"temp_dir" env:"STATION_MEDIA_TEMP_DIR" env-default:""`
	OperationTimeout time.Duration `yaml:"operation_timeout" env:"STATION_MEDIA_OPERATION_TIMEOUT" env-default:"30s"`
	ThumbnailSeek    time.Duration `yaml:"thumbnail_seek" env:"STATION_MEDIA_THUMBNAIL_SEEK" env-default:"1s"`
}
