package config

import "time"

// UploadConfig представляет конфигурацию клиента загрузки медиа.
// Base64Mode переключает тело запроса с multipart на data-URI форму
// для сред без поддержки потоковой отправки файлов.
type UploadConfig struct {
	BaseURL        string        `yaml:"base_url" env:"STATION_UPLOAD_BASE_URL" env-default:"http://localhost:8081/S3"`
	Base64Mode     bool          `yaml:"base64_mode" env:"STATION_UPLOAD_BASE64_MODE" env-default:"false"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"STATION_UPLOAD_REQUEST_TIMEOUT" env-default:"120s"`
}
