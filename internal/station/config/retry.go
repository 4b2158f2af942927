package config

import "time"

// RetryConfig представляет конфигурацию политики повторов для
// вызовов удаленного хранилища и загрузки медиа.
type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts" env:"STATION_RETRY_MAX_ATTEMPTS" env-default:"3"`
	InitialBackoff time.Duration `yaml:"initial_backoff" env:"STATION_RETRY_INITIAL_BACKOFF" env-default:"100ms"`
	MaxBackoff     time.Duration `yaml:"max_backoff" env:"STATION_RETRY_MAX_BACKOFF" env-default:"1s"`
	BackoffFactor  float64       `yaml:"backoff_factor" env:"STATION_RETRY_BACKOFF_FACTOR" env-default:"2.0"`
}
