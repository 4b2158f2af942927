package config

import "time"

// APIConfig представляет конфигурацию клиента хранилища заметок.
type APIConfig struct {
	BaseURL        string        `yaml:"base_url" env:"STATION_API_BASE_URL" env-default:"https://lived-religion-dev.rerum.io/deer-lr"`
	PageSize       int           `yaml:"page_size" env:"STATION_API_PAGE_SIZE" env-default:"150"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"STATION_API_REQUEST_TIMEOUT" env-default:"15s"`
}
