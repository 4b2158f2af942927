package config

import (
	"fmt"
	"time"
)

// HTTPConfig представляет конфигурацию HTTP сервера станции.
type HTTPConfig struct {
	Host         string        `yaml:"host" env:"STATION_HTTP_HOST" env-default:"0.0.0.0"`
	Port         int           `yaml:"port" env:"STATION_HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"STATION_HTTP_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"STATION_HTTP_WRITE_TIMEOUT" env-default:"30s"`
	MaxBodySize  int           `yaml:"max_body_size" env:"STATION_HTTP_MAX_BODY_SIZE" env-default:"104857600"`
}

// GetAddress возвращает адрес HTTP сервера.
func (c *HTTPConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
