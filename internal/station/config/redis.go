package config

import (
	"strconv"
	"time"
)

// RedisConfig представляет конфигурацию хранилища профилей.
type RedisConfig struct {
	Host            string        `yaml:"host" env:"STATION_REDIS_HOST" env-default:"localhost"`
	Port            int           `yaml:"port" env:"STATION_REDIS_PORT" env-default:"6379"`
	Password        string        `yaml:"password" env:"STATION_REDIS_PASSWORD" env-default:""`
	DB              int           `yaml:"db" env:"STATION_REDIS_DB" env-default:"0"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout" env:"STATION_REDIS_CONNECT_TIMEOUT" env-default:"5s"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"STATION_REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"STATION_REDIS_WRITE_TIMEOUT" env-default:"3s"`
	PoolSize        int           `yaml:"pool_size" env:"STATION_REDIS_POOL_SIZE" env-default:"10"`
	MinIdle         int           `yaml:"min_idle" env:"STATION_REDIS_MIN_IDLE" env-default:"2"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"STATION_REDIS_IDLE_TIMEOUT" env-default:"5m"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"STATION_REDIS_MAX_CONN_LIFETIME" env-default:"1h"`
	ProfileTTL      time.Duration `yaml:"profile_ttl" env:"STATION_REDIS_PROFILE_TTL" env-default:"15m"`
}

// GetAddressString возвращает адрес Redis строкой.
func (c *RedisConfig) GetAddressString() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
