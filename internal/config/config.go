package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server           ServerConfig           `toml:"server"`
	Database         DatabaseConfig         `toml:"database"`
	Logs             LogsConfig             `toml:"logs"`
	Metrics          MetricsConfig          `toml:"metrics"`
	DirectoryService DirectoryServiceConfig `toml:"directory_service"`
	Scheduling       SchedulingConfig       `toml:"scheduling"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения к базе данных
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`  // пустая строка - stdout
	Level string `toml:"level"` // debug | info | warn | error
}

// MetricsConfig настройки метрик Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// DirectoryServiceConfig настройки клиента справочника салонов
type DirectoryServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// SchedulingConfig настройки движка планирования
// Веса проверяются на старте: ненулевые, в сумме 1.0
type SchedulingConfig struct {
	WorkloadWeight           float64 `toml:"workload_weight"`
	SkillsWeight             float64 `toml:"skills_weight"`
	CustomerPreferenceWeight float64 `toml:"customer_preference_weight"`
	WaitTimeWeight           float64 `toml:"wait_time_weight"`
	PerformanceWeight        float64 `toml:"performance_weight"`

	MaxCommitRetries int `toml:"max_commit_retries"`

	// Минимальное время от момента запроса до начала слота, минуты.
	// Ноль отключает ограничение
	MinBookingNoticeMinutes int `toml:"min_booking_notice_minutes"`

	// AvailabilityCacheTTL время жизни кэша доступности в секундах,
	// 0 выключает кэш
	AvailabilityCacheTTL int `toml:"availability_cache_ttl"`

	// WorkloadWindowDays полуширина окна подсчета загрузки специалиста
	// вокруг запрошенной даты
	WorkloadWindowDays int `toml:"workload_window_days"`
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("server.http_port must be positive, got %d", c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("database.host and database.dbname are required")
	}
	if c.DirectoryService.URL == "" {
		return fmt.Errorf("directory_service.url is required")
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("metrics.path is required when metrics are enabled")
	}
	return nil
}
