package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// storage
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	RedisHost      string `toml:"redis_host"`
	RedisPort      string `toml:"redis_port"`

	// rest timers & training sessions
	DefaultRestSeconds          int    `toml:"default_rest_seconds"`
	TimerWakeIntervalMs         int    `toml:"timer_wake_interval_ms"`
	SessionIdleTTLMinutes       int    `toml:"session_idle_ttl_minutes"`
	SessionReapIntervalMinutes  int    `toml:"session_reap_interval_minutes"`
	TimerRateLimitAllowedPerMin int    `toml:"timer_rate_limit_allowed_per_min"`
	RestExpiredChannel          string `toml:"rest_expired_channel"`
	NotifyWorkers               int    `toml:"notify_workers"`

	// routines cache
	RoutineCacheSizeMB        int `toml:"routine_cache_size_mb"`
	RoutineCacheExpireSeconds int `toml:"routine_cache_expire_seconds"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing", env)
	}
	cfg.setDefaults()
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config [%s]: %w", path, err)
	}
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 {
		return errors.New("port not set")
	}
	if c.PostgresHost == "" || c.PostgresDBName == "" {
		return errors.New("postgres host or db name not set")
	}
	if c.RedisHost == "" {
		return errors.New("redis host not set")
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.PrometheusMetricsPort == "" {
		c.PrometheusMetricsPort = "2112"
	}
	if c.DefaultRestSeconds <= 0 {
		c.DefaultRestSeconds = 60
	}
	if c.TimerWakeIntervalMs <= 0 {
		c.TimerWakeIntervalMs = 250
	}
	if c.SessionIdleTTLMinutes <= 0 {
		c.SessionIdleTTLMinutes = 180
	}
	if c.SessionReapIntervalMinutes <= 0 {
		c.SessionReapIntervalMinutes = 10
	}
	if c.TimerRateLimitAllowedPerMin <= 0 {
		c.TimerRateLimitAllowedPerMin = 120
	}
	if c.RestExpiredChannel == "" {
		c.RestExpiredChannel = "gymroutine:rest-expired"
	}
	if c.NotifyWorkers <= 0 {
		c.NotifyWorkers = 8
	}
	if c.RoutineCacheSizeMB <= 0 {
		c.RoutineCacheSizeMB = 16
	}
	if c.RoutineCacheExpireSeconds <= 0 {
		c.RoutineCacheExpireSeconds = 600
	}
}

func (c *Config) TimerWakeInterval() time.Duration {
	return time.Duration(c.TimerWakeIntervalMs) * time.Millisecond
}

func (c *Config) SessionIdleTTL() time.Duration {
	return time.Duration(c.SessionIdleTTLMinutes) * time.Minute
}

func (c *Config) SessionReapInterval() time.Duration {
	return time.Duration(c.SessionReapIntervalMinutes) * time.Minute
}
