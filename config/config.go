// Package config carrega a configuração do serviço com koanf.
//
// Ordem de precedência (a última vence):
//
//  1. valores padrão (defaultConfig)
//  2. arquivo YAML (--config, CONFIG_PATH ou config.yaml)
//  3. variáveis de ambiente (ver envMappings)
package config

import (
	"time"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Mux      MuxConfig      `koanf:"mux"`
	Gateway  GatewayConfig  `koanf:"gateway"`
	Breaker  BreakerConfig  `koanf:"breaker"`
	Inbound  InboundConfig  `koanf:"inbound"`
	Redis    RedisConfig    `koanf:"redis"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Logging  LoggingConfig  `koanf:"logging"`
}

type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

type MuxConfig struct {
	BaseURL     string        `koanf:"base_url"`
	TokenID     string        `koanf:"token_id"`
	TokenSecret string        `koanf:"token_secret"`
	Timeout     time.Duration `koanf:"timeout"`
}

// GatewayConfig é a janela de vazão para a plataforma.
type GatewayConfig struct {
	Capacity int           `koanf:"capacity"`
	Interval time.Duration `koanf:"interval"`
	// MaxPending 0 = fila ilimitada.
	MaxPending int `koanf:"max_pending"`
	// Backend: memory (uma instância) ou redis (janela compartilhada).
	Backend  string `koanf:"backend"`
	RedisKey string `koanf:"redis_key"`
}

type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
	Timeout          time.Duration `koanf:"timeout"`
}

// InboundConfig protege a própria API admin.
type InboundConfig struct {
	Enabled            bool          `koanf:"enabled"`
	RPS                float64       `koanf:"rps"`
	Burst              int           `koanf:"burst"`
	KeyHeader          string        `koanf:"key_header"`
	TrustXFF           bool          `koanf:"trust_xff"`
	RetryAfter         time.Duration `koanf:"retry_after"`
	AddHeaders         bool          `koanf:"add_headers"`
	ConcurrencyMax     int           `koanf:"concurrency_max"`
	ConcurrencyTimeout time.Duration `koanf:"concurrency_timeout"`
}

type RedisConfig struct {
	Addr         string        `koanf:"addr"`
	Password     string        `koanf:"password"`
	DB           int           `koanf:"db"`
	StatsEnabled bool          `koanf:"stats_enabled"`
	StatsPrefix  string        `koanf:"stats_prefix"`
	StatsTTL     time.Duration `koanf:"stats_ttl"`
	// StatsBucket "minute" mantém a série por minuto; "none" só os totais.
	StatsBucket string `koanf:"stats_bucket"`
}

type DatabaseConfig struct {
	// URL vazia => store em memória.
	URL           string        `koanf:"url"`
	MaxConns      int32         `koanf:"max_conns"`
	RetryAttempts int           `koanf:"retry_attempts"`
	RetryInterval time.Duration `koanf:"retry_interval"`
	AutoMigrate   bool          `koanf:"auto_migrate"`
}

type AuthConfig struct {
	JWTSecret  string `koanf:"jwt_secret"`
	Issuer     string `koanf:"issuer"`
	CookieName string `koanf:"cookie_name"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			// maior que o normal: um request pode esperar na fila do gate
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     90 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{},
		},
		Mux: MuxConfig{
			BaseURL: "https://api.mux.com",
			Timeout: 15 * time.Second,
		},
		Gateway: GatewayConfig{
			Capacity: 20,
			Interval: time.Second,
			Backend:  "memory",
			RedisKey: "videoadmin:gate",
		},
		Breaker: BreakerConfig{
			Enabled:          true,
			FailureThreshold: 5,
			Timeout:          30 * time.Second,
		},
		Inbound: InboundConfig{
			Enabled:        true,
			RPS:            10,
			Burst:          20,
			RetryAfter:     time.Second,
			ConcurrencyMax: 100,
		},
		Redis: RedisConfig{
			StatsPrefix: "videoadmin:stats",
			StatsTTL:    24 * time.Hour,
			StatsBucket: "minute",
		},
		Database: DatabaseConfig{
			MaxConns:      10,
			RetryAttempts: 3,
			RetryInterval: 2 * time.Second,
			AutoMigrate:   true,
		},
		Auth: AuthConfig{
			CookieName: "session",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
