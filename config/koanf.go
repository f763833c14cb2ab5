package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const ConfigPathEnvVar = "CONFIG_PATH"

var DefaultConfigPaths = []string{"config.yaml", "config.yml", "/etc/videoadmin/config.yaml"}

// Load monta e valida a configuração. path vazio => CONFIG_PATH => DefaultConfigPaths.
func Load(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadDatabase lê só o que as tarefas de banco precisam; o resto não é validado.
func LoadDatabase(path string) (DatabaseConfig, error) {
	cfg, err := load(path)
	if err != nil {
		return DatabaseConfig{}, err
	}
	if cfg.Database.URL == "" {
		return DatabaseConfig{}, fmt.Errorf("database.url (DATABASE_URL) is required")
	}
	return cfg.Database, nil
}

// LoadRedis é o equivalente para comandos que só leem o Redis.
func LoadRedis(path string) (RedisConfig, error) {
	cfg, err := load(path)
	if err != nil {
		return RedisConfig{}, err
	}
	if cfg.Redis.Addr == "" {
		return RedisConfig{}, fmt.Errorf("redis.addr (REDIS_ADDR) is required")
	}
	return cfg.Redis, nil
}

func load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitList(k, "server.cors_origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// splitList aceita "a, b" vindo do ambiente para campos []string.
func splitList(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if err := k.Set(path, out); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}

var envMappings = map[string]string{
	"listen_addr":      "server.addr",
	"shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":     "server.cors_origins",

	"mux_base_url":     "mux.base_url",
	"mux_token_id":     "mux.token_id",
	"mux_token_secret": "mux.token_secret",
	"mux_timeout":      "mux.timeout",

	"gateway_capacity":    "gateway.capacity",
	"gateway_interval":    "gateway.interval",
	"gateway_max_pending": "gateway.max_pending",
	"gateway_backend":     "gateway.backend",
	"gateway_redis_key":   "gateway.redis_key",

	"breaker_enabled":           "breaker.enabled",
	"breaker_failure_threshold": "breaker.failure_threshold",
	"breaker_timeout":           "breaker.timeout",

	"rate_enabled":          "inbound.enabled",
	"rate_rps":              "inbound.rps",
	"rate_burst":            "inbound.burst",
	"rate_key_header":       "inbound.key_header",
	"trust_xff":             "inbound.trust_xff",
	"retry_after":           "inbound.retry_after",
	"add_ratelimit_headers": "inbound.add_headers",
	"concurrency_max":       "inbound.concurrency_max",
	"concurrency_timeout":   "inbound.concurrency_timeout",

	"redis_addr":         "redis.addr",
	"redis_password":     "redis.password",
	"redis_db":           "redis.db",
	"rate_stats_enabled": "redis.stats_enabled",
	"rate_stats_prefix":  "redis.stats_prefix",
	"rate_stats_ttl":     "redis.stats_ttl",
	"rate_stats_bucket":  "redis.stats_bucket",

	"database_url":            "database.url",
	"database_max_conns":      "database.max_conns",
	"database_retry_attempts": "database.retry_attempts",
	"database_auto_migrate":   "database.auto_migrate",

	"jwt_secret":  "auth.jwt_secret",
	"jwt_issuer":  "auth.issuer",
	"cookie_name": "auth.cookie_name",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc devolve "" para variáveis que não são do serviço (koanf ignora).
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
