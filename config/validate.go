package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

func (c *Config) Validate() error {
	var errs []error

	if c.Gateway.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("gateway.capacity must be > 0, got %d", c.Gateway.Capacity))
	}
	if c.Gateway.Interval <= 0 {
		errs = append(errs, fmt.Errorf("gateway.interval must be > 0, got %s", c.Gateway.Interval))
	}
	if c.Gateway.MaxPending < 0 {
		errs = append(errs, errors.New("gateway.max_pending must be >= 0"))
	}
	switch strings.ToLower(c.Gateway.Backend) {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis.addr is required when gateway.backend=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("gateway.backend must be memory or redis, got %q", c.Gateway.Backend))
	}

	if c.Redis.StatsEnabled && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required when redis.stats_enabled=true"))
	}
	if b := strings.ToLower(c.Redis.StatsBucket); b != "minute" && b != "none" {
		errs = append(errs, fmt.Errorf("redis.stats_bucket must be minute or none, got %q", c.Redis.StatsBucket))
	}

	if u, err := url.Parse(c.Mux.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("mux.base_url is not a valid URL: %q", c.Mux.BaseURL))
	}
	if c.Mux.TokenID == "" || c.Mux.TokenSecret == "" {
		errs = append(errs, errors.New("mux.token_id and mux.token_secret are required"))
	}

	if c.Inbound.Enabled {
		if c.Inbound.RPS <= 0 {
			errs = append(errs, errors.New("inbound.rps must be > 0"))
		}
		if c.Inbound.Burst <= 0 {
			errs = append(errs, errors.New("inbound.burst must be > 0"))
		}
	}
	if c.Inbound.ConcurrencyMax < 0 {
		errs = append(errs, errors.New("inbound.concurrency_max must be >= 0"))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}

	return errors.Join(errs...)
}
