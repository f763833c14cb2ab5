package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"videoadmin/api"
	"videoadmin/auth"
	"videoadmin/config"
	"videoadmin/logging"
	"videoadmin/metrics"
	"videoadmin/mux"
	"videoadmin/ratelimit"
	"videoadmin/ratelimit/application"
	"videoadmin/ratelimit/domain"
	"videoadmin/ratelimit/infra"
	"videoadmin/store"
)

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logging.Init(logging.Config{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Caller: cfg.Logging.Caller,
				Output: os.Stderr,
			})

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, cfg)
		},
	}
}

// gate é o que o serve precisa do limitador: permissões e tamanho da fila.
type gate interface {
	domain.Gate
	Pending() int
}

func serve(ctx context.Context, cfg *config.Config) error {
	m := metrics.New()

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		var err error
		if rdb, err = connectRedis(ctx, cfg.Redis); err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
	}

	g, err := newGate(cfg.Gateway, rdb)
	if err != nil {
		return err
	}
	m.RegisterPending(g.Pending)

	remoteStats := infra.MultiStats{m.Remote()}
	inboundStats := infra.MultiStats{m.Inbound()}
	if cfg.Redis.StatsEnabled {
		remoteStats = append(remoteStats, infra.NewRedisStatsStore(rdb,
			infra.WithStatsPrefix(cfg.Redis.StatsPrefix+":remote"),
			infra.WithStatsTTL(cfg.Redis.StatsTTL),
			infra.WithStatsBucket(cfg.Redis.StatsBucket),
		))
		inboundStats = append(inboundStats, infra.NewRedisStatsStore(rdb,
			infra.WithStatsPrefix(cfg.Redis.StatsPrefix+":inbound"),
			infra.WithStatsTTL(cfg.Redis.StatsTTL),
			infra.WithStatsBucket(cfg.Redis.StatsBucket),
			infra.WithStatsTrackKeys(true),
		))
	}

	var platform mux.Platform = mux.NewRateLimited(
		mux.NewClient(cfg.Mux.TokenID, cfg.Mux.TokenSecret,
			mux.WithBaseURL(cfg.Mux.BaseURL),
			mux.WithTimeout(cfg.Mux.Timeout),
		),
		application.Dispatcher{Gate: g, Stats: remoteStats},
	)
	if cfg.Breaker.Enabled {
		bc := mux.DefaultBreakerConfig()
		bc.FailureThreshold = cfg.Breaker.FailureThreshold
		bc.Timeout = cfg.Breaker.Timeout
		bc.OnStateChange = m.BreakerStateChange
		platform = mux.NewBreaker(platform, bc)
	}

	st, closeStore, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeStore()

	authz, err := auth.NewJWT(auth.JWTConfig{
		Secret:     cfg.Auth.JWTSecret,
		Issuer:     cfg.Auth.Issuer,
		CookieName: cfg.Auth.CookieName,
		Leeway:     30 * time.Second,
	})
	if err != nil {
		return err
	}

	h, err := api.New(api.Deps{Auth: authz, Platform: platform, Store: st})
	if err != nil {
		return err
	}

	router := api.NewRouter(h, api.RouterConfig{
		CORSOrigins: cfg.Server.CORSOrigins,
		Metrics:     m,
		Inbound:     inbound(ctx, cfg.Inbound, inboundStats),
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Warn().Err(err).Msg("shutdown did not complete cleanly")
		}
	}()

	logging.Info().
		Str("addr", cfg.Server.Addr).
		Str("mux", cfg.Mux.BaseURL).
		Int("capacity", cfg.Gateway.Capacity).
		Dur("interval", cfg.Gateway.Interval).
		Int("max_pending", cfg.Gateway.MaxPending).
		Str("backend", cfg.Gateway.Backend).
		Bool("breaker", cfg.Breaker.Enabled).
		Msg("admin api listening")
	logging.Info().
		Bool("enabled", cfg.Inbound.Enabled).
		Float64("rps", cfg.Inbound.RPS).
		Int("burst", cfg.Inbound.Burst).
		Int("concurrency_max", cfg.Inbound.ConcurrencyMax).
		Bool("redis_stats", cfg.Redis.StatsEnabled).
		Msg("inbound protection")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func connectRedis(ctx context.Context, rc config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func newGate(gc config.GatewayConfig, rdb *redis.Client) (gate, error) {
	win := domain.Window{Capacity: gc.Capacity, Interval: gc.Interval}
	if strings.EqualFold(gc.Backend, "redis") {
		return infra.NewRedisWindow(rdb, win,
			infra.WithRedisKey(gc.RedisKey),
			infra.WithRedisMaxPending(gc.MaxPending),
		)
	}
	return infra.NewSlidingWindow(win, infra.WithMaxPending(gc.MaxPending))
}

func openStore(ctx context.Context, db config.DatabaseConfig) (store.Store, func(), error) {
	if db.URL == "" {
		logging.Warn().Msg("database.url not set, using in-memory store (data is lost on restart)")
		return store.NewMemory(), func() {}, nil
	}

	pool, err := store.Connect(ctx, postgresConfig(db))
	if err != nil {
		return nil, nil, err
	}
	if db.AutoMigrate {
		if err := store.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}
	return store.NewPostgres(pool), pool.Close, nil
}

// inbound monta a proteção da API admin: rate limit por chamador e depois concorrência.
func inbound(ctx context.Context, ic config.InboundConfig, stats domain.StatsStore) []func(http.Handler) http.Handler {
	var mws []func(http.Handler) http.Handler
	if ic.Enabled {
		limiters := infra.NewStore(ic.RPS, ic.Burst)
		limiters.StartJanitor(ctx)
		mws = append(mws, ratelimit.Middleware(ratelimit.Options{
			Store:               limiters,
			Stats:               stats,
			KeyHeader:           ic.KeyHeader,
			TrustXForwardedFor:  ic.TrustXFF,
			RetryAfter:          ic.RetryAfter,
			AddRateLimitHeaders: ic.AddHeaders,
		}))
	}
	mws = append(mws, ratelimit.ConcurrencyMiddleware(ratelimit.ConcurrencyOptions{
		Max:            ic.ConcurrencyMax,
		AcquireTimeout: ic.ConcurrencyTimeout,
	}))
	return mws
}
