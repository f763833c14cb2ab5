package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"videoadmin/logging"
)

type PostgresConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
	RetryAttempts   int
	RetryInterval   time.Duration
}

// Connect abre o pool e confirma a conexão, tentando de novo com backoff em falhas de rede.
func Connect(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("store: parse postgres url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pcfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnIdleTime > 0 {
		pcfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}
	wait := cfg.RetryInterval
	if wait <= 0 {
		wait = time.Second
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		pool, err := pgxpool.NewWithConfig(ctx, pcfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		lastErr = err
		logging.Warn().Err(err).Int("attempt", i+1).Msg("postgres connect failed")

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return nil, fmt.Errorf("store: connect postgres: %w", lastErr)
}

// Postgres implementa Store sobre um pool pgx.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (p *Postgres) SaveAsset(ctx context.Context, a Asset) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO assets (id, library_id, title, source_url, playback_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			library_id = EXCLUDED.library_id,
			title = EXCLUDED.title,
			source_url = EXCLUDED.source_url,
			playback_id = EXCLUDED.playback_id`,
		a.ID, a.LibraryID, a.Title, a.SourceURL, a.PlaybackID, a.CreatedAt)
	return err
}

func (p *Postgres) GetAsset(ctx context.Context, id string) (Asset, error) {
	var a Asset
	err := p.pool.QueryRow(ctx, `
		SELECT id, library_id, title, source_url, playback_id, created_at
		FROM assets WHERE id = $1`, id).
		Scan(&a.ID, &a.LibraryID, &a.Title, &a.SourceURL, &a.PlaybackID, &a.CreatedAt)
	return a, notFound(err)
}

func (p *Postgres) DeleteAsset(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) CreateLibrary(ctx context.Context, l Library) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO libraries (id, name, created_at) VALUES ($1, $2, $3)`,
		l.ID, l.Name, l.CreatedAt)
	return err
}

func (p *Postgres) GetLibrary(ctx context.Context, id string) (Library, error) {
	var l Library
	err := p.pool.QueryRow(ctx, `SELECT id, name, created_at FROM libraries WHERE id = $1`, id).
		Scan(&l.ID, &l.Name, &l.CreatedAt)
	return l, notFound(err)
}

func (p *Postgres) ListLibraries(ctx context.Context) ([]Library, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, name, created_at FROM libraries ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Library, error) {
		var l Library
		err := row.Scan(&l.ID, &l.Name, &l.CreatedAt)
		return l, err
	})
}

func (p *Postgres) DeleteLibrary(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM libraries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) SaveUploadToken(ctx context.Context, t UploadToken) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO upload_tokens (upload_id, library_id, status, url, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (upload_id) DO UPDATE SET status = EXCLUDED.status, url = EXCLUDED.url`,
		t.UploadID, t.LibraryID, t.Status, t.URL, t.CreatedAt)
	return err
}

func (p *Postgres) ListUploadTokens(ctx context.Context) ([]UploadToken, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT upload_id, library_id, status, url, created_at
		FROM upload_tokens ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (UploadToken, error) {
		var t UploadToken
		err := row.Scan(&t.UploadID, &t.LibraryID, &t.Status, &t.URL, &t.CreatedAt)
		return t, err
	})
}

func (p *Postgres) IncrementUsage(ctx context.Context, at time.Time, kind UsageKind) error {
	if !validKind(kind) {
		return fmt.Errorf("store: unknown usage kind %q", kind)
	}
	// kind vem de uma lista fechada; pode ir no SQL
	q := fmt.Sprintf(`
		INSERT INTO usage_days (day, %[1]s) VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET %[1]s = usage_days.%[1]s + 1`, kind)
	_, err := p.pool.Exec(ctx, q, dayOf(at))
	return err
}

func (p *Postgres) ListUsage(ctx context.Context, days int, now time.Time) ([]UsageDay, error) {
	if days <= 0 {
		return []UsageDay{}, nil
	}
	from := dayOf(now.UTC().AddDate(0, 0, -(days - 1)))
	rows, err := p.pool.Query(ctx, `
		SELECT to_char(day, 'YYYY-MM-DD'), assets_created, uploads_created, assets_deleted
		FROM usage_days WHERE day >= $1::date AND day <= $2::date`, from, dayOf(now))
	if err != nil {
		return nil, err
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (UsageDay, error) {
		var u UsageDay
		err := row.Scan(&u.Day, &u.AssetsCreated, &u.UploadsCreated, &u.AssetsDeleted)
		return u, err
	})
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]UsageDay, len(list))
	for _, u := range list {
		byDay[u.Day] = u
	}
	return fillUsage(byDay, days, now), nil
}

func (p *Postgres) GetSettings(ctx context.Context) (Settings, error) {
	rows, err := p.pool.Query(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(Settings)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (p *Postgres) PutSettings(ctx context.Context, s Settings) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		for k, v := range s {
			if _, err := tx.Exec(ctx, `
				INSERT INTO settings (key, value) VALUES ($1, $2)
				ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *Postgres) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }
