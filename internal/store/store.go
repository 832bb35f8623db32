package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	_ "modernc.org/sqlite"

	"github.com/ChizhovVadim/KifuGo/internal/domain"
)

const schema = `CREATE TABLE IF NOT EXISTS KIFU (
	ID INTEGER PRIMARY KEY AUTOINCREMENT,
	WINNER INTEGER NOT NULL,
	GENERATION INTEGER,
	RECORDS BLOB NOT NULL
)`

// Filter narrows the games a query sees. A nil Generation means all games.
type Filter struct {
	Generation *int
}

func (f Filter) where(prefix string) (string, []any) {
	if f.Generation == nil {
		return prefix, nil
	}
	if prefix == "" {
		return " WHERE GENERATION = ?", []any{*f.Generation}
	}
	return prefix + " AND GENERATION = ?", []any{*f.Generation}
}

type Options struct {
	Migrate     bool
	BusyTimeout time.Duration
	OpenRetries uint
	Logger      *slog.Logger
}

type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

func Open(ctx context.Context, path string, opts Options) (*Store, error) {
	if path == "" {
		return nil, errors.New("store: empty database path")
	}
	var logger = opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", dataSourceName(path, opts.BusyTimeout))
	if err != nil {
		return nil, fmt.Errorf("store: open %v: %w", path, err)
	}

	var tries = opts.OpenRetries
	if tries == 0 {
		tries = 1
	}
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, db.PingContext(ctx)
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(tries),
		backoff.WithNotify(func(err error, d time.Duration) {
			logger.Warn("store ping failed", "path", path, "retryIn", d, "error", err)
		}))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping %v: %w", path, err)
	}

	var s = &Store{db: db, logger: logger}
	if opts.Migrate {
		err = s.Migrate(ctx)
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

// dataSourceName builds the sqlite DSN. A positive busyTimeout becomes a
// busy_timeout pragma applied to every pooled connection.
func dataSourceName(path string, busyTimeout time.Duration) string {
	var dsn = "file:" + path
	if busyTimeout > 0 {
		var q = url.Values{}
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
		dsn += "?" + q.Encode()
	}
	return dsn
}

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	s.logger.Debug("store migrated", "table", "KIFU")
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Count(ctx context.Context, filter Filter) (int, error) {
	var where, args = filter.where("")
	var count int
	var err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM KIFU"+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}
	return count, nil
}

// LoadPage returns up to limit games with ID greater than afterID in ID order.
func (s *Store) LoadPage(ctx context.Context, afterID int64, limit int, filter Filter) ([]domain.GameRecord, error) {
	var where, args = filter.where(" WHERE ID > ?")
	args = append([]any{afterID}, args...)
	args = append(args, limit)
	rows, err := s.db.QueryContext(ctx,
		"SELECT ID, WINNER, GENERATION, RECORDS FROM KIFU"+where+" ORDER BY ID LIMIT ?",
		args...)
	if err != nil {
		return nil, fmt.Errorf("store: load page after %v: %w", afterID, err)
	}
	defer rows.Close()

	var result []domain.GameRecord
	for rows.Next() {
		var rec domain.GameRecord
		var generation sql.NullInt64
		err = rows.Scan(&rec.ID, &rec.Winner, &generation, &rec.Records)
		if err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		if generation.Valid {
			var g = int(generation.Int64)
			rec.Generation = &g
		}
		result = append(result, rec)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("store: load page after %v: %w", afterID, err)
	}
	return result, nil
}

type GenerationInfo struct {
	Generation *int
	Games      int
}

func (s *Store) Generations(ctx context.Context) ([]GenerationInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT GENERATION, COUNT(*) FROM KIFU GROUP BY GENERATION ORDER BY GENERATION")
	if err != nil {
		return nil, fmt.Errorf("store: generations: %w", err)
	}
	defer rows.Close()

	var result []GenerationInfo
	for rows.Next() {
		var info GenerationInfo
		var generation sql.NullInt64
		err = rows.Scan(&generation, &info.Games)
		if err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		if generation.Valid {
			var g = int(generation.Int64)
			info.Generation = &g
		}
		result = append(result, info)
	}
	return result, rows.Err()
}

func (s *Store) Insert(ctx context.Context, rec domain.GameRecord) (int64, error) {
	var generation sql.NullInt64
	if rec.Generation != nil {
		generation = sql.NullInt64{Int64: int64(*rec.Generation), Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO KIFU (WINNER, GENERATION, RECORDS) VALUES (?, ?, ?)",
		rec.Winner, generation, rec.Records)
	if err != nil {
		return 0, fmt.Errorf("store: insert: %w", err)
	}
	return res.LastInsertId()
}
