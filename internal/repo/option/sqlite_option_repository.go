package option

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mkrupp/imgix-helper/internal/infra/logging"
	"github.com/mkrupp/imgix-helper/internal/repo/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS options (
		name       TEXT    PRIMARY KEY,
		value      TEXT    NOT NULL,
		updated_at INTEGER NOT NULL
	)
`

// SQLiteOptionRepository implements Repository on SQLite.
type SQLiteOptionRepository struct {
	db        *sql.DB
	log       logging.Logger
	writeLock *sync.Mutex // go-sqlite does not support concurrent writes
}

var _ Repository = (*SQLiteOptionRepository)(nil)

// SQLiteOptionRepositoryFactory returns a RepositoryFactory for cfg.
func SQLiteOptionRepositoryFactory(cfg sqlite.Config) RepositoryFactory {
	return func() (Repository, error) {
		return NewSQLiteOptionRepository(cfg)
	}
}

// NewSQLiteOptionRepository opens the database and creates the schema if needed.
func NewSQLiteOptionRepository(cfg sqlite.Config) (*SQLiteOptionRepository, error) {
	db, err := sqlite.Open(cfg, schema)
	if err != nil {
		return nil, fmt.Errorf("open options db: %w", err)
	}

	return &SQLiteOptionRepository{
		db: db,
		log: logging.GetLogger("repo.option.sqlite_option_repository").With(
			logging.Group("db", "path", cfg.DatabasePath),
		),
		writeLock: new(sync.Mutex),
	}, nil
}

// Get implements Repository.Get.
func (r *SQLiteOptionRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string

	err := r.db.QueryRowContext(ctx, "SELECT value FROM options WHERE name = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("query option %q: %w", key, err)
	}

	return value, true, nil
}

// Set implements Repository.Set.
func (r *SQLiteOptionRepository) Set(ctx context.Context, key, value string) error {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO options (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key,
		value,
		time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("upsert option %q: %w", key, err)
	}

	r.log.DebugContext(ctx, "option stored", "name", key)

	return nil
}

// Delete implements Repository.Delete.
func (r *SQLiteOptionRepository) Delete(ctx context.Context, key string) error {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	if _, err := r.db.ExecContext(ctx, "DELETE FROM options WHERE name = ?", key); err != nil {
		return fmt.Errorf("delete option %q: %w", key, err)
	}

	return nil
}

// Close implements Repository.Close.
func (r *SQLiteOptionRepository) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	return nil
}
