package attachment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mkrupp/imgix-helper/internal/domain"
	"github.com/mkrupp/imgix-helper/internal/infra/logging"
	"github.com/mkrupp/imgix-helper/internal/repo/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS attachments (
		id         INTEGER PRIMARY KEY,
		title      TEXT    NOT NULL DEFAULT '',
		mime_type  TEXT    NOT NULL DEFAULT '',
		file       TEXT    NOT NULL DEFAULT '',
		url        TEXT    NOT NULL DEFAULT '',
		metadata   TEXT    NOT NULL DEFAULT '{}',
		updated_at INTEGER NOT NULL
	)
`

// SQLiteAttachmentRepository implements Repository on SQLite. Metadata is
// stored as a JSON document.
type SQLiteAttachmentRepository struct {
	db        *sql.DB
	log       logging.Logger
	writeLock *sync.Mutex // go-sqlite does not support concurrent writes
}

var _ Repository = (*SQLiteAttachmentRepository)(nil)

// SQLiteAttachmentRepositoryFactory returns a RepositoryFactory for cfg.
func SQLiteAttachmentRepositoryFactory(cfg sqlite.Config) RepositoryFactory {
	return func() (Repository, error) {
		return NewSQLiteAttachmentRepository(cfg)
	}
}

// NewSQLiteAttachmentRepository opens the database and creates the schema if
// needed.
func NewSQLiteAttachmentRepository(cfg sqlite.Config) (*SQLiteAttachmentRepository, error) {
	db, err := sqlite.Open(cfg, schema)
	if err != nil {
		return nil, fmt.Errorf("open attachments db: %w", err)
	}

	return &SQLiteAttachmentRepository{
		db: db,
		log: logging.GetLogger("repo.attachment.sqlite_attachment_repository").With(
			logging.Group("db", "path", cfg.DatabasePath),
		),
		writeLock: new(sync.Mutex),
	}, nil
}

// Fetch implements Repository.Fetch.
func (r *SQLiteAttachmentRepository) Fetch(
	ctx context.Context,
	id domain.AttachmentID,
) (domain.Attachment, bool, error) {
	var (
		attachment domain.Attachment
		metadata   string
	)

	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, mime_type, file, url, metadata FROM attachments WHERE id = ?",
		int64(id),
	).Scan(
		&attachment.ID,
		&attachment.Title,
		&attachment.MIMEType,
		&attachment.File,
		&attachment.URL,
		&metadata,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Attachment{}, false, nil
		}

		return domain.Attachment{}, false, fmt.Errorf("query attachment: %w", err)
	}

	if err := json.Unmarshal([]byte(metadata), &attachment.Metadata); err != nil {
		return domain.Attachment{}, false, fmt.Errorf("unmarshal metadata: %w", err)
	}

	return attachment, true, nil
}

// Store implements Repository.Store.
func (r *SQLiteAttachmentRepository) Store(ctx context.Context, attachment domain.Attachment) error {
	metadata, err := json.Marshal(attachment.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO attachments (id, title, mime_type, file, url, metadata, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title      = excluded.title,
			mime_type  = excluded.mime_type,
			file       = excluded.file,
			url        = excluded.url,
			metadata   = excluded.metadata,
			updated_at = excluded.updated_at`,
		int64(attachment.ID),
		attachment.Title,
		attachment.MIMEType,
		attachment.File,
		attachment.URL,
		string(metadata),
		time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("upsert attachment: %w", err)
	}

	r.log.DebugContext(ctx, "attachment stored", logging.Group("attachment",
		"id", attachment.ID,
		"mimeType", attachment.MIMEType,
	))

	return nil
}

// UpdateMetadata implements Repository.UpdateMetadata.
func (r *SQLiteAttachmentRepository) UpdateMetadata(
	ctx context.Context,
	id domain.AttachmentID,
	meta domain.AttachmentMetadata,
) error {
	metadata, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	res, err := r.db.ExecContext(ctx,
		"UPDATE attachments SET metadata = ?, updated_at = ? WHERE id = ?",
		string(metadata),
		time.Now().Unix(),
		int64(id),
	)
	if err != nil {
		return fmt.Errorf("update metadata: %w", err)
	}

	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return fmt.Errorf("update metadata: %w: %s", domain.ErrAttachmentNotFound, id)
	}

	return nil
}

// Close implements Repository.Close.
func (r *SQLiteAttachmentRepository) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	return nil
}
