package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"voxlock/internal/config"
	"voxlock/internal/services"
)

// Store manages credential persistence backed by SQLite. Connections are
// short-lived statements under WAL, so independent identities can enroll and
// log in without holding a lock beyond the store's own transactions.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the credential database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "credentials.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Upsert writes the record, fully replacing any prior enrollment for the
// identity.
func (s *Store) Upsert(ctx context.Context, record *Record) error {
	if err := record.Validate(); err != nil {
		return services.Wrap(services.ErrPersistence, "credentials", "upsert", "invalid record", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO credentials (identity, voice_template, phrase_ciphertext, phrase_key, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(identity) DO UPDATE SET
             voice_template = excluded.voice_template,
             phrase_ciphertext = excluded.phrase_ciphertext,
             phrase_key = excluded.phrase_key,
             updated_at = excluded.updated_at`,
		record.Identity,
		record.VoiceTemplate,
		record.PhraseCiphertext,
		record.PhraseKey,
		now,
		now,
	)
	if err != nil {
		return services.Wrap(services.ErrPersistence, "credentials", "upsert", "write failed", err)
	}
	return nil
}

// Get loads the record for an identity. Unknown identities report a
// not-found error, never a persistence failure.
func (s *Store) Get(ctx context.Context, identity string) (*Record, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT identity, voice_template, phrase_ciphertext, phrase_key, created_at, updated_at
         FROM credentials WHERE identity = ?`,
		identity,
	)

	var record Record
	var createdAt, updatedAt string
	err := row.Scan(
		&record.Identity,
		&record.VoiceTemplate,
		&record.PhraseCiphertext,
		&record.PhraseKey,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "credentials", "get", "no enrollment for identity", nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "credentials", "get", "read failed", err)
	}

	record.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	record.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &record, nil
}

// Delete removes an identity's enrollment. Deleting an unknown identity is
// not an error.
func (s *Store) Delete(ctx context.Context, identity string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM credentials WHERE identity = ?", identity); err != nil {
		return services.Wrap(services.ErrPersistence, "credentials", "delete", "delete failed", err)
	}
	return nil
}

// Summary describes an enrollment without exposing credential material.
type Summary struct {
	Identity     string
	TemplateSize int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// List returns summaries for all enrolled identities, ordered by identity.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT identity, LENGTH(voice_template), created_at, updated_at
         FROM credentials ORDER BY identity`,
	)
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "credentials", "list", "query failed", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var s Summary
		var createdAt, updatedAt string
		if err := rows.Scan(&s.Identity, &s.TemplateSize, &createdAt, &updatedAt); err != nil {
			return nil, services.Wrap(services.ErrPersistence, "credentials", "list", "scan failed", err)
		}
		s.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		s.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrPersistence, "credentials", "list", "iteration failed", err)
	}
	return summaries, nil
}
