package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/caffeinecoffee/storefront/internal/repository"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SlotStore keeps slots in a local SQLite file, the on-disk
// counterpart of browser local storage.
type SlotStore struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewConnection opens the database file and applies the schema
func NewConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func runMigrations(db *sql.DB) error {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("could not open migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// NewSlotStore creates a slot store on an opened database
func NewSlotStore(db *sql.DB, logger *zap.Logger) *SlotStore {
	return &SlotStore{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (s *SlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value, expires_at FROM slots WHERE key = ?`

	var value []byte
	var expiresAt sql.NullInt64
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrSlotEmpty
	}
	if err != nil {
		s.logger.Error("Failed to read slot", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	if expiresAt.Valid && s.now().UnixNano() >= expiresAt.Int64 {
		if err := s.Delete(ctx, key); err != nil {
			s.logger.Warn("Failed to drop expired slot", zap.String("key", key), zap.Error(err))
		}
		return nil, repository.ErrSlotEmpty
	}

	return value, nil
}

func (s *SlotStore) Set(ctx context.Context, key string, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

func (s *SlotStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	query := `
		INSERT INTO slots (key, value, expires_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`

	now := s.now()
	var expiresAt sql.NullInt64
	if ttl > 0 {
		expiresAt = sql.NullInt64{Int64: now.Add(ttl).UnixNano(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query, key, value, expiresAt, now.UnixNano())
	if err != nil {
		s.logger.Error("Failed to write slot", zap.String("key", key), zap.Error(err))
		return err
	}

	return nil
}

func (s *SlotStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, key); err != nil {
		s.logger.Error("Failed to delete slot", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (s *SlotStore) Close() error {
	return s.db.Close()
}
