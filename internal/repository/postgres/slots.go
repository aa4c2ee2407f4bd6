package postgres

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/caffeinecoffee/storefront/internal/repository"
)

type SlotStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSlotStore creates a new postgres-backed slot store
func NewSlotStore(db *sql.DB, logger *zap.Logger) *SlotStore {
	return &SlotStore{
		db:     db,
		logger: logger,
	}
}

func (s *SlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `
		SELECT value
		FROM slots
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > NOW())
	`

	var value []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, repository.ErrSlotEmpty
	}
	if err != nil {
		s.logger.Error("Failed to read slot", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	return value, nil
}

func (s *SlotStore) Set(ctx context.Context, key string, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

func (s *SlotStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	query := `
		INSERT INTO slots (key, value, expires_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at
	`

	now := time.Now()
	var expiresAt sql.NullTime
	if ttl > 0 {
		expiresAt = sql.NullTime{Time: now.Add(ttl), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query, key, value, expiresAt, now)
	if err != nil {
		s.logger.Error("Failed to write slot", zap.String("key", key), zap.Error(err))
		return err
	}

	return nil
}

func (s *SlotStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM slots WHERE key = $1`

	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		s.logger.Error("Failed to delete slot", zap.String("key", key), zap.Error(err))
		return err
	}

	return nil
}

func (s *SlotStore) Close() error {
	return s.db.Close()
}
