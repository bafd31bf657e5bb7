package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mkravets/nutrilog-server/internal/model"
)

var _ model.KeyValue = (*KVRepository)(nil)

// KVRepository stores document blobs in the kv_store table.
type KVRepository struct {
	db *Connection
}

func NewKVRepository(db *Connection) *KVRepository {
	return &KVRepository{
		db: db,
	}
}

func (r *KVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	query := `SELECT value FROM kv_store WHERE key = $1`

	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get value by key: %w", err)
	}

	return value, true, nil
}

func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO kv_store (key, value, updated_at)
			  VALUES ($1, $2, now())
			  ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

	if _, err := r.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}

	return nil
}

func (r *KVRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_store WHERE key = $1`

	if _, err := r.db.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}

	return nil
}
