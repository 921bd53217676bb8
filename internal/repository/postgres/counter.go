package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/admissions-server/internal/model"
)

var _ model.CounterStore = (*CounterRepository)(nil)

// CounterRepository implements compare-and-swap counters on the counters table.
type CounterRepository struct {
	db *Connection
}

func NewCounterRepository(db *Connection) *CounterRepository {
	return &CounterRepository{
		db: db,
	}
}

func (r *CounterRepository) Load(ctx context.Context, key model.CounterKey) (int64, error) {
	var value int64
	query := `SELECT value FROM counters WHERE namespace = $1 AND scope_key = $2`

	err := r.db.QueryRow(ctx, query, key.Namespace, key.Scope).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load counter %s: %w", key.Path(), err)
	}

	return value, nil
}

// CompareAndSwap succeeds only when exactly one row moved from current to next.
// A missing row counts as zero.
func (r *CounterRepository) CompareAndSwap(ctx context.Context, key model.CounterKey, current, next int64) (bool, error) {
	var query string
	if current == 0 {
		query = `INSERT INTO counters (namespace, scope_key, value)
				 VALUES ($1, $2, $4)
				 ON CONFLICT (namespace, scope_key) DO UPDATE
				 SET value = EXCLUDED.value, updated_at = NOW()
				 WHERE counters.value = $3`
	} else {
		query = `UPDATE counters SET value = $4, updated_at = NOW()
				 WHERE namespace = $1 AND scope_key = $2 AND value = $3`
	}

	tag, err := r.db.Exec(ctx, query, key.Namespace, key.Scope, current, next)
	if err != nil {
		return false, fmt.Errorf("failed to swap counter %s: %w", key.Path(), err)
	}

	return tag.RowsAffected() == 1, nil
}
