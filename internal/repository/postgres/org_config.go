package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/admissions-server/internal/model"
)

var _ model.OrgConfigStore = (*OrgConfigRepository)(nil)

type OrgConfigRepository struct {
	db *Connection
}

func NewOrgConfigRepository(db *Connection) *OrgConfigRepository {
	return &OrgConfigRepository{
		db: db,
	}
}

func (r *OrgConfigRepository) Get(ctx context.Context) (model.OrgConfig, error) {
	var cfg model.OrgConfig
	query := `SELECT id_prefix, location_code, branch_code FROM org_config WHERE id = 1`

	err := r.db.QueryRow(ctx, query).Scan(&cfg.IDPrefix, &cfg.LocationCode, &cfg.BranchCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.OrgConfig{}, model.ErrNotFound
		}
		return model.OrgConfig{}, fmt.Errorf("failed to get org config: %w", err)
	}

	return cfg, nil
}

// Put creates or replaces the organization codes.
func (r *OrgConfigRepository) Put(ctx context.Context, cfg model.OrgConfig) error {
	query := `INSERT INTO org_config (id, id_prefix, location_code, branch_code)
			  VALUES (1, $1, $2, $3)
			  ON CONFLICT (id) DO UPDATE
			  SET id_prefix = EXCLUDED.id_prefix, location_code = EXCLUDED.location_code, branch_code = EXCLUDED.branch_code`

	if _, err := r.db.Exec(ctx, query, cfg.IDPrefix, cfg.LocationCode, cfg.BranchCode); err != nil {
		return fmt.Errorf("failed to put org config: %w", err)
	}
	return nil
}
