package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/repository"
)

type tierRepository struct {
	db *sqlx.DB
}

func NewTierRepository(db *sqlx.DB) repository.TierRepository {
	return &tierRepository{db: db}
}

func (r *tierRepository) SetTier(ctx context.Context, id model.Identity, tier model.AdminTier) error {
	query := `
		INSERT INTO admin_tiers (identity, tier)
		VALUES ($1, $2)
		ON CONFLICT (identity) DO UPDATE SET tier = EXCLUDED.tier
	`
	if _, err := r.db.ExecContext(ctx, query, id, tier); err != nil {
		return fmt.Errorf("failed to set tier: %w", err)
	}
	return nil
}

func (r *tierRepository) GetTier(ctx context.Context, id model.Identity) (model.AdminTier, bool, error) {
	var tier string
	if err := r.db.GetContext(ctx, &tier, `SELECT tier FROM admin_tiers WHERE identity = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get tier: %w", err)
	}
	return model.AdminTier(tier), true, nil
}
