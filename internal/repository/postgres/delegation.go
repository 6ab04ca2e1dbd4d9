package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/caffeinepub/smartcare-connect/internal/model"
	"github.com/caffeinepub/smartcare-connect/internal/repository"
)

type delegationRepository struct {
	db *sqlx.DB
}

func NewDelegationRepository(db *sqlx.DB) repository.DelegationRepository {
	return &delegationRepository{db: db}
}

func (r *delegationRepository) Grant(ctx context.Context, patient, grantee model.Identity) error {
	query := `
		INSERT INTO delegations (patient, grantee)
		VALUES ($1, $2)
		ON CONFLICT (patient, grantee) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, patient, grantee); err != nil {
		return fmt.Errorf("failed to grant family access: %w", err)
	}
	return nil
}

func (r *delegationRepository) Revoke(ctx context.Context, patient, grantee model.Identity) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM delegations WHERE patient = $1 AND grantee = $2`, patient, grantee); err != nil {
		return fmt.Errorf("failed to revoke family access: %w", err)
	}
	return nil
}

func (r *delegationRepository) List(ctx context.Context, patient model.Identity) ([]model.Identity, error) {
	var grantees []string
	query := `SELECT grantee FROM delegations WHERE patient = $1 ORDER BY seq`
	if err := r.db.SelectContext(ctx, &grantees, query, patient); err != nil {
		return nil, fmt.Errorf("failed to list grantees: %w", err)
	}
	out := make([]model.Identity, 0, len(grantees))
	for _, g := range grantees {
		out = append(out, model.Identity(g))
	}
	return out, nil
}

func (r *delegationRepository) HasGrant(ctx context.Context, patient, grantee model.Identity) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM delegations WHERE patient = $1 AND grantee = $2)`
	if err := r.db.GetContext(ctx, &exists, query, patient, grantee); err != nil {
		return false, fmt.Errorf("failed to check grant: %w", err)
	}
	return exists, nil
}
