// AngelaMos | 2026
// repository.go

package provider

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sahib-ng/sahib-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, p *ServiceProvider) error
	GetByID(ctx context.Context, id string) (*ServiceProvider, error)
	GetByUser(ctx context.Context, userID string) (*ServiceProvider, error)
	UpdateVerification(
		ctx context.Context,
		id, status string,
		identityHash *string,
	) error
	UpdateAvailability(ctx context.Context, id string, isAvailable bool) error
	ListActive(ctx context.Context) ([]ServiceProvider, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *ServiceProvider) error {
	query := `
		INSERT INTO service_providers (
			id, user_id, category, verification_status, is_available
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, p, query,
		p.ID,
		p.UserID,
		p.Category,
		p.VerificationStatus,
		p.IsAvailable,
	)
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*ServiceProvider, error) {
	query := `
		SELECT id, user_id, category, verification_status, identity_hash,
		       rating, is_available, created_at, updated_at
		FROM service_providers
		WHERE id = $1`

	var p ServiceProvider
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get provider: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get provider: %w", err)
	}

	return &p, nil
}

func (r *repository) GetByUser(
	ctx context.Context,
	userID string,
) (*ServiceProvider, error) {
	query := `
		SELECT id, user_id, category, verification_status, identity_hash,
		       rating, is_available, created_at, updated_at
		FROM service_providers
		WHERE user_id = $1`

	var p ServiceProvider
	err := r.db.GetContext(ctx, &p, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get provider by user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get provider by user: %w", err)
	}

	return &p, nil
}

func (r *repository) UpdateVerification(
	ctx context.Context,
	id, status string,
	identityHash *string,
) error {
	query := `
		UPDATE service_providers
		SET verification_status = $2,
		    identity_hash = COALESCE($3, identity_hash),
		    updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status, identityHash)
	if err != nil {
		return fmt.Errorf("update verification: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update verification: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update verification: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) UpdateAvailability(
	ctx context.Context,
	id string,
	isAvailable bool,
) error {
	query := `
		UPDATE service_providers
		SET is_available = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, isAvailable)
	if err != nil {
		return fmt.Errorf("update availability: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update availability: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update availability: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListActive(
	ctx context.Context,
) ([]ServiceProvider, error) {
	query := `
		SELECT id, user_id, category, verification_status, identity_hash,
		       rating, is_available, created_at, updated_at
		FROM service_providers
		WHERE is_available = true AND verification_status = 'VERIFIED'
		ORDER BY created_at DESC`

	providers := []ServiceProvider{}
	if err := r.db.SelectContext(ctx, &providers, query); err != nil {
		return nil, fmt.Errorf("list active providers: %w", err)
	}

	return providers, nil
}
