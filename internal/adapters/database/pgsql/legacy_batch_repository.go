package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orchardgauge/cidery_production_app/internal/apperrors"
	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	portsrepo "github.com/orchardgauge/cidery_production_app/internal/core/ports/repositories"
	"github.com/orchardgauge/cidery_production_app/internal/models"
	"github.com/orchardgauge/cidery_production_app/internal/utils/mapping"
)

const legacyBatchColumns = `legacy_batch_id, organization_id, tax_class, description,
	volume_liters, effective_date, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

type legacyBatchRepository struct {
	pool *pgxpool.Pool
}

// NewLegacyBatchRepository creates a new repository for legacy batches.
func NewLegacyBatchRepository(pool *pgxpool.Pool) portsrepo.LegacyBatchRepository {
	return &legacyBatchRepository{pool: pool}
}

// SaveLegacyBatch inserts a new legacy batch.
func (r *legacyBatchRepository) SaveLegacyBatch(ctx context.Context, lb domain.LegacyBatch) error {
	m := mapping.ToModelLegacyBatch(lb)
	query := `
		INSERT INTO legacy_batches (` + legacyBatchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.pool.Exec(ctx, query,
		m.LegacyBatchID, m.OrganizationID, m.TaxClass, m.Description,
		m.VolumeLiters, m.EffectiveDate, m.CreatedAt, m.CreatedBy,
		m.LastUpdatedAt, m.LastUpdatedBy, m.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save legacy batch %s: %w", m.LegacyBatchID, err)
	}
	return nil
}

// UpdateLegacyBatch updates the mutable fields of a legacy batch.
func (r *legacyBatchRepository) UpdateLegacyBatch(ctx context.Context, lb domain.LegacyBatch) error {
	m := mapping.ToModelLegacyBatch(lb)
	query := `
		UPDATE legacy_batches
		SET description = $3, volume_liters = $4, last_updated_at = $5, last_updated_by = $6
		WHERE organization_id = $1 AND legacy_batch_id = $2 AND deleted_at IS NULL;
	`
	tag, err := r.pool.Exec(ctx, query,
		m.OrganizationID, m.LegacyBatchID, m.Description, m.VolumeLiters,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update legacy batch %s: %w", m.LegacyBatchID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteLegacyBatch soft-deletes the record.
func (r *legacyBatchRepository) DeleteLegacyBatch(ctx context.Context, organizationID, legacyBatchID string, deletedBy string, deletedAt time.Time) error {
	query := `
		UPDATE legacy_batches
		SET deleted_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE organization_id = $1 AND legacy_batch_id = $2 AND deleted_at IS NULL;
	`
	tag, err := r.pool.Exec(ctx, query, organizationID, legacyBatchID, deletedAt, deletedBy)
	if err != nil {
		return fmt.Errorf("failed to delete legacy batch %s: %w", legacyBatchID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindLegacyBatchByID returns a single non-deleted legacy batch.
func (r *legacyBatchRepository) FindLegacyBatchByID(ctx context.Context, organizationID, legacyBatchID string) (*domain.LegacyBatch, error) {
	query := `
		SELECT ` + legacyBatchColumns + `
		FROM legacy_batches
		WHERE organization_id = $1 AND legacy_batch_id = $2 AND deleted_at IS NULL;
	`
	var m models.LegacyBatch
	err := r.pool.QueryRow(ctx, query, organizationID, legacyBatchID).Scan(
		&m.LegacyBatchID, &m.OrganizationID, &m.TaxClass, &m.Description,
		&m.VolumeLiters, &m.EffectiveDate, &m.CreatedAt, &m.CreatedBy,
		&m.LastUpdatedAt, &m.LastUpdatedBy, &m.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find legacy batch %s: %w", legacyBatchID, err)
	}
	lb := mapping.ToDomainLegacyBatch(m)
	return &lb, nil
}

// FindLegacyBatches returns non-deleted records effective on or before asOf.
func (r *legacyBatchRepository) FindLegacyBatches(ctx context.Context, organizationID string, asOf time.Time) ([]domain.LegacyBatch, error) {
	query := `
		SELECT ` + legacyBatchColumns + `
		FROM legacy_batches
		WHERE organization_id = $1 AND effective_date <= $2 AND deleted_at IS NULL
		ORDER BY effective_date;
	`
	rows, err := r.pool.Query(ctx, query, organizationID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query legacy batches: %w", err)
	}
	defer rows.Close()

	var ms []models.LegacyBatch
	for rows.Next() {
		var m models.LegacyBatch
		if err := rows.Scan(
			&m.LegacyBatchID, &m.OrganizationID, &m.TaxClass, &m.Description,
			&m.VolumeLiters, &m.EffectiveDate, &m.CreatedAt, &m.CreatedBy,
			&m.LastUpdatedAt, &m.LastUpdatedBy, &m.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan legacy batch: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return mapping.ToDomainLegacyBatchSlice(ms), nil
}
