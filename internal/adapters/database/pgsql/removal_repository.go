package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	portsrepo "github.com/orchardgauge/cidery_production_app/internal/core/ports/repositories"
)

type removalRepository struct {
	pool *pgxpool.Pool
}

// NewRemovalRepository creates a new repository for removals from bond.
func NewRemovalRepository(pool *pgxpool.Pool) portsrepo.RemovalRepository {
	return &removalRepository{pool: pool}
}

// FindRemovals returns removals dated within [from, to].
func (r *removalRepository) FindRemovals(ctx context.Context, organizationID string, from, to time.Time) ([]domain.Removal, error) {
	query := `
		SELECT removal_id, organization_id, batch_id, packaging_id, tax_class, kind,
			volume_liters, from_bulk, removed_at
		FROM removals
		WHERE organization_id = $1 AND removed_at >= $2 AND removed_at <= $3
		ORDER BY removed_at;
	`
	rows, err := r.pool.Query(ctx, query, organizationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query removals: %w", err)
	}
	defer rows.Close()

	var removals []domain.Removal
	for rows.Next() {
		var rm domain.Removal
		var taxClass, kind string
		if err := rows.Scan(
			&rm.RemovalID, &rm.OrganizationID, &rm.BatchID, &rm.PackagingID, &taxClass, &kind,
			&rm.VolumeLiters, &rm.FromBulk, &rm.RemovedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan removal: %w", err)
		}
		rm.TaxClass = domain.TaxClass(taxClass)
		rm.Kind = domain.RemovalKind(kind)
		removals = append(removals, rm)
	}
	return removals, rows.Err()
}
