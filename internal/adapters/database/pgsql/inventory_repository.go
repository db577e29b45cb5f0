package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	portsrepo "github.com/orchardgauge/cidery_production_app/internal/core/ports/repositories"
)

type inventoryRepository struct {
	pool *pgxpool.Pool
}

// NewInventoryRepository creates a new repository for inventory source data.
func NewInventoryRepository(pool *pgxpool.Pool) portsrepo.InventoryRepository {
	return &inventoryRepository{pool: pool}
}

// FindBatchSnapshotsAsOf returns, per batch, the latest snapshot dated on or
// before asOf. DISTINCT ON with the descending measured_at sort does the
// per-batch "latest" selection in one pass.
func (r *inventoryRepository) FindBatchSnapshotsAsOf(ctx context.Context, organizationID string, asOf time.Time) ([]domain.BatchSnapshot, error) {
	query := `
		SELECT DISTINCT ON (batch_id)
			batch_id, organization_id, vessel_id, product_type, carbonation,
			force_carbonated, abv, volume_liters, harvest_year, measured_at,
			merged_into_batch_id
		FROM batch_snapshots
		WHERE organization_id = $1 AND measured_at <= $2
		ORDER BY batch_id, measured_at DESC;
	`
	rows, err := r.pool.Query(ctx, query, organizationID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.BatchSnapshot
	for rows.Next() {
		var b domain.BatchSnapshot
		var productType, carbonation string
		if err := rows.Scan(
			&b.BatchID, &b.OrganizationID, &b.VesselID, &productType, &carbonation,
			&b.ForceCarbonated, &b.ABV, &b.VolumeLiters, &b.HarvestYear, &b.MeasuredAt,
			&b.MergedIntoBatchID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan batch snapshot: %w", err)
		}
		b.ProductType = domain.ProductType(productType)
		b.Carbonation = domain.CarbonationLevel(carbonation)
		snapshots = append(snapshots, b)
	}
	return snapshots, rows.Err()
}

// FindPackagingRunsAsOf returns packaging runs completed on or before asOf.
func (r *inventoryRepository) FindPackagingRunsAsOf(ctx context.Context, organizationID string, asOf time.Time) ([]domain.PackagingRun, error) {
	query := `
		SELECT packaging_id, organization_id, batch_id, product_type, carbonation,
			force_carbonated, abv, volume_liters, harvest_year, packaged_at, removed_at
		FROM packaging_runs
		WHERE organization_id = $1 AND packaged_at <= $2
		ORDER BY packaged_at;
	`
	rows, err := r.pool.Query(ctx, query, organizationID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query packaging runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.PackagingRun
	for rows.Next() {
		var p domain.PackagingRun
		var productType, carbonation string
		if err := rows.Scan(
			&p.PackagingID, &p.OrganizationID, &p.BatchID, &productType, &carbonation,
			&p.ForceCarbonated, &p.ABV, &p.VolumeLiters, &p.HarvestYear, &p.PackagedAt, &p.RemovedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan packaging run: %w", err)
		}
		p.ProductType = domain.ProductType(productType)
		p.Carbonation = domain.CarbonationLevel(carbonation)
		runs = append(runs, p)
	}
	return runs, rows.Err()
}

// FindVessels returns the organization's vessels keyed by vessel ID.
func (r *inventoryRepository) FindVessels(ctx context.Context, organizationID string) (map[string]domain.Vessel, error) {
	query := `
		SELECT vessel_id, organization_id, name, capacity_liters, is_fermenter,
			created_at, created_by, last_updated_at, last_updated_by
		FROM vessels
		WHERE organization_id = $1;
	`
	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query vessels: %w", err)
	}
	defer rows.Close()

	vessels := make(map[string]domain.Vessel)
	for rows.Next() {
		var v domain.Vessel
		if err := rows.Scan(
			&v.VesselID, &v.OrganizationID, &v.Name, &v.CapacityLiters, &v.IsFermenter,
			&v.CreatedAt, &v.CreatedBy, &v.LastUpdatedAt, &v.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan vessel: %w", err)
		}
		vessels[v.VesselID] = v
	}
	return vessels, rows.Err()
}
