package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	portsrepo "github.com/orchardgauge/cidery_production_app/internal/core/ports/repositories"
)

type distilleryRepository struct {
	pool *pgxpool.Pool
}

// NewDistilleryRepository creates a new repository for DSP movements.
func NewDistilleryRepository(pool *pgxpool.Pool) portsrepo.DistilleryRepository {
	return &distilleryRepository{pool: pool}
}

// FindBrandyTransfers returns transfers dated within [from, to].
func (r *distilleryRepository) FindBrandyTransfers(ctx context.Context, organizationID string, from, to time.Time) ([]domain.BrandyTransfer, error) {
	query := `
		SELECT transfer_id, organization_id, kind, dsp_registry, gallons, transferred_at
		FROM brandy_transfers
		WHERE organization_id = $1 AND transferred_at >= $2 AND transferred_at <= $3
		ORDER BY transferred_at;
	`
	rows, err := r.pool.Query(ctx, query, organizationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query brandy transfers: %w", err)
	}
	defer rows.Close()

	var transfers []domain.BrandyTransfer
	for rows.Next() {
		var t domain.BrandyTransfer
		var kind string
		if err := rows.Scan(&t.TransferID, &t.OrganizationID, &kind, &t.DSPRegistry, &t.Gallons, &t.TransferredAt); err != nil {
			return nil, fmt.Errorf("failed to scan brandy transfer: %w", err)
		}
		t.Kind = domain.BrandyTransferKind(kind)
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}

// FindSpiritsBalance returns the latest recorded balance of the account on or
// before asOf, or 0 when none has been recorded.
func (r *distilleryRepository) FindSpiritsBalance(ctx context.Context, organizationID string, account portsrepo.SpiritsAccount, asOf time.Time) (float64, error) {
	query := `
		SELECT gallons
		FROM spirits_balances
		WHERE organization_id = $1 AND account = $2 AND recorded_at <= $3
		ORDER BY recorded_at DESC
		LIMIT 1;
	`
	var gallons float64
	err := r.pool.QueryRow(ctx, query, organizationID, string(account), asOf).Scan(&gallons)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to find spirits balance for %s: %w", account, err)
	}
	return gallons, nil
}

type materialsRepository struct {
	pool *pgxpool.Pool
}

// NewMaterialsRepository creates a new repository for materials entries.
func NewMaterialsRepository(pool *pgxpool.Pool) portsrepo.MaterialsRepository {
	return &materialsRepository{pool: pool}
}

// SumMaterials aggregates materials received and used over [from, to]. The
// aggregation happens in SQL; an organization with no entries sums to zeros.
func (r *materialsRepository) SumMaterials(ctx context.Context, organizationID string, from, to time.Time) (domain.MaterialsUsage, error) {
	query := `
		SELECT
			COALESCE(SUM(apples_pounds_received), 0),
			COALESCE(SUM(apples_pounds_used), 0),
			COALESCE(SUM(other_fruit_pounds_received), 0),
			COALESCE(SUM(other_fruit_pounds_used), 0),
			COALESCE(SUM(honey_pounds_received), 0),
			COALESCE(SUM(honey_pounds_used), 0),
			COALESCE(SUM(sugar_pounds_received), 0),
			COALESCE(SUM(sugar_pounds_used), 0),
			COALESCE(SUM(juice_gallons_received), 0),
			COALESCE(SUM(juice_gallons_used), 0)
		FROM materials_entries
		WHERE organization_id = $1 AND entry_date >= $2 AND entry_date <= $3;
	`
	var usage domain.MaterialsUsage
	err := r.pool.QueryRow(ctx, query, organizationID, from, to).Scan(
		&usage.ApplesPoundsReceived, &usage.ApplesPoundsUsed,
		&usage.OtherFruitPoundsReceived, &usage.OtherFruitPoundsUsed,
		&usage.HoneyPoundsReceived, &usage.HoneyPoundsUsed,
		&usage.SugarPoundsReceived, &usage.SugarPoundsUsed,
		&usage.JuiceGallonsReceived, &usage.JuiceGallonsUsed,
	)
	if err != nil {
		return domain.MaterialsUsage{}, fmt.Errorf("failed to sum materials: %w", err)
	}
	return usage, nil
}
