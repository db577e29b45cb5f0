package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	portsrepo "github.com/orchardgauge/cidery_production_app/internal/core/ports/repositories"
)

type productionRepository struct {
	pool *pgxpool.Pool
}

// NewProductionRepository creates a new repository for production source records.
func NewProductionRepository(pool *pgxpool.Pool) portsrepo.ProductionRepository {
	return &productionRepository{pool: pool}
}

// FindPressRuns returns press runs dated within [from, to].
func (r *productionRepository) FindPressRuns(ctx context.Context, organizationID string, from, to time.Time) ([]domain.PressRun, error) {
	query := `
		SELECT press_run_id, organization_id, tax_class, fruit_pounds, juice_liters, pressed_at
		FROM press_runs
		WHERE organization_id = $1 AND pressed_at >= $2 AND pressed_at <= $3
		ORDER BY pressed_at;
	`
	rows, err := r.pool.Query(ctx, query, organizationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query press runs: %w", err)
	}
	defer rows.Close()

	var pressRuns []domain.PressRun
	for rows.Next() {
		var p domain.PressRun
		var taxClass string
		if err := rows.Scan(&p.PressRunID, &p.OrganizationID, &taxClass, &p.FruitPounds, &p.JuiceLiters, &p.PressedAt); err != nil {
			return nil, fmt.Errorf("failed to scan press run: %w", err)
		}
		p.TaxClass = domain.TaxClass(taxClass)
		pressRuns = append(pressRuns, p)
	}
	return pressRuns, rows.Err()
}

// FindJuicePurchases returns juice purchases dated within [from, to].
func (r *productionRepository) FindJuicePurchases(ctx context.Context, organizationID string, from, to time.Time) ([]domain.JuicePurchase, error) {
	query := `
		SELECT purchase_id, organization_id, tax_class, juice_liters, purchased_at
		FROM juice_purchases
		WHERE organization_id = $1 AND purchased_at >= $2 AND purchased_at <= $3
		ORDER BY purchased_at;
	`
	rows, err := r.pool.Query(ctx, query, organizationID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query juice purchases: %w", err)
	}
	defer rows.Close()

	var purchases []domain.JuicePurchase
	for rows.Next() {
		var p domain.JuicePurchase
		var taxClass string
		if err := rows.Scan(&p.PurchaseID, &p.OrganizationID, &taxClass, &p.JuiceLiters, &p.PurchasedAt); err != nil {
			return nil, fmt.Errorf("failed to scan juice purchase: %w", err)
		}
		p.TaxClass = domain.TaxClass(taxClass)
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}
