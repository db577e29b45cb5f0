package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	portsrepo "github.com/orchardgauge/cidery_production_app/internal/core/ports/repositories"
	"github.com/orchardgauge/cidery_production_app/internal/models"
	"github.com/orchardgauge/cidery_production_app/internal/utils/mapping"
)

const rateColumns = `rate_id, tax_class, rate_per_gallon, credit_rate_per_gallon,
	credit_gallon_cap, effective_from, effective_to`

type rateRepository struct {
	pool *pgxpool.Pool
}

// NewRateRepository creates a new repository for the excise rate table.
func NewRateRepository(pool *pgxpool.Pool) portsrepo.RateRepository {
	return &rateRepository{pool: pool}
}

func (r *rateRepository) queryRates(ctx context.Context, query string, args ...any) ([]domain.TaxRate, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax rates: %w", err)
	}
	defer rows.Close()

	var ms []models.TaxRate
	for rows.Next() {
		var m models.TaxRate
		if err := rows.Scan(
			&m.RateID, &m.TaxClass, &m.RatePerGallon, &m.CreditRatePerGallon,
			&m.CreditGallonCap, &m.EffectiveFrom, &m.EffectiveTo,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tax rate: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return mapping.ToDomainTaxRateSlice(ms), nil
}

// FindRatesEffectiveOn returns the rate row in effect on the date per tax class.
func (r *rateRepository) FindRatesEffectiveOn(ctx context.Context, on time.Time) ([]domain.TaxRate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM tax_rates
		WHERE effective_from <= $1 AND (effective_to IS NULL OR effective_to >= $1)
		ORDER BY tax_class;
	`
	return r.queryRates(ctx, query, on)
}

// ListRates returns the full table, newest effective date first.
func (r *rateRepository) ListRates(ctx context.Context) ([]domain.TaxRate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM tax_rates
		ORDER BY effective_from DESC, tax_class;
	`
	return r.queryRates(ctx, query)
}
