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
	"github.com/orchardgauge/cidery_production_app/internal/utils/pagination"
)

const snapshotColumns = `reconciliation_id, organization_id, reconciliation_date, name, notes,
	period_start_date, period_end_date, previous_reconciliation_id, summary,
	created_at, created_by, last_updated_at, last_updated_by`

type reconciliationRepository struct {
	pool *pgxpool.Pool
}

// NewReconciliationRepository creates a new repository for reconciliation snapshots.
func NewReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepository {
	return &reconciliationRepository{pool: pool}
}

// SaveSnapshot commits the snapshot in a single transaction. The summary
// travels as one JSONB document, so the insert is atomic by construction; the
// explicit transaction keeps the write path uniform and future-proof for
// companion rows.
func (r *reconciliationRepository) SaveSnapshot(ctx context.Context, snapshot domain.ReconciliationSnapshot) error {
	model, err := mapping.ToModelReconciliationSnapshot(snapshot)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	query := `
		INSERT INTO reconciliation_snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, query,
		model.ReconciliationID,
		model.OrganizationID,
		model.ReconciliationDate,
		model.Name,
		model.Notes,
		model.PeriodStartDate,
		model.PeriodEndDate,
		model.PreviousReconciliationID,
		model.SummaryJSON,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save reconciliation snapshot %s: %w", model.ReconciliationID, err)
	}

	return tx.Commit(ctx)
}

func scanSnapshot(row pgx.Row) (*domain.ReconciliationSnapshot, error) {
	var m models.ReconciliationSnapshot
	err := row.Scan(
		&m.ReconciliationID, &m.OrganizationID, &m.ReconciliationDate, &m.Name, &m.Notes,
		&m.PeriodStartDate, &m.PeriodEndDate, &m.PreviousReconciliationID, &m.SummaryJSON,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	snapshot, err := mapping.ToDomainReconciliationSnapshot(m)
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// FindLastSnapshot returns the most recent snapshot by reconciliation date.
func (r *reconciliationRepository) FindLastSnapshot(ctx context.Context, organizationID string) (*domain.ReconciliationSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM reconciliation_snapshots
		WHERE organization_id = $1
		ORDER BY reconciliation_date DESC, created_at DESC
		LIMIT 1;
	`
	snapshot, err := scanSnapshot(r.pool.QueryRow(ctx, query, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find last reconciliation snapshot: %w", err)
	}
	return snapshot, nil
}

// FindSnapshotByID returns a specific snapshot.
func (r *reconciliationRepository) FindSnapshotByID(ctx context.Context, organizationID, reconciliationID string) (*domain.ReconciliationSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM reconciliation_snapshots
		WHERE organization_id = $1 AND reconciliation_id = $2;
	`
	snapshot, err := scanSnapshot(r.pool.QueryRow(ctx, query, organizationID, reconciliationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reconciliation snapshot %s: %w", reconciliationID, err)
	}
	return snapshot, nil
}

// ListSnapshots pages through history newest first with a keyset token on
// (reconciliation_date, created_at).
func (r *reconciliationRepository) ListSnapshots(ctx context.Context, organizationID string, limit int, nextToken *string) ([]domain.ReconciliationSnapshot, *string, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM reconciliation_snapshots
		WHERE organization_id = $1
	`
	args := []any{organizationID}

	if nextToken != nil && *nextToken != "" {
		tokenDate, tokenCreatedAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (reconciliation_date, created_at) < ($2, $3)`
		args = append(args, tokenDate, tokenCreatedAt)
	}

	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(` ORDER BY reconciliation_date DESC, created_at DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list reconciliation snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.ReconciliationSnapshot
	for rows.Next() {
		var m models.ReconciliationSnapshot
		if err := rows.Scan(
			&m.ReconciliationID, &m.OrganizationID, &m.ReconciliationDate, &m.Name, &m.Notes,
			&m.PeriodStartDate, &m.PeriodEndDate, &m.PreviousReconciliationID, &m.SummaryJSON,
			&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan reconciliation snapshot: %w", err)
		}
		snapshot, err := mapping.ToDomainReconciliationSnapshot(m)
		if err != nil {
			return nil, nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var token *string
	if len(snapshots) > limit {
		snapshots = snapshots[:limit]
		last := snapshots[len(snapshots)-1]
		t := pagination.EncodeToken(last.ReconciliationDate, last.CreatedAt)
		token = &t
	}
	return snapshots, token, nil
}

type openingBalanceRepository struct {
	pool *pgxpool.Pool
}

// NewOpeningBalanceRepository creates a new repository for TTB opening balances.
func NewOpeningBalanceRepository(pool *pgxpool.Pool) portsrepo.OpeningBalanceRepository {
	return &openingBalanceRepository{pool: pool}
}

// FindOpeningBalances returns the balance set from the latest balance date on
// or before asOf, or apperrors.ErrNotFound when none have been entered.
func (r *openingBalanceRepository) FindOpeningBalances(ctx context.Context, organizationID string, asOf time.Time) ([]domain.OpeningBalance, error) {
	query := `
		SELECT organization_id, balance_date, tax_class, gallons
		FROM opening_balances
		WHERE organization_id = $1
			AND balance_date = (
				SELECT MAX(balance_date) FROM opening_balances
				WHERE organization_id = $1 AND balance_date <= $2
			);
	`
	rows, err := r.pool.Query(ctx, query, organizationID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query opening balances: %w", err)
	}
	defer rows.Close()

	var balances []domain.OpeningBalance
	for rows.Next() {
		var ob domain.OpeningBalance
		var taxClass string
		if err := rows.Scan(&ob.OrganizationID, &ob.BalanceDate, &taxClass, &ob.Gallons); err != nil {
			return nil, fmt.Errorf("failed to scan opening balance: %w", err)
		}
		ob.TaxClass = domain.TaxClass(taxClass)
		balances = append(balances, ob)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(balances) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return balances, nil
}
