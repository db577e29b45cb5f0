package services

import (
	"context"
	"fmt"
	"time"

	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	portsrepo "github.com/orchardgauge/cidery_production_app/internal/core/ports/repositories"
	portssvc "github.com/orchardgauge/cidery_production_app/internal/core/ports/services"
)

// productionService sums source-of-truth production inputs by year and tax
// class. It deliberately never reads inventory state: the two accounting paths
// stay independent so the reconciliation engine can cross-check them, which
// catches bugs in either path.
type productionService struct {
	productionRepo portsrepo.ProductionRepository
}

// NewProductionService creates the production audit aggregator.
func NewProductionService(productionRepo portsrepo.ProductionRepository) portssvc.ProductionSvcFacade {
	return &productionService{productionRepo: productionRepo}
}

var _ portssvc.ProductionSvcFacade = (*productionService)(nil)

// ProductionTotals implements portssvc.ProductionSvcFacade.
func (s *productionService) ProductionTotals(ctx context.Context, organizationID string, startYear, endYear int) ([]domain.ProductionYearTotals, error) {
	if endYear < startYear {
		return nil, fmt.Errorf("invalid year range %d..%d", startYear, endYear)
	}

	rng := domain.DateRange{
		Start: time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(endYear, time.December, 31, 23, 59, 59, 0, time.UTC),
	}

	pressRuns, err := s.productionRepo.FindPressRuns(ctx, organizationID, rng.Start, rng.End)
	if err != nil {
		return nil, err
	}
	purchases, err := s.productionRepo.FindJuicePurchases(ctx, organizationID, rng.Start, rng.End)
	if err != nil {
		return nil, err
	}

	totals := make([]domain.ProductionYearTotals, 0, endYear-startYear+1)
	index := make(map[int]*domain.ProductionYearTotals)
	for _, y := range rng.Years() {
		totals = append(totals, domain.ProductionYearTotals{
			Year:    y,
			ByClass: make(map[domain.TaxClass]float64, len(domain.AllTaxClasses)),
		})
		index[y] = &totals[len(totals)-1]
		for _, tc := range domain.AllTaxClasses {
			index[y].ByClass[tc] = 0
		}
	}

	// The repository already scopes its queries, but a mis-dated row must not
	// land in a year bucket the caller never asked for.
	for _, pr := range pressRuns {
		if !rng.Contains(pr.PressedAt) {
			continue
		}
		row := index[pr.PressedAt.Year()]
		row.PressRunLiters += pr.JuiceLiters
		row.TotalLiters += pr.JuiceLiters
		row.ByClass[pr.TaxClass] += pr.JuiceLiters
	}
	for _, jp := range purchases {
		if !rng.Contains(jp.PurchasedAt) {
			continue
		}
		row := index[jp.PurchasedAt.Year()]
		row.JuicePurchaseLiters += jp.JuiceLiters
		row.TotalLiters += jp.JuiceLiters
		row.ByClass[jp.TaxClass] += jp.JuiceLiters
	}

	return totals, nil
}
