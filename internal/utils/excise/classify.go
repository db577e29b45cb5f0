// Package excise holds the tax-class partitioning rules shared by services and
// repositories, so every aggregation classifies volume the same way.
package excise

import (
	"github.com/orchardgauge/cidery_production_app/internal/apperrors"
	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
)

// ClassificationInput carries the attributes a tax class is derived from,
// frozen at measurement time.
type ClassificationInput struct {
	BatchID         string
	ProductType     domain.ProductType
	Carbonation     domain.CarbonationLevel
	ForceCarbonated bool
	ABV             *float64 // percent by volume; nil when never measured
}

// Classify assigns exactly one TTB tax class. Rule precedence, first match wins:
//
//	1. sparkling carbonation            -> SPARKLING_WINE
//	2. petillant or force-carbonated    -> CARBONATED_WINE
//	3. ABV > 21 and <= 24               -> WINE_21_TO_24
//	4. ABV > 16 and <= 21               -> WINE_16_TO_21
//	5. ABV <= 16, non-cider base        -> WINE_UNDER_16
//	6. apple/pear base                  -> HARD_CIDER
//
// Missing or out-of-range ABV is a ClassificationError surfaced to the caller;
// downstream totals must never silently misclassify volume.
func Classify(in ClassificationInput) (domain.TaxClass, error) {
	if in.Carbonation == domain.CarbonationSparkling {
		return domain.TaxClassSparklingWine, nil
	}
	if in.Carbonation == domain.CarbonationPetillant || in.ForceCarbonated {
		return domain.TaxClassCarbonatedWine, nil
	}
	if in.ABV == nil {
		return "", apperrors.NewClassificationError(in.BatchID, "ABV has never been measured")
	}
	abv := *in.ABV
	switch {
	case abv > 24:
		return "", apperrors.NewClassificationError(in.BatchID, "ABV above 24% is outside wine tax classes")
	case abv > 21:
		return domain.TaxClassWine21To24, nil
	case abv > 16:
		return domain.TaxClassWine16To21, nil
	case abv < 0:
		return "", apperrors.NewClassificationError(in.BatchID, "negative ABV")
	}
	if in.ProductType.IsCiderBase() {
		return domain.TaxClassHardCider, nil
	}
	return domain.TaxClassWineUnder16, nil
}

// ClassifyBatch classifies a batch snapshot.
func ClassifyBatch(b domain.BatchSnapshot) (domain.TaxClass, error) {
	return Classify(ClassificationInput{
		BatchID:         b.BatchID,
		ProductType:     b.ProductType,
		Carbonation:     b.Carbonation,
		ForceCarbonated: b.ForceCarbonated,
		ABV:             b.ABV,
	})
}

// ClassifyPackaging classifies a packaging run from its frozen attributes.
func ClassifyPackaging(p domain.PackagingRun) (domain.TaxClass, error) {
	return Classify(ClassificationInput{
		BatchID:         p.BatchID,
		ProductType:     p.ProductType,
		Carbonation:     p.Carbonation,
		ForceCarbonated: p.ForceCarbonated,
		ABV:             p.ABV,
	})
}
