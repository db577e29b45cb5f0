package domain

import (
	"fmt"

	"github.com/orchardgauge/cidery_production_app/internal/apperrors"
)

// TaxClass is a statutory TTB category of fermented beverage, taxed at a distinct rate.
// The set is closed; every batch or package is assigned exactly one class at the time
// of measurement and historical records are never reclassified.
type TaxClass string

const (
	TaxClassHardCider      TaxClass = "HARD_CIDER"
	TaxClassWineUnder16    TaxClass = "WINE_UNDER_16"
	TaxClassWine16To21     TaxClass = "WINE_16_TO_21"
	TaxClassWine21To24     TaxClass = "WINE_21_TO_24"
	TaxClassCarbonatedWine TaxClass = "CARBONATED_WINE"
	TaxClassSparklingWine  TaxClass = "SPARKLING_WINE"
)

// AllTaxClasses is the fixed reporting order for per-class breakdowns. Iterating this
// slice (instead of ranging over maps) keeps every report exhaustive over the enum:
// a missing class is a visible zero row, not a silent gap.
var AllTaxClasses = []TaxClass{
	TaxClassHardCider,
	TaxClassWineUnder16,
	TaxClassWine16To21,
	TaxClassWine21To24,
	TaxClassCarbonatedWine,
	TaxClassSparklingWine,
}

// ParseTaxClass converts a stored string into a TaxClass, rejecting unknown values.
func ParseTaxClass(s string) (TaxClass, error) {
	tc := TaxClass(s)
	switch tc {
	case TaxClassHardCider, TaxClassWineUnder16, TaxClassWine16To21,
		TaxClassWine21To24, TaxClassCarbonatedWine, TaxClassSparklingWine:
		return tc, nil
	}
	return "", fmt.Errorf("unknown tax class %q: %w", s, apperrors.ErrValidation)
}

// DisplayName returns the label used on reports and the paper form.
func (tc TaxClass) DisplayName() string {
	switch tc {
	case TaxClassHardCider:
		return "Hard Cider"
	case TaxClassWineUnder16:
		return "Wine (not over 16%)"
	case TaxClassWine16To21:
		return "Wine (over 16 to 21%)"
	case TaxClassWine21To24:
		return "Wine (over 21 to 24%)"
	case TaxClassCarbonatedWine:
		return "Artificially Carbonated Wine"
	case TaxClassSparklingWine:
		return "Sparkling Wine"
	}
	return string(tc)
}

// IsEffervescent reports whether the class belongs to the derived "effervescent"
// display grouping (carbonated + sparkling). This is a presentation grouping only,
// never a separately tracked class.
func (tc TaxClass) IsEffervescent() bool {
	return tc == TaxClassCarbonatedWine || tc == TaxClassSparklingWine
}

// CarbonationLevel describes the effervescence of a batch at measurement time.
type CarbonationLevel string

const (
	CarbonationStill     CarbonationLevel = "STILL"
	CarbonationPetillant CarbonationLevel = "PETILLANT"
	CarbonationSparkling CarbonationLevel = "SPARKLING"
)

// ProductType describes the base of the fermentation, used only to distinguish
// cider-eligible product from other wine at classification time.
type ProductType string

const (
	ProductApple ProductType = "APPLE"
	ProductPear  ProductType = "PEAR"
	ProductGrape ProductType = "GRAPE"
	ProductHoney ProductType = "HONEY"
	ProductOther ProductType = "OTHER"
)

// IsCiderBase reports whether the product type qualifies for the hard cider class.
func (p ProductType) IsCiderBase() bool {
	return p == ProductApple || p == ProductPear
}
