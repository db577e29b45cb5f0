// Package volume normalizes wine volumes to a canonical unit before any
// aggregation. The engine computes in liters; wine gallons appear only at the
// reporting boundary, and rounding happens only at presentation, never
// mid-computation.
package volume

import (
	"fmt"
	"math"

	"github.com/orchardgauge/cidery_production_app/internal/apperrors"
	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
)

// ToCanonical converts a magnitude in the given unit to liters. Negative or
// non-finite magnitudes are rejected with a VolumeError, never clamped to zero.
func ToCanonical(magnitude float64, unit domain.VolumeUnit) (domain.VolumeAmount, error) {
	if magnitude < 0 || math.IsNaN(magnitude) || math.IsInf(magnitude, 0) {
		return domain.VolumeAmount{}, apperrors.NewVolumeError(magnitude, string(unit))
	}
	switch unit {
	case domain.UnitLiters:
		return domain.VolumeAmount{Magnitude: magnitude, Unit: domain.UnitLiters}, nil
	case domain.UnitWineGallons:
		return domain.VolumeAmount{Magnitude: magnitude * domain.LitersPerWineGallon, Unit: domain.UnitLiters}, nil
	default:
		return domain.VolumeAmount{}, fmt.Errorf("%w: unknown volume unit %q", apperrors.ErrValidation, unit)
	}
}

// ToWineGallons converts a canonical (liter) amount to wine gallons.
func ToWineGallons(amount domain.VolumeAmount) domain.VolumeAmount {
	if amount.Unit == domain.UnitWineGallons {
		return amount
	}
	return domain.VolumeAmount{Magnitude: amount.Magnitude / domain.LitersPerWineGallon, Unit: domain.UnitWineGallons}
}

// LitersToGallons is the bare-float convenience used by aggregators when the
// unit is known by construction.
func LitersToGallons(liters float64) float64 {
	return liters / domain.LitersPerWineGallon
}

// GallonsToLiters converts wine gallons to liters.
func GallonsToLiters(gallons float64) float64 {
	return gallons * domain.LitersPerWineGallon
}

// RoundGallons rounds a gallon figure to one decimal for presentation.
func RoundGallons(gallons float64) float64 {
	return math.Round(gallons*10) / 10
}
