package volume_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchardgauge/cidery_production_app/internal/apperrors"
	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	"github.com/orchardgauge/cidery_production_app/internal/utils/volume"
)

func TestToCanonical_Liters(t *testing.T) {
	amt, err := volume.ToCanonical(100.0, domain.UnitLiters)
	require.NoError(t, err)
	assert.Equal(t, 100.0, amt.Magnitude)
	assert.Equal(t, domain.UnitLiters, amt.Unit)
}

func TestToCanonical_WineGallons(t *testing.T) {
	amt, err := volume.ToCanonical(1.0, domain.UnitWineGallons)
	require.NoError(t, err)
	assert.Equal(t, 3.785411784, amt.Magnitude)
	assert.Equal(t, domain.UnitLiters, amt.Unit)
}

func TestToCanonical_RejectsInvalidMagnitudes(t *testing.T) {
	tests := []struct {
		name      string
		magnitude float64
	}{
		{"negative", -0.001},
		{"NaN", math.NaN()},
		{"positive infinity", math.Inf(1)},
		{"negative infinity", math.Inf(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := volume.ToCanonical(tt.magnitude, domain.UnitLiters)
			require.Error(t, err)
			var volErr *apperrors.VolumeError
			assert.True(t, errors.As(err, &volErr))
			assert.True(t, errors.Is(err, apperrors.ErrValidation))
		})
	}
}

func TestToCanonical_UnknownUnit(t *testing.T) {
	_, err := volume.ToCanonical(1.0, domain.VolumeUnit("BARRELS"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestRoundTrip_GallonsToLitersAndBack(t *testing.T) {
	// toWineGallons(toCanonical(x, gal)) must hold within 1e-6 relative tolerance.
	values := []float64{0, 0.1, 1, 5.5, 126.0, 1000.123456, 987654.321}
	for _, x := range values {
		canonical, err := volume.ToCanonical(x, domain.UnitWineGallons)
		require.NoError(t, err)
		back := volume.ToWineGallons(canonical)
		assert.Equal(t, domain.UnitWineGallons, back.Unit)
		if x == 0 {
			assert.Equal(t, 0.0, back.Magnitude)
			continue
		}
		rel := math.Abs(back.Magnitude-x) / x
		assert.Less(t, rel, 1e-6, "round trip of %v gal drifted by %v", x, rel)
	}
}

func TestToWineGallons_AlreadyGallons(t *testing.T) {
	amt := domain.VolumeAmount{Magnitude: 12.0, Unit: domain.UnitWineGallons}
	assert.Equal(t, amt, volume.ToWineGallons(amt))
}

func TestRoundGallons_PresentationOnly(t *testing.T) {
	assert.Equal(t, 12.3, volume.RoundGallons(12.34))
	assert.Equal(t, 12.4, volume.RoundGallons(12.35))
	assert.Equal(t, 0.0, volume.RoundGallons(0.04))
}
