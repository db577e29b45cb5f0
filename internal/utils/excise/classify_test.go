package excise_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchardgauge/cidery_production_app/internal/apperrors"
	"github.com/orchardgauge/cidery_production_app/internal/core/domain"
	"github.com/orchardgauge/cidery_production_app/internal/utils/excise"
)

func abv(v float64) *float64 { return &v }

func TestClassify_Precedence(t *testing.T) {
	tests := []struct {
		name string
		in   excise.ClassificationInput
		want domain.TaxClass
	}{
		{
			name: "sparkling wins over everything",
			in: excise.ClassificationInput{
				ProductType: domain.ProductGrape,
				Carbonation: domain.CarbonationSparkling,
				ABV:         abv(22.0),
			},
			want: domain.TaxClassSparklingWine,
		},
		{
			name: "sparkling wins even with no ABV",
			in: excise.ClassificationInput{
				ProductType: domain.ProductApple,
				Carbonation: domain.CarbonationSparkling,
			},
			want: domain.TaxClassSparklingWine,
		},
		{
			name: "petillant is carbonated wine",
			in: excise.ClassificationInput{
				ProductType: domain.ProductApple,
				Carbonation: domain.CarbonationPetillant,
				ABV:         abv(6.5),
			},
			want: domain.TaxClassCarbonatedWine,
		},
		{
			name: "force carbonated still wine is carbonated wine",
			in: excise.ClassificationInput{
				ProductType:     domain.ProductGrape,
				Carbonation:     domain.CarbonationStill,
				ForceCarbonated: true,
				ABV:             abv(12.0),
			},
			want: domain.TaxClassCarbonatedWine,
		},
		{
			name: "abv over 21 up to 24",
			in: excise.ClassificationInput{
				ProductType: domain.ProductGrape,
				Carbonation: domain.CarbonationStill,
				ABV:         abv(22.5),
			},
			want: domain.TaxClassWine21To24,
		},
		{
			name: "abv exactly 24 stays in 21-24",
			in: excise.ClassificationInput{
				ProductType: domain.ProductGrape,
				Carbonation: domain.CarbonationStill,
				ABV:         abv(24.0),
			},
			want: domain.TaxClassWine21To24,
		},
		{
			name: "abv over 16 up to 21",
			in: excise.ClassificationInput{
				ProductType: domain.ProductGrape,
				Carbonation: domain.CarbonationStill,
				ABV:         abv(18.0),
			},
			want: domain.TaxClassWine16To21,
		},
		{
			name: "abv exactly 16 is under-16 class",
			in: excise.ClassificationInput{
				ProductType: domain.ProductGrape,
				Carbonation: domain.CarbonationStill,
				ABV:         abv(16.0),
			},
			want: domain.TaxClassWineUnder16,
		},
		{
			name: "low abv grape wine is not cider",
			in: excise.ClassificationInput{
				ProductType: domain.ProductGrape,
				Carbonation: domain.CarbonationStill,
				ABV:         abv(7.0),
			},
			want: domain.TaxClassWineUnder16,
		},
		{
			name: "apple base defaults to hard cider",
			in: excise.ClassificationInput{
				ProductType: domain.ProductApple,
				Carbonation: domain.CarbonationStill,
				ABV:         abv(6.9),
			},
			want: domain.TaxClassHardCider,
		},
		{
			name: "pear base defaults to hard cider",
			in: excise.ClassificationInput{
				ProductType: domain.ProductPear,
				Carbonation: domain.CarbonationStill,
				ABV:         abv(5.5),
			},
			want: domain.TaxClassHardCider,
		},
		{
			name: "honey base low abv is wine under 16",
			in: excise.ClassificationInput{
				ProductType: domain.ProductHoney,
				Carbonation: domain.CarbonationStill,
				ABV:         abv(11.0),
			},
			want: domain.TaxClassWineUnder16,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := excise.Classify(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   excise.ClassificationInput
	}{
		{
			name: "missing abv on still batch",
			in: excise.ClassificationInput{
				BatchID:     "batch-1",
				ProductType: domain.ProductApple,
				Carbonation: domain.CarbonationStill,
			},
		},
		{
			name: "abv above 24",
			in: excise.ClassificationInput{
				BatchID:     "batch-2",
				ProductType: domain.ProductGrape,
				Carbonation: domain.CarbonationStill,
				ABV:         abv(25.0),
			},
		},
		{
			name: "negative abv",
			in: excise.ClassificationInput{
				BatchID:     "batch-3",
				ProductType: domain.ProductGrape,
				Carbonation: domain.CarbonationStill,
				ABV:         abv(-1.0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := excise.Classify(tt.in)
			require.Error(t, err)
			var classErr *apperrors.ClassificationError
			require.True(t, errors.As(err, &classErr))
			assert.Equal(t, tt.in.BatchID, classErr.BatchID)
		})
	}
}

func TestClassifyBatch_UsesFrozenAttributes(t *testing.T) {
	b := domain.BatchSnapshot{
		BatchID:     "batch-9",
		ProductType: domain.ProductApple,
		Carbonation: domain.CarbonationStill,
		ABV:         abv(6.2),
	}
	got, err := excise.ClassifyBatch(b)
	require.NoError(t, err)
	assert.Equal(t, domain.TaxClassHardCider, got)
}
