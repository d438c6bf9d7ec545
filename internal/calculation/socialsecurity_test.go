package calculation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenefitAtAgeOfficialFormulas(t *testing.T) {
	calc := NewSocialSecurityCalculator(nil)
	birthDate := time.Date(1960, 6, 15, 0, 0, 0, 0, time.UTC) // FRA = 67/0
	fraAmount := decimal.NewFromInt(4000)

	tests := []struct {
		name        string
		claimYears  int
		claimMonths int
		expected    decimal.Decimal
	}{
		{
			// 60 months early: 36 x 5/9% + 24 x 5/12% = 30% reduction
			name:       "earliest claim at 62",
			claimYears: 62,
			expected:   decimal.NewFromInt(2800),
		},
		{
			name:       "claim at FRA pays the FRA amount exactly",
			claimYears: 67,
			expected:   decimal.NewFromInt(4000),
		},
		{
			// 36 months delayed: 24% credit, 4000 x 1.24
			name:       "claim at 70 with full delayed credits",
			claimYears: 70,
			expected:   decimal.NewFromInt(4960),
		},
		{
			// 12 months early, within the 5/9% tier: 6.667% reduction
			name:       "one year early",
			claimYears: 66,
			expected:   decimal.RequireFromString("3733.333333333333333333333333"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.BenefitAtAge(birthDate, fraAmount, tt.claimYears, tt.claimMonths)
			require.NoError(t, err)
			assert.True(t, tt.expected.Sub(got).Abs().LessThan(decimal.RequireFromString("0.01")),
				"expected %s, got %s", tt.expected, got)
		})
	}
}

func TestBenefitAtAgeMonotonicAcrossClaimAges(t *testing.T) {
	calc := NewSocialSecurityCalculator(nil)
	birthDate := time.Date(1960, 6, 15, 0, 0, 0, 0, time.UTC)
	fraAmount := decimal.NewFromInt(4000)

	prev := decimal.Zero
	for years := 62; years <= 70; years++ {
		maxMonth := 11
		if years == 70 {
			maxMonth = 0
		}
		for months := 0; months <= maxMonth; months++ {
			got, err := calc.BenefitAtAge(birthDate, fraAmount, years, months)
			require.NoError(t, err)
			assert.True(t, got.GreaterThanOrEqual(prev),
				"benefit at %d/%d (%s) regressed below %s", years, months, got, prev)
			prev = got
		}
	}
}

func TestBenefitAtAgeDRCRoundsDownToDime(t *testing.T) {
	calc := NewSocialSecurityCalculator(nil)
	birthDate := time.Date(1960, 6, 15, 0, 0, 0, 0, time.UTC)

	// 1 month delayed: 1234.56 x 2/3% = 8.2304, rounds down to 8.20.
	got, err := calc.BenefitAtAge(birthDate, decimal.RequireFromString("1234.56"), 67, 1)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1242.76").Equal(got), "got %s", got)
}

func TestBenefitAtAgeRejectsOutOfRangeClaims(t *testing.T) {
	calc := NewSocialSecurityCalculator(nil)
	birthDate := time.Date(1960, 6, 15, 0, 0, 0, 0, time.UTC)
	fraAmount := decimal.NewFromInt(4000)

	_, err := calc.BenefitAtAge(birthDate, fraAmount, 61, 11)
	assert.Error(t, err)
	_, err = calc.BenefitAtAge(birthDate, fraAmount, 70, 1)
	assert.Error(t, err)
	_, err = calc.BenefitAtAge(birthDate, fraAmount, 65, 12)
	assert.Error(t, err)
}

func TestIncomeForYearPartialFirstYear(t *testing.T) {
	calc := NewSocialSecurityCalculator(nil)
	birthDate := time.Date(1960, 6, 15, 0, 0, 0, 0, time.UTC)
	fraAmount := decimal.NewFromInt(4000)

	// Claiming at 67/0 starts benefits 2027-06-15.
	before, err := calc.IncomeForYear(birthDate, fraAmount, 67, 0, 2026)
	require.NoError(t, err)
	assert.True(t, before.IsZero(), "no benefits before the claim year, got %s", before)

	firstYear, err := calc.IncomeForYear(birthDate, fraAmount, 67, 0, 2027)
	require.NoError(t, err)
	// June through December: 7 months.
	assert.True(t, decimal.NewFromInt(28000).Equal(firstYear), "got %s", firstYear)

	later, err := calc.IncomeForYear(birthDate, fraAmount, 67, 0, 2030)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(48000).Equal(later), "got %s", later)
}
