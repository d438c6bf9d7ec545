package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rplan/retirement-planner/internal/domain"
)

func TestFederalTaxBracketWalk(t *testing.T) {
	calc := NewTaxCalculator(nil)

	tests := []struct {
		name     string
		income   decimal.Decimal
		status   domain.FilingStatus
		taxYear  int
		expected decimal.Decimal
	}{
		{
			name:     "zero income",
			income:   decimal.Zero,
			status:   domain.FilingSingle,
			taxYear:  2024,
			expected: decimal.Zero,
		},
		{
			name:     "negative income",
			income:   decimal.NewFromInt(-5000),
			status:   domain.FilingSingle,
			taxYear:  2024,
			expected: decimal.Zero,
		},
		{
			// 11600 x 10% + 35550 x 12% + 2850 x 22%
			name:     "single 50k in 2024",
			income:   decimal.NewFromInt(50_000),
			status:   domain.FilingSingle,
			taxYear:  2024,
			expected: decimal.NewFromInt(6_053),
		},
		{
			// 23200 x 10% + 71100 x 12% + 5700 x 22%
			name:     "married joint 100k in 2024",
			income:   decimal.NewFromInt(100_000),
			status:   domain.FilingMarriedJoint,
			taxYear:  2024,
			expected: decimal.NewFromInt(12_106),
		},
		{
			// first bracket only
			name:     "head of household 10k in 2025",
			income:   decimal.NewFromInt(10_000),
			status:   domain.FilingHeadOfHousehold,
			taxYear:  2025,
			expected: decimal.NewFromInt(1_000),
		},
		{
			// qualifying widow mirrors married joint
			name:     "qualifying widow 100k in 2024",
			income:   decimal.NewFromInt(100_000),
			status:   domain.FilingQualifyingWidow,
			taxYear:  2024,
			expected: decimal.NewFromInt(12_106),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.FederalTax(tt.income, tt.status, tt.taxYear)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestFederalTaxUnknownTableIsError(t *testing.T) {
	calc := NewTaxCalculator(nil)

	_, err := calc.FederalTax(decimal.NewFromInt(50_000), domain.FilingSingle, 2030)
	assert.Error(t, err, "missing tax year must not silently default")

	_, err = calc.FederalTax(decimal.NewFromInt(50_000), domain.FilingStatus("communal"), 2024)
	assert.Error(t, err, "unknown filing status must not silently default")
}

func TestStateTaxFlatRate(t *testing.T) {
	calc := NewTaxCalculator(nil)

	got := calc.StateTax(decimal.NewFromInt(100_000))
	assert.True(t, decimal.NewFromInt(4_400).Equal(got), "got %s", got)

	assert.True(t, calc.StateTax(decimal.NewFromInt(-1)).IsZero())
}

func TestSeniorDeduction(t *testing.T) {
	calc := NewTaxCalculator(nil)
	age70 := 70
	age64 := 64
	income100k := decimal.NewFromInt(100_000)
	income160k := decimal.NewFromInt(160_000)

	t.Run("single senior under income ceiling", func(t *testing.T) {
		got, err := calc.SeniorDeduction(domain.FilingSingle, &age70, nil, &income100k, 2025)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(15_000).Equal(got.BaseStandardDeduction))
		assert.True(t, decimal.NewFromInt(1_650).Equal(got.AdditionalSeniorDeduction))
		assert.True(t, decimal.NewFromInt(6_000).Equal(got.BonusSeniorDeduction))
		assert.True(t, decimal.NewFromInt(22_650).Equal(got.TotalAutomaticDeduction))
		assert.Contains(t, got.Explanation, "Base Standard Deduction")
	})

	t.Run("joint filers evaluated independently", func(t *testing.T) {
		got, err := calc.SeniorDeduction(domain.FilingMarriedJoint, &age70, &age70, &income160k, 2024)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(29_200).Equal(got.BaseStandardDeduction))
		assert.True(t, decimal.NewFromInt(3_300).Equal(got.AdditionalSeniorDeduction))
		assert.True(t, got.BonusSeniorDeduction.IsZero(), "income over ceiling disqualifies the bonus")
	})

	t.Run("mixed ages count only the senior spouse", func(t *testing.T) {
		got, err := calc.SeniorDeduction(domain.FilingMarriedJoint, &age70, &age64, &income100k, 2024)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1_650).Equal(got.AdditionalSeniorDeduction))
		assert.True(t, decimal.NewFromInt(6_000).Equal(got.BonusSeniorDeduction))
	})

	t.Run("spouse age ignored for single filers", func(t *testing.T) {
		got, err := calc.SeniorDeduction(domain.FilingSingle, &age64, &age70, &income100k, 2024)
		require.NoError(t, err)
		assert.True(t, got.AdditionalSeniorDeduction.IsZero())
		assert.True(t, got.BonusSeniorDeduction.IsZero())
	})

	t.Run("unknown year is an error", func(t *testing.T) {
		_, err := calc.SeniorDeduction(domain.FilingSingle, &age70, nil, &income100k, 1999)
		assert.Error(t, err)
	})
}

func TestNearestTaxYear(t *testing.T) {
	assert.Equal(t, 2024, NearestTaxYear(2020))
	assert.Equal(t, 2024, NearestTaxYear(2024))
	assert.Equal(t, 2025, NearestTaxYear(2025))
	assert.Equal(t, 2025, NearestTaxYear(2040))
}
