package calculation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rplan/retirement-planner/internal/domain"
)

func simpleScenario(start, end time.Time) *domain.SimpleScenario {
	five := decimal.NewFromInt(5)
	return &domain.SimpleScenario{
		Name:                "test",
		InitialAmount:       decimal.NewFromInt(100_000),
		StartDate:           start,
		EndDate:             end,
		AssetAllocation:     evenAllocation(),
		ReturnSource:        domain.ReturnCustom,
		CustomReturnPercent: &five,
		RebalanceFrequency:  domain.RebalanceNever,
	}
}

func TestSimpleProjectAnnualPeriod(t *testing.T) {
	p := NewSimpleProjector(nil)

	// 366 days: annual stepping, one full period.
	scenario := simpleScenario(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	)

	result, err := p.Project(scenario)
	require.NoError(t, err)
	require.Len(t, result.Periods, 1)

	period := result.Periods[0]
	assert.Equal(t, domain.PeriodYear, period.PeriodType)
	assert.True(t, decimal.NewFromInt(105_000).Equal(period.EndingBalance),
		"5%% on 100k, got %s", period.EndingBalance)
	assert.True(t, decimal.NewFromInt(105_000).Equal(result.FinalAmount))
	assert.True(t, decimal.NewFromInt(5_000).Equal(result.TotalReturn))
	assert.True(t, decimal.NewFromInt(5).Equal(result.TotalReturnPercent))
}

func TestSimpleProjectMonthlyPeriods(t *testing.T) {
	p := NewSimpleProjector(nil)

	scenario := simpleScenario(
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	)

	result, err := p.Project(scenario)
	require.NoError(t, err)
	require.Len(t, result.Periods, 6)

	for i, period := range result.Periods {
		assert.Equal(t, domain.PeriodMonth, period.PeriodType)
		assert.Equal(t, i+1, period.PeriodNumber)
	}
	assert.True(t, result.FinalAmount.GreaterThan(scenario.InitialAmount))
}

func TestSimpleProjectContributions(t *testing.T) {
	p := NewSimpleProjector(nil)

	tests := []struct {
		name      string
		frequency domain.ContributionFrequency
		expected  decimal.Decimal
	}{
		{
			// 6 monthly periods, Jan through Jun starts.
			name:      "monthly",
			frequency: domain.ContributeMonthly,
			expected:  decimal.NewFromInt(6_000),
		},
		{
			// Jan and Apr are the only quarter starts in the window.
			name:      "quarterly",
			frequency: domain.ContributeQuarterly,
			expected:  decimal.NewFromInt(6_000),
		},
		{
			// 12x monthly amount lands once, on Jan 1.
			name:      "annually",
			frequency: domain.ContributeAnnually,
			expected:  decimal.NewFromInt(12_000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenario := simpleScenario(
				time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
			)
			scenario.ContributionAmount = decimal.NewFromInt(1_000)
			scenario.ContributionFrequency = tt.frequency

			result, err := p.Project(scenario)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(result.TotalContributions),
				"expected %s contributed, got %s", tt.expected, result.TotalContributions)
		})
	}
}

func TestSimpleProjectAssetValuesTrackAllocation(t *testing.T) {
	p := NewSimpleProjector(nil)

	scenario := simpleScenario(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	)

	result, err := p.Project(scenario)
	require.NoError(t, err)
	require.Len(t, result.Periods, 1)

	values := result.Periods[0].AssetValues
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	assert.True(t, sum.Sub(result.Periods[0].EndingBalance).Abs().LessThan(decimal.RequireFromString("0.05")),
		"class values %s should sum to the ending balance %s", sum, result.Periods[0].EndingBalance)
	assert.True(t, values[domain.ClassTotalUSStock].GreaterThan(values[domain.ClassBonds]))
}

func TestSimpleProjectRebalanceRestoresTargets(t *testing.T) {
	p := NewSimpleProjector(nil)

	scenario := simpleScenario(
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	)
	scenario.ReturnSource = domain.ReturnTenYearProjections
	scenario.CustomReturnPercent = nil
	scenario.RebalanceFrequency = domain.RebalanceMonthly

	result, err := p.Project(scenario)
	require.NoError(t, err)
	require.NotEmpty(t, result.Periods)

	last := result.Periods[len(result.Periods)-1]
	stockShare := last.AssetValues[domain.ClassTotalUSStock].Div(last.EndingBalance).Mul(decimal.NewFromInt(100))
	assert.True(t, stockShare.Sub(decimal.NewFromInt(60)).Abs().LessThan(decimal.NewFromInt(1)),
		"monthly rebalancing should hold near the 60%% target, got %s", stockShare)
}

func TestSimpleProjectValidatesInput(t *testing.T) {
	p := NewSimpleProjector(nil)

	_, err := p.Project(nil)
	assert.Error(t, err)

	scenario := simpleScenario(
		time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	_, err = p.Project(scenario)
	assert.Error(t, err, "end before start must fail")
}
