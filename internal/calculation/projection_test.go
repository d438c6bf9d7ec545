package calculation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rplan/retirement-planner/internal/domain"
)

func evenAllocation() domain.AssetAllocation {
	return domain.AssetAllocation{
		TotalUSStock: decimal.NewFromInt(60),
		Bonds:        decimal.NewFromInt(40),
	}
}

func testScenario(name string) *domain.SavedScenario {
	five := decimal.NewFromInt(5)
	return &domain.SavedScenario{
		Name:                     name,
		SSStartAgeYears:          67,
		SSStartAgeMonths:         0,
		MonthlySpending:          decimal.Zero,
		AnnualLumpSpending:       decimal.Zero,
		InflationAdjustedPercent: decimal.NewFromInt(100),
		ProjectionYears:          10,
		AssetAllocation:          evenAllocation(),
		ReturnSource:             domain.ReturnCustom,
		CustomReturnPercent:      &five,
		InflationRate:            decimal.RequireFromString("2.5"),
	}
}

func testSnapshot(taxableBalance int64) *domain.Snapshot {
	return &domain.Snapshot{
		Accounts: []domain.Account{
			{ID: "a1", Name: "Brokerage", Type: domain.AccountTaxable, Balance: decimal.NewFromInt(taxableBalance)},
		},
		SocialSecurity: &domain.SocialSecurityConfig{
			BirthDate:        time.Date(1960, 6, 15, 0, 0, 0, 0, time.UTC),
			FRAMonthlyAmount: decimal.NewFromInt(4000),
		},
	}
}

func projectionNow() time.Time {
	return time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
}

func TestProjectEmitsOnePeriodPerYearInOrder(t *testing.T) {
	p := NewProjector(nil, nil)

	result, err := p.Project(ProjectionInput{
		Scenario: testScenario("ordering"),
		Snapshot: testSnapshot(500_000),
		Now:      projectionNow(),
	})
	require.NoError(t, err)
	require.Len(t, result.Projections, 10)

	for i, record := range result.Projections {
		assert.Equal(t, i+1, record.Year)
		assert.Equal(t, 2026+i, record.CalendarYear)
	}
}

func TestProjectRejectsBadAllocationBeforeProjecting(t *testing.T) {
	p := NewProjector(nil, nil)

	scenario := testScenario("bad allocation")
	scenario.ReturnSource = domain.ReturnTenYearProjections
	scenario.CustomReturnPercent = nil
	scenario.AssetAllocation = domain.AssetAllocation{
		TotalUSStock: decimal.NewFromInt(60),
		Bonds:        decimal.NewFromInt(39),
	}

	result, err := p.Project(ProjectionInput{
		Scenario: scenario,
		Snapshot: testSnapshot(500_000),
		Now:      projectionNow(),
	})
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestProjectCustomReturnGrowsBalance(t *testing.T) {
	p := NewProjector(nil, nil)

	scenario := testScenario("pure growth")
	scenario.ProjectionYears = 1
	snapshot := testSnapshot(100_000)
	snapshot.SocialSecurity = nil

	result, err := p.Project(ProjectionInput{
		Scenario: scenario,
		Snapshot: snapshot,
		Now:      projectionNow(),
	})
	require.NoError(t, err)
	require.Len(t, result.Projections, 1)

	record := result.Projections[0]
	assert.True(t, decimal.NewFromInt(100_000).Equal(record.StartingBalance))
	assert.True(t, decimal.NewFromInt(105_000).Equal(record.EndingBalance),
		"5%% on 100k with no spending, got %s", record.EndingBalance)
	assert.True(t, record.PortfolioWithdrawal.IsZero())
	assert.True(t, record.TotalTax.IsZero())
	assert.False(t, record.IsDepleted)
	assert.Nil(t, result.YearsUntilDepletion)
}

func TestProjectDepletionIsMonotonicWithZeroFloor(t *testing.T) {
	p := NewProjector(nil, nil)

	scenario := testScenario("overspend")
	scenario.ProjectionYears = 5
	scenario.MonthlySpending = decimal.NewFromInt(20_000)
	snapshot := testSnapshot(100_000)
	snapshot.SocialSecurity = nil

	result, err := p.Project(ProjectionInput{
		Scenario: scenario,
		Snapshot: snapshot,
		Now:      projectionNow(),
	})
	require.NoError(t, err)
	require.Len(t, result.Projections, 5)

	require.NotNil(t, result.YearsUntilDepletion)
	assert.Equal(t, 1, *result.YearsUntilDepletion)

	for _, record := range result.Projections {
		assert.True(t, record.IsDepleted, "year %d must stay depleted", record.Year)
		assert.True(t, record.EndingBalance.IsZero(), "year %d balance must stay floored", record.Year)
	}
	assert.True(t, result.FinalPortfolio.IsZero())
}

func TestProjectInflatesVariableSpending(t *testing.T) {
	p := NewProjector(nil, nil)

	scenario := testScenario("inflation")
	scenario.ProjectionYears = 2
	scenario.MonthlySpending = decimal.NewFromInt(5_000)
	scenario.InflationRate = decimal.NewFromInt(3)
	snapshot := testSnapshot(5_000_000)
	snapshot.SocialSecurity = nil

	result, err := p.Project(ProjectionInput{
		Scenario: scenario,
		Snapshot: snapshot,
		Now:      projectionNow(),
	})
	require.NoError(t, err)
	require.Len(t, result.Projections, 2)

	year1 := result.Projections[0].VariableSpending
	year2 := result.Projections[1].VariableSpending
	expected := year1.Mul(decimal.RequireFromString("1.03")).Round(2)
	assert.True(t, expected.Equal(year2), "expected %s, got %s", expected, year2)
}

func TestProjectFixedExpenseWindow(t *testing.T) {
	p := NewProjector(nil, nil)

	end := 3
	scenario := testScenario("fixed window")
	scenario.ProjectionYears = 5
	scenario.MonthlySpending = decimal.NewFromInt(4_000)
	scenario.FixedExpenses = []domain.FixedExpense{
		{Name: "Mortgage", MonthlyAmount: decimal.NewFromInt(2_000), StartYear: 1, EndYear: &end},
	}
	snapshot := testSnapshot(5_000_000)
	snapshot.SocialSecurity = nil

	result, err := p.Project(ProjectionInput{
		Scenario: scenario,
		Snapshot: snapshot,
		Now:      projectionNow(),
	})
	require.NoError(t, err)
	require.Len(t, result.Projections, 5)

	annualFixed := decimal.NewFromInt(24_000)
	for _, record := range result.Projections {
		if record.Year <= 3 {
			assert.True(t, annualFixed.Equal(record.FixedSpending),
				"year %d expected %s fixed, got %s", record.Year, annualFixed, record.FixedSpending)
		} else {
			assert.True(t, record.FixedSpending.IsZero(),
				"year %d expected no fixed spending, got %s", record.Year, record.FixedSpending)
		}
	}
}

func TestProjectWithdrawalCoversSpendingPlusTax(t *testing.T) {
	p := NewProjector(nil, nil)

	scenario := testScenario("gross up")
	scenario.ProjectionYears = 3
	scenario.MonthlySpending = decimal.NewFromInt(8_000)
	snapshot := testSnapshot(2_000_000)
	snapshot.SocialSecurity = nil

	result, err := p.Project(ProjectionInput{
		Scenario: scenario,
		Snapshot: snapshot,
		Now:      projectionNow(),
	})
	require.NoError(t, err)

	for _, record := range result.Projections {
		expected := record.TotalSpending.Sub(record.TotalIncome).Add(record.TotalTax).Round(2)
		assert.True(t, expected.Equal(record.PortfolioWithdrawal),
			"year %d withdrawal %s must equal need %s plus tax", record.Year, record.PortfolioWithdrawal, expected)
		assert.True(t, record.TotalTax.IsPositive(), "drawing from an unknown-basis taxable account is taxable")
	}
}

func TestProjectSocialSecurityStartsAtClaimAge(t *testing.T) {
	p := NewProjector(nil, nil)

	scenario := testScenario("ss timing")
	scenario.ProjectionYears = 5
	scenario.MonthlySpending = decimal.NewFromInt(3_000)

	// Born 1960-06-15: claiming at 67/0 starts benefits mid-2027.
	result, err := p.Project(ProjectionInput{
		Scenario: scenario,
		Snapshot: testSnapshot(1_000_000),
		Now:      projectionNow(),
	})
	require.NoError(t, err)

	byYear := make(map[int]decimal.Decimal)
	for _, record := range result.Projections {
		byYear[record.CalendarYear] = record.SocialSecurityIncome
	}
	assert.True(t, byYear[2026].IsZero(), "no benefits before claim, got %s", byYear[2026])
	assert.True(t, decimal.NewFromInt(28_000).Equal(byYear[2027]), "partial first year, got %s", byYear[2027])
	assert.True(t, decimal.NewFromInt(48_000).Equal(byYear[2028]), "flat benefit thereafter, got %s", byYear[2028])
	assert.True(t, byYear[2028].Equal(byYear[2030]), "benefit carries no COLA")
}

func TestEngineCompare(t *testing.T) {
	engine := NewEngine(nil)

	early := testScenario("claim early")
	early.SSStartAgeYears = 62
	late := testScenario("claim late")
	late.SSStartAgeYears = 70

	result, err := engine.Compare(nil, testSnapshot(500_000), projectionNow())
	assert.Error(t, err, "comparisons need at least one scenario")
	assert.Nil(t, result)

	result, err = engine.Compare(
		[]domain.SavedScenario{*early, *late},
		testSnapshot(500_000),
		projectionNow(),
	)
	require.NoError(t, err)
	require.Len(t, result.Scenarios, 2)
	assert.Contains(t, result.ComparisonSummary, "claim early")
	assert.Contains(t, result.ComparisonSummary, "claim late")
}
