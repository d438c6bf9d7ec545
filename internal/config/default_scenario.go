package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rplan/retirement-planner/internal/domain"
	"github.com/rplan/retirement-planner/pkg/dateutil"
)

// DefaultScenarioName identifies the auto-synthesized scenario.
const DefaultScenarioName = "Default Scenario"

// Fallback assumptions used when the profile has no planned spending.
var (
	defaultMonthlySpending = decimal.NewFromInt(8_500)
	defaultLumpSpending    = decimal.NewFromInt(5_000)
	defaultInflationRate   = decimal.RequireFromString("2.5")
)

// defaultAllocation is used when the profile has no holdings to derive an
// allocation from.
func defaultAllocation() domain.AssetAllocation {
	return domain.AssetAllocation{
		TotalUSStock:           decimal.NewFromInt(40),
		TotalForeignStock:      decimal.NewFromInt(15),
		USSmallCapValue:        decimal.NewFromInt(5),
		IntlSmallCapValue:      decimal.NewFromInt(5),
		DevelopedMarkets:       decimal.NewFromInt(10),
		EmergingMarkets:        decimal.NewFromInt(5),
		Bonds:                  decimal.NewFromInt(10),
		ShortTermTreasuries:    decimal.NewFromInt(5),
		IntermediateTreasuries: decimal.NewFromInt(3),
		Cash:                   decimal.NewFromInt(2),
	}
}

// SynthesizeDefaultScenario builds a baseline scenario from the current
// profile: claim age at FRA, spending from the planned-spending config, and
// the allocation derived from holdings. It is a pure transformation; the
// caller decides whether to persist the result.
//
// Prerequisites: at least one account and a Social Security config. Missing
// prerequisites are an error, not a silent default.
func SynthesizeDefaultScenario(snapshot *domain.Snapshot, now time.Time) (*domain.SavedScenario, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("snapshot is required")
	}
	if len(snapshot.Accounts) == 0 {
		return nil, fmt.Errorf("cannot synthesize a default scenario without accounts")
	}
	if snapshot.SocialSecurity == nil {
		return nil, fmt.Errorf("cannot synthesize a default scenario without a social security config")
	}
	if now.IsZero() {
		now = time.Now()
	}

	fraYears, fraMonths := dateutil.FullRetirementAge(snapshot.SocialSecurity.BirthDate)

	monthly := defaultMonthlySpending
	lump := defaultLumpSpending
	if snapshot.PlannedSpending != nil {
		monthly = snapshot.PlannedSpending.MonthlySpending
		lump = snapshot.PlannedSpending.AnnualLumpSpending
	}

	allocation, ok := domain.AllocationFromHoldings(snapshot.Accounts, snapshot.Holdings)
	if ok {
		// Holdings rarely sum exactly to account balances, so the derived
		// percentages are normalized before the allocation-sum check.
		allocation = allocation.Normalize()
	} else {
		allocation = defaultAllocation()
	}

	scenario := &domain.SavedScenario{
		Name:                     DefaultScenarioName,
		Description:              "Synthesized from your current accounts, income, and spending",
		SSStartAgeYears:          fraYears,
		SSStartAgeMonths:         fraMonths,
		MonthlySpending:          monthly,
		AnnualLumpSpending:       lump,
		InflationAdjustedPercent: decimal.NewFromInt(100),
		ProjectionYears:          domain.DefaultProjectionYears,
		AssetAllocation:          allocation,
		ReturnSource:             domain.ReturnTenYearProjections,
		InflationRate:            defaultInflationRate,
		FixedExpenses:            translatePlannedExpenses(snapshot.PlannedFixedExpenses, now.Year()),
	}

	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("synthesized scenario is invalid: %w", err)
	}
	return scenario, nil
}

// translatePlannedExpenses converts calendar-year planned expenses into
// projection-relative windows anchored at the current year. Expenses that
// already ended are dropped; ones starting in the past start in year 1.
func translatePlannedExpenses(planned []domain.PlannedFixedExpense, currentYear int) []domain.FixedExpense {
	var out []domain.FixedExpense
	for i := range planned {
		pe := &planned[i]
		if pe.EndYear != nil && *pe.EndYear < currentYear {
			continue
		}
		start := pe.StartYear - currentYear + 1
		if start < 1 {
			start = 1
		}
		fe := domain.FixedExpense{
			Name:          pe.Name,
			MonthlyAmount: pe.MonthlyAmount,
			StartYear:     start,
			Notes:         pe.Notes,
		}
		if pe.EndYear != nil {
			end := *pe.EndYear - currentYear + 1
			fe.EndYear = &end
		}
		out = append(out, fe)
	}
	return out
}
