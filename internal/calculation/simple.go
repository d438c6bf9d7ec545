package calculation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rplan/retirement-planner/internal/domain"
	"github.com/rplan/retirement-planner/pkg/dateutil"
)

// Horizons of a year or less step monthly, longer horizons step annually.
const monthlyHorizonDays = 365

// SimpleProjector runs the accumulation-only projection: growth,
// contributions, and rebalancing with no spending or taxes.
type SimpleProjector struct {
	logger Logger
}

// NewSimpleProjector creates a simple projector.
func NewSimpleProjector(logger Logger) *SimpleProjector {
	if logger == nil {
		logger = NopLogger{}
	}
	return &SimpleProjector{logger: logger}
}

// Project steps the scenario from start to end date, one period per month or
// year depending on the horizon, emitting per-period balances and per-class
// values.
func (p *SimpleProjector) Project(scenario *domain.SimpleScenario) (*domain.SimpleResult, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario is required")
	}
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	returns, err := NewReturnModel(scenario.ReturnSource, scenario.AssetAllocation, scenario.CustomReturnPercent)
	if err != nil {
		return nil, fmt.Errorf("invalid return inputs: %w", err)
	}

	periodType := domain.PeriodYear
	if scenario.EndDate.Sub(scenario.StartDate).Hours()/24 <= monthlyHorizonDays {
		periodType = domain.PeriodMonth
	}
	p.logger.Infof("Projecting simple scenario %q: %s periods from %s to %s",
		scenario.Name, periodType, scenario.StartDate.Format("2006-01-02"), scenario.EndDate.Format("2006-01-02"))

	hundred := decimal.NewFromInt(100)
	twelve := decimal.NewFromInt(12)

	// Per-class balances start at the target allocation and drift with
	// class returns until a rebalance snaps them back.
	classValues := make(map[domain.AssetClass]decimal.Decimal, len(domain.AssetClasses))
	for _, class := range domain.AssetClasses {
		classValues[class] = scenario.InitialAmount.Mul(scenario.AssetAllocation.Weight(class)).Div(hundred)
	}

	classRate := func(class domain.AssetClass, yearNum int) decimal.Decimal {
		if scenario.ReturnSource == domain.ReturnCustom {
			return *scenario.CustomReturnPercent
		}
		table := HistoricalReturns
		if scenario.ReturnSource == domain.ReturnTenYearProjections && yearNum <= TenYearHorizon {
			table = TenYearReturns
		}
		return table[class]
	}

	result := &domain.SimpleResult{
		ScenarioName:  scenario.Name,
		InitialAmount: scenario.InitialAmount,
	}

	balance := scenario.InitialAmount
	totalContributions := decimal.Zero
	current := scenario.StartDate
	periodNumber := 1

	for current.Before(scenario.EndDate) {
		var periodEnd time.Time
		if periodType == domain.PeriodMonth {
			periodEnd = dateutil.AddMonths(current, 1).AddDate(0, 0, -1)
		} else {
			periodEnd = current.AddDate(1, 0, 0).AddDate(0, 0, -1)
		}
		if periodEnd.After(scenario.EndDate) {
			periodEnd = scenario.EndDate
		}

		contribution := periodContribution(current, scenario.ContributionAmount, scenario.ContributionFrequency)
		if contribution.IsPositive() {
			totalContributions = totalContributions.Add(contribution)
			// Contributions buy in at the target allocation.
			for _, class := range domain.AssetClasses {
				share := contribution.Mul(scenario.AssetAllocation.Weight(class)).Div(hundred)
				classValues[class] = classValues[class].Add(share)
			}
		}

		yearNum := (periodNumber-1)/12 + 1
		if periodType == domain.PeriodYear {
			yearNum = periodNumber
		}

		starting := balance
		returnAmount := decimal.Zero
		for _, class := range domain.AssetClasses {
			rate := classRate(class, yearNum)
			if periodType == domain.PeriodMonth {
				rate = rate.Div(twelve)
			}
			gain := classValues[class].Mul(rate).Div(hundred)
			classValues[class] = classValues[class].Add(gain)
			returnAmount = returnAmount.Add(gain)
		}
		balance = starting.Add(contribution).Add(returnAmount)

		if rebalanceDue(scenario.RebalanceFrequency, periodType, current) {
			for _, class := range domain.AssetClasses {
				classValues[class] = balance.Mul(scenario.AssetAllocation.Weight(class)).Div(hundred)
			}
		}

		ratePercent := returns.RateForYear(yearNum)
		if periodType == domain.PeriodMonth {
			ratePercent = ratePercent.Div(twelve)
		}

		assetValues := make(map[domain.AssetClass]decimal.Decimal, len(classValues))
		for class, v := range classValues {
			assetValues[class] = v.Round(2)
		}

		result.Periods = append(result.Periods, domain.SimplePeriod{
			PeriodStart:     current,
			PeriodEnd:       periodEnd,
			PeriodType:      periodType,
			PeriodNumber:    periodNumber,
			StartingBalance: starting.Round(2),
			Contribution:    contribution.Round(2),
			ReturnPercent:   ratePercent.Round(4),
			ReturnAmount:    returnAmount.Round(2),
			EndingBalance:   balance.Round(2),
			AssetValues:     assetValues,
		})

		current = periodEnd.AddDate(0, 0, 1)
		periodNumber++
	}

	result.FinalAmount = balance.Round(2)
	result.TotalContributions = totalContributions.Round(2)
	result.TotalReturn = balance.Sub(scenario.InitialAmount).Sub(totalContributions).Round(2)
	if scenario.InitialAmount.IsPositive() {
		result.TotalReturnPercent = result.TotalReturn.Div(scenario.InitialAmount).Mul(hundred).Round(2)
	}
	p.logger.Debugf("Simple scenario %q: %d periods, final $%s", scenario.Name, len(result.Periods), result.FinalAmount.StringFixed(2))
	return result, nil
}

// periodContribution returns the amount contributed at the start of the
// period. Quarterly contributions land in January, April, July, and October;
// annual contributions land on January 1.
func periodContribution(periodStart time.Time, monthlyAmount decimal.Decimal, freq domain.ContributionFrequency) decimal.Decimal {
	if !monthlyAmount.IsPositive() {
		return decimal.Zero
	}
	switch freq {
	case domain.ContributeMonthly:
		return monthlyAmount
	case domain.ContributeQuarterly:
		switch periodStart.Month() {
		case time.January, time.April, time.July, time.October:
			if periodStart.Day() == 1 {
				return monthlyAmount.Mul(decimal.NewFromInt(3))
			}
		}
		return decimal.Zero
	case domain.ContributeAnnually:
		if periodStart.Month() == time.January && periodStart.Day() == 1 {
			return monthlyAmount.Mul(decimal.NewFromInt(12))
		}
		return decimal.Zero
	}
	return decimal.Zero
}

func rebalanceDue(freq domain.RebalanceFrequency, periodType domain.PeriodType, periodStart time.Time) bool {
	switch freq {
	case domain.RebalanceMonthly:
		return true
	case domain.RebalanceQuarterly:
		if periodType == domain.PeriodYear {
			return true
		}
		switch periodStart.Month() {
		case time.January, time.April, time.July, time.October:
			return true
		}
		return false
	case domain.RebalanceAnnually:
		return periodType == domain.PeriodYear || periodStart.Month() == time.January
	default:
		return false
	}
}
