package calculation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rplan/retirement-planner/internal/domain"
	"github.com/rplan/retirement-planner/pkg/dateutil"
)

// Social Security taxability tiers. When SS plus the portfolio draw exceeds
// the combined-income threshold, 85% of the benefit is taxable, else 50%.
var (
	ssCombinedIncomeThreshold = decimal.NewFromInt(44_000)
	ssTaxableHigh             = decimal.RequireFromString("0.85")
	ssTaxableLow              = decimal.RequireFromString("0.50")
)

// NearestTaxYear clamps a calendar year to the closest year with an embedded
// federal table, so multi-decade projections keep working past the last
// published table.
func NearestTaxYear(calendarYear int) int {
	years := TaxYears()
	if calendarYear <= years[0] {
		return years[0]
	}
	last := years[len(years)-1]
	if calendarYear >= last {
		return last
	}
	for i := len(years) - 1; i >= 0; i-- {
		if years[i] <= calendarYear {
			return years[i]
		}
	}
	return last
}

// ProjectionInput couples a scenario with the profile snapshot it runs
// against and the clock anchoring calendar years and ages.
type ProjectionInput struct {
	Scenario *domain.SavedScenario
	Snapshot *domain.Snapshot
	Now      time.Time
}

// Projector runs the year-by-year retirement projection.
type Projector struct {
	taxes    *TaxCalculator
	ss       *SocialSecurityCalculator
	resolver *WithdrawalResolver
	logger   Logger
}

// NewProjector wires a projector from its component calculators. A nil
// resolver uses the default withdrawal order.
func NewProjector(resolver *WithdrawalResolver, logger Logger) *Projector {
	if logger == nil {
		logger = NopLogger{}
	}
	if resolver == nil {
		resolver, _ = NewWithdrawalResolver(nil, logger)
	}
	return &Projector{
		taxes:    NewTaxCalculator(logger),
		ss:       NewSocialSecurityCalculator(logger),
		resolver: resolver,
		logger:   logger,
	}
}

// Project runs the scenario against the snapshot, one record per year, until
// the horizon or depletion. It fails fast on invalid inputs rather than
// projecting garbage.
func (p *Projector) Project(in ProjectionInput) (*domain.ScenarioProjectionResult, error) {
	if in.Scenario == nil || in.Snapshot == nil {
		return nil, fmt.Errorf("scenario and snapshot are required")
	}
	if err := in.Scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	if err := in.Snapshot.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	scenario := in.Scenario
	snapshot := in.Snapshot

	returns, err := NewReturnModel(scenario.ReturnSource, scenario.AssetAllocation, scenario.CustomReturnPercent)
	if err != nil {
		return nil, fmt.Errorf("invalid return inputs: %w", err)
	}

	p.logger.Infof("Projecting scenario %q: %d years, SS claim at %dy %dm, returns from %s",
		scenario.Name, scenario.ProjectionYears, scenario.SSStartAgeYears, scenario.SSStartAgeMonths, scenario.ReturnSource)

	var birthDate time.Time
	fraAmount := decimal.Zero
	if snapshot.SocialSecurity != nil {
		birthDate = snapshot.SocialSecurity.BirthDate
		fraAmount = snapshot.SocialSecurity.FRAMonthlyAmount
	}

	filingStatus := domain.FilingMarriedJoint
	deductions := decimal.NewFromInt(30_000)
	if snapshot.TaxConfig != nil {
		filingStatus = snapshot.TaxConfig.FilingStatus
		deductions = snapshot.TaxConfig.TotalDeductions
	}

	incomes := NewIncomeAggregator(snapshot.OtherIncomes, p.logger)

	balances := snapshot.Balances()
	initial := balances.Total()

	currentAge := 0
	if !birthDate.IsZero() {
		currentAge = dateutil.Age(birthDate, now)
	}

	result := &domain.ScenarioProjectionResult{
		ScenarioID:       scenario.ID,
		ScenarioName:     scenario.Name,
		InitialPortfolio: initial.Round(2),
		SSStartAge:       fmt.Sprintf("%d years %d months", scenario.SSStartAgeYears, scenario.SSStartAgeMonths),
		InflationRate:    scenario.InflationRate,
		Projections:      make([]domain.ScenarioYearProjection, 0, scenario.ProjectionYears),
	}

	hundred := decimal.NewFromInt(100)
	twelve := decimal.NewFromInt(12)
	inflationGrowth := decimal.NewFromInt(1).Add(scenario.InflationRate.Div(hundred))

	totalSS := decimal.Zero
	totalOther := decimal.Zero
	totalSpending := decimal.Zero
	totalWithdrawals := decimal.Zero
	returnPercentSum := decimal.Zero
	var yearsUntilDepletion *int
	depleted := false

	calendarYear := now.Year()
	for yearNum := 1; yearNum <= scenario.ProjectionYears; yearNum++ {
		age := currentAge + yearNum - 1
		starting := balances

		ssIncome := decimal.Zero
		if !birthDate.IsZero() && fraAmount.IsPositive() {
			ssIncome, err = p.ss.IncomeForYear(birthDate, fraAmount, scenario.SSStartAgeYears, scenario.SSStartAgeMonths, calendarYear)
			if err != nil {
				return nil, err
			}
		}
		otherBreakdown := incomes.ForYear(calendarYear)
		otherIncome := otherBreakdown.Total()

		// Fixed expenses carry nominal amounts. When a scenario defines
		// them the whole base spending inflates; otherwise the base is
		// split by inflation_adjusted_percent and the rest held flat.
		fixedMonthly := decimal.Zero
		for i := range scenario.FixedExpenses {
			if scenario.FixedExpenses[i].ActiveInYear(yearNum) {
				fixedMonthly = fixedMonthly.Add(scenario.FixedExpenses[i].MonthlyAmount)
			}
		}
		variableMonthly := scenario.MonthlySpending
		if len(scenario.FixedExpenses) == 0 {
			inflatedShare := scenario.InflationAdjustedPercent.Div(hundred)
			variableMonthly = scenario.MonthlySpending.Mul(inflatedShare)
			fixedMonthly = scenario.MonthlySpending.Mul(decimal.NewFromInt(1).Sub(inflatedShare))
		}

		if scenario.SpendingReductionStartYear != nil && yearNum >= *scenario.SpendingReductionStartYear {
			keep := decimal.NewFromInt(1).Sub(scenario.SpendingReductionPercent.Div(hundred))
			variableMonthly = variableMonthly.Mul(keep)
		}

		annualLump := scenario.AnnualLumpSpending
		if yearNum > 1 {
			factor := inflationGrowth.Pow(decimal.NewFromInt(int64(yearNum - 1)))
			variableMonthly = variableMonthly.Mul(factor)
			annualLump = annualLump.Mul(factor)
		}

		monthlySpending := variableMonthly.Add(fixedMonthly)
		annualSpending := monthlySpending.Mul(twelve)
		totalYearSpending := annualSpending.Add(annualLump)

		totalIncome := ssIncome.Add(otherIncome)
		need := totalYearSpending.Sub(totalIncome)
		if need.IsNegative() {
			// Surplus income is not reinvested.
			need = decimal.Zero
		}

		// Pass one: draw for the spending shortfall and estimate the tax
		// it triggers. Pass two: re-draw from the starting balances with
		// the tax added on.
		firstPass := p.resolver.Resolve(need, starting)

		ssTaxablePct := ssTaxableLow
		if ssIncome.Add(need).GreaterThan(ssCombinedIncomeThreshold) {
			ssTaxablePct = ssTaxableHigh
		}
		grossTaxable := ssIncome.Mul(ssTaxablePct).
			Add(firstPass.TaxableIncome).
			Add(otherBreakdown.Taxable)
		taxableIncome := grossTaxable.Sub(deductions)
		if taxableIncome.IsNegative() {
			taxableIncome = decimal.Zero
		}

		taxYear := NearestTaxYear(calendarYear)
		federalTax, err := p.taxes.FederalTax(taxableIncome, filingStatus, taxYear)
		if err != nil {
			return nil, err
		}
		stateTax := p.taxes.StateTax(taxableIncome)
		totalTax := federalTax.Add(stateTax)

		finalDraw := p.resolver.Resolve(need.Add(totalTax), starting)
		withdrawal := finalDraw.Total
		balances = finalDraw.Remaining

		if finalDraw.Shortfall.IsPositive() && !depleted {
			depleted = true
			y := yearNum
			yearsUntilDepletion = &y
			p.logger.Warnf("Portfolio depleted in year %d (age %d): shortfall $%s",
				yearNum, age, finalDraw.Shortfall.StringFixed(2))
		}

		// Growth applies to the post-withdrawal balance, pro rata by type.
		ratePercent := returns.RateForYear(yearNum)
		growth := ratePercent.Div(hundred)
		investmentReturn := balances.Total().Mul(growth)
		balances.Pretax = balances.Pretax.Mul(decimal.NewFromInt(1).Add(growth))
		balances.Roth = balances.Roth.Mul(decimal.NewFromInt(1).Add(growth))
		balances.Taxable = balances.Taxable.Mul(decimal.NewFromInt(1).Add(growth))
		balances.Cash = balances.Cash.Mul(decimal.NewFromInt(1).Add(growth))

		ending := balances.Total()
		if !ending.IsPositive() && !depleted {
			depleted = true
			y := yearNum
			yearsUntilDepletion = &y
		}
		if depleted {
			balances.Pretax = decimal.Zero
			balances.Roth = decimal.Zero
			balances.Taxable = decimal.Zero
			balances.Cash = decimal.Zero
			ending = decimal.Zero
		}

		afterTaxIncome := totalIncome.Add(withdrawal).Sub(totalTax)

		p.logger.Debugf("Year %d (%d, age %d): start $%s, income $%s, spend $%s, draw $%s, tax $%s, end $%s",
			yearNum, calendarYear, age, starting.Total().StringFixed(2), totalIncome.StringFixed(2),
			totalYearSpending.StringFixed(2), withdrawal.StringFixed(2), totalTax.StringFixed(2), ending.StringFixed(2))

		result.Projections = append(result.Projections, domain.ScenarioYearProjection{
			Year:         yearNum,
			CalendarYear: calendarYear,
			Age:          age,

			StartingBalance: starting.Total().Round(2),
			EndingBalance:   ending.Round(2),

			PretaxStartingBalance:  starting.Pretax.Round(2),
			RothStartingBalance:    starting.Roth.Round(2),
			TaxableStartingBalance: starting.Taxable.Round(2),
			CashStartingBalance:    starting.Cash.Round(2),

			PretaxEndingBalance:  balances.Pretax.Round(2),
			RothEndingBalance:    balances.Roth.Round(2),
			TaxableEndingBalance: balances.Taxable.Round(2),
			CashEndingBalance:    balances.Cash.Round(2),

			SocialSecurityIncome: ssIncome.Round(2),
			OtherIncome:          otherIncome.Round(2),
			TotalIncome:          totalIncome.Round(2),

			FixedSpending:      fixedMonthly.Mul(twelve).Round(2),
			VariableSpending:   variableMonthly.Mul(twelve).Round(2),
			MonthlySpending:    monthlySpending.Round(2),
			AnnualSpending:     annualSpending.Round(2),
			AnnualLumpSpending: annualLump.Round(2),
			TotalSpending:      totalYearSpending.Round(2),

			PortfolioWithdrawal: withdrawal.Round(2),
			InvestmentReturn:    investmentReturn.Round(2),
			ReturnPercent:       ratePercent.Round(2),

			TaxableIncome:  taxableIncome.Round(2),
			FederalTax:     federalTax.Round(2),
			StateTax:       stateTax.Round(2),
			TotalTax:       totalTax.Round(2),
			AfterTaxIncome: afterTaxIncome.Round(2),

			IsDepleted: depleted,
		})

		totalSS = totalSS.Add(ssIncome)
		totalOther = totalOther.Add(otherIncome)
		totalSpending = totalSpending.Add(totalYearSpending)
		totalWithdrawals = totalWithdrawals.Add(withdrawal)
		returnPercentSum = returnPercentSum.Add(ratePercent)
		calendarYear++
	}

	result.FinalPortfolio = balances.Total().Round(2)
	result.YearsUntilDepletion = yearsUntilDepletion
	result.TotalSSReceived = totalSS.Round(2)
	result.TotalOtherIncome = totalOther.Round(2)
	result.TotalSpending = totalSpending.Round(2)
	result.TotalWithdrawals = totalWithdrawals.Round(2)
	result.AverageReturnPercent = returnPercentSum.Div(decimal.NewFromInt(int64(scenario.ProjectionYears))).Round(2)
	p.logger.Infof("Scenario %q complete: final portfolio $%s", scenario.Name, result.FinalPortfolio.StringFixed(2))
	return result, nil
}
