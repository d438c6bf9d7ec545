package calculation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rplan/retirement-planner/pkg/dateutil"
)

// Claiming age bounds and adjustment caps per SSA rules.
var (
	maxEarlyReduction = decimal.RequireFromString("0.30")
	maxDelayMonths    = int64(36)
	drcPerMonth       = decimal.NewFromInt(2).Div(decimal.NewFromInt(3)).Mul(decimal.RequireFromString("0.01"))
	earlyRateFirst36  = decimal.NewFromInt(5).Div(decimal.NewFromInt(9))
	earlyRateBeyond36 = decimal.NewFromInt(5).Div(decimal.NewFromInt(12))
	onePercent        = decimal.RequireFromString("0.01")
	dime              = decimal.RequireFromString("0.1")
)

// SocialSecurityCalculator derives claim-age benefits and per-year Social
// Security income from a user's FRA benefit.
type SocialSecurityCalculator struct {
	logger Logger
}

// NewSocialSecurityCalculator creates a Social Security calculator.
func NewSocialSecurityCalculator(logger Logger) *SocialSecurityCalculator {
	if logger == nil {
		logger = NopLogger{}
	}
	return &SocialSecurityCalculator{logger: logger}
}

// BenefitAtAge computes the monthly benefit when claiming at the given age.
//
// Early claims reduce the FRA amount by 5/9 of 1% per month for the first 36
// months before FRA and 5/12 of 1% per month beyond that, capped at 30%.
// Delayed claims add 2/3 of 1% per month after FRA, capped at 36 months; the
// credit dollar amount is rounded down to the nearest $0.10 before adding,
// per SSA rounding rules.
func (c *SocialSecurityCalculator) BenefitAtAge(birthDate time.Time, fraAmount decimal.Decimal, claimYears, claimMonths int) (decimal.Decimal, error) {
	if claimYears < 62 || claimYears > 70 || (claimYears == 70 && claimMonths > 0) {
		return decimal.Zero, fmt.Errorf("claim age must be between 62 and 70, got %d years %d months", claimYears, claimMonths)
	}
	if claimMonths < 0 || claimMonths > 11 {
		return decimal.Zero, fmt.Errorf("claim months must be between 0 and 11, got %d", claimMonths)
	}

	fraYears, fraMonths := dateutil.FullRetirementAge(birthDate)
	monthsDiff := (claimYears*12 + claimMonths) - (fraYears*12 + fraMonths)

	switch {
	case monthsDiff < 0:
		monthsEarly := int64(-monthsDiff)
		first36 := monthsEarly
		if first36 > 36 {
			first36 = 36
		}
		beyond := monthsEarly - first36
		reduction := decimal.NewFromInt(first36).Mul(earlyRateFirst36).
			Add(decimal.NewFromInt(beyond).Mul(earlyRateBeyond36)).
			Mul(onePercent)
		reduction = decimal.Min(reduction, maxEarlyReduction)
		c.logger.Debugf("Early claim at %dy %dm: %d months before FRA, reduction %s%%", claimYears, claimMonths, monthsEarly, reduction.Mul(decimal.NewFromInt(100)).StringFixed(2))
		return fraAmount.Mul(decimal.NewFromInt(1).Sub(reduction)), nil
	case monthsDiff > 0:
		delayed := int64(monthsDiff)
		if delayed > maxDelayMonths {
			delayed = maxDelayMonths
		}
		// Credits accrue against the FRA amount, not the running benefit.
		drc := fraAmount.Mul(decimal.NewFromInt(delayed)).Mul(drcPerMonth)
		drc = drc.Div(dime).Floor().Mul(dime)
		c.logger.Debugf("Delayed claim at %dy %dm: %d credit months, monthly credit $%s", claimYears, claimMonths, delayed, drc.StringFixed(2))
		return fraAmount.Add(drc), nil
	default:
		return fraAmount, nil
	}
}

// ClaimDate returns the calendar date benefits begin when claiming at the
// given age, anchored to the birth day of month.
func (c *SocialSecurityCalculator) ClaimDate(birthDate time.Time, claimYears, claimMonths int) time.Time {
	return dateutil.DateAtAge(birthDate, claimYears, claimMonths)
}

// IncomeForYear returns total Social Security income in the given calendar
// year: zero before the claim date, a partial amount for the claim year
// covering the months from the claim month through December, and twelve
// months of benefit for every later year. The benefit is flat; no COLA is
// applied.
func (c *SocialSecurityCalculator) IncomeForYear(birthDate time.Time, fraAmount decimal.Decimal, claimYears, claimMonths, calendarYear int) (decimal.Decimal, error) {
	monthly, err := c.BenefitAtAge(birthDate, fraAmount, claimYears, claimMonths)
	if err != nil {
		return decimal.Zero, err
	}
	claimDate := c.ClaimDate(birthDate, claimYears, claimMonths)

	switch {
	case calendarYear < claimDate.Year():
		return decimal.Zero, nil
	case calendarYear == claimDate.Year():
		monthsPaid := 12 - int(claimDate.Month()) + 1
		return monthly.Mul(decimal.NewFromInt(int64(monthsPaid))), nil
	default:
		return monthly.Mul(decimal.NewFromInt(12)), nil
	}
}
