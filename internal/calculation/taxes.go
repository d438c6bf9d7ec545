package calculation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rplan/retirement-planner/internal/domain"
)

// TaxBracket is one rung of a progressive bracket table. UpTo is the upper
// bound of the bracket (exclusive); the final bracket uses NoLimit.
type TaxBracket struct {
	UpTo decimal.Decimal `json:"up_to"`
	Rate decimal.Decimal `json:"rate"`
}

// NoLimit marks the open-ended top bracket.
var NoLimit = decimal.NewFromInt(999_999_999_999)

func bracket(upTo int64, rate string) TaxBracket {
	return TaxBracket{UpTo: decimal.NewFromInt(upTo), Rate: decimal.RequireFromString(rate)}
}

func topBracket(rate string) TaxBracket {
	return TaxBracket{UpTo: NoLimit, Rate: decimal.RequireFromString(rate)}
}

// federalBrackets holds the federal marginal bracket tables keyed by tax year
// and filing status.
var federalBrackets = map[int]map[domain.FilingStatus][]TaxBracket{
	2024: {
		domain.FilingSingle: {
			bracket(11_600, "0.10"), bracket(47_150, "0.12"), bracket(100_525, "0.22"),
			bracket(191_950, "0.24"), bracket(243_725, "0.32"), bracket(609_350, "0.35"),
			topBracket("0.37"),
		},
		domain.FilingMarriedJoint: {
			bracket(23_200, "0.10"), bracket(94_300, "0.12"), bracket(201_050, "0.22"),
			bracket(383_900, "0.24"), bracket(487_450, "0.32"), bracket(731_200, "0.35"),
			topBracket("0.37"),
		},
		domain.FilingMarriedSeparate: {
			bracket(11_600, "0.10"), bracket(47_150, "0.12"), bracket(100_525, "0.22"),
			bracket(191_950, "0.24"), bracket(243_725, "0.32"), bracket(365_600, "0.35"),
			topBracket("0.37"),
		},
		domain.FilingHeadOfHousehold: {
			bracket(16_550, "0.10"), bracket(63_100, "0.12"), bracket(100_500, "0.22"),
			bracket(191_950, "0.24"), bracket(243_700, "0.32"), bracket(609_350, "0.35"),
			topBracket("0.37"),
		},
		domain.FilingQualifyingWidow: {
			bracket(23_200, "0.10"), bracket(94_300, "0.12"), bracket(201_050, "0.22"),
			bracket(383_900, "0.24"), bracket(487_450, "0.32"), bracket(731_200, "0.35"),
			topBracket("0.37"),
		},
	},
	2025: {
		domain.FilingSingle: {
			bracket(11_925, "0.10"), bracket(48_475, "0.12"), bracket(103_350, "0.22"),
			bracket(197_300, "0.24"), bracket(250_525, "0.32"), bracket(626_350, "0.35"),
			topBracket("0.37"),
		},
		domain.FilingMarriedJoint: {
			bracket(23_850, "0.10"), bracket(96_950, "0.12"), bracket(206_700, "0.22"),
			bracket(394_600, "0.24"), bracket(501_050, "0.32"), bracket(751_600, "0.35"),
			topBracket("0.37"),
		},
		domain.FilingMarriedSeparate: {
			bracket(11_925, "0.10"), bracket(48_475, "0.12"), bracket(103_350, "0.22"),
			bracket(197_300, "0.24"), bracket(250_525, "0.32"), bracket(375_800, "0.35"),
			topBracket("0.37"),
		},
		domain.FilingHeadOfHousehold: {
			bracket(17_000, "0.10"), bracket(64_850, "0.12"), bracket(103_350, "0.22"),
			bracket(197_300, "0.24"), bracket(250_500, "0.32"), bracket(626_350, "0.35"),
			topBracket("0.37"),
		},
		domain.FilingQualifyingWidow: {
			bracket(23_850, "0.10"), bracket(96_950, "0.12"), bracket(206_700, "0.22"),
			bracket(394_600, "0.24"), bracket(501_050, "0.32"), bracket(751_600, "0.35"),
			topBracket("0.37"),
		},
	},
}

// standardDeductions holds the base standard deduction keyed by tax year and
// filing status.
var standardDeductions = map[int]map[domain.FilingStatus]decimal.Decimal{
	2024: {
		domain.FilingSingle:          decimal.NewFromInt(14_600),
		domain.FilingMarriedJoint:    decimal.NewFromInt(29_200),
		domain.FilingMarriedSeparate: decimal.NewFromInt(14_600),
		domain.FilingHeadOfHousehold: decimal.NewFromInt(21_900),
		domain.FilingQualifyingWidow: decimal.NewFromInt(29_200),
	},
	2025: {
		domain.FilingSingle:          decimal.NewFromInt(15_000),
		domain.FilingMarriedJoint:    decimal.NewFromInt(30_000),
		domain.FilingMarriedSeparate: decimal.NewFromInt(15_000),
		domain.FilingHeadOfHousehold: decimal.NewFromInt(22_500),
		domain.FilingQualifyingWidow: decimal.NewFromInt(30_000),
	},
}

// Senior deduction parameters. The bonus applies per person 65 or older only
// when estimated annual income is under the ceiling.
var (
	additionalSeniorDeduction = decimal.NewFromInt(1_650)
	bonusSeniorDeduction      = decimal.NewFromInt(6_000)
	bonusIncomeCeiling        = decimal.NewFromInt(150_000)
)

const seniorAge = 65

// TaxYears lists the years with embedded federal tables, ascending.
func TaxYears() []int {
	return []int{2024, 2025}
}

// FederalBrackets returns the bracket table for the given year and status, or
// an error when no table exists. Missing tables are a configuration error,
// never silently defaulted.
func FederalBrackets(taxYear int, status domain.FilingStatus) ([]TaxBracket, error) {
	byStatus, ok := federalBrackets[taxYear]
	if !ok {
		return nil, fmt.Errorf("no federal tax table for year %d", taxYear)
	}
	brackets, ok := byStatus[status]
	if !ok {
		return nil, fmt.Errorf("no federal tax table for filing status %q in %d", status, taxYear)
	}
	return brackets, nil
}

// StandardDeduction returns the base standard deduction for the given year
// and status, or an error when no entry exists.
func StandardDeduction(taxYear int, status domain.FilingStatus) (decimal.Decimal, error) {
	byStatus, ok := standardDeductions[taxYear]
	if !ok {
		return decimal.Zero, fmt.Errorf("no standard deductions for year %d", taxYear)
	}
	deduction, ok := byStatus[status]
	if !ok {
		return decimal.Zero, fmt.Errorf("no standard deduction for filing status %q in %d", status, taxYear)
	}
	return deduction, nil
}

// TaxCalculator computes federal and state tax on ordinary taxable income.
type TaxCalculator struct {
	logger Logger
}

// NewTaxCalculator creates a tax calculator.
func NewTaxCalculator(logger Logger) *TaxCalculator {
	if logger == nil {
		logger = NopLogger{}
	}
	return &TaxCalculator{logger: logger}
}

// FederalTax walks the marginal brackets for the given year and status.
// Negative or zero income yields zero tax.
func (c *TaxCalculator) FederalTax(taxableIncome decimal.Decimal, status domain.FilingStatus, taxYear int) (decimal.Decimal, error) {
	brackets, err := FederalBrackets(taxYear, status)
	if err != nil {
		return decimal.Zero, err
	}
	if !taxableIncome.IsPositive() {
		return decimal.Zero, nil
	}

	tax := decimal.Zero
	remaining := taxableIncome
	prev := decimal.Zero
	for _, b := range brackets {
		if !remaining.IsPositive() {
			break
		}
		width := b.UpTo.Sub(prev)
		slice := decimal.Min(remaining, width)
		tax = tax.Add(slice.Mul(b.Rate))
		remaining = remaining.Sub(slice)
		prev = b.UpTo
	}
	c.logger.Debugf("Federal tax %d/%s: income $%s -> tax $%s",
		taxYear, status, taxableIncome.StringFixed(2), tax.StringFixed(2))
	return tax, nil
}

// ColoradoFlatRate is Colorado's flat income tax rate.
var ColoradoFlatRate = decimal.RequireFromString("0.044")

// StateTax applies Colorado's flat rate to taxable income. Negative or zero
// income yields zero tax.
func (c *TaxCalculator) StateTax(taxableIncome decimal.Decimal) decimal.Decimal {
	if !taxableIncome.IsPositive() {
		return decimal.Zero
	}
	return taxableIncome.Mul(ColoradoFlatRate)
}

// TotalTax returns federal plus state tax for the given inputs.
func (c *TaxCalculator) TotalTax(taxableIncome decimal.Decimal, status domain.FilingStatus, taxYear int) (decimal.Decimal, error) {
	federal, err := c.FederalTax(taxableIncome, status, taxYear)
	if err != nil {
		return decimal.Zero, err
	}
	return federal.Add(c.StateTax(taxableIncome)), nil
}

// SeniorDeduction itemizes the automatic deductions for the given filing
// status, ages, and estimated income. For joint and qualifying-widow filers
// each spouse's age is evaluated independently and the additions summed.
func (c *TaxCalculator) SeniorDeduction(status domain.FilingStatus, primaryAge, spouseAge *int, annualIncome *decimal.Decimal, taxYear int) (*domain.SeniorDeductionBreakdown, error) {
	base, err := StandardDeduction(taxYear, status)
	if err != nil {
		return nil, err
	}

	additional := decimal.Zero
	if primaryAge != nil && *primaryAge >= seniorAge {
		additional = additional.Add(additionalSeniorDeduction)
	}
	if status.Joint() && spouseAge != nil && *spouseAge >= seniorAge {
		additional = additional.Add(additionalSeniorDeduction)
	}

	bonus := decimal.Zero
	if annualIncome != nil && annualIncome.LessThan(bonusIncomeCeiling) {
		if primaryAge != nil && *primaryAge >= seniorAge {
			bonus = bonus.Add(bonusSeniorDeduction)
		}
		if status.Joint() && spouseAge != nil && *spouseAge >= seniorAge {
			bonus = bonus.Add(bonusSeniorDeduction)
		}
	}

	total := base.Add(additional).Add(bonus)
	c.logger.Debugf("Senior deduction %d/%s: base $%s + additional $%s + bonus $%s = $%s",
		taxYear, status, base.StringFixed(0), additional.StringFixed(0), bonus.StringFixed(0), total.StringFixed(0))

	parts := []string{fmt.Sprintf("Base Standard Deduction: $%s", base.StringFixed(0))}
	if additional.IsPositive() {
		parts = append(parts, fmt.Sprintf("Additional Senior Deduction: $%s ($%s per person 65+)",
			additional.StringFixed(0), additionalSeniorDeduction.StringFixed(0)))
	}
	if bonus.IsPositive() {
		parts = append(parts, fmt.Sprintf("Bonus Senior Deduction: $%s ($%s per person 65+ with income < $%s)",
			bonus.StringFixed(0), bonusSeniorDeduction.StringFixed(0), bonusIncomeCeiling.StringFixed(0)))
	}

	return &domain.SeniorDeductionBreakdown{
		BaseStandardDeduction:     base,
		AdditionalSeniorDeduction: additional,
		BonusSeniorDeduction:      bonus,
		TotalAutomaticDeduction:   total,
		Explanation:               strings.Join(parts, " + "),
	}, nil
}
