package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SocialSecurityConfig holds the single-user Social Security inputs: the
// birth date and the estimated monthly benefit at full retirement age.
type SocialSecurityConfig struct {
	ID               string          `json:"id,omitempty" yaml:"-"`
	BirthDate        time.Time       `json:"birth_date" yaml:"birth_date"`
	FRAMonthlyAmount decimal.Decimal `json:"fra_monthly_amount" yaml:"fra_monthly_amount"`
	CreatedAt        time.Time       `json:"created_at,omitempty" yaml:"-"`
	UpdatedAt        time.Time       `json:"updated_at,omitempty" yaml:"-"`
}

// Validate checks the config's invariants.
func (c *SocialSecurityConfig) Validate() error {
	if c.BirthDate.IsZero() {
		return fmt.Errorf("birth date is required")
	}
	if c.FRAMonthlyAmount.IsNegative() {
		return fmt.Errorf("FRA monthly amount cannot be negative")
	}
	return nil
}

// IncomeType classifies a recurring non-portfolio income stream.
type IncomeType string

const (
	IncomePension    IncomeType = "pension"
	IncomeEmployment IncomeType = "employment"
	IncomeRental     IncomeType = "rental"
	IncomeAnnuity    IncomeType = "annuity"
	IncomeDividend   IncomeType = "dividend"
	IncomeOtherType  IncomeType = "other"
)

// Valid reports whether t is a known income type.
func (t IncomeType) Valid() bool {
	switch t {
	case IncomePension, IncomeEmployment, IncomeRental, IncomeAnnuity, IncomeDividend, IncomeOtherType:
		return true
	}
	return false
}

// OtherIncome is a recurring income stream outside the portfolio and Social
// Security: a pension, annuity, rental, and the like. The stream is active
// from (StartYear, StartMonth) through (EndYear, EndMonth) inclusive; nil end
// fields mean it never ends. COLARate is an annual fraction (0.025 = 2.5%)
// compounded once per calendar year since StartYear.
type OtherIncome struct {
	ID            string          `json:"id,omitempty" yaml:"id,omitempty"`
	Name          string          `json:"name" yaml:"name"`
	IncomeType    IncomeType      `json:"income_type" yaml:"income_type"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount" yaml:"monthly_amount"`
	StartYear     int             `json:"start_year" yaml:"start_year"`
	StartMonth    int             `json:"start_month" yaml:"start_month"`
	EndYear       *int            `json:"end_year,omitempty" yaml:"end_year,omitempty"`
	EndMonth      *int            `json:"end_month,omitempty" yaml:"end_month,omitempty"`
	COLARate      decimal.Decimal `json:"cola_rate" yaml:"cola_rate"`
	IsTaxable     bool            `json:"is_taxable" yaml:"is_taxable"`
	Notes         string          `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at,omitempty" yaml:"-"`
	UpdatedAt     time.Time       `json:"updated_at,omitempty" yaml:"-"`
}

// Validate checks the income stream's invariants.
func (oi *OtherIncome) Validate() error {
	if oi.Name == "" {
		return fmt.Errorf("income name is required")
	}
	if !oi.IncomeType.Valid() {
		return fmt.Errorf("income %q has unknown type %q", oi.Name, oi.IncomeType)
	}
	if oi.MonthlyAmount.IsNegative() {
		return fmt.Errorf("income %q monthly amount cannot be negative", oi.Name)
	}
	if oi.StartYear < 1900 || oi.StartYear > 2200 {
		return fmt.Errorf("income %q start year %d is out of range", oi.Name, oi.StartYear)
	}
	if oi.StartMonth < 1 || oi.StartMonth > 12 {
		return fmt.Errorf("income %q start month must be between 1 and 12", oi.Name)
	}
	if (oi.EndYear == nil) != (oi.EndMonth == nil) {
		return fmt.Errorf("income %q must set both end year and end month, or neither", oi.Name)
	}
	if oi.EndYear != nil {
		if *oi.EndMonth < 1 || *oi.EndMonth > 12 {
			return fmt.Errorf("income %q end month must be between 1 and 12", oi.Name)
		}
		startKey := oi.StartYear*12 + oi.StartMonth
		endKey := *oi.EndYear*12 + *oi.EndMonth
		if endKey < startKey {
			return fmt.Errorf("income %q end cannot precede start", oi.Name)
		}
	}
	if oi.COLARate.LessThan(decimal.NewFromFloat(-0.1)) || oi.COLARate.GreaterThan(decimal.NewFromFloat(0.2)) {
		return fmt.Errorf("income %q COLA rate must be between -0.1 and 0.2", oi.Name)
	}
	return nil
}

// ActiveIn reports whether the stream pays out in the given calendar month.
func (oi *OtherIncome) ActiveIn(year, month int) bool {
	key := year*12 + month
	if key < oi.StartYear*12+oi.StartMonth {
		return false
	}
	if oi.EndYear == nil {
		return true
	}
	return key <= *oi.EndYear*12+*oi.EndMonth
}

// AmountIn returns the monthly payout for the given calendar month, with the
// COLA compounded once per calendar year since StartYear and the result
// quantized to cents. Returns zero when the stream is inactive.
func (oi *OtherIncome) AmountIn(year, month int) decimal.Decimal {
	if !oi.ActiveIn(year, month) {
		return decimal.Zero
	}
	amount := oi.MonthlyAmount
	yearsElapsed := year - oi.StartYear
	if yearsElapsed > 0 && !oi.COLARate.IsZero() {
		growth := decimal.NewFromInt(1).Add(oi.COLARate)
		amount = amount.Mul(growth.Pow(decimal.NewFromInt(int64(yearsElapsed))))
	}
	return amount.Round(2)
}

// PlannedSpending holds the single-user baseline spending assumptions used
// when synthesizing a default scenario.
type PlannedSpending struct {
	ID                 string          `json:"id,omitempty" yaml:"-"`
	MonthlySpending    decimal.Decimal `json:"monthly_spending" yaml:"monthly_spending"`
	AnnualLumpSpending decimal.Decimal `json:"annual_lump_spending" yaml:"annual_lump_spending"`
	CreatedAt          time.Time       `json:"created_at,omitempty" yaml:"-"`
	UpdatedAt          time.Time       `json:"updated_at,omitempty" yaml:"-"`
}

// Validate checks the spending config's invariants.
func (p *PlannedSpending) Validate() error {
	if p.MonthlySpending.IsNegative() {
		return fmt.Errorf("monthly spending cannot be negative")
	}
	if p.AnnualLumpSpending.IsNegative() {
		return fmt.Errorf("annual lump spending cannot be negative")
	}
	return nil
}

// PlannedFixedExpense is a date-anchored fixed expense stored at the profile
// level. When a default scenario is synthesized these are translated into
// projection-relative FixedExpense windows.
type PlannedFixedExpense struct {
	ID            string          `json:"id,omitempty" yaml:"id,omitempty"`
	Name          string          `json:"name" yaml:"name"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount" yaml:"monthly_amount"`
	StartYear     int             `json:"start_year" yaml:"start_year"`
	EndYear       *int            `json:"end_year,omitempty" yaml:"end_year,omitempty"`
	Notes         string          `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at,omitempty" yaml:"-"`
	UpdatedAt     time.Time       `json:"updated_at,omitempty" yaml:"-"`
}

// Validate checks the planned expense's invariants. Start and end years here
// are calendar years, unlike FixedExpense.
func (pe *PlannedFixedExpense) Validate() error {
	if pe.Name == "" {
		return fmt.Errorf("planned expense name is required")
	}
	if pe.MonthlyAmount.IsNegative() {
		return fmt.Errorf("planned expense %q monthly amount cannot be negative", pe.Name)
	}
	if pe.StartYear < 1900 || pe.StartYear > 2200 {
		return fmt.Errorf("planned expense %q start year %d is out of range", pe.Name, pe.StartYear)
	}
	if pe.EndYear != nil && *pe.EndYear < pe.StartYear {
		return fmt.Errorf("planned expense %q end year cannot precede start year", pe.Name)
	}
	return nil
}

// FilingStatus is the federal tax filing status.
type FilingStatus string

const (
	FilingSingle          FilingStatus = "single"
	FilingMarriedJoint    FilingStatus = "married_filing_jointly"
	FilingMarriedSeparate FilingStatus = "married_filing_separately"
	FilingHeadOfHousehold FilingStatus = "head_of_household"
	FilingQualifyingWidow FilingStatus = "qualifying_widow"
)

// FilingStatuses lists every supported filing status.
var FilingStatuses = []FilingStatus{
	FilingSingle,
	FilingMarriedJoint,
	FilingMarriedSeparate,
	FilingHeadOfHousehold,
	FilingQualifyingWidow,
}

// Valid reports whether s is a known filing status.
func (s FilingStatus) Valid() bool {
	for _, known := range FilingStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Joint reports whether the status covers two filers, which matters for the
// per-person senior deduction components.
func (s FilingStatus) Joint() bool {
	return s == FilingMarriedJoint || s == FilingQualifyingWidow
}

// TaxConfig holds the single-user tax profile. Ages drive the automatic
// senior deduction; AnnualIncome, when set, overrides the projected income
// used for the bonus deduction's $150k ceiling test.
type TaxConfig struct {
	ID              string           `json:"id,omitempty" yaml:"-"`
	FilingStatus    FilingStatus     `json:"filing_status" yaml:"filing_status"`
	TotalDeductions decimal.Decimal  `json:"total_deductions" yaml:"total_deductions"`
	PrimaryAge      *int             `json:"primary_age,omitempty" yaml:"primary_age,omitempty"`
	SpouseAge       *int             `json:"spouse_age,omitempty" yaml:"spouse_age,omitempty"`
	AnnualIncome    *decimal.Decimal `json:"annual_income,omitempty" yaml:"annual_income,omitempty"`
	CreatedAt       time.Time        `json:"created_at,omitempty" yaml:"-"`
	UpdatedAt       time.Time        `json:"updated_at,omitempty" yaml:"-"`
}

// Validate checks the tax profile's invariants.
func (c *TaxConfig) Validate() error {
	if !c.FilingStatus.Valid() {
		return fmt.Errorf("unknown filing status %q", c.FilingStatus)
	}
	if c.TotalDeductions.IsNegative() {
		return fmt.Errorf("total deductions cannot be negative")
	}
	if c.PrimaryAge != nil && (*c.PrimaryAge < 0 || *c.PrimaryAge > 130) {
		return fmt.Errorf("primary age %d is out of range", *c.PrimaryAge)
	}
	if c.SpouseAge != nil && (*c.SpouseAge < 0 || *c.SpouseAge > 130) {
		return fmt.Errorf("spouse age %d is out of range", *c.SpouseAge)
	}
	if c.AnnualIncome != nil && c.AnnualIncome.IsNegative() {
		return fmt.Errorf("annual income cannot be negative")
	}
	return nil
}
