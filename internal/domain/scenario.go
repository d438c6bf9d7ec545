package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ReturnSource selects where a scenario's asset-class returns come from.
type ReturnSource string

const (
	ReturnTenYearProjections ReturnSource = "ten_year_projections"
	ReturnHistoricalAverage  ReturnSource = "historical_average"
	ReturnCustom             ReturnSource = "custom"
)

// Valid reports whether s is a known return source.
func (s ReturnSource) Valid() bool {
	switch s {
	case ReturnTenYearProjections, ReturnHistoricalAverage, ReturnCustom:
		return true
	}
	return false
}

// RebalanceFrequency controls how often a simple scenario's holdings are
// redistributed back to the target allocation.
type RebalanceFrequency string

const (
	RebalanceMonthly   RebalanceFrequency = "monthly"
	RebalanceQuarterly RebalanceFrequency = "quarterly"
	RebalanceAnnually  RebalanceFrequency = "annually"
	RebalanceNever     RebalanceFrequency = "never"
)

// Valid reports whether f is a known rebalance frequency.
func (f RebalanceFrequency) Valid() bool {
	switch f {
	case RebalanceMonthly, RebalanceQuarterly, RebalanceAnnually, RebalanceNever:
		return true
	}
	return false
}

// ContributionFrequency controls how often simple-scenario contributions land.
type ContributionFrequency string

const (
	ContributeMonthly   ContributionFrequency = "monthly"
	ContributeQuarterly ContributionFrequency = "quarterly"
	ContributeAnnually  ContributionFrequency = "annually"
)

// Valid reports whether f is a known contribution frequency.
func (f ContributionFrequency) Valid() bool {
	switch f {
	case ContributeMonthly, ContributeQuarterly, ContributeAnnually:
		return true
	}
	return false
}

// AllocationTolerance is the permitted deviation from 100% when validating an
// asset allocation.
var AllocationTolerance = decimal.NewFromFloat(0.01)

// AssetAllocation maps each canonical asset class to a percentage of the
// portfolio. A valid allocation sums to 100 within AllocationTolerance.
type AssetAllocation struct {
	TotalUSStock           decimal.Decimal `json:"total_us_stock" yaml:"total_us_stock"`
	TotalForeignStock      decimal.Decimal `json:"total_foreign_stock" yaml:"total_foreign_stock"`
	USSmallCapValue        decimal.Decimal `json:"us_small_cap_value" yaml:"us_small_cap_value"`
	IntlSmallCapValue      decimal.Decimal `json:"international_small_cap_value" yaml:"international_small_cap_value"`
	DevelopedMarkets       decimal.Decimal `json:"developed_markets" yaml:"developed_markets"`
	EmergingMarkets        decimal.Decimal `json:"emerging_markets" yaml:"emerging_markets"`
	REITs                  decimal.Decimal `json:"reits" yaml:"reits"`
	Bonds                  decimal.Decimal `json:"bonds" yaml:"bonds"`
	ShortTermTreasuries    decimal.Decimal `json:"short_term_treasuries" yaml:"short_term_treasuries"`
	IntermediateTreasuries decimal.Decimal `json:"intermediate_term_treasuries" yaml:"intermediate_term_treasuries"`
	MunicipalBonds         decimal.Decimal `json:"municipal_bonds" yaml:"municipal_bonds"`
	Cash                   decimal.Decimal `json:"cash" yaml:"cash"`
	Other                  decimal.Decimal `json:"other" yaml:"other"`
}

// Weight returns the percentage allocated to the given asset class.
func (a *AssetAllocation) Weight(class AssetClass) decimal.Decimal {
	switch class {
	case ClassTotalUSStock:
		return a.TotalUSStock
	case ClassTotalForeignStock:
		return a.TotalForeignStock
	case ClassUSSmallCapValue:
		return a.USSmallCapValue
	case ClassIntlSmallCapValue:
		return a.IntlSmallCapValue
	case ClassDevelopedMarkets:
		return a.DevelopedMarkets
	case ClassEmergingMarkets:
		return a.EmergingMarkets
	case ClassREITs:
		return a.REITs
	case ClassBonds:
		return a.Bonds
	case ClassShortTermTreasuries:
		return a.ShortTermTreasuries
	case ClassIntermediateTreasuries:
		return a.IntermediateTreasuries
	case ClassMunicipalBonds:
		return a.MunicipalBonds
	case ClassCash:
		return a.Cash
	case ClassOther:
		return a.Other
	}
	return decimal.Zero
}

// Set assigns the percentage allocated to the given asset class.
func (a *AssetAllocation) Set(class AssetClass, pct decimal.Decimal) {
	switch class {
	case ClassTotalUSStock:
		a.TotalUSStock = pct
	case ClassTotalForeignStock:
		a.TotalForeignStock = pct
	case ClassUSSmallCapValue:
		a.USSmallCapValue = pct
	case ClassIntlSmallCapValue:
		a.IntlSmallCapValue = pct
	case ClassDevelopedMarkets:
		a.DevelopedMarkets = pct
	case ClassEmergingMarkets:
		a.EmergingMarkets = pct
	case ClassREITs:
		a.REITs = pct
	case ClassBonds:
		a.Bonds = pct
	case ClassShortTermTreasuries:
		a.ShortTermTreasuries = pct
	case ClassIntermediateTreasuries:
		a.IntermediateTreasuries = pct
	case ClassMunicipalBonds:
		a.MunicipalBonds = pct
	case ClassCash:
		a.Cash = pct
	case ClassOther:
		a.Other = pct
	}
}

// Total sums the allocation across every asset class.
func (a *AssetAllocation) Total() decimal.Decimal {
	total := decimal.Zero
	for _, class := range AssetClasses {
		total = total.Add(a.Weight(class))
	}
	return total
}

// Validate checks each percentage is within [0, 100] and the total is 100
// within AllocationTolerance.
func (a *AssetAllocation) Validate() error {
	hundred := decimal.NewFromInt(100)
	for _, class := range AssetClasses {
		w := a.Weight(class)
		if w.IsNegative() || w.GreaterThan(hundred) {
			return fmt.Errorf("allocation for %s must be between 0 and 100, got %s", class, w)
		}
	}
	total := a.Total()
	if total.Sub(hundred).Abs().GreaterThan(AllocationTolerance) {
		return fmt.Errorf("asset allocation must sum to 100%%, got %s%%", total)
	}
	return nil
}

// Normalize scales a non-empty allocation so it sums to exactly 100.
// A zero allocation is returned unchanged.
func (a AssetAllocation) Normalize() AssetAllocation {
	total := a.Total()
	if !total.IsPositive() {
		return a
	}
	factor := decimal.NewFromInt(100).Div(total)
	var out AssetAllocation
	for _, class := range AssetClasses {
		out.Set(class, a.Weight(class).Mul(factor).Round(4))
	}
	return out
}

// FixedExpense is a scenario-scoped expense with a fixed nominal monthly
// amount. Start and end years are projection-relative (year 1 is the first
// projection year); a nil end year means the expense never ends.
type FixedExpense struct {
	ID            string          `json:"id,omitempty" yaml:"id,omitempty"`
	ScenarioID    string          `json:"scenario_id,omitempty" yaml:"-"`
	Name          string          `json:"name" yaml:"name"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount" yaml:"monthly_amount"`
	StartYear     int             `json:"start_year" yaml:"start_year"`
	EndYear       *int            `json:"end_year,omitempty" yaml:"end_year,omitempty"`
	Notes         string          `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Validate checks the expense's invariants.
func (fe *FixedExpense) Validate() error {
	if fe.Name == "" {
		return fmt.Errorf("fixed expense name is required")
	}
	if fe.MonthlyAmount.IsNegative() {
		return fmt.Errorf("fixed expense %q monthly amount cannot be negative", fe.Name)
	}
	if fe.StartYear < 1 {
		return fmt.Errorf("fixed expense %q start year must be >= 1", fe.Name)
	}
	if fe.EndYear != nil && *fe.EndYear < fe.StartYear {
		return fmt.Errorf("fixed expense %q end year cannot precede start year", fe.Name)
	}
	return nil
}

// ActiveInYear reports whether the expense applies in the given
// projection-relative year.
func (fe *FixedExpense) ActiveInYear(yearNum int) bool {
	if yearNum < fe.StartYear {
		return false
	}
	return fe.EndYear == nil || yearNum <= *fe.EndYear
}

// Projection horizon bounds.
const (
	DefaultProjectionYears = 35
	MaxProjectionYears     = 50
)

// SavedScenario is the aggregate root for a retirement projection run.
type SavedScenario struct {
	ID                         string           `json:"id,omitempty" yaml:"id,omitempty"`
	Name                       string           `json:"name" yaml:"name"`
	Description                string           `json:"description,omitempty" yaml:"description,omitempty"`
	SSStartAgeYears            int              `json:"ss_start_age_years" yaml:"ss_start_age_years"`
	SSStartAgeMonths           int              `json:"ss_start_age_months" yaml:"ss_start_age_months"`
	MonthlySpending            decimal.Decimal  `json:"monthly_spending" yaml:"monthly_spending"`
	AnnualLumpSpending         decimal.Decimal  `json:"annual_lump_spending" yaml:"annual_lump_spending"`
	InflationAdjustedPercent   decimal.Decimal  `json:"inflation_adjusted_percent" yaml:"inflation_adjusted_percent"`
	SpendingReductionPercent   decimal.Decimal  `json:"spending_reduction_percent" yaml:"spending_reduction_percent"`
	SpendingReductionStartYear *int             `json:"spending_reduction_start_year,omitempty" yaml:"spending_reduction_start_year,omitempty"`
	ProjectionYears            int              `json:"projection_years" yaml:"projection_years"`
	AssetAllocation            AssetAllocation  `json:"asset_allocation" yaml:"asset_allocation"`
	ReturnSource               ReturnSource     `json:"return_source" yaml:"return_source"`
	CustomReturnPercent        *decimal.Decimal `json:"custom_return_percent,omitempty" yaml:"custom_return_percent,omitempty"`
	InflationRate              decimal.Decimal  `json:"inflation_rate" yaml:"inflation_rate"`
	FixedExpenses              []FixedExpense   `json:"fixed_expenses,omitempty" yaml:"fixed_expenses,omitempty"`
	CreatedAt                  time.Time        `json:"created_at,omitempty" yaml:"-"`
	UpdatedAt                  time.Time        `json:"updated_at,omitempty" yaml:"-"`
}

// Validate checks the scenario's invariants, including its allocation when
// the return source depends on one.
func (s *SavedScenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if s.SSStartAgeYears < 62 || s.SSStartAgeYears > 70 {
		return fmt.Errorf("social security start age must be between 62 and 70, got %d", s.SSStartAgeYears)
	}
	if s.SSStartAgeMonths < 0 || s.SSStartAgeMonths > 11 {
		return fmt.Errorf("social security start months must be between 0 and 11, got %d", s.SSStartAgeMonths)
	}
	if s.SSStartAgeYears == 70 && s.SSStartAgeMonths > 0 {
		return fmt.Errorf("social security start age cannot exceed 70 years 0 months")
	}
	if s.MonthlySpending.IsNegative() {
		return fmt.Errorf("monthly spending cannot be negative")
	}
	if s.AnnualLumpSpending.IsNegative() {
		return fmt.Errorf("annual lump spending cannot be negative")
	}
	hundred := decimal.NewFromInt(100)
	if s.InflationAdjustedPercent.IsNegative() || s.InflationAdjustedPercent.GreaterThan(hundred) {
		return fmt.Errorf("inflation adjusted percent must be between 0 and 100")
	}
	if s.SpendingReductionPercent.IsNegative() || s.SpendingReductionPercent.GreaterThan(hundred) {
		return fmt.Errorf("spending reduction percent must be between 0 and 100")
	}
	if s.SpendingReductionStartYear != nil && *s.SpendingReductionStartYear < 1 {
		return fmt.Errorf("spending reduction start year must be >= 1")
	}
	if s.ProjectionYears < 1 || s.ProjectionYears > MaxProjectionYears {
		return fmt.Errorf("projection years must be between 1 and %d, got %d", MaxProjectionYears, s.ProjectionYears)
	}
	if !s.ReturnSource.Valid() {
		return fmt.Errorf("unknown return source %q", s.ReturnSource)
	}
	if s.ReturnSource == ReturnCustom {
		if s.CustomReturnPercent == nil {
			return fmt.Errorf("custom return percent is required when return source is custom")
		}
	} else {
		if err := s.AssetAllocation.Validate(); err != nil {
			return err
		}
	}
	if s.InflationRate.LessThan(decimal.NewFromInt(-10)) || s.InflationRate.GreaterThan(decimal.NewFromInt(20)) {
		return fmt.Errorf("inflation rate must be between -10%% and 20%%, got %s%%", s.InflationRate)
	}
	for i := range s.FixedExpenses {
		if err := s.FixedExpenses[i].Validate(); err != nil {
			return fmt.Errorf("fixed expense %d: %w", i, err)
		}
	}
	return nil
}

// SimpleScenario is the month-by-month (or year-by-year) accumulation
// projection: a starting amount grown under an allocation with optional
// periodic contributions and rebalancing, with no spending or taxes.
type SimpleScenario struct {
	Name                  string                `json:"name" yaml:"name"`
	InitialAmount         decimal.Decimal       `json:"initial_amount" yaml:"initial_amount"`
	StartDate             time.Time             `json:"start_date" yaml:"start_date"`
	EndDate               time.Time             `json:"end_date" yaml:"end_date"`
	AssetAllocation       AssetAllocation       `json:"asset_allocation" yaml:"asset_allocation"`
	ReturnSource          ReturnSource          `json:"return_source" yaml:"return_source"`
	CustomReturnPercent   *decimal.Decimal      `json:"custom_return_percent,omitempty" yaml:"custom_return_percent,omitempty"`
	RebalanceFrequency    RebalanceFrequency    `json:"rebalance_frequency" yaml:"rebalance_frequency"`
	ContributionAmount    decimal.Decimal       `json:"contribution_amount" yaml:"contribution_amount"`
	ContributionFrequency ContributionFrequency `json:"contribution_frequency" yaml:"contribution_frequency"`
}

// Validate checks the simple scenario's invariants.
func (s *SimpleScenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if s.InitialAmount.IsNegative() {
		return fmt.Errorf("initial amount cannot be negative")
	}
	if s.StartDate.IsZero() || s.EndDate.IsZero() {
		return fmt.Errorf("start and end dates are required")
	}
	if !s.EndDate.After(s.StartDate) {
		return fmt.Errorf("end date must be after start date")
	}
	if !s.ReturnSource.Valid() {
		return fmt.Errorf("unknown return source %q", s.ReturnSource)
	}
	if s.ReturnSource == ReturnCustom && s.CustomReturnPercent == nil {
		return fmt.Errorf("custom return percent is required when return source is custom")
	}
	if s.RebalanceFrequency != "" && !s.RebalanceFrequency.Valid() {
		return fmt.Errorf("unknown rebalance frequency %q", s.RebalanceFrequency)
	}
	if s.ContributionAmount.IsNegative() {
		return fmt.Errorf("contribution amount cannot be negative")
	}
	if s.ContributionFrequency != "" && !s.ContributionFrequency.Valid() {
		return fmt.Errorf("unknown contribution frequency %q", s.ContributionFrequency)
	}
	if err := s.AssetAllocation.Validate(); err != nil && s.ReturnSource != ReturnCustom {
		return err
	}
	return nil
}
