package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScenarioYearProjection is one row of a retirement projection. Every money
// field is rounded to cents exactly once, when the row is emitted.
type ScenarioYearProjection struct {
	Year         int `json:"year"`
	CalendarYear int `json:"calendar_year"`
	Age          int `json:"age"`

	StartingBalance decimal.Decimal `json:"starting_balance"`
	EndingBalance   decimal.Decimal `json:"ending_balance"`

	PretaxStartingBalance  decimal.Decimal `json:"pretax_starting_balance"`
	RothStartingBalance    decimal.Decimal `json:"roth_starting_balance"`
	TaxableStartingBalance decimal.Decimal `json:"taxable_starting_balance"`
	CashStartingBalance    decimal.Decimal `json:"cash_starting_balance"`

	PretaxEndingBalance  decimal.Decimal `json:"pretax_ending_balance"`
	RothEndingBalance    decimal.Decimal `json:"roth_ending_balance"`
	TaxableEndingBalance decimal.Decimal `json:"taxable_ending_balance"`
	CashEndingBalance    decimal.Decimal `json:"cash_ending_balance"`

	SocialSecurityIncome decimal.Decimal `json:"social_security_income"`
	OtherIncome          decimal.Decimal `json:"other_income"`
	TotalIncome          decimal.Decimal `json:"total_income"`

	FixedSpending      decimal.Decimal `json:"fixed_spending"`
	VariableSpending   decimal.Decimal `json:"variable_spending"`
	MonthlySpending    decimal.Decimal `json:"monthly_spending"`
	AnnualSpending     decimal.Decimal `json:"annual_spending"`
	AnnualLumpSpending decimal.Decimal `json:"annual_lump_spending"`
	TotalSpending      decimal.Decimal `json:"total_spending"`

	PortfolioWithdrawal decimal.Decimal `json:"portfolio_withdrawal"`
	InvestmentReturn    decimal.Decimal `json:"investment_return"`
	ReturnPercent       decimal.Decimal `json:"return_percent"`

	TaxableIncome  decimal.Decimal `json:"taxable_income"`
	FederalTax     decimal.Decimal `json:"federal_tax"`
	StateTax       decimal.Decimal `json:"state_tax"`
	TotalTax       decimal.Decimal `json:"total_tax"`
	AfterTaxIncome decimal.Decimal `json:"after_tax_income"`

	IsDepleted bool `json:"is_depleted"`
}

// ScenarioProjectionResult is the full output of projecting one scenario.
type ScenarioProjectionResult struct {
	ScenarioID           string                   `json:"scenario_id,omitempty"`
	ScenarioName         string                   `json:"scenario_name"`
	InitialPortfolio     decimal.Decimal          `json:"initial_portfolio"`
	FinalPortfolio       decimal.Decimal          `json:"final_portfolio"`
	YearsUntilDepletion  *int                     `json:"years_until_depletion"`
	TotalSSReceived      decimal.Decimal          `json:"total_ss_received"`
	TotalOtherIncome     decimal.Decimal          `json:"total_other_income"`
	TotalSpending        decimal.Decimal          `json:"total_spending"`
	TotalWithdrawals     decimal.Decimal          `json:"total_withdrawals"`
	SSStartAge           string                   `json:"ss_start_age"`
	AverageReturnPercent decimal.Decimal          `json:"average_return_percent"`
	InflationRate        decimal.Decimal          `json:"inflation_rate"`
	Projections          []ScenarioYearProjection `json:"projections"`
}

// ScenarioComparisonResult pairs each projected scenario with a summary table
// keyed by scenario name.
type ScenarioComparisonResult struct {
	Scenarios         []ScenarioProjectionResult   `json:"scenarios"`
	ComparisonSummary map[string]ComparisonSummary `json:"comparison_summary"`
}

// ComparisonSummary is the per-scenario row in a comparison table.
type ComparisonSummary struct {
	FinalPortfolio      decimal.Decimal `json:"final_portfolio"`
	YearsUntilDepletion *int            `json:"years_until_depletion"`
	TotalSSReceived     decimal.Decimal `json:"total_ss_received"`
	TotalSpending       decimal.Decimal `json:"total_spending"`
	TotalWithdrawals    decimal.Decimal `json:"total_withdrawals"`
	SSStartAge          string          `json:"ss_start_age"`
}

// SeniorDeductionBreakdown itemizes the automatic federal deductions for a
// given filing status, ages, and income.
type SeniorDeductionBreakdown struct {
	BaseStandardDeduction     decimal.Decimal `json:"base_standard_deduction"`
	AdditionalSeniorDeduction decimal.Decimal `json:"additional_senior_deduction"`
	BonusSeniorDeduction      decimal.Decimal `json:"bonus_senior_deduction"`
	TotalAutomaticDeduction   decimal.Decimal `json:"total_automatic_deduction"`
	Explanation               string          `json:"explanation"`
}

// PeriodType distinguishes monthly from annual accumulation periods.
type PeriodType string

const (
	PeriodMonth PeriodType = "month"
	PeriodYear  PeriodType = "year"
)

// SimplePeriod is one accumulation step of a SimpleScenario projection.
type SimplePeriod struct {
	PeriodStart     time.Time                      `json:"period_start"`
	PeriodEnd       time.Time                      `json:"period_end"`
	PeriodType      PeriodType                     `json:"period_type"`
	PeriodNumber    int                            `json:"period_number"`
	StartingBalance decimal.Decimal                `json:"starting_balance"`
	Contribution    decimal.Decimal                `json:"contribution"`
	ReturnPercent   decimal.Decimal                `json:"return_percent"`
	ReturnAmount    decimal.Decimal                `json:"return_amount"`
	EndingBalance   decimal.Decimal                `json:"ending_balance"`
	AssetValues     map[AssetClass]decimal.Decimal `json:"asset_values"`
}

// SimpleResult is the full output of a SimpleScenario projection.
type SimpleResult struct {
	ScenarioName       string          `json:"scenario_name"`
	InitialAmount      decimal.Decimal `json:"initial_amount"`
	FinalAmount        decimal.Decimal `json:"final_amount"`
	TotalReturn        decimal.Decimal `json:"total_return"`
	TotalReturnPercent decimal.Decimal `json:"total_return_percent"`
	TotalContributions decimal.Decimal `json:"total_contributions"`
	Periods            []SimplePeriod  `json:"periods"`
}
