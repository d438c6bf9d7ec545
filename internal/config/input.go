package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rplan/retirement-planner/internal/domain"
)

// Plan is the on-disk input format: the profile snapshot plus the scenarios
// to project against it.
type Plan struct {
	Profile   domain.Snapshot        `yaml:"profile" json:"profile"`
	Scenarios []domain.SavedScenario `yaml:"scenarios" json:"scenarios"`
}

// InputParser handles parsing of plan files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}

	return &plan, nil
}

// ValidatePlan validates the loaded plan
func (ip *InputParser) ValidatePlan(plan *Plan) error {
	if err := plan.Profile.Validate(); err != nil {
		return fmt.Errorf("profile validation failed: %w", err)
	}

	if err := ip.validateHoldings(plan); err != nil {
		return err
	}

	if len(plan.Scenarios) == 0 {
		return fmt.Errorf("no scenarios provided")
	}
	names := make(map[string]bool, len(plan.Scenarios))
	for i := range plan.Scenarios {
		if err := plan.Scenarios[i].Validate(); err != nil {
			return fmt.Errorf("scenario %d validation failed: %w", i, err)
		}
		if names[plan.Scenarios[i].Name] {
			return fmt.Errorf("scenario name %q is duplicated", plan.Scenarios[i].Name)
		}
		names[plan.Scenarios[i].Name] = true
	}

	return nil
}

// validateHoldings checks that every holding references a declared account.
func (ip *InputParser) validateHoldings(plan *Plan) error {
	accountIDs := make(map[string]bool, len(plan.Profile.Accounts))
	for i := range plan.Profile.Accounts {
		accountIDs[plan.Profile.Accounts[i].ID] = true
	}
	for i := range plan.Profile.Holdings {
		if !accountIDs[plan.Profile.Holdings[i].AccountID] {
			return fmt.Errorf("holding %d references unknown account %q", i, plan.Profile.Holdings[i].AccountID)
		}
	}
	return nil
}

// CreateExamplePlan generates an example plan for users to start from
func CreateExamplePlan() *Plan {
	basis := decimal.NewFromInt(250_000)
	mortgageEnd := 8
	pensionStart := 2030

	return &Plan{
		Profile: domain.Snapshot{
			Accounts: []domain.Account{
				{ID: "401k", Name: "Workplace 401(k)", Type: domain.AccountPretax, Balance: decimal.NewFromInt(850_000)},
				{ID: "roth", Name: "Roth IRA", Type: domain.AccountRoth, Balance: decimal.NewFromInt(220_000)},
				{ID: "brokerage", Name: "Taxable Brokerage", Type: domain.AccountTaxable, Balance: decimal.NewFromInt(430_000), CostBasis: &basis},
				{ID: "savings", Name: "High-Yield Savings", Type: domain.AccountCash, Balance: decimal.NewFromInt(60_000)},
			},
			Holdings: []domain.Holding{
				{ID: "h1", AccountID: "401k", AssetClass: domain.ClassTotalUSStock, Ticker: "VTI", Amount: decimal.NewFromInt(510_000)},
				{ID: "h2", AccountID: "401k", AssetClass: domain.ClassBonds, Ticker: "BND", Amount: decimal.NewFromInt(340_000)},
				{ID: "h3", AccountID: "roth", AssetClass: domain.ClassTotalUSStock, Ticker: "VTI", Amount: decimal.NewFromInt(220_000)},
				{ID: "h4", AccountID: "brokerage", AssetClass: domain.ClassTotalForeignStock, Ticker: "VXUS", Amount: decimal.NewFromInt(430_000)},
				{ID: "h5", AccountID: "savings", AssetClass: domain.ClassCash, Amount: decimal.NewFromInt(60_000)},
			},
			SocialSecurity: &domain.SocialSecurityConfig{
				BirthDate:        time.Date(1962, 4, 20, 0, 0, 0, 0, time.UTC),
				FRAMonthlyAmount: decimal.NewFromInt(3_200),
			},
			PlannedSpending: &domain.PlannedSpending{
				MonthlySpending:    decimal.NewFromInt(8_500),
				AnnualLumpSpending: decimal.NewFromInt(5_000),
			},
			TaxConfig: &domain.TaxConfig{
				FilingStatus:    domain.FilingMarriedJoint,
				TotalDeductions: decimal.NewFromInt(30_000),
			},
			OtherIncomes: []domain.OtherIncome{
				{
					Name:          "County pension",
					IncomeType:    domain.IncomePension,
					MonthlyAmount: decimal.NewFromInt(1_800),
					StartYear:     pensionStart,
					StartMonth:    1,
					COLARate:      decimal.RequireFromString("0.02"),
					IsTaxable:     true,
				},
			},
		},
		Scenarios: []domain.SavedScenario{
			{
				Name:                     "Claim at FRA",
				Description:              "Baseline plan claiming Social Security at full retirement age",
				SSStartAgeYears:          67,
				MonthlySpending:          decimal.NewFromInt(8_500),
				AnnualLumpSpending:       decimal.NewFromInt(5_000),
				InflationAdjustedPercent: decimal.NewFromInt(100),
				ProjectionYears:          30,
				AssetAllocation: domain.AssetAllocation{
					TotalUSStock:      decimal.NewFromInt(45),
					TotalForeignStock: decimal.NewFromInt(15),
					Bonds:             decimal.NewFromInt(30),
					Cash:              decimal.NewFromInt(10),
				},
				ReturnSource:  domain.ReturnTenYearProjections,
				InflationRate: decimal.RequireFromString("2.5"),
				FixedExpenses: []domain.FixedExpense{
					{Name: "Mortgage", MonthlyAmount: decimal.NewFromInt(2_100), StartYear: 1, EndYear: &mortgageEnd},
				},
			},
			{
				Name:                     "Claim early at 62",
				SSStartAgeYears:          62,
				MonthlySpending:          decimal.NewFromInt(8_500),
				AnnualLumpSpending:       decimal.NewFromInt(5_000),
				InflationAdjustedPercent: decimal.NewFromInt(100),
				ProjectionYears:          30,
				AssetAllocation: domain.AssetAllocation{
					TotalUSStock:      decimal.NewFromInt(45),
					TotalForeignStock: decimal.NewFromInt(15),
					Bonds:             decimal.NewFromInt(30),
					Cash:              decimal.NewFromInt(10),
				},
				ReturnSource:  domain.ReturnTenYearProjections,
				InflationRate: decimal.RequireFromString("2.5"),
			},
		},
	}
}

// SaveExampleToFile writes the example plan as YAML
func SaveExampleToFile(filename string) error {
	plan := CreateExamplePlan()
	data, err := yaml.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal example plan: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}
