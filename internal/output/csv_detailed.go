package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rplan/retirement-planner/internal/domain"
)

// CSVDetailedExporter writes one row per projected year with the full field
// set of the year record.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "csv" }

var csvHeader = []string{
	"year", "calendar_year", "age",
	"starting_balance", "ending_balance",
	"pretax_starting_balance", "roth_starting_balance", "taxable_starting_balance", "cash_starting_balance",
	"pretax_ending_balance", "roth_ending_balance", "taxable_ending_balance", "cash_ending_balance",
	"social_security_income", "other_income", "total_income",
	"fixed_spending", "variable_spending", "monthly_spending", "annual_spending", "annual_lump_spending", "total_spending",
	"portfolio_withdrawal", "investment_return", "return_percent",
	"taxable_income", "federal_tax", "state_tax", "total_tax", "after_tax_income",
	"is_depleted",
}

func (c CSVDetailedExporter) Format(result *domain.ScenarioProjectionResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, yr := range result.Projections {
		row := []string{
			strconv.Itoa(yr.Year),
			strconv.Itoa(yr.CalendarYear),
			strconv.Itoa(yr.Age),
			yr.StartingBalance.StringFixed(2),
			yr.EndingBalance.StringFixed(2),
			yr.PretaxStartingBalance.StringFixed(2),
			yr.RothStartingBalance.StringFixed(2),
			yr.TaxableStartingBalance.StringFixed(2),
			yr.CashStartingBalance.StringFixed(2),
			yr.PretaxEndingBalance.StringFixed(2),
			yr.RothEndingBalance.StringFixed(2),
			yr.TaxableEndingBalance.StringFixed(2),
			yr.CashEndingBalance.StringFixed(2),
			yr.SocialSecurityIncome.StringFixed(2),
			yr.OtherIncome.StringFixed(2),
			yr.TotalIncome.StringFixed(2),
			yr.FixedSpending.StringFixed(2),
			yr.VariableSpending.StringFixed(2),
			yr.MonthlySpending.StringFixed(2),
			yr.AnnualSpending.StringFixed(2),
			yr.AnnualLumpSpending.StringFixed(2),
			yr.TotalSpending.StringFixed(2),
			yr.PortfolioWithdrawal.StringFixed(2),
			yr.InvestmentReturn.StringFixed(2),
			yr.ReturnPercent.StringFixed(2),
			yr.TaxableIncome.StringFixed(2),
			yr.FederalTax.StringFixed(2),
			yr.StateTax.StringFixed(2),
			yr.TotalTax.StringFixed(2),
			yr.AfterTaxIncome.StringFixed(2),
			strconv.FormatBool(yr.IsDepleted),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
