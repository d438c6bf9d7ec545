package output

import (
	"bytes"
	"fmt"

	"github.com/rplan/retirement-planner/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(result *domain.ScenarioProjectionResult) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "RETIREMENT PROJECTION SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Scenario: %s\n", result.ScenarioName)
	fmt.Fprintf(&buf, "SS Claim Age: %s\n", result.SSStartAge)
	fmt.Fprintf(&buf, "Initial Portfolio: %s\n", FormatCurrency(result.InitialPortfolio))
	fmt.Fprintf(&buf, "Final Portfolio:   %s\n", FormatCurrency(result.FinalPortfolio))
	if result.YearsUntilDepletion != nil {
		fmt.Fprintf(&buf, "Depleted in year %d\n", *result.YearsUntilDepletion)
	} else {
		fmt.Fprintf(&buf, "Portfolio lasts the full %d-year horizon\n", len(result.Projections))
	}
	fmt.Fprintf(&buf, "Total SS Received: %s\n", FormatCurrency(result.TotalSSReceived))
	fmt.Fprintf(&buf, "Total Spending:    %s\n", FormatCurrency(result.TotalSpending))
	fmt.Fprintf(&buf, "Total Withdrawals: %s\n", FormatCurrency(result.TotalWithdrawals))
	fmt.Fprintf(&buf, "Average Return:    %s\n", FormatPercentage(result.AverageReturnPercent))
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "%-5s %-6s %-4s %14s %12s %12s %12s %10s %s\n",
		"Year", "CalYr", "Age", "Start", "Spending", "Withdrawal", "End", "Tax", "Depleted")
	for _, yr := range result.Projections {
		depleted := ""
		if yr.IsDepleted {
			depleted = "yes"
		}
		fmt.Fprintf(&buf, "%-5d %-6d %-4d %14s %12s %12s %12s %10s %s\n",
			yr.Year, yr.CalendarYear, yr.Age,
			FormatCurrency(yr.StartingBalance),
			FormatCurrency(yr.TotalSpending),
			FormatCurrency(yr.PortfolioWithdrawal),
			FormatCurrency(yr.EndingBalance),
			FormatCurrency(yr.TotalTax),
			depleted,
		)
	}
	return buf.Bytes(), nil
}
