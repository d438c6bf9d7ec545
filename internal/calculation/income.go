package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/rplan/retirement-planner/internal/domain"
)

// IncomeBreakdown splits an income total into taxable and non-taxable parts.
type IncomeBreakdown struct {
	Taxable    decimal.Decimal
	NonTaxable decimal.Decimal
}

// Total returns taxable plus non-taxable income.
func (b IncomeBreakdown) Total() decimal.Decimal {
	return b.Taxable.Add(b.NonTaxable)
}

// IncomeAggregator sums recurring other-income streams over months and years.
type IncomeAggregator struct {
	streams []domain.OtherIncome
	logger  Logger
}

// NewIncomeAggregator creates an aggregator over the given streams.
func NewIncomeAggregator(streams []domain.OtherIncome, logger Logger) *IncomeAggregator {
	if logger == nil {
		logger = NopLogger{}
	}
	logger.Debugf("Aggregating %d other income streams", len(streams))
	return &IncomeAggregator{streams: streams, logger: logger}
}

// ForMonth returns total income for the given calendar month, split by tax
// treatment. Each active stream contributes its COLA-adjusted monthly amount.
func (a *IncomeAggregator) ForMonth(year, month int) IncomeBreakdown {
	var b IncomeBreakdown
	for i := range a.streams {
		amount := a.streams[i].AmountIn(year, month)
		if amount.IsZero() {
			continue
		}
		if a.streams[i].IsTaxable {
			b.Taxable = b.Taxable.Add(amount)
		} else {
			b.NonTaxable = b.NonTaxable.Add(amount)
		}
	}
	return b
}

// ForYear sums ForMonth across all twelve months of the calendar year.
func (a *IncomeAggregator) ForYear(year int) IncomeBreakdown {
	var b IncomeBreakdown
	for month := 1; month <= 12; month++ {
		m := a.ForMonth(year, month)
		b.Taxable = b.Taxable.Add(m.Taxable)
		b.NonTaxable = b.NonTaxable.Add(m.NonTaxable)
	}
	return b
}

// ByType aggregates annual income per income type for the given year.
func (a *IncomeAggregator) ByType(year int) map[domain.IncomeType]decimal.Decimal {
	out := make(map[domain.IncomeType]decimal.Decimal)
	for i := range a.streams {
		annual := decimal.Zero
		for month := 1; month <= 12; month++ {
			annual = annual.Add(a.streams[i].AmountIn(year, month))
		}
		if annual.IsZero() {
			continue
		}
		out[a.streams[i].IncomeType] = out[a.streams[i].IncomeType].Add(annual)
	}
	return out
}
