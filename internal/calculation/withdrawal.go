package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rplan/retirement-planner/internal/domain"
)

// WithdrawalOrder is the sequence of account types drawn from to cover a
// spending shortfall.
type WithdrawalOrder []domain.AccountType

// DefaultWithdrawalOrder draws taxable and cash first, preserving
// tax-advantaged growth, then pretax, and roth last.
var DefaultWithdrawalOrder = WithdrawalOrder{
	domain.AccountTaxable,
	domain.AccountCash,
	domain.AccountPretax,
	domain.AccountRoth,
}

// Validate checks the order covers each account type exactly once.
func (o WithdrawalOrder) Validate() error {
	if len(o) != len(domain.AccountTypes) {
		return fmt.Errorf("withdrawal order must list all %d account types", len(domain.AccountTypes))
	}
	seen := make(map[domain.AccountType]bool, len(o))
	for _, t := range o {
		if !t.Valid() {
			return fmt.Errorf("unknown account type %q in withdrawal order", t)
		}
		if seen[t] {
			return fmt.Errorf("account type %q repeated in withdrawal order", t)
		}
		seen[t] = true
	}
	return nil
}

// WithdrawalResult describes how a cash need was met.
type WithdrawalResult struct {
	// ByType is the amount drawn from each account type.
	ByType map[domain.AccountType]decimal.Decimal
	// Total is the sum drawn across all types.
	Total decimal.Decimal
	// TaxableIncome is the ordinary income the withdrawal realizes.
	TaxableIncome decimal.Decimal
	// Shortfall is the unmet need when every balance is exhausted.
	Shortfall decimal.Decimal
	// Remaining holds post-withdrawal balances by type.
	Remaining domain.BalancesByType
}

// WithdrawalResolver decides which account types fund a spending need and
// how much of the withdrawal is taxable.
type WithdrawalResolver struct {
	order  WithdrawalOrder
	logger Logger
}

// NewWithdrawalResolver creates a resolver. A nil order uses
// DefaultWithdrawalOrder.
func NewWithdrawalResolver(order WithdrawalOrder, logger Logger) (*WithdrawalResolver, error) {
	if order == nil {
		order = DefaultWithdrawalOrder
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NopLogger{}
	}
	return &WithdrawalResolver{order: order, logger: logger}, nil
}

// Resolve draws the given need from balances in order. Pretax draws are
// fully taxable, roth draws never are, and taxable-account draws realize a
// proportional gain when cost basis is known. A taxable account without a
// recorded basis is treated as fully taxable, the conservative reading of an
// unknown basis.
func (r *WithdrawalResolver) Resolve(need decimal.Decimal, balances domain.BalancesByType) WithdrawalResult {
	result := WithdrawalResult{
		ByType:    make(map[domain.AccountType]decimal.Decimal, len(r.order)),
		Remaining: balances,
	}
	if !need.IsPositive() {
		return result
	}

	remaining := need
	for _, t := range r.order {
		if !remaining.IsPositive() {
			break
		}
		available := result.Remaining.Of(t)
		if !available.IsPositive() {
			continue
		}
		draw := decimal.Min(remaining, available)
		result.ByType[t] = draw
		result.Total = result.Total.Add(draw)
		result.TaxableIncome = result.TaxableIncome.Add(r.taxablePortion(t, draw, result.Remaining))
		result.Remaining = drawFrom(result.Remaining, t, draw)
		remaining = remaining.Sub(draw)
		r.logger.Debugf("Withdrew $%s from %s", draw.StringFixed(2), t)
	}
	result.Shortfall = remaining
	if result.Shortfall.IsPositive() {
		r.logger.Warnf("Unmet need $%s after exhausting all accounts", result.Shortfall.StringFixed(2))
	}
	return result
}

func (r *WithdrawalResolver) taxablePortion(t domain.AccountType, draw decimal.Decimal, balances domain.BalancesByType) decimal.Decimal {
	switch t {
	case domain.AccountPretax:
		return draw
	case domain.AccountRoth, domain.AccountCash:
		return decimal.Zero
	case domain.AccountTaxable:
		if balances.TaxableCostBasis == nil {
			return draw
		}
		balance := balances.Taxable
		if !balance.IsPositive() {
			return decimal.Zero
		}
		gain := balance.Sub(*balances.TaxableCostBasis)
		if !gain.IsPositive() {
			return decimal.Zero
		}
		return draw.Mul(gain).Div(balance)
	}
	return decimal.Zero
}

func drawFrom(b domain.BalancesByType, t domain.AccountType, draw decimal.Decimal) domain.BalancesByType {
	switch t {
	case domain.AccountPretax:
		b.Pretax = b.Pretax.Sub(draw)
	case domain.AccountRoth:
		b.Roth = b.Roth.Sub(draw)
	case domain.AccountTaxable:
		if b.TaxableCostBasis != nil && b.Taxable.IsPositive() {
			// Basis shrinks in proportion to the principal withdrawn.
			kept := b.Taxable.Sub(draw).Div(b.Taxable)
			scaled := b.TaxableCostBasis.Mul(kept)
			b.TaxableCostBasis = &scaled
		}
		b.Taxable = b.Taxable.Sub(draw)
	case domain.AccountCash:
		b.Cash = b.Cash.Sub(draw)
	}
	return b
}
