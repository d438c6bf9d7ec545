package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account by its tax treatment.
type AccountType string

const (
	AccountPretax  AccountType = "pretax"
	AccountRoth    AccountType = "roth"
	AccountTaxable AccountType = "taxable"
	AccountCash    AccountType = "cash"
)

// AccountTypes lists every valid account type.
var AccountTypes = []AccountType{AccountPretax, AccountRoth, AccountTaxable, AccountCash}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountPretax, AccountRoth, AccountTaxable, AccountCash:
		return true
	}
	return false
}

// Account is a single investment or cash account.
type Account struct {
	ID        string           `json:"id" yaml:"id"`
	Name      string           `json:"name" yaml:"name"`
	Type      AccountType      `json:"account_type" yaml:"account_type"`
	Balance   decimal.Decimal  `json:"balance" yaml:"balance"`
	CostBasis *decimal.Decimal `json:"cost_basis,omitempty" yaml:"cost_basis,omitempty"`
	CreatedAt time.Time        `json:"created_at,omitempty" yaml:"-"`
	UpdatedAt time.Time        `json:"updated_at,omitempty" yaml:"-"`
}

// Validate checks the account's invariants.
func (a *Account) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("account name is required")
	}
	if !a.Type.Valid() {
		return fmt.Errorf("account type %q must be one of pretax, roth, taxable, cash", a.Type)
	}
	if a.Balance.IsNegative() {
		return fmt.Errorf("account %q balance cannot be negative", a.Name)
	}
	if a.CostBasis != nil {
		if a.Type != AccountTaxable {
			return fmt.Errorf("account %q: cost basis only applies to taxable accounts", a.Name)
		}
		if a.CostBasis.IsNegative() {
			return fmt.Errorf("account %q cost basis cannot be negative", a.Name)
		}
		if a.CostBasis.GreaterThan(a.Balance) {
			return fmt.Errorf("account %q cost basis cannot exceed balance", a.Name)
		}
	}
	return nil
}

// AssetClass identifies one of the canonical asset classes a holding may
// belong to.
type AssetClass string

const (
	ClassTotalUSStock           AssetClass = "total_us_stock"
	ClassTotalForeignStock      AssetClass = "total_foreign_stock"
	ClassUSSmallCapValue        AssetClass = "us_small_cap_value"
	ClassIntlSmallCapValue      AssetClass = "international_small_cap_value"
	ClassDevelopedMarkets       AssetClass = "developed_markets"
	ClassEmergingMarkets        AssetClass = "emerging_markets"
	ClassREITs                  AssetClass = "reits"
	ClassBonds                  AssetClass = "bonds"
	ClassShortTermTreasuries    AssetClass = "short_term_treasuries"
	ClassIntermediateTreasuries AssetClass = "intermediate_term_treasuries"
	ClassMunicipalBonds         AssetClass = "municipal_bonds"
	ClassCash                   AssetClass = "cash"
	ClassOther                  AssetClass = "other"
)

// AssetClasses lists every canonical asset class in display order.
var AssetClasses = []AssetClass{
	ClassTotalUSStock,
	ClassTotalForeignStock,
	ClassUSSmallCapValue,
	ClassIntlSmallCapValue,
	ClassDevelopedMarkets,
	ClassEmergingMarkets,
	ClassREITs,
	ClassBonds,
	ClassShortTermTreasuries,
	ClassIntermediateTreasuries,
	ClassMunicipalBonds,
	ClassCash,
	ClassOther,
}

// Valid reports whether c is a known asset class.
func (c AssetClass) Valid() bool {
	for _, known := range AssetClasses {
		if c == known {
			return true
		}
	}
	return false
}

// Holding is a position inside a single account.
type Holding struct {
	ID         string          `json:"id" yaml:"id"`
	AccountID  string          `json:"account_id" yaml:"account_id"`
	AssetClass AssetClass      `json:"asset_class" yaml:"asset_class"`
	Ticker     string          `json:"ticker,omitempty" yaml:"ticker,omitempty"`
	Name       string          `json:"name,omitempty" yaml:"name,omitempty"`
	Amount     decimal.Decimal `json:"amount" yaml:"amount"`
	Notes      string          `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at,omitempty" yaml:"-"`
	UpdatedAt  time.Time       `json:"updated_at,omitempty" yaml:"-"`
}

// Validate checks the holding's invariants.
func (h *Holding) Validate() error {
	if h.AccountID == "" {
		return fmt.Errorf("holding account id is required")
	}
	if !h.AssetClass.Valid() {
		return fmt.Errorf("unknown asset class %q", h.AssetClass)
	}
	if h.Amount.IsNegative() {
		return fmt.Errorf("holding amount cannot be negative")
	}
	return nil
}

// BalancesByType groups account balances by tax treatment. TaxableCostBasis
// is the combined cost basis of taxable accounts that reported one; it is nil
// when no taxable account carries a known basis.
type BalancesByType struct {
	Pretax           decimal.Decimal
	Roth             decimal.Decimal
	Taxable          decimal.Decimal
	Cash             decimal.Decimal
	TaxableCostBasis *decimal.Decimal
}

// Total returns the combined balance across all account types.
func (b BalancesByType) Total() decimal.Decimal {
	return b.Pretax.Add(b.Roth).Add(b.Taxable).Add(b.Cash)
}

// Of returns the balance held in accounts of the given type.
func (b BalancesByType) Of(t AccountType) decimal.Decimal {
	switch t {
	case AccountPretax:
		return b.Pretax
	case AccountRoth:
		return b.Roth
	case AccountTaxable:
		return b.Taxable
	case AccountCash:
		return b.Cash
	}
	return decimal.Zero
}

// GroupBalances sums account balances by type. Cost basis is aggregated over
// taxable accounts that report one; taxable accounts without a basis
// contribute balance but no basis.
func GroupBalances(accounts []Account) BalancesByType {
	var b BalancesByType
	var basis decimal.Decimal
	hasBasis := false
	for _, a := range accounts {
		switch a.Type {
		case AccountPretax:
			b.Pretax = b.Pretax.Add(a.Balance)
		case AccountRoth:
			b.Roth = b.Roth.Add(a.Balance)
		case AccountTaxable:
			b.Taxable = b.Taxable.Add(a.Balance)
			if a.CostBasis != nil {
				basis = basis.Add(*a.CostBasis)
				hasBasis = true
			}
		case AccountCash:
			b.Cash = b.Cash.Add(a.Balance)
		}
	}
	if hasBasis {
		b.TaxableCostBasis = &basis
	}
	return b
}

// AllocationFromHoldings computes the portfolio-wide asset allocation from
// holdings, as percentages of the total account balance. The second return is
// false when no holdings exist (no-allocation state).
func AllocationFromHoldings(accounts []Account, holdings []Holding) (AssetAllocation, bool) {
	var alloc AssetAllocation
	if len(holdings) == 0 {
		return alloc, false
	}

	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	if !total.IsPositive() {
		return alloc, false
	}

	byClass := make(map[AssetClass]decimal.Decimal, len(AssetClasses))
	for _, h := range holdings {
		byClass[h.AssetClass] = byClass[h.AssetClass].Add(h.Amount)
	}

	hundred := decimal.NewFromInt(100)
	for class, amount := range byClass {
		alloc.Set(class, amount.Div(total).Mul(hundred).Round(2))
	}
	return alloc, true
}
