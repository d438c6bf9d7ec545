package domain

import "fmt"

// Snapshot is the full profile state fed into the projection engine:
// everything a scenario needs beyond its own parameters. Config pointers are
// nil when the user has not set them up.
type Snapshot struct {
	Accounts             []Account             `json:"accounts" yaml:"accounts"`
	Holdings             []Holding             `json:"holdings" yaml:"holdings"`
	SocialSecurity       *SocialSecurityConfig `json:"social_security,omitempty" yaml:"social_security,omitempty"`
	PlannedSpending      *PlannedSpending      `json:"planned_spending,omitempty" yaml:"planned_spending,omitempty"`
	TaxConfig            *TaxConfig            `json:"tax_config,omitempty" yaml:"tax_config,omitempty"`
	OtherIncomes         []OtherIncome         `json:"other_incomes,omitempty" yaml:"other_incomes,omitempty"`
	PlannedFixedExpenses []PlannedFixedExpense `json:"planned_fixed_expenses,omitempty" yaml:"planned_fixed_expenses,omitempty"`
}

// Balances groups the snapshot's account balances by account type.
func (s *Snapshot) Balances() BalancesByType {
	return GroupBalances(s.Accounts)
}

// Validate checks every component of the snapshot that is present.
func (s *Snapshot) Validate() error {
	for i := range s.Accounts {
		if err := s.Accounts[i].Validate(); err != nil {
			return fmt.Errorf("account %d: %w", i, err)
		}
	}
	for i := range s.Holdings {
		if err := s.Holdings[i].Validate(); err != nil {
			return fmt.Errorf("holding %d: %w", i, err)
		}
	}
	if s.SocialSecurity != nil {
		if err := s.SocialSecurity.Validate(); err != nil {
			return fmt.Errorf("social security config: %w", err)
		}
	}
	if s.PlannedSpending != nil {
		if err := s.PlannedSpending.Validate(); err != nil {
			return fmt.Errorf("planned spending: %w", err)
		}
	}
	if s.TaxConfig != nil {
		if err := s.TaxConfig.Validate(); err != nil {
			return fmt.Errorf("tax config: %w", err)
		}
	}
	for i := range s.OtherIncomes {
		if err := s.OtherIncomes[i].Validate(); err != nil {
			return fmt.Errorf("other income %d: %w", i, err)
		}
	}
	for i := range s.PlannedFixedExpenses {
		if err := s.PlannedFixedExpenses[i].Validate(); err != nil {
			return fmt.Errorf("planned fixed expense %d: %w", i, err)
		}
	}
	return nil
}
