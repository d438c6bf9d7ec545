package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rplan/retirement-planner/internal/domain"
)

// CreateAccount inserts a new account, assigning an id when absent.
func (s *Store) CreateAccount(account *domain.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	_, err := s.db.Exec(`
		INSERT INTO accounts (id, name, account_type, balance, cost_basis, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, account.ID, account.Name, string(account.Type), account.Balance.String(),
		nullDecimal(account.CostBasis), now, now)
	return err
}

// GetAccount fetches one account by id.
func (s *Store) GetAccount(id string) (*domain.Account, error) {
	row := s.db.QueryRow(`
		SELECT id, name, account_type, balance, cost_basis, created_at, updated_at
		FROM accounts WHERE id = ?
	`, id)
	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	return account, err
}

// ListAccounts returns all accounts ordered by name.
func (s *Store) ListAccounts() ([]domain.Account, error) {
	rows, err := s.db.Query(`
		SELECT id, name, account_type, balance, cost_basis, created_at, updated_at
		FROM accounts ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

// UpdateAccount rewrites an existing account.
func (s *Store) UpdateAccount(account *domain.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}
	account.UpdatedAt = time.Now().UTC()
	res, err := s.db.Exec(`
		UPDATE accounts SET name = ?, account_type = ?, balance = ?, cost_basis = ?, updated_at = ?
		WHERE id = ?
	`, account.Name, string(account.Type), account.Balance.String(),
		nullDecimal(account.CostBasis), account.UpdatedAt, account.ID)
	if err != nil {
		return err
	}
	return requireRow(res, account.ID)
}

// DeleteAccount removes an account and, via cascade, its holdings.
func (s *Store) DeleteAccount(id string) error {
	res, err := s.db.Exec(`DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

// CreateHolding inserts a new holding under an existing account.
func (s *Store) CreateHolding(holding *domain.Holding) error {
	if err := holding.Validate(); err != nil {
		return err
	}
	if _, err := s.GetAccount(holding.AccountID); err != nil {
		return err
	}
	if holding.ID == "" {
		holding.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	holding.CreatedAt = now
	holding.UpdatedAt = now
	_, err := s.db.Exec(`
		INSERT INTO holdings (id, account_id, asset_class, ticker, name, amount, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, holding.ID, holding.AccountID, string(holding.AssetClass), holding.Ticker,
		holding.Name, holding.Amount.String(), holding.Notes, now, now)
	return err
}

// ListHoldings returns the holdings of one account.
func (s *Store) ListHoldings(accountID string) ([]domain.Holding, error) {
	return s.queryHoldings(`
		SELECT id, account_id, asset_class, ticker, name, amount, notes, created_at, updated_at
		FROM holdings WHERE account_id = ? ORDER BY asset_class, ticker
	`, accountID)
}

// ListAllHoldings returns every holding across all accounts.
func (s *Store) ListAllHoldings() ([]domain.Holding, error) {
	return s.queryHoldings(`
		SELECT id, account_id, asset_class, ticker, name, amount, notes, created_at, updated_at
		FROM holdings ORDER BY account_id, asset_class
	`)
}

// UpdateHolding rewrites an existing holding.
func (s *Store) UpdateHolding(holding *domain.Holding) error {
	if err := holding.Validate(); err != nil {
		return err
	}
	holding.UpdatedAt = time.Now().UTC()
	res, err := s.db.Exec(`
		UPDATE holdings SET asset_class = ?, ticker = ?, name = ?, amount = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, string(holding.AssetClass), holding.Ticker, holding.Name,
		holding.Amount.String(), holding.Notes, holding.UpdatedAt, holding.ID)
	if err != nil {
		return err
	}
	return requireRow(res, holding.ID)
}

// DeleteHolding removes one holding.
func (s *Store) DeleteHolding(id string) error {
	res, err := s.db.Exec(`DELETE FROM holdings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func (s *Store) queryHoldings(query string, args ...any) ([]domain.Holding, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holdings []domain.Holding
	for rows.Next() {
		var h domain.Holding
		var class, amount string
		var ticker, name, notes sql.NullString
		if err := rows.Scan(&h.ID, &h.AccountID, &class, &ticker, &name, &amount, &notes, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		h.AssetClass = domain.AssetClass(class)
		h.Ticker = ticker.String
		h.Name = name.String
		h.Notes = notes.String
		if h.Amount, err = scanDecimal(amount); err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var a domain.Account
	var accountType, balance string
	var basis sql.NullString
	if err := row.Scan(&a.ID, &a.Name, &accountType, &balance, &basis, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Type = domain.AccountType(accountType)
	var err error
	if a.Balance, err = scanDecimal(balance); err != nil {
		return nil, err
	}
	if a.CostBasis, err = scanNullDecimal(basis); err != nil {
		return nil, err
	}
	return &a, nil
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}
