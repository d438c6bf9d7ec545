package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store provides access to the planner's persistent state.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Options controls Store initialization.
type Options struct {
	DBPath string
	Logger *slog.Logger
}

// Open initializes a Store using the provided database path.
func Open(dbPath string) (*Store, error) {
	return OpenWithOptions(Options{DBPath: dbPath})
}

// OpenWithOptions initializes a Store using the provided options.
func OpenWithOptions(opts Options) (*Store, error) {
	if opts.DBPath == "" {
		return nil, errors.New("db path is required")
	}
	cleanPath := filepath.Clean(opts.DBPath)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", cleanPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite performs best with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logger.Warn("pragma busy_timeout failed", "err", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		logger.Warn("pragma foreign_keys failed", "err", err)
	}

	if err := initDatabase(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func initDatabase(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			account_type TEXT NOT NULL,
			balance TEXT NOT NULL,
			cost_basis TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS holdings (
			id TEXT PRIMARY KEY,
			account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
			asset_class TEXT NOT NULL,
			ticker TEXT,
			name TEXT,
			amount TEXT NOT NULL,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS social_security_config (
			id TEXT PRIMARY KEY,
			birth_date DATETIME NOT NULL,
			fra_monthly_amount TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS planned_spending (
			id TEXT PRIMARY KEY,
			monthly_spending TEXT NOT NULL,
			annual_lump_spending TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS tax_config (
			id TEXT PRIMARY KEY,
			filing_status TEXT NOT NULL,
			total_deductions TEXT NOT NULL,
			primary_age INTEGER,
			spouse_age INTEGER,
			annual_income TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS other_income (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			income_type TEXT NOT NULL,
			monthly_amount TEXT NOT NULL,
			start_year INTEGER NOT NULL,
			start_month INTEGER NOT NULL,
			end_year INTEGER,
			end_month INTEGER,
			cola_rate TEXT NOT NULL,
			is_taxable INTEGER NOT NULL DEFAULT 1,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS planned_fixed_expenses (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			monthly_amount TEXT NOT NULL,
			start_year INTEGER NOT NULL,
			end_year INTEGER,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS saved_scenarios (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			ss_start_age_years INTEGER NOT NULL,
			ss_start_age_months INTEGER NOT NULL,
			monthly_spending TEXT NOT NULL,
			annual_lump_spending TEXT NOT NULL,
			inflation_adjusted_percent TEXT NOT NULL,
			spending_reduction_percent TEXT NOT NULL,
			spending_reduction_start_year INTEGER,
			projection_years INTEGER NOT NULL,
			asset_allocation TEXT NOT NULL,
			return_source TEXT NOT NULL,
			custom_return_percent TEXT,
			inflation_rate TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS fixed_expenses (
			id TEXT PRIMARY KEY,
			scenario_id TEXT NOT NULL REFERENCES saved_scenarios(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			monthly_amount TEXT NOT NULL,
			start_year INTEGER NOT NULL,
			end_year INTEGER,
			notes TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_holdings_account ON holdings(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_fixed_expenses_scenario ON fixed_expenses(scenario_id)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return tx.Commit()
}

// scanDecimal parses a TEXT column into a decimal.
func scanDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad decimal %q: %w", s, err)
	}
	return d, nil
}

// scanNullDecimal parses an optional TEXT column into a decimal pointer.
func scanNullDecimal(s sql.NullString) (*decimal.Decimal, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := scanDecimal(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func nullDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func nullInt(i *int) any {
	if i == nil {
		return nil
	}
	return *i
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
