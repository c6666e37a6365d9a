package ledger

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Postgres is a Ledger backed by the accounts and ledger_entries tables
type Postgres struct {
	db *sql.DB
}

// NewPostgres returns a ledger that uses db
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// BalanceOf returns the balance of the account
func (p *Postgres) BalanceOf(ctx context.Context, account Account) (int, error) {
	const query = `SELECT balance FROM accounts WHERE account = $1`

	var balance int
	if err := p.db.QueryRowContext(ctx, query, string(account)).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}

		return 0, err
	}

	return balance, nil
}

// Credit adds amount to the account, creating it if needed
func (p *Postgres) Credit(ctx context.Context, account Account, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if account == "" {
		return ErrInvalidAccount
	}

	return p.inTx(ctx, func(tx *sql.Tx) error {
		const query = `
INSERT INTO accounts (account, balance)
VALUES ($1, $2)
ON CONFLICT (account) DO UPDATE SET balance = accounts.balance + EXCLUDED.balance, updated = (NOW() AT TIME ZONE 'utc')`
		if _, err := tx.ExecContext(ctx, query, string(account), amount); err != nil {
			return err
		}

		return insertEntry(ctx, tx, uuid.New().String(), nil, account, amount)
	})
}

// Transfer applies every transfer in a single transaction
// Involved accounts are locked in a stable order so concurrent batches cannot deadlock.
func (p *Postgres) Transfer(ctx context.Context, transfers ...Transfer) error {
	for _, t := range transfers {
		if err := t.validate(); err != nil {
			return err
		}
	}

	if len(transfers) == 0 {
		return nil
	}

	batch := uuid.New().String()
	return p.inTx(ctx, func(tx *sql.Tx) error {
		balances, err := lockAccounts(ctx, tx, transfers)
		if err != nil {
			return err
		}

		for _, t := range transfers {
			if balances[t.From] < t.Amount {
				return ErrInsufficientFunds
			}

			balances[t.From] -= t.Amount
			balances[t.To] += t.Amount

			from := t.From
			if err := insertEntry(ctx, tx, batch, &from, t.To, t.Amount); err != nil {
				return err
			}
		}

		const update = `
UPDATE accounts
SET balance = $1, updated = (NOW() AT TIME ZONE 'utc')
WHERE account = $2`
		for account, balance := range balances {
			if _, err := tx.ExecContext(ctx, update, balance, string(account)); err != nil {
				return err
			}
		}

		return nil
	})
}

// Balances returns every account with a non-zero balance
func (p *Postgres) Balances(ctx context.Context) ([]Balance, error) {
	const query = `
SELECT account, balance
FROM accounts
WHERE balance <> 0
ORDER BY account`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]Balance, 0)
	for rows.Next() {
		var b Balance
		if err := rows.Scan(&b.Account, &b.Amount); err != nil {
			return nil, err
		}

		balances = append(balances, b)
	}

	return balances, rows.Err()
}

func lockAccounts(ctx context.Context, tx *sql.Tx, transfers []Transfer) (map[Account]int, error) {
	seen := make(map[Account]bool)
	accounts := make([]Account, 0, len(transfers)*2)
	for _, t := range transfers {
		for _, a := range []Account{t.From, t.To} {
			if !seen[a] {
				seen[a] = true
				accounts = append(accounts, a)
			}
		}
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i] < accounts[j]
	})

	const create = `
INSERT INTO accounts (account, balance)
VALUES ($1, 0)
ON CONFLICT (account) DO NOTHING`
	const lock = `SELECT balance FROM accounts WHERE account = $1 FOR UPDATE`

	balances := make(map[Account]int, len(accounts))
	for _, account := range accounts {
		if _, err := tx.ExecContext(ctx, create, string(account)); err != nil {
			return nil, err
		}

		var balance int
		if err := tx.QueryRowContext(ctx, lock, string(account)).Scan(&balance); err != nil {
			return nil, err
		}

		balances[account] = balance
	}

	return balances, nil
}

func insertEntry(ctx context.Context, tx *sql.Tx, batch string, from *Account, to Account, amount int) error {
	const query = `
INSERT INTO ledger_entries (batch_uuid, from_account, to_account, amount)
VALUES ($1, $2, $3, $4)`

	var fromAccount sql.NullString
	if from != nil {
		fromAccount = sql.NullString{String: string(*from), Valid: true}
	}

	_, err := tx.ExecContext(ctx, query, batch, fromAccount, string(to), amount)
	return err
}

func (p *Postgres) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logrus.WithError(rbErr).Error("could not rollback transaction")
		}

		return err
	}

	return tx.Commit()
}
