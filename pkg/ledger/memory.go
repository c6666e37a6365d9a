package ledger

import (
	"context"
	"sort"
	"sync"
)

// Memory is a Ledger kept in process memory
type Memory struct {
	mu       sync.Mutex
	balances map[Account]int
}

// NewMemory returns an empty in-memory ledger
func NewMemory() *Memory {
	return &Memory{
		balances: make(map[Account]int),
	}
}

// BalanceOf returns the balance of the account
func (m *Memory) BalanceOf(_ context.Context, account Account) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.balances[account], nil
}

// Credit adds amount to the account
func (m *Memory) Credit(_ context.Context, account Account, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if account == "" {
		return ErrInvalidAccount
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.balances[account] += amount
	return nil
}

// Transfer applies the transfers in order
// If any transfer would overdraw its source account, nothing is applied.
func (m *Memory) Transfer(_ context.Context, transfers ...Transfer) error {
	for _, t := range transfers {
		if err := t.validate(); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := make(map[Account]int)
	balance := func(a Account) int {
		if b, ok := next[a]; ok {
			return b
		}

		return m.balances[a]
	}

	for _, t := range transfers {
		from := balance(t.From)
		if from < t.Amount {
			return ErrInsufficientFunds
		}

		next[t.From] = from - t.Amount
		next[t.To] = balance(t.To) + t.Amount
	}

	for account, b := range next {
		m.balances[account] = b
	}

	return nil
}

// Balances returns a copy of every non-zero balance, sorted by account
func (m *Memory) Balances() []Balance {
	m.mu.Lock()
	defer m.mu.Unlock()

	balances := make([]Balance, 0, len(m.balances))
	for account, amount := range m.balances {
		if amount == 0 {
			continue
		}

		balances = append(balances, Balance{Account: account, Amount: amount})
	}

	sort.Slice(balances, func(i, j int) bool {
		return balances[i].Account < balances[j].Account
	})

	return balances
}

// Balance is an account and what it holds
type Balance struct {
	Account Account `json:"account"`
	Amount  int     `json:"amount"`
}
