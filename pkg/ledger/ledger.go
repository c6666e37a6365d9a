// Package ledger moves token balances between player accounts and lobby escrow.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInsufficientFunds is returned when a transfer would overdraw an account
var ErrInsufficientFunds = errors.New("insufficient balance")

// ErrInvalidAmount is returned when a transfer or credit amount is not positive
var ErrInvalidAmount = errors.New("amount must be greater than zero")

// ErrInvalidAccount is returned when an account name is empty or a transfer goes to itself
var ErrInvalidAccount = errors.New("invalid account")

// Account identifies a balance holder, e.g., player:42 or escrow:<lobby uuid>
type Account string

// PlayerAccount returns the account that holds a player's tokens
func PlayerAccount(playerID int64) Account {
	return Account(fmt.Sprintf("player:%d", playerID))
}

// EscrowAccount returns the account that holds the stakes of a lobby
func EscrowAccount(lobbyUUID string) Account {
	return Account("escrow:" + lobbyUUID)
}

// HouseAccount collects escrow that no player can claim, e.g., stakes forfeited in a game
// that was called off
const HouseAccount Account = "house"

// IsEscrow returns true if the account belongs to a lobby
func (a Account) IsEscrow() bool {
	return strings.HasPrefix(string(a), "escrow:")
}

// Transfer moves Amount from one account to another
type Transfer struct {
	From   Account `json:"from"`
	To     Account `json:"to"`
	Amount int     `json:"amount"`
}

func (t Transfer) validate() error {
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}

	if t.From == "" || t.To == "" || t.From == t.To {
		return ErrInvalidAccount
	}

	return nil
}

// Ledger is the token ledger the lobby engine settles through
type Ledger interface {
	// BalanceOf returns the balance of the account, zero for unknown accounts
	BalanceOf(ctx context.Context, account Account) (int, error)

	// Transfer applies every transfer or none of them
	Transfer(ctx context.Context, transfers ...Transfer) error
}

// Crediter is a Ledger that can mint tokens into an account
type Crediter interface {
	Ledger
	Credit(ctx context.Context, account Account, amount int) error
}
