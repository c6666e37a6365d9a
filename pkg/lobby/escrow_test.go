package lobby

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"liars-server/pkg/commit"
	"liars-server/pkg/ledger"
)

var ctx = context.Background()

// failingLedger accepts deposits but refuses to pay anything out of escrow
type failingLedger struct {
	*ledger.Memory
}

func (f failingLedger) Transfer(ctx context.Context, transfers ...ledger.Transfer) error {
	for _, t := range transfers {
		if t.From.IsEscrow() {
			return errors.New("ledger unavailable")
		}
	}

	return f.Memory.Transfer(ctx, transfers...)
}

func TestLobby_Deposit(t *testing.T) {
	a := assert.New(t)
	l, rec, mem := newTestLobby(t, DefaultOptions(), 1, 2)
	rec.Reset()

	a.NoError(l.Deposit(ctx, 1, 400))
	a.NoError(l.Deposit(ctx, 1, 600))
	a.Equal(1000, l.idToParticipant[1].stake)
	a.Equal(0, balance(t, mem, ledger.PlayerAccount(1)))
	a.Equal(1000, balance(t, mem, l.Escrow()))
	a.Equal([]EventType{EventStakeDeposited, EventStakeDeposited}, rec.Types())
	a.Equal(600, rec.Last(EventStakeDeposited).Amount)

	err := l.Deposit(ctx, 1, 1)
	a.ErrorIs(err, ErrExceedsMaxStake)
	var sle StakeLimitError
	a.True(errors.As(err, &sle))
	a.Equal(StakeLimitError{Max: 1000, Current: 1000, Amount: 1}, sle)

	a.ErrorIs(l.Deposit(ctx, 2, 1001), ErrExceedsMaxStake)
	a.Equal(ErrInvalidAmount, l.Deposit(ctx, 2, 0))
	a.Equal(ErrPlayerNotFound, l.Deposit(ctx, 9, 10))

	// not enough balance: nothing moves
	a.NoError(l.Deposit(ctx, 2, 900))
	a.NoError(mem.Transfer(ctx, ledger.Transfer{From: ledger.PlayerAccount(2), To: ledger.PlayerAccount(1), Amount: 90}))
	err = l.Deposit(ctx, 2, 50)
	a.ErrorIs(err, ledger.ErrInsufficientFunds)
	a.Equal(900, l.idToParticipant[2].stake)
	a.Equal(10, balance(t, mem, ledger.PlayerAccount(2)))

	a.NoError(l.Start(referee))
	_, err = l.EmergencyWithdraw(ctx, referee)
	a.NoError(err)
	a.Equal(ErrGameNotActive, l.Deposit(ctx, 1, 10))
}

func TestLobby_Leave_Waiting(t *testing.T) {
	a := assert.New(t)
	l, rec, mem := newTestLobby(t, DefaultOptions(), 1, 2, 3)
	a.NoError(l.Deposit(ctx, 2, 250))
	rec.Reset()

	a.NoError(l.Leave(ctx, 2))
	a.Equal(1000, balance(t, mem, ledger.PlayerAccount(2)))
	a.Equal(0, balance(t, mem, l.Escrow()))
	a.Equal([]EventType{EventPlayerLeft}, rec.Types())
	a.Equal(250, rec.Last(EventPlayerLeft).Amount)

	a.Len(l.participants, 2)
	a.Equal(1, l.idToParticipant[3].seat)
	a.Equal(ErrPlayerNotFound, l.Leave(ctx, 2))

	// a seat opened up, so they can come back
	a.NoError(l.Join(2))
}

func TestLobby_Leave_InGame(t *testing.T) {
	a := assert.New(t)
	l, rec, mem := newTestLobby(t, DefaultOptions(), 1, 2, 3)
	for _, id := range []int64{1, 2, 3} {
		a.NoError(l.Deposit(ctx, id, 100))
	}

	a.NoError(l.Start(referee))
	requestHand(t, l, 1)
	requestHand(t, l, 3)
	rec.Reset()

	// the last player yet to request leaves, which completes distribution
	a.NoError(l.Leave(ctx, 2))
	a.Equal([]EventType{EventPlayerLeft, EventPlayerDefeated, EventRoundPhaseAdvanced}, rec.Types())
	a.Equal(100, rec.Last(EventPlayerDefeated).Amount)
	a.Equal(PhaseGameplay, l.Phase())

	p := l.idToParticipant[2]
	a.Equal(StatusLeft, p.status)
	a.Equal(0, p.stake)
	a.Equal(300, l.pot())
	a.Equal(300, balance(t, mem, l.Escrow()))
	a.Equal(900, balance(t, mem, ledger.PlayerAccount(2)))

	a.Equal(ErrPlayerNotActive, l.Leave(ctx, 2))
	a.Equal(ErrPlayerNotActive, l.Deposit(ctx, 2, 10))
	a.Equal(ErrPlayerNotActive, l.RequestHand(2, secretFor(2)))
}

func TestLobby_Leave_DuringTurn(t *testing.T) {
	a := assert.New(t)
	l, _, _ := startedLobby(t, DefaultOptions(), 1, 2, 3)

	// player 1 moves and leaves before anyone can challenge
	a.NoError(l.SubmitMove(1, commit.MoveHash(twoQueens, "2 Kings")))
	a.NoError(l.Leave(ctx, 1))
	a.Nil(l.pending)
	a.Equal(ErrNoPendingMove, l.Challenge(2))

	// player 2 is on turn and leaves
	a.Equal(int64(2), l.currentPlayerID())
	a.NoError(l.Leave(ctx, 2))
	a.Equal(int64(3), l.currentPlayerID())
	a.True(l.IsDecided())
}

func TestLobby_DistributeRewards(t *testing.T) {
	a := assert.New(t)
	l, rec, mem := newTestLobby(t, DefaultOptions(), 1, 2, 3)

	_, err := l.DistributeRewards(ctx, referee)
	a.Equal(ErrGameNotStarted, err)

	for _, id := range []int64{1, 2, 3} {
		a.NoError(l.Deposit(ctx, id, 100))
	}

	a.NoError(l.Start(referee))
	_, err = l.DistributeRewards(ctx, 1)
	a.Equal(ErrGameNotDecided, err)

	a.NoError(l.Leave(ctx, 3))
	rec.Reset()

	// players 1 and 2 are tied on zero rounds lost, the earliest joined wins
	settlement, err := l.DistributeRewards(ctx, referee)
	a.NoError(err)
	a.Equal(&Settlement{WinnerID: 1, Pot: 300}, settlement)
	a.Equal(StateEnded, l.State())
	a.Equal(1200, balance(t, mem, ledger.PlayerAccount(1)))
	a.Equal(0, balance(t, mem, l.Escrow()))
	a.Equal([]EventType{EventRewardsDistributed}, rec.Types())
	a.Equal(300, rec.Last(EventRewardsDistributed).Amount)
	a.Equal(0, l.pot())

	_, err = l.DistributeRewards(ctx, referee)
	a.Equal(ErrGameOver, err)
	a.Equal(ErrGameOver, l.Leave(ctx, 1))
	a.Equal(ErrGameOver, l.Join(9))

	details := l.GetDetails()
	a.Equal(int64(1), details.Winner)
	a.Equal(300, details.Payout)
	a.NotNil(details.Ended)
}

func TestLobby_DistributeRewards_FewestRoundsLost(t *testing.T) {
	a := assert.New(t)
	l, _, mem := startedLobby(t, DefaultOptions(), 1, 2)

	// player 2 wrongly challenges a true move
	a.NoError(l.SubmitMove(1, commit.MoveHash(twoKings, "2 Kings")))
	a.NoError(l.Challenge(2))
	_, err := l.Reveal(1, twoKings, "2 Kings")
	a.NoError(err)

	settlement, err := l.DistributeRewards(ctx, referee)
	a.NoError(err)
	a.Equal(int64(1), settlement.WinnerID)
	a.Equal(0, settlement.Pot)
	a.Equal(1000, balance(t, mem, ledger.PlayerAccount(1)))
}

func TestLobby_DistributeRewards_SingleSurvivor(t *testing.T) {
	a := assert.New(t)
	l, _, mem := newTestLobby(t, DefaultOptions(), 1, 2)
	a.NoError(l.Deposit(ctx, 1, 500))
	a.NoError(l.Deposit(ctx, 2, 300))
	a.NoError(l.Start(referee))
	a.NoError(l.Leave(ctx, 1))

	_, err := l.DistributeRewards(ctx, 9)
	a.Equal(ErrNotAuthorized, err)

	// any player in the lobby may settle, even the one who left
	settlement, err := l.DistributeRewards(ctx, 1)
	a.NoError(err)
	a.Equal(&Settlement{WinnerID: 2, Pot: 800}, settlement)
	a.Equal(1500, balance(t, mem, ledger.PlayerAccount(2)))
	a.Equal(500, balance(t, mem, ledger.PlayerAccount(1)))
}

func TestLobby_DistributeRewards_NoWinner(t *testing.T) {
	l, _, _ := startedLobby(t, DefaultOptions(), 1, 2)
	assert.NoError(t, l.Leave(ctx, 1))
	assert.NoError(t, l.Leave(ctx, 2))

	_, err := l.DistributeRewards(ctx, referee)
	assert.Equal(t, ErrNoEligibleWinner, err)
	assert.Equal(t, StateInGame, l.State())
}

func TestLobby_DistributeRewards_LedgerFailure(t *testing.T) {
	a := assert.New(t)
	mem := ledger.NewMemory()
	l, err := New(logrus.StandardLogger(), referee, "lobby", failingLedger{mem}, DefaultOptions())
	a.NoError(err)

	rec := &Recorder{}
	l.SetEmitter(rec)
	for _, id := range []int64{1, 2} {
		a.NoError(mem.Credit(ctx, ledger.PlayerAccount(id), 100))
		a.NoError(l.Join(id))
		a.NoError(l.Deposit(ctx, id, 100))
	}

	a.NoError(l.Start(referee))
	a.NoError(l.Leave(ctx, 2))
	rec.Reset()

	_, err = l.DistributeRewards(ctx, 1)
	a.EqualError(err, "could not pay out the pot: ledger unavailable")
	a.Equal(StateInGame, l.State())
	a.Equal(200, l.pot())
	a.Empty(rec.Events())

	_, err = l.EmergencyWithdraw(ctx, referee)
	a.EqualError(err, "could not refund stakes: ledger unavailable")
	a.Equal(100, l.idToParticipant[1].stake)
	a.Empty(rec.Events())
}

func TestLobby_EmergencyWithdraw(t *testing.T) {
	a := assert.New(t)
	l, rec, mem := newTestLobby(t, DefaultOptions(), 1, 2, 3)
	a.NoError(l.Deposit(ctx, 1, 100))
	a.NoError(l.Deposit(ctx, 2, 200))
	a.NoError(l.Deposit(ctx, 3, 300))
	a.NoError(l.Start(referee))
	a.NoError(l.Leave(ctx, 3))
	rec.Reset()

	_, err := l.EmergencyWithdraw(ctx, 1)
	a.Equal(ErrNotAuthorized, err)

	refunds, err := l.EmergencyWithdraw(ctx, referee)
	a.NoError(err)
	a.Equal([]Refund{{PlayerID: 1, Amount: 100}, {PlayerID: 2, Amount: 200}}, refunds)
	a.Equal(StateEnded, l.State())
	a.Equal(1000, balance(t, mem, ledger.PlayerAccount(1)))
	a.Equal(1000, balance(t, mem, ledger.PlayerAccount(2)))
	a.Equal(700, balance(t, mem, ledger.PlayerAccount(3)))

	// the forfeited stake goes to the house and nothing is left in escrow
	a.Equal(0, balance(t, mem, l.Escrow()))
	a.Equal(300, balance(t, mem, ledger.HouseAccount))
	a.Equal(0, l.GetDetails().Pot)
	a.Equal([]EventType{EventForfeitsSwept, EventEmergencyWithdrawal}, rec.Types())
	a.Equal(300, rec.Last(EventForfeitsSwept).Amount)
	a.Equal(300, rec.Last(EventEmergencyWithdrawal).Amount)

	_, err = l.EmergencyWithdraw(ctx, referee)
	a.Equal(ErrGameOver, err)

	summary, ok := l.Summary()
	a.True(ok)
	a.True(summary.Emergency)
	a.Equal(int64(0), summary.WinnerID)
}

func TestLobby_EmergencyWithdraw_noEligibleWinner(t *testing.T) {
	a := assert.New(t)
	l, rec, mem := newTestLobby(t, DefaultOptions(), 1, 2)
	a.NoError(l.Deposit(ctx, 1, 100))
	a.NoError(l.Deposit(ctx, 2, 50))
	a.NoError(l.Start(referee))
	a.NoError(l.Leave(ctx, 1))
	a.NoError(l.Leave(ctx, 2))

	_, err := l.DistributeRewards(ctx, referee)
	a.Equal(ErrNoEligibleWinner, err)
	a.Equal(150, balance(t, mem, l.Escrow()))
	rec.Reset()

	refunds, err := l.EmergencyWithdraw(ctx, referee)
	a.NoError(err)
	a.Empty(refunds)
	a.Equal(0, balance(t, mem, l.Escrow()))
	a.Equal(150, balance(t, mem, ledger.HouseAccount))
	a.Equal([]EventType{EventForfeitsSwept, EventEmergencyWithdrawal}, rec.Types())
}

func TestLobby_Summary(t *testing.T) {
	a := assert.New(t)
	l, _, _ := startedLobby(t, DefaultOptions(), 1, 2)

	_, ok := l.Summary()
	a.False(ok)

	a.NoError(l.Leave(ctx, 2))
	_, err := l.DistributeRewards(ctx, 1)
	a.NoError(err)

	summary, ok := l.Summary()
	a.True(ok)
	a.Equal(int64(1), summary.WinnerID)
	a.Equal(strings.Repeat("07", 32), summary.DealSecret)
	a.Equal(l.handCommitments, summary.HandCommitments)
	a.Equal(l.handNonces, summary.HandNonces)
	a.Len(summary.Players, 2)
	a.Equal(StatusLeft, summary.Players[1].Status)
}
