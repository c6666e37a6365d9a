package lobby

import (
	"context"
	"fmt"
	"time"

	"liars-server/pkg/ledger"
)

// Settlement is the result of paying out the pot
type Settlement struct {
	WinnerID int64 `json:"winnerId"`
	Pot      int   `json:"pot"`
}

// Deposit moves amount from the player's balance into the lobby's escrow
// Deposits accumulate up to the maximum stake.
func (l *Lobby) Deposit(ctx context.Context, playerID int64, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.flush()

	if l.state == StateEnded {
		return ErrGameNotActive
	}

	if amount <= 0 {
		return ErrInvalidAmount
	}

	p, err := l.activeParticipant(playerID)
	if err != nil {
		return err
	}

	if amount > l.options.MaxStake || p.stake+amount > l.options.MaxStake {
		return StakeLimitError{
			Max:     l.options.MaxStake,
			Current: p.stake,
			Amount:  amount,
		}
	}

	if err := l.ledger.Transfer(ctx, ledger.Transfer{
		From:   ledger.PlayerAccount(playerID),
		To:     l.escrow,
		Amount: amount,
	}); err != nil {
		l.logger.WithError(err).WithField("player", playerID).Debug("could not deposit stake")
		return fmt.Errorf("could not deposit stake: %w", err)
	}

	p.stake += amount

	l.logger.WithField("player", playerID).WithField("stake", p.stake).Debug("stake deposited")
	l.emit(EventStakeDeposited, playerID, amount, p.stake, "{} staked %d", amount)
	return nil
}

// Leave removes a player from the lobby
// Before the game starts the player's stake is refunded. During the game it is forfeited
// into the pot and the player is marked as having left.
func (l *Lobby) Leave(ctx context.Context, playerID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.flush()

	p, found := l.idToParticipant[playerID]
	if !found {
		return ErrPlayerNotFound
	}

	switch l.state {
	case StateEnded:
		return ErrGameOver
	case StateWaiting:
		return l.leaveBeforeStart(ctx, p)
	}

	if !p.IsActive() {
		return ErrPlayerNotActive
	}

	forfeited := p.stake
	p.stake = 0
	p.status = StatusLeft
	l.forfeited += forfeited

	if l.pending != nil && l.pending.Mover == playerID {
		l.pending = nil
	}

	l.logger.WithField("player", playerID).WithField("forfeited", forfeited).Debug("player left a game in progress")
	l.emit(EventPlayerLeft, playerID, 0, nil, "{} left the game")
	l.emit(EventPlayerDefeated, playerID, forfeited, nil, "{} forfeited %d", forfeited)

	l.fixTurn()
	l.checkDistributionComplete()
	return nil
}

func (l *Lobby) leaveBeforeStart(ctx context.Context, p *Participant) error {
	refund := p.stake
	if refund > 0 {
		if err := l.ledger.Transfer(ctx, ledger.Transfer{
			From:   l.escrow,
			To:     ledger.PlayerAccount(p.PlayerID),
			Amount: refund,
		}); err != nil {
			l.logger.WithError(err).WithField("player", p.PlayerID).Error("could not refund stake")
			return fmt.Errorf("could not refund stake: %w", err)
		}
	}

	p.stake = 0
	l.removeParticipant(p.PlayerID)

	l.logger.WithField("player", p.PlayerID).Debug("player left")
	l.emit(EventPlayerLeft, p.PlayerID, refund, nil, "{} left the lobby")
	return nil
}

// DistributeRewards pays the whole pot to the winner and ends the game
// Once a single active player remains anyone in the lobby may settle. Otherwise only the
// referee may, and the active player with the fewest lost rounds wins, ties going to the
// earliest to join.
func (l *Lobby) DistributeRewards(ctx context.Context, caller int64) (*Settlement, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.flush()

	if err := l.requireInGame(); err != nil {
		return nil, err
	}

	active := l.activeParticipants()
	var winner *Participant
	if len(active) == 1 {
		if _, found := l.idToParticipant[caller]; !found && caller != l.owner {
			return nil, ErrNotAuthorized
		}

		winner = active[0]
	} else {
		if caller != l.owner {
			return nil, ErrGameNotDecided
		}

		winner = leader(active)
		if winner == nil {
			return nil, ErrNoEligibleWinner
		}
	}

	pot := l.pot()
	if pot > 0 {
		if err := l.ledger.Transfer(ctx, ledger.Transfer{
			From:   l.escrow,
			To:     ledger.PlayerAccount(winner.PlayerID),
			Amount: pot,
		}); err != nil {
			l.logger.WithError(err).Error("could not pay out the pot")
			return nil, fmt.Errorf("could not pay out the pot: %w", err)
		}
	}

	for _, p := range l.participants {
		p.stake = 0
	}

	l.forfeited = 0
	l.pending = nil
	l.state = StateEnded
	l.winner = winner.PlayerID
	l.payout = pot
	l.ended = time.Now()

	l.logger.WithField("winner", winner.PlayerID).WithField("pot", pot).Info("rewards distributed")
	l.emit(EventRewardsDistributed, winner.PlayerID, pot, &Settlement{WinnerID: winner.PlayerID, Pot: pot}, "{} won %d", pot)

	return &Settlement{WinnerID: winner.PlayerID, Pot: pot}, nil
}

// EmergencyWithdraw refunds every tracked stake and ends the game
// Only the referee may call it. Stakes already forfeited go to the house account in the
// same batch, leaving the escrow empty.
func (l *Lobby) EmergencyWithdraw(ctx context.Context, caller int64) ([]Refund, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	defer l.flush()

	if caller != l.owner {
		return nil, ErrNotAuthorized
	}

	if l.state == StateEnded {
		return nil, ErrGameOver
	}

	refunds := make([]Refund, 0, len(l.participants))
	transfers := make([]ledger.Transfer, 0, len(l.participants))
	total := 0
	for _, p := range l.participants {
		if p.stake == 0 {
			continue
		}

		refunds = append(refunds, Refund{PlayerID: p.PlayerID, Amount: p.stake})
		transfers = append(transfers, ledger.Transfer{
			From:   l.escrow,
			To:     ledger.PlayerAccount(p.PlayerID),
			Amount: p.stake,
		})
		total += p.stake
	}

	swept := l.forfeited
	if swept > 0 {
		transfers = append(transfers, ledger.Transfer{
			From:   l.escrow,
			To:     ledger.HouseAccount,
			Amount: swept,
		})
	}

	if len(transfers) > 0 {
		if err := l.ledger.Transfer(ctx, transfers...); err != nil {
			l.logger.WithError(err).Error("could not refund stakes")
			return nil, fmt.Errorf("could not refund stakes: %w", err)
		}
	}

	for _, p := range l.participants {
		p.stake = 0
	}

	l.forfeited = 0
	l.pending = nil
	l.state = StateEnded
	l.emergency = true
	l.ended = time.Now()

	l.logger.WithField("refunded", total).WithField("swept", swept).Warn("emergency withdrawal")
	if swept > 0 {
		l.emit(EventForfeitsSwept, 0, swept, nil, "%d in forfeited stakes went to the house", swept)
	}

	l.emit(EventEmergencyWithdrawal, l.owner, total, refunds, "The referee returned every stake")
	return refunds, nil
}

// pot is every tracked stake plus what leavers forfeited
func (l *Lobby) pot() int {
	pot := l.forfeited
	for _, p := range l.participants {
		pot += p.stake
	}

	return pot
}

// leader returns the participant with the fewest rounds lost, the earliest joined on a tie
func leader(participants []*Participant) *Participant {
	var best *Participant
	for _, p := range participants {
		if best == nil || p.roundsLost < best.roundsLost {
			best = p
		}
	}

	return best
}
