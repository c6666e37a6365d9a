package lobby

// penalize adds a lost round to the player and eliminates them at the threshold
// Returns true if the player was eliminated.
func (l *Lobby) penalize(playerID int64) bool {
	p, found := l.idToParticipant[playerID]
	if !found || !p.IsActive() {
		return false
	}

	p.roundsLost++
	l.emit(EventPenaltyApplied, playerID, 0, &PenaltyData{
		RoundsLost: p.roundsLost,
		Threshold:  l.options.PenaltyThreshold,
	}, "{} lost a round (%d of %d)", p.roundsLost, l.options.PenaltyThreshold)

	if p.roundsLost < l.options.PenaltyThreshold {
		return false
	}

	l.eliminate(p)
	return true
}

// eliminate takes the player out of the rotation
// Their stake stays in escrow and goes to the winner.
func (l *Lobby) eliminate(p *Participant) {
	p.status = StatusEliminated
	l.fixTurn()

	l.logger.WithField("player", p.PlayerID).Debug("player eliminated")
	l.emit(EventPlayerEliminated, p.PlayerID, 0, nil, "{} has been eliminated")
	l.emit(EventPlayerDefeated, p.PlayerID, p.stake, nil, "{} was defeated")
}
