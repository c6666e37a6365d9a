package lobby

import (
	"context"
	"errors"
	"fmt"

	"liars-server/pkg/commit"
	"liars-server/pkg/playable"
)

// Name returns "liars"
func (l *Lobby) Name() string {
	return "liars"
}

// Action performs an action sent by a client
func (l *Lobby) Action(ctx context.Context, playerID int64, message *playable.PayloadIn) (playerResponse *playable.Response, updateState bool, err error) {
	switch message.Action {
	case "join":
		err = l.Join(playerID)
	case "leave":
		err = l.Leave(ctx, playerID)
	case "deposit":
		amount, ok := message.AdditionalData.GetInt("amount")
		if !ok {
			return nil, false, errors.New("missing 'amount' parameter")
		}

		err = l.Deposit(ctx, playerID, amount)
	case "start":
		err = l.Start(playerID)
	case "registerKey":
		keyHash, parseErr := getDigest(message.AdditionalData, "keyHash")
		if parseErr != nil {
			return nil, false, parseErr
		}

		err = l.RegisterKey(playerID, keyHash)
	case "requestHand":
		secret, ok := message.AdditionalData.GetString("secret")
		if !ok {
			return nil, false, errors.New("missing 'secret' parameter")
		}

		err = l.RequestHand(playerID, []byte(secret))
	case "readHand":
		return l.readHandAction(playerID, message)
	case "submitMove":
		moveHash, parseErr := getDigest(message.AdditionalData, "moveHash")
		if parseErr != nil {
			return nil, false, parseErr
		}

		err = l.SubmitMove(playerID, moveHash)
	case "challenge":
		err = l.Challenge(playerID)
	case "reveal":
		claim, ok := message.AdditionalData.GetString("claim")
		if !ok {
			return nil, false, errors.New("missing 'claim' parameter")
		}

		cards := message.Cards
		if len(cards) == 0 {
			if cards, ok = message.AdditionalData.GetCards("cards"); !ok {
				return nil, false, errors.New("missing 'cards' parameter")
			}
		}

		// salt is optional
		salt, _ := message.AdditionalData.GetString("salt")
		result, revealErr := l.RevealSalted(playerID, cards, claim, salt)
		if revealErr != nil {
			return nil, false, revealErr
		}

		return &playable.Response{Key: "reveal", Value: "OK", Data: result, Context: message.Context}, true, nil
	case "distribute":
		settlement, settleErr := l.DistributeRewards(ctx, playerID)
		if settleErr != nil {
			return nil, false, settleErr
		}

		return &playable.Response{Key: "settlement", Value: "OK", Data: settlement, Context: message.Context}, true, nil
	case "emergencyWithdraw":
		refunds, withdrawErr := l.EmergencyWithdraw(ctx, playerID)
		if withdrawErr != nil {
			return nil, false, withdrawErr
		}

		return &playable.Response{Key: "refunds", Value: "OK", Data: refunds, Context: message.Context}, true, nil
	case "state":
		res, stateErr := l.GetPlayerState(playerID)
		if stateErr != nil {
			return nil, false, stateErr
		}

		res.Context = message.Context
		return res, false, nil
	default:
		return nil, false, fmt.Errorf("unknown action: %s", message.Action)
	}

	if err != nil {
		return nil, false, err
	}

	return playable.OK(message.Context), true, nil
}

func (l *Lobby) readHandAction(playerID int64, message *playable.PayloadIn) (*playable.Response, bool, error) {
	secret, ok := message.AdditionalData.GetString("secret")
	if !ok {
		return nil, false, errors.New("missing 'secret' parameter")
	}

	owner := playerID
	if message.Subject != "" {
		if owner, ok = message.SubjectID(); !ok {
			return nil, false, fmt.Errorf("invalid subject: %s", message.Subject)
		}
	}

	hand, err := l.ReadHand(playerID, owner, []byte(secret))
	if err != nil {
		return nil, false, err
	}

	return &playable.Response{Key: "hand", Value: "OK", Data: hand, Context: message.Context}, false, nil
}

// GetPlayerState returns the current state of the lobby for the player
func (l *Lobby) GetPlayerState(playerID int64) (*playable.Response, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	state := &PlayerState{
		Lobby:     l.details(),
		PlayerID:  playerID,
		IsReferee: playerID == l.owner,
	}

	if l.state == StateInGame && l.phase == PhaseGameplay {
		p, found := l.idToParticipant[playerID]
		active := found && p.IsActive()
		state.YourTurn = active && l.currentPlayerID() == playerID
		state.CanChallenge = active && l.pending != nil && !l.pending.Challenged && l.pending.Mover != playerID
	}

	return &playable.Response{
		Key:   "game",
		Value: l.Name(),
		Data:  state,
	}, nil
}

func getDigest(data playable.AdditionalData, key string) (commit.Digest, error) {
	s, ok := data.GetString(key)
	if !ok {
		return commit.Digest{}, fmt.Errorf("missing '%s' parameter", key)
	}

	return commit.Parse(s)
}
