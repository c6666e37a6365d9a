package room

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"liars-server/pkg/audit"
	"liars-server/pkg/lobby"
	"liars-server/pkg/playable"
)

const commandTimeout = time.Second * 10
const auditTimeout = time.Second * 5

// Dealer is responsible for running a single lobby
// Client commands are executed one at a time on the dealer's run loop. Events the lobby
// emits are queued and fanned out to the connected clients after every command.
type Dealer struct {
	lobby   *lobby.Lobby
	store   audit.Store
	clients map[*Client]bool
	lock    sync.RWMutex
	log     logrus.FieldLogger

	outbox     []*lobby.Event
	outboxLock sync.Mutex

	// only touched from the run loop
	gameReference string
	moveIDs       []audit.ID
	logMessages   []*playable.LogMessage

	// onFinished is called from the run loop once the game has ended and nobody is connected
	onFinished func(*Dealer)

	execInRunLoop chan func()
	close         chan bool
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(l *lobby.Lobby, store audit.Store) *Dealer {
	d := &Dealer{
		lobby:   l,
		store:   store,
		clients: make(map[*Client]bool),
		log: logrus.WithFields(logrus.Fields{
			"uuid": l.UUID(),
			"name": l.Title(),
		}),
		execInRunLoop: make(chan func(), 256),
		close:         make(chan bool),
	}

	l.SetEmitter(lobby.EmitterFunc(d.queueEvents))
	return d
}

// Lobby returns the lobby the dealer runs
func (d *Dealer) Lobby() *lobby.Lobby {
	return d.lobby
}

// IsFinished returns true once the lobby's game has ended
func (d *Dealer) IsFinished() bool {
	return d.lobby.State() == lobby.StateEnded
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	d.log.Debug("creating dealer run loop")
	for {
		select {
		case fn := <-d.execInRunLoop:
			fn()
			if d.onFinished != nil && d.IsFinished() && len(d.Clients()) == 0 {
				d.onFinished(d)
			}
		case <-d.close:
			d.log.Debug("terminating dealer run loop")
			return
		}
	}
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	close(d.close)
}

// Do runs fn on the run loop, then dispatches whatever the lobby emitted
// It blocks until fn has returned.
func (d *Dealer) Do(ctx context.Context, fn func(ctx context.Context, l *lobby.Lobby) error) error {
	result := make(chan error, 1)
	select {
	case d.execInRunLoop <- func() {
		err := fn(ctx, d.lobby)
		d.afterCommand(ctx, err == nil)
		result <- err
	}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-result:
		return err
	case <-d.close:
		// the command that ended the game may also have closed the dealer
		select {
		case err := <-result:
			return err
		default:
			return ErrLobbyNotFound
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	client.setDealer(d)

	d.lock.Lock()
	d.clients[client] = true
	d.lock.Unlock()

	d.execInRunLoop <- func() {
		d.sendClientState()
		d.sendPlayerState(client)
		if len(d.logMessages) > 0 {
			client.Send(&playable.Response{
				Key:  "logs",
				Data: append([]*playable.LogMessage(nil), d.logMessages...),
			})
		}
	}
}

// RemoveClient removes a client
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)
	d.lock.Unlock()

	if nClients > 0 {
		d.execInRunLoop <- d.sendClientState
		return false
	}

	return true
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *playable.PayloadIn) {
	d.execInRunLoop <- func() {
		d.handleMessage(c, msg)
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleMessage(c *Client, msg *playable.PayloadIn) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	response, updateState, err := d.lobby.Action(ctx, c.playerID, msg)
	if err != nil {
		d.log.WithError(err).WithField("client", c.String()).WithField("action", msg.Action).Debug("command rejected")
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	if response != nil {
		response.Context = msg.Context
		c.Send(response)
	}

	d.afterCommand(ctx, updateState)
}

// afterCommand dispatches queued events until the lobby is quiet, settling the game
// when a single active player remains
// NOTE: must only be called from the run loop
func (d *Dealer) afterCommand(ctx context.Context, updateState bool) {
	for {
		events := d.takeEvents()
		if len(events) == 0 {
			if d.autoSettle(ctx) {
				continue
			}

			break
		}

		updateState = true
		d.dispatchEvents(ctx, events)
	}

	if updateState {
		d.sendGameState()
	}
}

func (d *Dealer) queueEvents(events ...*lobby.Event) {
	d.outboxLock.Lock()
	defer d.outboxLock.Unlock()

	d.outbox = append(d.outbox, events...)
}

func (d *Dealer) takeEvents() []*lobby.Event {
	d.outboxLock.Lock()
	defer d.outboxLock.Unlock()

	events := d.outbox
	d.outbox = nil
	return events
}

// NOTE: must only be called from the run loop
func (d *Dealer) autoSettle(ctx context.Context) bool {
	if !d.lobby.IsDecided() {
		return false
	}

	settlement, err := d.lobby.DistributeRewards(ctx, d.lobby.Owner())
	if err != nil {
		d.log.WithError(err).Error("could not settle the game")
		return false
	}

	d.log.WithField("winner", settlement.WinnerID).WithField("pot", settlement.Pot).Info("game settled")
	return true
}

// NOTE: must only be called from the run loop
func (d *Dealer) dispatchEvents(ctx context.Context, events []*lobby.Event) {
	clients := d.Clients()
	messages := make([]*playable.LogMessage, 0, len(events))
	for _, event := range events {
		for _, client := range clients {
			client.Send(newEventResponse(event))
		}

		messages = append(messages, logMessageForEvent(event))

		switch event.Type {
		case lobby.EventGameStarted:
			if data, ok := event.Data.(*lobby.GameStartedData); ok {
				d.gameReference = data.GameReference
			}
		case lobby.EventMoveRevealed:
			if result, ok := event.Data.(*lobby.RevealResult); ok {
				d.publishMove(ctx, result, event.Time)
			}
		case lobby.EventRewardsDistributed, lobby.EventEmergencyWithdrawal:
			d.publishSummary(ctx)
		}
	}

	d.addLogMessages(messages)
	for _, client := range clients {
		client.Send(&playable.Response{
			Key:  "logs",
			Data: messages,
		})
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) publishMove(ctx context.Context, result *lobby.RevealResult, at time.Time) {
	ctx, cancel := context.WithTimeout(ctx, auditTimeout)
	defer cancel()

	id, err := audit.PublishMove(ctx, d.store, &audit.MoveRecord{
		LobbyUUID:     d.lobby.UUID(),
		GameReference: d.gameReference,
		Turn:          result.Turn,
		PlayerID:      result.Mover,
		MoveHash:      result.MoveHash,
		Cards:         result.Cards,
		Claim:         result.Claim,
		Salt:          result.Salt,
		JokersWild:    result.JokersWild,
		Challenged:    result.Challenged,
		ChallengerID:  result.ChallengerID,
		Lying:         result.Lying,
		PenalizedID:   result.PenalizedID,
		Time:          at,
	})

	if err != nil {
		d.log.WithError(err).WithField("turn", result.Turn).Error("could not publish move record")
		return
	}

	d.moveIDs = append(d.moveIDs, id)
}

// NOTE: must only be called from the run loop
func (d *Dealer) publishSummary(ctx context.Context) {
	summary, ok := d.lobby.Summary()
	if !ok {
		d.log.Error("settlement event received, but the game has not ended")
		return
	}

	players := make([]audit.PlayerSummary, len(summary.Players))
	for i, p := range summary.Players {
		players[i] = audit.PlayerSummary{
			PlayerID:   p.PlayerID,
			RoundsLost: p.RoundsLost,
			Status:     p.Status.String(),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, auditTimeout)
	defer cancel()

	id, err := audit.PublishSummary(ctx, d.store, &audit.GameSummary{
		LobbyUUID:       summary.LobbyUUID,
		GameReference:   summary.GameReference,
		WinnerID:        summary.WinnerID,
		Pot:             summary.Pot,
		Emergency:       summary.Emergency,
		Players:         players,
		DealSecret:      summary.DealSecret,
		DealCommitment:  summary.DealCommitment,
		HandNonces:      summary.HandNonces,
		HandCommitments: summary.HandCommitments,
		MoveIDs:         append([]audit.ID(nil), d.moveIDs...),
		Ended:           summary.Ended,
	})

	if err != nil {
		d.log.WithError(err).Error("could not publish game summary")
		return
	}

	d.lobby.SetGameStateID(string(id))
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameState() {
	for _, client := range d.Clients() {
		d.sendPlayerState(client)
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendPlayerState(client *Client) {
	state, err := d.lobby.GetPlayerState(client.playerID)
	if err != nil {
		d.log.WithError(err).Error("could not get player state")
		return
	}

	client.Send(state)
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendClientState() {
	clients := d.Clients()
	connected := make(map[int64]bool, len(clients))
	for _, client := range clients {
		connected[client.playerID] = true
	}

	players := make(map[int64]*clientStatePlayer)
	for _, p := range d.lobby.GetDetails().Players {
		players[p.PlayerID] = &clientStatePlayer{
			PlayerID:    p.PlayerID,
			IsConnected: connected[p.PlayerID],
			IsSeated:    true,
		}

		delete(connected, p.PlayerID)
	}

	for playerID := range connected {
		players[playerID] = &clientStatePlayer{
			PlayerID:    playerID,
			IsConnected: true,
		}
	}

	for _, client := range clients {
		client.Send(&playable.Response{
			Key:  "clientState",
			Data: players,
		})
	}
}
