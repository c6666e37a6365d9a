package room

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"liars-server/internal/util"
	"liars-server/pkg/audit"
	"liars-server/pkg/ledger"
	"liars-server/pkg/lobby"
)

// ErrLobbyNotFound is returned when no dealer runs the requested lobby
const ErrLobbyNotFound = UserError("lobby not found")

// PitBoss is responsible for dispatching players to lobbies
type PitBoss struct {
	ledger  ledger.Ledger
	store   audit.Store
	options lobby.Options

	dealers map[string]*Dealer
	lock    sync.RWMutex

	connect    chan *Client
	disconnect chan *Client
	close      chan bool
}

// NewPitBoss returns a new dispatch object
// Every lobby it opens moves stakes through l and publishes its records to store.
func NewPitBoss(l ledger.Ledger, store audit.Store, opts lobby.Options) *PitBoss {
	return &PitBoss{
		ledger:     l,
		store:      store,
		options:    opts,
		dealers:    make(map[string]*Dealer),
		connect:    make(chan *Client, 256),
		disconnect: make(chan *Client, 256),
		close:      make(chan bool),
	}
}

// StartShift starts the PitBoss run loop
func (p *PitBoss) StartShift() {
	go p.runLoop()
}

// EndShift stops the run loop and every dealer
func (p *PitBoss) EndShift() {
	close(p.close)

	p.lock.Lock()
	defer p.lock.Unlock()

	for id, dealer := range p.dealers {
		dealer.EndShift()
		delete(p.dealers, id)
	}
}

func (p *PitBoss) runLoop() {
	for {
		select {
		case client := <-p.connect:
			logrus.WithField("player", client.String()).Debug("client connected")
			dealer, found := p.Dealer(client.lobbyUUID)
			if !found {
				client.CloseError = ErrLobbyNotFound
				client.CloseWithReason(ErrLobbyNotFound.Error())
				continue
			}

			dealer.AddClient(client)
		case client := <-p.disconnect:
			logrus.WithField("player", client.String()).Debug("client disconnected")
			dealer, found := p.Dealer(client.lobbyUUID)
			if !found {
				continue
			}

			if dealer.RemoveClient(client) && dealer.IsFinished() {
				p.closeDealer(client.lobbyUUID)
			}
		case <-p.close:
			return
		}
	}
}

// OpenLobby creates a lobby refereed by owner and starts its dealer
// An empty name is replaced with a random one.
func (p *PitBoss) OpenLobby(owner int64, name string) (*Dealer, error) {
	if name == "" {
		name = util.GetRandomName()
	}

	l, err := lobby.New(logrus.WithField("owner", owner), owner, name, p.ledger, p.options)
	if err != nil {
		return nil, err
	}

	dealer := NewDealer(l, p.store)
	dealer.onFinished = func(d *Dealer) {
		p.closeDealer(d.lobby.UUID())
	}
	dealer.StartShift()

	p.lock.Lock()
	p.dealers[l.UUID()] = dealer
	p.lock.Unlock()

	logrus.WithField("uuid", l.UUID()).WithField("owner", owner).Info("lobby opened")
	return dealer, nil
}

// Dealer returns the dealer running the lobby
func (p *PitBoss) Dealer(uuid string) (*Dealer, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	dealer, found := p.dealers[uuid]
	return dealer, found
}

// Lobbies returns the details of every open lobby, oldest first
// Lobbies whose game has ended are left out, even while their players are still connected.
func (p *PitBoss) Lobbies() []*lobby.Details {
	p.lock.RLock()
	details := make([]*lobby.Details, 0, len(p.dealers))
	for _, dealer := range p.dealers {
		d := dealer.lobby.GetDetails()
		if d.State == lobby.StateEnded {
			continue
		}

		details = append(details, d)
	}
	p.lock.RUnlock()

	sort.Slice(details, func(i, j int) bool {
		return details[i].Created.Before(details[j].Created)
	})

	return details
}

func (p *PitBoss) closeDealer(uuid string) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if dealer, found := p.dealers[uuid]; found {
		dealer.EndShift()
		delete(p.dealers, uuid)
		logrus.WithField("uuid", uuid).Debug("lobby closed")
	}
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(client *Client) {
	p.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	p.disconnect <- client
}
