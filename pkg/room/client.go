package room

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"liars-server/pkg/playable"
)

// Client is a client connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	dealer     *Dealer
	dealerLock sync.RWMutex

	playerID  int64
	lobbyUUID string
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, playerID int64, lobbyUUID string) *Client {
	return &Client{
		send:      make(chan interface{}, 256),
		Close:     make(chan string, 1),
		Conn:      conn,
		playerID:  playerID,
		lobbyUUID: lobbyUUID,
	}
}

// PlayerID returns the authenticated player behind the connection
func (c *Client) PlayerID() int64 {
	return c.playerID
}

// LobbyUUID returns the lobby the client is attached to
func (c *Client) LobbyUUID() string {
	return c.lobbyUUID
}

// Send send a message to the web client
// A full buffer drops the message rather than block the dealer.
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		logrus.WithField("client", c.String()).Warn("send buffer full, dropping message")
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// CloseWithReason asks the write loop to close the connection
func (c *Client) CloseWithReason(reason string) {
	select {
	case c.Close <- reason:
	default:
	}
}

// String returns a traceable identifier for the player and lobby
func (c *Client) String() string {
	return fmt.Sprintf("%d:%s", c.playerID, c.lobbyUUID)
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *playable.PayloadIn) {
	dealer := c.getDealer()
	if dealer == nil {
		logrus.WithField("msg", msg).Warn("received message, but dealer not found")
		return
	}

	dealer.ReceivedMessage(c, msg)
}

func (c *Client) setDealer(d *Dealer) {
	c.dealerLock.Lock()
	defer c.dealerLock.Unlock()

	c.dealer = d
}

func (c *Client) getDealer() *Dealer {
	c.dealerLock.RLock()
	defer c.dealerLock.RUnlock()

	return c.dealer
}
