package feed

import (
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"vidar/internal/common"
)

// client is one websocket subscriber. Trades flow hub -> send -> wire;
// the read loop only watches for the peer closing the connection.
type client struct {
	id   string
	conn *websocket.Conn
	send chan common.Trade
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan common.Trade, sendBuffer),
	}
}

func (c *client) writeLoop(t *tomb.Tomb, h *Hub) {
	defer func() {
		if err := c.conn.Close(); err != nil {
			log.Debug().Str("client", c.id).Err(err).Msg("closing feed connection")
		}
	}()

	for trade := range c.send {
		if err := c.conn.WriteJSON(trade); err != nil {
			log.Error().Str("client", c.id).Err(err).Msg("feed write failed")
			c.drop(t, h)
			return
		}
	}
}

func (c *client) readLoop(t *tomb.Tomb, h *Hub) {
	for {
		if _, _, err := c.conn.NextReader(); err != nil {
			c.drop(t, h)
			return
		}
	}
}

// drop asks the hub to forget the client. The hub may already be
// shutting down, in which case there is nobody left to tell.
func (c *client) drop(t *tomb.Tomb, h *Hub) {
	select {
	case h.unregister <- c:
	case <-t.Dying():
	}
}
