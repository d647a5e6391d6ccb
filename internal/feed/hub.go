// Package feed pushes executed trades to websocket subscribers. The
// hub implements engine.TradeReporter; it never blocks the matching
// pass, trades are dropped when a buffer is full rather than stalling
// the engine.
package feed

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"vidar/internal/common"
)

const (
	broadcastBuffer = 64
	sendBuffer      = 32
)

type Hub struct {
	register   chan *client
	unregister chan *client
	broadcasts chan common.Trade
	clients    map[*client]struct{}
	upgrader   websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcasts: make(chan common.Trade, broadcastBuffer),
		clients:    make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ReportTrade implements engine.TradeReporter.
func (h *Hub) ReportTrade(trade common.Trade) {
	select {
	case h.broadcasts <- trade:
	default:
	}
}

// Run owns the client set. Register, unregister and broadcast all
// funnel through here, so no locking is needed on the map.
func (h *Hub) Run(t *tomb.Tomb) error {
	for {
		select {
		case <-t.Dying():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return nil
		case c := <-h.register:
			h.clients[c] = struct{}{}
			log.Info().Str("client", c.id).Msg("feed client connected")
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				log.Info().Str("client", c.id).Msg("feed client removed")
			}
		case trade := <-h.broadcasts:
			for c := range h.clients {
				select {
				case c.send <- trade:
				default:
					// Slow consumer; cut it loose rather than
					// stall the feed.
					delete(h.clients, c)
					close(c.send)
					log.Warn().Str("client", c.id).Msg("feed client lagging, dropped")
				}
			}
		}
	}
}

// ServeWS upgrades the request and attaches the connection to the hub
// until either side closes it.
func (h *Hub) ServeWS(t *tomb.Tomb, w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := newClient(conn)
	select {
	case h.register <- c:
	case <-t.Dying():
		_ = conn.Close()
		return
	}

	t.Go(func() error {
		c.writeLoop(t, h)
		return nil
	})
	t.Go(func() error {
		c.readLoop(t, h)
		return nil
	})
}
