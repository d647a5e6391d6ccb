// Package server is the HTTP facade in front of the matching engine.
// It parses query parameters into typed arguments, enters the engine
// through the boundary gateway, and serves the live trade feed.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"vidar/internal/boundary"
	"vidar/internal/engine"
	"vidar/internal/feed"
)

const (
	// Size of the buffer an order id is written into.
	orderIDBufferSize = 64
	// Starting size for trade serialization buffers; doubled until
	// the result fits.
	tradesBufferStart = 16 * 1024

	shutdownGrace = 5 * time.Second
)

type Server struct {
	address string
	port    int
	gateway *boundary.Gateway
	eng     *engine.Engine
	hub     *feed.Hub
	cancel  context.CancelFunc
}

func New(address string, port int, eng *engine.Engine, hub *feed.Hub) *Server {
	return &Server{
		address: address,
		port:    port,
		gateway: boundary.New(eng),
		eng:     eng,
		hub:     hub,
	}
}

func (s *Server) Shutdown() {
	log.Info().Msg("server shutting down")
	s.cancel()
}

// Run serves until the context is cancelled. The feed hub and the
// listener live and die together under one tomb.
func (s *Server) Run(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	t, _ := tomb.WithContext(ctx)

	t.Go(func() error {
		return s.hub.Run(t)
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.address, s.port),
		Handler: s.routes(t),
	}

	t.Go(func() error {
		<-t.Dying()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	log.Info().Str("address", srv.Addr).Msg("server running")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("listener failed")
		t.Kill(err)
	}
	s.cancel()
	return t.Wait()
}

func (s *Server) routes(t *tomb.Tomb) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/order", s.handleOrder)
	mux.HandleFunc("/trades", s.handleTrades)
	mux.HandleFunc("/clear", s.handleClear)
	mux.HandleFunc("/book", s.handleBook)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.hub.ServeWS(t, w, r)
	})
	return withRequestLog(withCORS(mux))
}

// handleOrder accepts POST /order?user=&type=&side=&price=&quantity=.
// Validation lives here: the engine trusts what crosses the boundary.
func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()

	user := q.Get("user")
	if user == "" {
		httpError(w, http.StatusBadRequest, "Missing user parameter")
		return
	}

	sideStr := q.Get("side")
	if sideStr == "" {
		httpError(w, http.StatusBadRequest, "Missing side parameter")
		return
	}

	quantityStr := q.Get("quantity")
	if quantityStr == "" {
		httpError(w, http.StatusBadRequest, "Missing quantity parameter")
		return
	}

	// Limit is the default when no type is given.
	orderType := boundary.OrderTypeLimit
	if q.Get("type") == "market" {
		orderType = boundary.OrderTypeMarket
	}

	var side int
	switch sideStr {
	case "buy":
		side = boundary.SideBuy
	case "sell":
		side = boundary.SideSell
	default:
		httpError(w, http.StatusBadRequest, "Invalid side parameter (must be 'buy' or 'sell')")
		return
	}

	quantity, err := strconv.ParseFloat(quantityStr, 64)
	if err != nil || quantity <= 0 {
		httpError(w, http.StatusBadRequest, "Quantity must be positive")
		return
	}

	// Market orders carry price 0; limit orders must name a positive
	// price.
	price := 0.0
	if orderType == boundary.OrderTypeLimit {
		priceStr := q.Get("price")
		if priceStr == "" {
			httpError(w, http.StatusBadRequest, "Price is required for limit orders")
			return
		}
		price, err = strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			httpError(w, http.StatusBadRequest, "Price must be positive for limit orders")
			return
		}
	}

	idBuf := make([]byte, orderIDBufferSize)
	n := s.gateway.AddOrder(user, orderType, side, price, quantity, idBuf)
	if n == 0 {
		httpError(w, http.StatusInternalServerError, "Error: Failed to add order")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"order_id": string(idBuf[:n])})
}

// handleTrades serves GET /trades and GET /trades?user=.
func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body := s.renderTrades(r.URL.Query().Get("user"))
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("writing trades response")
	}
}

// renderTrades drives the fixed-buffer gateway contract, retrying with
// a doubled buffer whenever the result does not fit.
func (s *Server) renderTrades(user string) []byte {
	for size := tradesBufferStart; ; size *= 2 {
		buf := make([]byte, size)
		var n int
		if user == "" {
			n = s.gateway.GetTrades(buf)
		} else {
			n = s.gateway.GetUserTrades(user, buf)
		}
		if n > 0 {
			return buf[:n]
		}
	}
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.gateway.ClearOrderBook()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// handleBook serves the aggregated depth view for the book panel.
func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.eng.Depth())
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info().
			Str("request", uuid.New().String()).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request received")
		next.ServeHTTP(w, r)
	})
}

func httpError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(code)
	if _, err := w.Write([]byte(msg)); err != nil {
		log.Error().Err(err).Msg("writing error response")
	}
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("writing json response")
	}
}
