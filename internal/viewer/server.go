package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Local overlay tools connect from file:// pages
	},
}

// Server serves the websocket endpoint and a JSON state endpoint.
type Server struct {
	hub         *Hub
	broadcaster *Broadcaster
	addr        string
	logger      *log.Logger
	httpServer  *http.Server
}

// NewServer creates a viewer with its own hub and broadcaster.
func NewServer(addr string, logger *log.Logger) *Server {
	h := NewHub(logger)
	return &Server{
		hub:         h,
		broadcaster: NewBroadcaster(h, DefaultInterval),
		addr:        addr,
		logger:      logger,
	}
}

// Observer returns the tick observer feeding this server.
func (s *Server) Observer() *Broadcaster {
	return s.broadcaster
}

// Handler returns the HTTP routes: /ws and /state.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/state", s.handleState)
	return mux
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("viewer: cannot listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go s.hub.Run(ctx)
	go s.broadcaster.Run(ctx)

	s.httpServer = &http.Server{Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		s.httpServer.Close()
	}()

	s.logger.Info("Viewer listening", "addr", ln.Addr().String())
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("WebSocket upgrade failed", "err", err)
		return
	}

	client := NewClient(s.hub, conn)
	if !s.hub.Register(client) {
		conn.Close()
		return
	}

	// Send current state to the new client
	s.broadcaster.SendInitialState(client)

	go client.WritePump()
	go client.ReadPump()
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.broadcaster.Last()); err != nil {
		s.logger.Debug("Cannot write state", "err", err)
	}
}
