package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/quietriver/terragen/internal/config"
	"github.com/quietriver/terragen/internal/logger"
	"github.com/quietriver/terragen/internal/world"
)

// Server serves terrain chunks to WebSocket clients. Each client opens a
// connection to /ws and requests chunks by chunk coordinate; the server
// generates (or loads) the chunk and replies with its tile grid.
type Server struct {
	world        *world.World
	config       *config.ServerConfig
	httpServer   *http.Server
	StartTime    time.Time
	mu           sync.RWMutex
	clientCount  int
	shutdown     chan struct{}
	shutdownOnce sync.Once
}

func NewServer(w *world.World, cfg *config.ServerConfig) *Server {
	return &Server{
		world:     w,
		config:    cfg,
		StartTime: time.Now(),
		shutdown:  make(chan struct{}),
	}
}

// Start begins listening on the configured address. It blocks until the
// server is shut down or the listener fails.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:    s.config.WebSocket.ListenAddr,
		Handler: mux,
	}

	logger.Info("Chunk server listening", "address", s.config.WebSocket.ListenAddr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP listener and waits for in-flight handlers to
// finish. Safe to call more than once.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdown)
		if s.httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.httpServer.Shutdown(ctx); err != nil {
				logger.Error("Server shutdown error", "error", err)
			}
		}
		logger.Info("Server shutdown complete")
	})
}

// ClientCount returns the number of connected WebSocket clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientCount
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := map[string]any{
		"status":  "ok",
		"seed":    s.world.Seed,
		"chunks":  s.world.ChunkCount(),
		"clients": s.ClientCount(),
		"uptime":  time.Since(s.StartTime).Round(time.Second).String(),
	}
	json.NewEncoder(w).Encode(resp)
}

// handleWebSocketUpgrade upgrades an HTTP connection to WebSocket.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	clientIP := getRealIP(r)

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.config.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		return
	}

	go s.handleConnection(wsConn, clientIP)
}

// handleConnection reads chunk requests from a client until the connection
// closes or the server shuts down.
func (s *Server) handleConnection(wsConn *websocket.Conn, clientIP string) {
	s.mu.Lock()
	s.clientCount++
	s.mu.Unlock()

	logger.Info("Client connected", "client_ip", clientIP)

	defer func() {
		wsConn.Close()
		s.mu.Lock()
		s.clientCount--
		s.mu.Unlock()
		logger.Info("Client disconnected", "client_ip", clientIP)
	}()

	if s.config.WebSocket.MaxMessageSize > 0 {
		wsConn.SetReadLimit(s.config.WebSocket.MaxMessageSize)
	}

	for {
		select {
		case <-s.shutdown:
			return
		default:
		}

		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warning("WebSocket read error", "client_ip", clientIP, "error", err)
			}
			return
		}

		resp := s.handleRequest(data)
		if err := wsConn.WriteJSON(resp); err != nil {
			logger.Warning("WebSocket write error", "client_ip", clientIP, "error", err)
			return
		}
	}
}
