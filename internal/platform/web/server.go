package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/gamepanel/internal/panel"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Server serves spectators of one panel over HTTP and WebSocket.
//
//	GET /ws     frame stream, remote input when enabled
//	GET /frame  latest frame as JSON
//	GET /       latest frame as plain text
type Server struct {
	hub    *Hub
	mirror *Mirror
	logger *log.Logger
	http   *http.Server
	ln     net.Listener
}

// NewServer creates a server mirroring inner. With allowInput, spectator
// key and mouse messages are delivered to the panel.
func NewServer(addr string, inner panel.Host, logger *log.Logger, allowInput bool) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	hub := NewHub(logger, nil)
	mirror := NewMirror(inner, hub)
	if allowInput {
		hub.input = mirror.Input
	}

	s := &Server{
		hub:    hub,
		mirror: mirror,
		logger: logger,
	}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Host returns the mirroring host to build the panel on.
func (s *Server) Host() *Mirror {
	return s.mirror
}

// Hub returns the server's hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWs)
	mux.HandleFunc("/frame", s.serveFrame)
	mux.HandleFunc("/", s.serveText)
	return mux
}

// Start runs the hub and begins listening. It returns once the listener
// is open; serving stops when ctx is done or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("web: listen on %s: %w", s.http.Addr, err)
	}
	s.ln = ln

	go s.hub.Run(ctx)
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("spectator server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("spectator server shutdown error", "error", err)
		}
	}()

	s.logger.Info("spectator server listening", "address", ln.Addr().String())
	return nil
}

// Addr returns the listening address once started.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.http.Addr
	}
	return s.ln.Addr().String()
}

// Shutdown stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// serveWs handles websocket requests from the peer.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("failed to upgrade websocket connection", "error", err)
		return
	}

	client := NewClient(s.hub, conn)
	if !client.Register() {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

func (s *Server) latest() []byte {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	return s.hub.last
}

func (s *Server) serveFrame(w http.ResponseWriter, r *http.Request) {
	msg := s.latest()
	if msg == nil {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(msg)
}

func (s *Server) serveText(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	msg := s.latest()
	if msg == nil {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}

	var f Frame
	if err := json.Unmarshal(msg, &f); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, strings.Join(f.Rows, "\n")+"\n")
}
