// Package webui serves the settings window: a local page that shows the
// clipboard history and bookmarks and talks back to the tray over a
// websocket.
package webui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Message is the IPC envelope exchanged with the page in both directions.
type Message struct {
	Type     string          `json:"type"`
	Content  string          `json:"content,omitempty"`
	ID       string          `json:"id,omitempty"`
	State    json.RawMessage `json:"state,omitempty"`
	Settings json.RawMessage `json:"settings,omitempty"`
}

// Handler supplies the page state and receives IPC messages from the page.
type Handler interface {
	// State returns the JSON document rendered by the page.
	State() (json.RawMessage, error)
	// HandleIPC is called for every message except close_requested.
	HandleIPC(msg Message)
}

const writeWait = 5 * time.Second

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

// Server is the settings window. It is visible while the user has it open;
// hiding it closes the page but leaves the server running.
type Server struct {
	handler Handler
	opener  func(url string) error

	listener net.Listener
	http     *http.Server
	upgrader websocket.Upgrader

	mu          sync.Mutex
	clients     map[*client]struct{}
	visible     bool
	onClose     func() bool
	onDestroyed func()
}

// New creates a settings window server. opener is used by Show to bring
// the page up in the user's browser.
func New(handler Handler, opener func(url string) error) *Server {
	s := &Server{
		handler: handler,
		opener:  opener,
		clients: make(map[*client]struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Listen binds addr (host:port, port 0 picks a free one) and starts serving.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("settings window listen %s: %w", addr, err)
	}
	s.listener = ln
	s.http = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("settings window server stopped")
		}
	}()
	log.Info().Str("url", s.URL()).Msg("settings window listening")
	return nil
}

// Router returns the HTTP routes of the settings window.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requireLoopbackHost)
	r.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	r.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS)
	return r
}

// URL returns the page address, or "" before Listen.
func (s *Server) URL() string {
	if s.listener == nil {
		return ""
	}
	return "http://" + s.listener.Addr().String() + "/"
}

// Close stops the HTTP server and disconnects all pages.
func (s *Server) Close(ctx context.Context) error {
	s.mu.Lock()
	for c := range s.clients {
		_ = c.conn.Close()
	}
	s.clients = make(map[*client]struct{})
	s.mu.Unlock()

	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Show opens the page in the browser.
func (s *Server) Show() error {
	if s.listener == nil {
		return errors.New("settings window is not listening")
	}
	s.mu.Lock()
	s.visible = true
	s.mu.Unlock()

	if s.opener == nil {
		return nil
	}
	return s.opener(s.URL())
}

// Hide asks every open page to close itself.
func (s *Server) Hide() error {
	s.mu.Lock()
	s.visible = false
	s.mu.Unlock()
	s.broadcast(Message{Type: "hide"})
	return nil
}

// Visible reports whether the window was shown and not hidden since.
func (s *Server) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// OnCloseRequested installs the close interceptor. Returning true prevents
// the close; the window is then expected to hide itself.
func (s *Server) OnCloseRequested(fn func() bool) {
	s.mu.Lock()
	s.onClose = fn
	s.mu.Unlock()
}

// OnDestroyed is called when a close request is not prevented.
func (s *Server) OnDestroyed(fn func()) {
	s.mu.Lock()
	s.onDestroyed = fn
	s.mu.Unlock()
}

// RequestClose runs the close interceptor as if the user closed the window.
func (s *Server) RequestClose() {
	s.mu.Lock()
	onClose, onDestroyed := s.onClose, s.onDestroyed
	s.mu.Unlock()

	if onClose != nil && onClose() {
		return
	}

	s.mu.Lock()
	s.visible = false
	s.mu.Unlock()
	if onDestroyed != nil {
		onDestroyed()
	}
}

// PushState sends the current state to every connected page.
func (s *Server) PushState() {
	state, err := s.handler.State()
	if err != nil {
		log.Warn().Err(err).Msg("settings window state")
		return
	}
	s.broadcast(Message{Type: "state", State: state})
}

// Clients returns the number of connected pages.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) broadcast(msg Message) {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		if err := c.send(msg); err != nil {
			log.Debug().Err(err).Msg("settings window send failed")
			s.drop(c)
		}
	}
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	_ = c.conn.Close()
}

// checkOrigin only accepts pages served by this server.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host && isLoopbackHost(r.Host)
}

// requireLoopbackHost rejects requests whose Host header names anything but
// the local machine, which blocks DNS rebinding.
func requireLoopbackHost(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isLoopbackHost(r.Host) {
			http.Error(w, "forbidden host", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isLoopbackHost(hostport string) bool {
	host, _, err := net.SplitHostPort(hostport)
	if err != nil {
		host = hostport
	}
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(settingsPage))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, err := s.handler.State()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(state)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("settings window upgrade failed")
		return
	}

	c := &client{conn: conn}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	defer s.drop(c)

	if state, err := s.handler.State(); err == nil {
		_ = c.send(Message{Type: "state", State: state})
	}

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("settings window read")
			}
			return
		}

		if msg.Type == "close_requested" {
			s.RequestClose()
			continue
		}
		s.handler.HandleIPC(msg)
	}
}
