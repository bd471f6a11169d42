package bridge

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Server accepts WebSocket connections and runs one goroutine per client.
// Each goroutine processes its frames to completion in order, so per
// connection the relay is strictly FIFO; there is no ordering guarantee
// across connections.
type Server struct {
	bridge   *Bridge
	log      *logrus.Entry
	upgrader websocket.Upgrader
	httpSrv  *http.Server

	// Registry of connected clients, used for logging and to close
	// everything on shutdown. Deliberately never used for fan-out.
	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

// NewServer returns a Server bound to addr, relaying through b.
func NewServer(addr string, b *Bridge, log *logrus.Entry) *Server {
	s := &Server{
		bridge: b,
		log:    log,
		upgrader: websocket.Upgrader{
			// Browser frontends connect from arbitrary origins.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[string]*websocket.Conn),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveWS)
	s.httpSrv = &http.Server{Addr: addr, Handler: mux}
	return s
}

// ListenAndServe blocks until the server is closed.
func (s *Server) ListenAndServe() error {
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Close stops the listener and disconnects every client.
func (s *Server) Close() error {
	s.mu.Lock()
	for id, conn := range s.clients {
		conn.Close()
		delete(s.clients, id)
	}
	s.mu.Unlock()
	return s.httpSrv.Close()
}

// Handler exposes the upgrade endpoint, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	id := uuid.NewString()
	log := s.log.WithFields(logrus.Fields{
		"client": id,
		"remote": conn.RemoteAddr().String(),
	})

	s.mu.Lock()
	s.clients[id] = conn
	connected := len(s.clients)
	s.mu.Unlock()
	log.WithField("connected", connected).Info("client connected")

	defer func() {
		s.mu.Lock()
		delete(s.clients, id)
		s.mu.Unlock()
		conn.Close()
		log.Info("client disconnected")
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			// A peer close ends only this connection's goroutine.
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("read failed")
			}
			return
		}
		if msgType != websocket.TextMessage {
			log.Warn("ignoring non-text frame")
			continue
		}
		s.bridge.HandleFrame(data)
	}
}
