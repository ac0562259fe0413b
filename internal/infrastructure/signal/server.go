package signal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"proctorlink/internal/core/domain"
	"proctorlink/internal/core/ports"
	"proctorlink/internal/core/services"
	"proctorlink/internal/infrastructure/monitoring"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin filtering happens in the HTTP middleware chain
		return true
	},
}

// Config holds the connection-level knobs for the WebSocket server.
type Config struct {
	PingInterval        time.Duration
	PongTimeout         time.Duration
	WriteTimeout        time.Duration
	SendBufferSize      int
	MaxMessageSizeBytes int64

	// MessagesPerSecond of 0 disables the per-connection rate limit.
	MessagesPerSecond float64
	MessageBurst      int
}

// Server owns the real-time coordination surface: it authenticates
// connections, runs the presence state machine, relays signaling and
// bridges log records into the durable queue.
type Server struct {
	cfg      Config
	auth     *services.Authenticator
	rooms    ports.RoomRepository
	queue    ports.LogQueue
	registry *Registry
	metrics  *monitoring.Collector
	logger   *zap.SugaredLogger

	// presence tracks at most one connection per identity; a reconnect
	// replaces (and closes) the previous one.
	mu       sync.Mutex
	presence map[domain.UserID]*Client
}

func NewServer(
	cfg Config,
	auth *services.Authenticator,
	rooms ports.RoomRepository,
	queue ports.LogQueue,
	metrics *monitoring.Collector,
	logger *zap.SugaredLogger,
) *Server {
	return &Server{
		cfg:      cfg,
		auth:     auth,
		rooms:    rooms,
		queue:    queue,
		registry: NewRegistry(logger),
		metrics:  metrics,
		logger:   logger,
		presence: make(map[domain.UserID]*Client),
	}
}

// Registry exposes the room registry for the readiness surface and tests.
func (s *Server) Registry() *Registry {
	return s.registry
}

// HandleWS upgrades the connection, authenticates the bearer token from the
// query string and runs the connection until the transport closes. Any
// authentication failure closes with a policy-violation code before a
// single message is exchanged.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	token := r.URL.Query().Get("token")
	identity, err := s.auth.Authenticate(r.Context(), token)
	if err != nil {
		s.metrics.AuthFailures.Inc()
		s.logger.Infow("connection refused", "remote", r.RemoteAddr, "error", err)
		s.closeWithPolicyViolation(conn, closeReason(err))
		return
	}

	var limiter *rate.Limiter
	if s.cfg.MessagesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.MessagesPerSecond), s.cfg.MessageBurst)
	}

	client := newClient(uuid.NewString(), *identity, token, conn, s.cfg.SendBufferSize, limiter, s.logger)
	s.track(client)

	s.metrics.ConnectionsTotal.Inc()
	s.metrics.ConnectedClients.Inc()
	s.logger.Infow("client connected",
		"client_id", client.ID,
		"user_id", identity.ID,
		"role", identity.Role,
	)

	go client.writePump(s.cfg.PingInterval, s.cfg.WriteTimeout)

	defer s.disconnect(client)
	s.readLoop(client)
}

// track records the connection in the global presence map, replacing and
// closing any previous connection for the same identity.
func (s *Server) track(client *Client) {
	s.mu.Lock()
	prev := s.presence[client.Identity.ID]
	s.presence[client.Identity.ID] = client
	s.mu.Unlock()

	if prev != nil {
		s.logger.Infow("replacing previous connection for reconnecting user",
			"user_id", client.Identity.ID,
		)
		prev.close()
	}
}

func (s *Server) readLoop(client *Client) {
	ctx := context.Background()

	client.conn.SetReadLimit(s.cfg.MaxMessageSizeBytes)
	client.conn.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(s.cfg.PongTimeout))
		return nil
	})

	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.logger.Infow("read failed", "client_id", client.ID, "error", err)
			}
			return
		}

		if !client.allowMessage() {
			client.Send(errorEnvelope("Rate limit exceeded."))
			continue
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil || env.Type == "" {
			client.Send(errorEnvelope("Invalid message format."))
			continue
		}

		s.dispatch(ctx, client, env)
	}
}

// dispatch routes one inbound envelope. Handler failures never terminate
// the connection; they surface as error replies or server-side logs only.
func (s *Server) dispatch(ctx context.Context, client *Client, env Envelope) {
	switch env.Type {
	case TypeJoinRoom:
		s.handleJoinRoom(ctx, client, env)
	case TypeLeaveRoom:
		s.handleLeaveRoom(client, env)
	case TypeLogs:
		s.handleLogs(ctx, client, env)
	case TypeOutgoingCall, TypeCallAccepted, TypeNegotiationNeeded, TypeNegotiationDone, TypeNewICECandidate:
		s.handleRelay(ctx, client, env)
	default:
		client.Send(errorEnvelope("Unknown message type."))
	}
}

// disconnect tears the connection down: every room membership is treated as
// an implicit leave-room, then the presence entry is released.
func (s *Server) disconnect(client *Client) {
	client.close()

	for _, slug := range s.registry.RoomsOf(client) {
		if s.registry.Remove(slug, client) {
			s.broadcastUserLeft(slug, client)
		}
	}
	s.metrics.ActiveRooms.Set(float64(s.registry.RoomCount()))

	s.mu.Lock()
	if s.presence[client.Identity.ID] == client {
		delete(s.presence, client.Identity.ID)
	}
	s.mu.Unlock()

	s.metrics.ConnectedClients.Dec()
	s.logger.Infow("client disconnected", "client_id", client.ID, "user_id", client.Identity.ID)
}

func (s *Server) closeWithPolicyViolation(conn *websocket.Conn, reason string) {
	deadline := time.Now().Add(s.cfg.WriteTimeout)
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	conn.WriteControl(websocket.CloseMessage, msg, deadline)
	conn.Close()
}

func closeReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingToken):
		return "Authentication token required"
	case errors.Is(err, domain.ErrExpiredToken):
		return "Token expired"
	default:
		return "Invalid token"
	}
}
