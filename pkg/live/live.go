// Package live serves the form over a websocket. Each connection mounts its
// own controller; the state is dropped when the connection closes.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/goliatone/go-signup/pkg/form"
	"github.com/goliatone/go-signup/pkg/registration"
)

// Message types exchanged over the socket.
const (
	TypeChange   = "change"
	TypeSubmit   = "submit"
	TypeReset    = "reset"
	TypeSnapshot = "snapshot"
	TypeError    = "error"
)

const defaultReadLimit = 4096

// ErrResetNotAllowed is reported when a reset arrives before the form reached
// success. The session state is left as it was.
var ErrResetNotAllowed = errors.New("live: reset is only allowed after a successful registration")

// ClientMessage is sent by the browser.
type ClientMessage struct {
	Type  string `json:"type"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

// ServerMessage is sent after every client message. Snapshot messages carry
// values, errors and status; error messages carry only Message.
type ServerMessage struct {
	Type    string                   `json:"type"`
	Values  *registration.FormValues `json:"values,omitempty"`
	Errors  *registration.FormErrors `json:"errors,omitempty"`
	Status  form.Status              `json:"status,omitempty"`
	Message string                   `json:"message,omitempty"`
}

// Observer is notified of submissions and resets, e.g. for metrics.
type Observer interface {
	Submitted(ctx context.Context, snap form.Snapshot)
	Reset(ctx context.Context)
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger attaches a logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithObserver registers an observer for every session.
func WithObserver(observer Observer) Option {
	return func(h *Handler) {
		h.observer = observer
	}
}

// WithCheckOrigin overrides the upgrader origin check. The default only
// accepts same-host origins.
func WithCheckOrigin(fn func(r *http.Request) bool) Option {
	return func(h *Handler) {
		if fn != nil {
			h.upgrader.CheckOrigin = fn
		}
	}
}

// WithIdleTimeout closes connections that stay silent for d. Zero disables it.
func WithIdleTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d >= 0 {
			h.idleTimeout = d
		}
	}
}

// WithControllerOptions applies extra options to every mounted controller.
func WithControllerOptions(options ...form.Option) Option {
	return func(h *Handler) {
		h.controllerOpts = append(h.controllerOpts, options...)
	}
}

// Handler upgrades requests and runs one form session per connection.
type Handler struct {
	upgrader       websocket.Upgrader
	logger         *zap.SugaredLogger
	observer       Observer
	idleTimeout    time.Duration
	controllerOpts []form.Option
}

// NewHandler constructs a Handler.
func NewHandler(options ...Option) *Handler {
	h := &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debugw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	opts := append([]form.Option{form.WithLogger(h.logger)}, h.controllerOpts...)
	session := &session{
		conn:       conn,
		controller: form.New(opts...),
		observer:   h.observer,
		logger:     h.logger,
	}
	h.logger.Debugw("live session mounted", "remote", r.RemoteAddr)
	session.run(r.Context(), h.idleTimeout)
	h.logger.Debugw("live session unmounted", "remote", r.RemoteAddr)
}

type session struct {
	conn       *websocket.Conn
	controller *form.Controller
	observer   Observer
	logger     *zap.SugaredLogger
}

func (s *session) run(ctx context.Context, idle time.Duration) {
	s.conn.SetReadLimit(defaultReadLimit)
	for {
		deadline := time.Time{}
		if idle > 0 {
			deadline = time.Now().Add(idle)
		}
		_ = s.conn.SetReadDeadline(deadline)
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				s.logger.Warnw("live session read error", "error", err)
			}
			return
		}

		reply := s.handle(ctx, payload)
		if err := s.conn.WriteJSON(reply); err != nil {
			s.logger.Warnw("live session write error", "error", err)
			return
		}
	}
}

func (s *session) handle(ctx context.Context, payload []byte) ServerMessage {
	var msg ClientMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return errorMessage(fmt.Errorf("live: decode message: %w", err))
	}

	switch msg.Type {
	case TypeChange:
		if err := s.controller.SetFieldByName(msg.Field, msg.Value); err != nil {
			return errorMessage(err)
		}
		return snapshotMessage(s.controller.Snapshot())
	case TypeSubmit:
		snap := s.controller.Submit()
		if s.observer != nil {
			s.observer.Submitted(ctx, snap)
		}
		return snapshotMessage(snap)
	case TypeReset:
		if !s.controller.Status().AllowsReset() {
			return errorMessage(fmt.Errorf("%w (status %s)", ErrResetNotAllowed, s.controller.Status()))
		}
		snap := s.controller.Reset()
		if s.observer != nil {
			s.observer.Reset(ctx)
		}
		return snapshotMessage(snap)
	default:
		return errorMessage(fmt.Errorf("live: unknown message type %q", msg.Type))
	}
}

func snapshotMessage(snap form.Snapshot) ServerMessage {
	values := snap.Values.Redacted()
	errs := snap.Errors
	return ServerMessage{
		Type:   TypeSnapshot,
		Values: &values,
		Errors: &errs,
		Status: snap.Status,
	}
}

func errorMessage(err error) ServerMessage {
	return ServerMessage{Type: TypeError, Message: err.Error()}
}
