// Package stream broadcasts loop snapshots to websocket clients and accepts
// a small set of control commands from them.
package stream

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rotisserie/eris"

	"github.com/visualbass/visualbass-sync/internal/controller"
	"github.com/visualbass/visualbass-sync/internal/state"
)

const (
	// DefaultThrottle limits broadcasts to roughly 30 per second.
	DefaultThrottle = 33 * time.Millisecond

	clientBuffer    = 16
	writeTimeout    = time.Second
	shutdownTimeout = 3 * time.Second
)

// Command is a control message sent by a client.
type Command struct {
	Type  string  `json:"type"`
	Mode  string  `json:"mode,omitempty"`
	Value float64 `json:"value,omitempty"`
}

// Hub fans snapshots out to every connected client. Render never blocks: a
// client that falls behind loses snapshots rather than stalling the loop.
type Hub struct {
	logger   *slog.Logger
	submit   func(state.Action) bool
	throttle time.Duration

	mu       sync.Mutex
	clients  map[chan controller.Snapshot]struct{}
	lastSend time.Time
}

// NewHub builds a hub. submit receives actions decoded from client commands
// and may be nil to make the stream read-only.
func NewHub(submit func(state.Action) bool, throttle time.Duration, logger *slog.Logger) *Hub {
	if throttle <= 0 {
		throttle = DefaultThrottle
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger:   logger,
		submit:   submit,
		throttle: throttle,
		clients:  make(map[chan controller.Snapshot]struct{}),
	}
}

// Render queues snap for every client.
func (h *Hub) Render(snap controller.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.clients) == 0 || snap.Time.Sub(h.lastSend) < h.throttle {
		return
	}
	h.lastSend = snap.Time

	for send := range h.clients {
		select {
		case send <- snap:
		default:
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}

	send := make(chan controller.Snapshot, clientBuffer)
	h.mu.Lock()
	h.clients[send] = struct{}{}
	h.mu.Unlock()

	h.logger.Info("stream client connected", slog.String("remote", r.RemoteAddr))

	done := make(chan struct{})
	go h.runReader(conn, done)
	h.runWriter(conn, send, done)

	h.mu.Lock()
	delete(h.clients, send)
	h.mu.Unlock()

	h.logger.Info("stream client disconnected", slog.String("remote", r.RemoteAddr))
}

// runWriter is the only goroutine writing to conn.
func (h *Hub) runWriter(conn *websocket.Conn, send <-chan controller.Snapshot, done <-chan struct{}) {
	defer func() {
		if err := conn.Close(); err != nil {
			h.logger.Debug("websocket close error", slog.Any("error", err))
		}
	}()

	for {
		select {
		case <-done:
			return
		case snap := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		}
	}
}

func (h *Hub) runReader(conn *websocket.Conn, done chan<- struct{}) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic in websocket reader", slog.Any("panic", r))
		}
		close(done)
	}()

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		h.handle(cmd)
	}
}

func (h *Hub) handle(cmd Command) {
	action, err := cmd.Action()
	if err != nil {
		h.logger.Warn("ignoring stream command", slog.String("type", cmd.Type), slog.Any("error", err))
		return
	}
	if h.submit == nil {
		return
	}
	h.submit(action)
}

var ErrUnknownCommand = eris.New("unknown command")

// Action translates a client command into a store action.
func (c Command) Action() (state.Action, error) {
	switch c.Type {
	case "next_mode":
		return state.NextMode(), nil
	case "set_mode":
		mode, err := state.ParseMode(c.Mode)
		if err != nil {
			return state.Action{}, err
		}
		return state.SetMode(mode), nil
	case "adjust_sensitivity":
		return state.AdjustSensitivity(c.Value), nil
	case "set_brightness_floor":
		return state.SetBrightnessFloor(c.Value), nil
	case "set_waveform_points":
		return state.SetWaveformPoints(int(c.Value)), nil
	}
	return state.Action{}, eris.Wrapf(ErrUnknownCommand, "%q", c.Type)
}

// ListenAndServe serves the hub on addr until ctx is cancelled.
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("starting snapshot stream", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- eris.Wrap(err, "snapshot stream server failed")
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "failed to shut down snapshot stream")
	}
	return ctx.Err()
}
