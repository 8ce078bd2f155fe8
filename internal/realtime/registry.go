// internal/realtime/registry.go
package realtime

import (
	"sort"
	"sync"
	"time"

	rt "kynix-service/internal/domain/realtime"

	"go.uber.org/zap"
)

// Channel is the server side of one live client connection. Send must never
// block; Close is idempotent.
type Channel interface {
	Send(frame *rt.Frame)
	Close(code int, reason string)
}

type entry struct {
	ch          Channel
	connectedAt time.Time
}

// Registry owns the map from user id to the single live channel for that
// user. No other component mutates it.
type Registry struct {
	mu      sync.RWMutex
	entries map[int64]entry
	logger  *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		entries: make(map[int64]entry),
		logger:  logger,
	}
}

// Register installs ch as the user's channel, replacing any prior one, and
// acknowledges the new channel with a single connected frame. The superseded
// channel is closed outside the lock; its eventual Unregister finds the map
// already pointing elsewhere and leaves the new entry alone.
func (r *Registry) Register(userID int64, ch Channel) {
	r.mu.Lock()
	prior, replaced := r.entries[userID]
	r.entries[userID] = entry{ch: ch, connectedAt: time.Now()}
	total := len(r.entries)
	r.mu.Unlock()

	if replaced {
		prior.ch.Close(closeSuperseded, "superseded")
	}

	ch.Send(rt.ConnectedFrame())

	r.logger.Info("client connected",
		zap.Int64("user_id", userID),
		zap.Bool("replaced", replaced),
		zap.Int("total", total),
	)
}

// Unregister removes the user's entry iff it still references ch, so a close
// notification racing a re-registration cannot evict the newer channel.
func (r *Registry) Unregister(userID int64, ch Channel) {
	r.mu.Lock()
	current, ok := r.entries[userID]
	if ok && current.ch == ch {
		delete(r.entries, userID)
	} else {
		ok = false
	}
	total := len(r.entries)
	r.mu.Unlock()

	if ok {
		r.logger.Info("client disconnected",
			zap.Int64("user_id", userID),
			zap.Int("total", total),
		)
	}
}

// Lookup returns the user's live channel, or nil when disconnected.
func (r *Registry) Lookup(userID int64) Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.entries[userID]; ok {
		return e.ch
	}
	return nil
}

// IsConnected reports whether the user currently holds a live channel.
func (r *Registry) IsConnected(userID int64) bool {
	return r.Lookup(userID) != nil
}

// ConnectionInfo describes one live channel for the admin stats surface.
type ConnectionInfo struct {
	UserID      int64     `json:"user_id"`
	ConnectedAt time.Time `json:"connected_at"`
}

// Connections returns a snapshot of the live channels, ordered by user id.
func (r *Registry) Connections() []ConnectionInfo {
	r.mu.RLock()
	out := make([]ConnectionInfo, 0, len(r.entries))
	for id, e := range r.entries {
		out = append(out, ConnectionInfo{UserID: id, ConnectedAt: e.connectedAt})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// Count returns the number of live channels.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Shutdown closes every live channel.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[int64]entry)
	r.mu.Unlock()

	for _, e := range entries {
		e.ch.Close(closeGoingAway, "server shutting down")
	}
}
