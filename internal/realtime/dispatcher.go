// internal/realtime/dispatcher.go
package realtime

import (
	rt "kynix-service/internal/domain/realtime"

	"go.uber.org/zap"
)

// Dispatcher pushes notification payloads to whichever channel the target
// user currently holds. Delivery is best effort: no queue, no retry, no
// confirmation to the caller. A user offline at dispatch time misses the
// notification on this path.
type Dispatcher struct {
	registry *Registry
	logger   *zap.Logger
}

func NewDispatcher(registry *Registry, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   logger,
	}
}

// Dispatch writes a {"type":"notification","data":...} frame to the user's
// channel if one exists. Completes silently otherwise.
func (d *Dispatcher) Dispatch(userID int64, notification interface{}) {
	// Lookup and enqueue under the registry's read lock so a concurrent
	// unregister cannot close the channel between the two steps. A write
	// racing the underlying socket close is swallowed by the channel.
	d.registry.mu.RLock()
	e, ok := d.registry.entries[userID]
	if ok {
		e.ch.Send(rt.NotificationFrame(notification))
	}
	d.registry.mu.RUnlock()

	if ok {
		d.logger.Debug("notification dispatched", zap.Int64("user_id", userID))
	} else {
		d.logger.Debug("notification dropped, user offline", zap.Int64("user_id", userID))
	}
}
