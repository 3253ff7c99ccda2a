package store

import (
	"context"
	"sync"

	"github.com/Egor213/LogVault/internal/protocol"
)

// Hub is the name-addressed registry of coordinators. The same app
// identifier always resolves to the same Coordinator, materialized on
// first use.
type Hub struct {
	mu     sync.Mutex
	coords map[string]*Coordinator
	deps   Deps
	closed bool
}

func NewHub(deps Deps) *Hub {
	return &Hub{
		coords: make(map[string]*Coordinator),
		deps:   deps,
	}
}

// App returns the coordinator owning appID, creating it on first use.
// Returns nil after Close.
func (h *Hub) App(appID string) *Coordinator {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	c, ok := h.coords[appID]
	if !ok {
		c = newCoordinator(appID, h.deps)
		h.coords[appID] = c
	}
	return c
}

func (h *Hub) Dispatch(ctx context.Context, appID string, req protocol.Request) protocol.Response {
	c := h.App(appID)
	if c == nil {
		return protocol.Fail(protocol.CodeServiceUnavailable, "store is shutting down")
	}
	return c.Dispatch(ctx, req)
}

// Close stops every coordinator and rejects further dispatches.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	coords := make([]*Coordinator, 0, len(h.coords))
	for _, c := range h.coords {
		coords = append(coords, c)
	}
	h.mu.Unlock()

	for _, c := range coords {
		c.stop()
	}
}
