package realtime

import (
	"context"
	"net/http"
	"sync"

	"creator-ops/domain/model"
	"creator-ops/domain/repository"
	"creator-ops/infrastructure/logger"

	"github.com/gin-gonic/gin"
)

// Hub maintains per-user subscribers listening for sync progress events.
type Hub struct {
	mu    sync.RWMutex
	users map[string]map[chan model.SyncEvent]struct{}
}

func NewSyncHub() *Hub {
	return &Hub{users: make(map[string]map[chan model.SyncEvent]struct{})}
}

// Serve registers an SSE stream for the authenticated user (user_id set by middleware).
func (h *Hub) Serve(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": model.ErrUnauthenticated.Error()})
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ch := h.subscribe(userID)
	defer h.unsubscribe(userID, ch)

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			c.SSEvent("sync", evt)
			c.Writer.Flush()
		}
	}
}

// Publish delivers the event to every open stream of its user without blocking.
func (h *Hub) Publish(_ context.Context, evt *model.SyncEvent) error {
	if evt == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.users[evt.UserID] {
		select {
		case ch <- *evt:
		default:
		}
	}
	return nil
}

// Subscribers reports how many streams are open for userID.
func (h *Hub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

func (h *Hub) subscribe(userID string) chan model.SyncEvent {
	ch := make(chan model.SyncEvent, 16)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.users[userID] == nil {
		h.users[userID] = make(map[chan model.SyncEvent]struct{})
	}
	h.users[userID][ch] = struct{}{}
	return ch
}

func (h *Hub) unsubscribe(userID string, ch chan model.SyncEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs := h.users[userID]; subs != nil {
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(h.users, userID)
		}
	}
}

// Fanout sends each event to all publishers. Failures are logged and never returned,
// so a broken broker cannot fail a sync.
type Fanout struct {
	publishers []repository.ISyncEventPublisher
}

func NewFanout(publishers ...repository.ISyncEventPublisher) *Fanout {
	out := make([]repository.ISyncEventPublisher, 0, len(publishers))
	for _, p := range publishers {
		if p != nil {
			out = append(out, p)
		}
	}
	return &Fanout{publishers: out}
}

func (f *Fanout) Publish(ctx context.Context, evt *model.SyncEvent) error {
	for _, p := range f.publishers {
		if err := p.Publish(ctx, evt); err != nil {
			logger.GetLogger().
				WithField("error", err).
				WithField("step", evt.Step).
				Warn("Error while publishing sync event")
		}
	}
	return nil
}
