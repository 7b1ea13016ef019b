package realtime

import (
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"stay-booking/logger"
	"stay-booking/metrics"
)

const streamBuffer = 16

// Hub hands wishlist events from the bus to the open streams of the matching user.
type Hub struct {
	mu      sync.RWMutex
	streams map[string]map[chan WishlistChanged]struct{}
}

func NewHub() *Hub {
	return &Hub{streams: map[string]map[chan WishlistChanged]struct{}{}}
}

// Subscribe registers a stream for userID. The returned func must be called to release it.
func (h *Hub) Subscribe(userID string) (<-chan WishlistChanged, func()) {
	ch := make(chan WishlistChanged, streamBuffer)
	h.mu.Lock()
	if h.streams[userID] == nil {
		h.streams[userID] = map[chan WishlistChanged]struct{}{}
	}
	h.streams[userID][ch] = struct{}{}
	h.mu.Unlock()
	metrics.RealtimeSubscribers.Inc()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.streams[userID], ch)
			if len(h.streams[userID]) == 0 {
				delete(h.streams, userID)
			}
			h.mu.Unlock()
			metrics.RealtimeSubscribers.Dec()
		})
	}
}

// Dispatch delivers ev without blocking. A full stream drops the event; its view
// notices the sequence gap and reloads.
func (h *Hub) Dispatch(ev WishlistChanged) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.streams[ev.UserID] {
		select {
		case ch <- ev:
		default:
			logger.L().Warn("wishlist stream full, event dropped", zap.String("user_id", ev.UserID), zap.Int64("seq", ev.Seq))
		}
	}
}

// Handle is the watermill handler for the wishlist topic.
func (h *Hub) Handle(msg *message.Message) error {
	var ev WishlistChanged
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		// malformed payloads are dropped, not redelivered
		logger.L().Error("bad wishlist event", zap.String("message_uuid", msg.UUID), zap.Error(err))
		return nil
	}
	h.Dispatch(ev)
	return nil
}
