package realtime

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"stay-booking/logger"
	"stay-booking/services"
)

// Provisioner creates the users row for a fresh auth identity.
type Provisioner interface {
	EnsureUser(ctx context.Context, authID, email string) error
}

// ProvisionerFunc adapts a function to Provisioner.
type ProvisionerFunc func(ctx context.Context, authID, email string) error

func (f ProvisionerFunc) EnsureUser(ctx context.Context, authID, email string) error {
	return f(ctx, authID, email)
}

// AuthHandler provisions users on sign-up and sign-in events.
func AuthHandler(p Provisioner) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		var ev AuthStateChanged
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			logger.L().Error("bad auth event", zap.String("message_uuid", msg.UUID), zap.Error(err))
			return nil
		}
		if ev.Event == services.AuthSignedOut || ev.AuthID == "" {
			return nil
		}
		if err := p.EnsureUser(msg.Context(), ev.AuthID, ev.Email); err != nil {
			logger.L().Error("user provisioning failed", zap.String("auth_id", ev.AuthID), zap.Error(err))
			return err
		}
		return nil
	}
}

const TopicPoisoned = "poisoned_queue"

// NewRouter wires the wishlist fan-out and the auth provisioner onto the bus.
// Handlers that still fail after retries are parked on the poisoned topic.
func NewRouter(bus *Bus, hub *Hub, p Provisioner, log watermill.LoggerAdapter) (*message.Router, error) {
	r, err := message.NewRouter(message.RouterConfig{}, log)
	if err != nil {
		return nil, err
	}
	poison, err := middleware.PoisonQueue(bus.Publisher, TopicPoisoned)
	if err != nil {
		return nil, err
	}
	retry := middleware.Retry{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		Logger:          log,
	}
	r.AddMiddleware(poison, retry.Middleware, middleware.Recoverer)
	sub := bus.Subscriber
	r.AddNoPublisherHandler("wishlist_fanout", TopicWishlistChanges, sub, hub.Handle)
	r.AddNoPublisherHandler("auth_provisioner", TopicAuthEvents, sub, AuthHandler(p))
	return r, nil
}
