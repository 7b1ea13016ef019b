package services

import "context"

const (
	AuthSignedUp  = "SIGNED_UP"
	AuthSignedIn  = "SIGNED_IN"
	AuthSignedOut = "SIGNED_OUT"
)

// EventPublisher fans domain changes out to realtime subscribers.
type EventPublisher interface {
	WishlistChanged(ctx context.Context, userID, experienceID string, added bool) error
	AuthStateChanged(ctx context.Context, event, authID, email string) error
}

type noopPublisher struct{}

func (noopPublisher) WishlistChanged(context.Context, string, string, bool) error { return nil }
func (noopPublisher) AuthStateChanged(context.Context, string, string, string) error {
	return nil
}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
