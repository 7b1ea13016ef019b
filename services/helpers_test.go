package services

import (
	"context"
	"sync"

	"stay-booking/auth"
)

var (
	alice = auth.Identity{AuthID: "auth-alice", Email: "alice@example.com", TokenID: "jti-alice"}
	anon  = auth.Identity{}
)

type publishedEvent struct {
	Kind    string
	UserID  string
	Target  string
	Added   bool
	Message string
}

type mockPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *mockPublisher) WishlistChanged(_ context.Context, userID, experienceID string, added bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Kind: "wishlist", UserID: userID, Target: experienceID, Added: added})
	return p.err
}

func (p *mockPublisher) AuthStateChanged(_ context.Context, event, authID, email string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Kind: "auth", UserID: authID, Target: email, Message: event})
	return p.err
}

func (p *mockPublisher) Events() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

type stubGeocoder struct {
	city string
	err  error
}

func (g stubGeocoder) ReverseCity(context.Context, float64, float64) (string, error) {
	return g.city, g.err
}

func ptr[T any](v T) *T { return &v }
