package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stay-booking/kvstore"
	"stay-booking/services"
)

type recordingProvisioner struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (p *recordingProvisioner) EnsureUser(_ context.Context, authID, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, authID)
	return p.err
}

func (p *recordingProvisioner) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func TestSequencer(t *testing.T) {
	ctx := context.Background()
	seq := NewSequencer(kvstore.NewMemoryStore())

	cur, err := seq.Current(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), cur)

	n, _ := seq.Next(ctx, "u1")
	assert.Equal(t, int64(1), n)
	n, _ = seq.Next(ctx, "u1")
	assert.Equal(t, int64(2), n)

	cur, err = seq.Current(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), cur)
}

func TestHub_DispatchesPerUser(t *testing.T) {
	hub := NewHub()
	mine, release := hub.Subscribe("u1")
	other, releaseOther := hub.Subscribe("u2")
	defer releaseOther()

	hub.Dispatch(WishlistChanged{Seq: 1, UserID: "u1", ExperienceID: "e1", Op: OpInsert})

	select {
	case ev := <-mine:
		assert.Equal(t, "e1", ev.ExperienceID)
	default:
		t.Fatal("expected an event for u1")
	}
	assert.Len(t, other, 0)

	release()
	release()
	hub.Dispatch(WishlistChanged{Seq: 2, UserID: "u1"})
	assert.Len(t, mine, 0)
}

func TestBus_EndToEnd(t *testing.T) {
	logger := watermill.NopLogger{}
	bus := NewGoChannelBus(NewSequencer(kvstore.NewMemoryStore()), logger)
	defer bus.Close()

	hub := NewHub()
	prov := &recordingProvisioner{}
	router, err := NewRouter(bus, hub, prov, logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = router.Run(ctx) }()
	<-router.Running()

	stream, release := hub.Subscribe("u1")
	defer release()

	require.NoError(t, bus.WishlistChanged(ctx, "u1", "e1", true))
	require.NoError(t, bus.WishlistChanged(ctx, "u1", "e1", false))

	for i, want := range []string{OpInsert, OpDelete} {
		select {
		case ev := <-stream:
			assert.Equal(t, int64(i+1), ev.Seq)
			assert.Equal(t, want, ev.Op)
		case <-time.After(2 * time.Second):
			t.Fatalf("event %d not delivered", i+1)
		}
	}

	require.NoError(t, bus.AuthStateChanged(ctx, services.AuthSignedUp, "a1", "a@x.io"))
	require.NoError(t, bus.AuthStateChanged(ctx, services.AuthSignedOut, "a1", "a@x.io"))
	assert.Eventually(t, func() bool { return len(prov.Calls()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"a1"}, prov.Calls())
}

func TestAuthHandler(t *testing.T) {
	prov := &recordingProvisioner{err: errors.New("db down")}
	h := AuthHandler(prov)

	payload, err := json.Marshal(AuthStateChanged{Event: services.AuthSignedIn, AuthID: "a1"})
	require.NoError(t, err)
	assert.Error(t, h(message.NewMessage(watermill.NewUUID(), payload)))

	assert.NoError(t, h(message.NewMessage(watermill.NewUUID(), []byte("{not json"))))
}

func TestBus_GoChannelKeepsPublishOrder(t *testing.T) {
	logger := watermill.NopLogger{}
	bus := NewGoChannelBus(NewSequencer(kvstore.NewMemoryStore()), logger)
	defer bus.Close()

	hub := NewHub()
	router, err := NewRouter(bus, hub, &recordingProvisioner{}, logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = router.Run(ctx) }()
	<-router.Running()

	stream, release := hub.Subscribe("u1")
	defer release()

	const burst = 10
	for i := 0; i < burst; i++ {
		require.NoError(t, bus.WishlistChanged(ctx, "u1", "e1", i%2 == 0))
	}
	for i := 1; i <= burst; i++ {
		select {
		case ev := <-stream:
			require.Equal(t, int64(i), ev.Seq)
		case <-time.After(2 * time.Second):
			t.Fatalf("event %d not delivered", i)
		}
	}
}
