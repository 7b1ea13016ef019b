package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stay-booking/auth"
	"stay-booking/filters"
	"stay-booking/kvstore"
	"stay-booking/models"
	"stay-booking/repositories/mocks"
	"stay-booking/services"
)

var (
	alice = auth.Identity{AuthID: "auth-alice", Email: "alice@example.com"}
	bob   = auth.Identity{AuthID: "auth-bob", Email: "bob@example.com"}
	feb18 = time.Date(2025, 2, 18, 0, 0, 0, 0, time.UTC)
)

type stubCatalog struct{}

func (stubCatalog) Get(_ context.Context, id string) (*models.Experience, error) {
	if id != "e1" {
		return nil, services.NotFoundError{Resource: "experience", ID: id}
	}
	return &models.Experience{ID: "e1"}, nil
}

type recordingReserver struct {
	mu     sync.Mutex
	drafts []services.ReservationDraft
	err    error
}

func (r *recordingReserver) Create(_ context.Context, _ auth.Identity, d services.ReservationDraft) (*models.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts = append(r.drafts, d)
	if r.err != nil {
		return nil, r.err
	}
	return &models.Reservation{ID: "res-1", BookingReference: "STY-2025-02-18-001"}, nil
}

func newOptions() *mocks.OptionRepository {
	opts := new(mocks.OptionRepository)
	opts.On("FindDateOption", mock.Anything, "3").Return(&models.DateOption{
		ID: "3", Start: feb18, End: feb18.AddDate(0, 0, 1), Price: 278, OriginalPrice: 348, Discount: 20, Availability: 1,
	}, nil)
	opts.On("FindDateOption", mock.Anything, "2").Return(&models.DateOption{ID: "2", Price: 262, Availability: 0}, nil)
	opts.On("FindDateOption", mock.Anything, "9").Return(nil, nil)
	opts.On("FindRoomOption", mock.Anything, "superior").Return(&models.RoomOption{ID: "superior", Name: "Supérieure", Price: 16}, nil)
	opts.On("FindRoomOption", mock.Anything, "deluxe").Return(&models.RoomOption{ID: "deluxe", Name: "Deluxe", Price: 32}, nil)
	return opts
}

func newFlow(reserver *recordingReserver) *Flow {
	drafts := NewDraftStore(kvstore.NewMemoryStore(), time.Hour)
	return NewFlow(drafts, newOptions(), stubCatalog{}, reserver, kvstore.NewMemoryLocker(), 20)
}

func TestNewQuote(t *testing.T) {
	q := NewQuote(ToCents(278), 1, ToCents(16), 20)
	assert.Equal(t, Cents(27800), q.Subtotal)
	assert.Equal(t, Cents(1600), q.Upgrades)
	assert.Equal(t, Cents(5880), q.Taxes)
	assert.Equal(t, Cents(35280), q.Total)
	assert.Equal(t, 352.80, q.Total.Euros())

	raw, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{"subtotal":278.00,"upgrades":16.00,"taxes":58.80,"total":352.80,"tax_rate_percent":20}`, string(raw))

	two := NewQuote(ToCents(278), 2, ToCents(16), 20)
	assert.Equal(t, Cents(55600), two.Subtotal)
}

func TestFlow_HappyPath(t *testing.T) {
	ctx := context.Background()
	res := &recordingReserver{}
	flow := newFlow(res)

	d, err := flow.Start(ctx, alice, "e1")
	require.NoError(t, err)
	assert.Equal(t, StateSelectingDate, d.State)
	assert.Equal(t, filters.Guests{Adults: 2}, d.Guests)

	d, err = flow.SelectDate(ctx, alice, d.ID, "3", 1, filters.Guests{Adults: 2})
	require.NoError(t, err)
	assert.Equal(t, StateSelectingRoom, d.State)
	assert.True(t, d.CheckOut.Equal(feb18.AddDate(0, 0, 1)))

	d, err = flow.SelectRoom(ctx, alice, d.ID, "superior")
	require.NoError(t, err)
	assert.Equal(t, StatePayment, d.State)
	require.NotNil(t, d.Quote)
	assert.Equal(t, 58.80, d.Quote.Taxes.Euros())
	assert.Equal(t, 352.80, d.Quote.Total.Euros())

	d, err = flow.Confirm(ctx, alice, d.ID)
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, d.State)
	assert.Equal(t, "res-1", d.ReservationID)
	assert.Regexp(t, `^STY-\d{4}-\d{2}-\d{2}-\d{3}$`, d.BookingReference)

	require.Len(t, res.drafts, 1)
	committed := res.drafts[0]
	assert.Equal(t, 352.80, committed.TotalPrice)
	assert.Equal(t, "superior", committed.RoomType)
	assert.Equal(t, 2, committed.GuestCount)
	assert.True(t, committed.CheckInDate.Equal(feb18))

	exits := d.Exits()
	require.Len(t, exits, 2)
	assert.Equal(t, ExitViewReservation, exits[0].Name)
	assert.Equal(t, "/api/reservations/res-1", exits[0].Target)
	assert.Equal(t, ExitCatalog, exits[1].Name)
}

func TestFlow_ConfirmIsExactlyOnce(t *testing.T) {
	ctx := context.Background()
	res := &recordingReserver{}
	flow := newFlow(res)

	d, err := flow.Start(ctx, alice, "e1")
	require.NoError(t, err)
	_, err = flow.SelectDate(ctx, alice, d.ID, "3", 1, filters.Guests{Adults: 2})
	require.NoError(t, err)
	_, err = flow.SelectRoom(ctx, alice, d.ID, "superior")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := flow.Confirm(ctx, alice, d.ID)
			assert.NoError(t, err)
			assert.Equal(t, "res-1", got.ReservationID)
		}()
	}
	wg.Wait()
	assert.Len(t, res.drafts, 1)
}

func TestFlow_ConfirmFailureStaysInPayment(t *testing.T) {
	ctx := context.Background()
	res := &recordingReserver{err: services.ReservationError{Op: "create", Err: errors.New("db down")}}
	flow := newFlow(res)

	d, _ := flow.Start(ctx, alice, "e1")
	_, _ = flow.SelectDate(ctx, alice, d.ID, "3", 1, filters.Guests{Adults: 1})
	_, _ = flow.SelectRoom(ctx, alice, d.ID, "deluxe")

	_, err := flow.Confirm(ctx, alice, d.ID)
	assert.True(t, services.IsReservation(err))

	d, err = flow.Get(ctx, alice, d.ID)
	require.NoError(t, err)
	assert.Equal(t, StatePayment, d.State)
	assert.Empty(t, d.ReservationID)

	res.err = nil
	d, err = flow.Confirm(ctx, alice, d.ID)
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, d.State)
}

func TestFlow_ReviseKeepsSelections(t *testing.T) {
	ctx := context.Background()
	flow := newFlow(&recordingReserver{})

	d, _ := flow.Start(ctx, alice, "e1")
	_, _ = flow.SelectDate(ctx, alice, d.ID, "3", 2, filters.Guests{Adults: 3, Children: 1})
	_, _ = flow.SelectRoom(ctx, alice, d.ID, "deluxe")

	d, err := flow.Revise(ctx, alice, d.ID, StateSelectingDate)
	require.NoError(t, err)
	assert.Equal(t, StateSelectingDate, d.State)
	assert.Equal(t, "3", d.DateOptionID)
	assert.Equal(t, 2, d.Nights)
	assert.Equal(t, filters.Guests{Adults: 3, Children: 1}, d.Guests)
	assert.Equal(t, "deluxe", d.RoomOptionID)

	// forward only: no skipping ahead
	_, err = flow.SelectRoom(ctx, alice, d.ID, "superior")
	assert.True(t, services.IsConflict(err))

	_, err = flow.Revise(ctx, alice, d.ID, StateSelectingRoom)
	assert.True(t, services.IsConflict(err))

	_, err = flow.Revise(ctx, alice, d.ID, StatePayment)
	assert.True(t, services.IsValidation(err))
}

func TestFlow_SelectDateRules(t *testing.T) {
	ctx := context.Background()
	flow := newFlow(&recordingReserver{})
	d, err := flow.Start(ctx, alice, "e1")
	require.NoError(t, err)

	_, err = flow.SelectDate(ctx, alice, d.ID, "2", 1, filters.Guests{Adults: 2})
	assert.True(t, services.IsConflict(err), "sold out date")

	_, err = flow.SelectDate(ctx, alice, d.ID, "9", 1, filters.Guests{Adults: 2})
	assert.True(t, services.IsNotFound(err))

	_, err = flow.SelectDate(ctx, alice, d.ID, "3", 3, filters.Guests{Adults: 2})
	assert.True(t, services.IsValidation(err))

	_, err = flow.SelectDate(ctx, alice, d.ID, "3", 1, filters.Guests{Adults: 0})
	assert.True(t, services.IsValidation(err))

	d, err = flow.Get(ctx, alice, d.ID)
	require.NoError(t, err)
	assert.Equal(t, StateSelectingDate, d.State)
}

func TestFlow_Ownership(t *testing.T) {
	ctx := context.Background()
	flow := newFlow(&recordingReserver{})

	_, err := flow.Start(ctx, auth.Identity{}, "e1")
	assert.ErrorIs(t, err, services.ErrAuthRequired)

	_, err = flow.Start(ctx, alice, "nope")
	assert.True(t, services.IsNotFound(err))

	d, err := flow.Start(ctx, alice, "e1")
	require.NoError(t, err)

	_, err = flow.Get(ctx, bob, d.ID)
	assert.True(t, services.IsNotFound(err))

	_, err = flow.SelectDate(ctx, bob, d.ID, "3", 1, filters.Guests{Adults: 2})
	assert.True(t, services.IsNotFound(err))
}
