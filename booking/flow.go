package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stay-booking/auth"
	"stay-booking/filters"
	"stay-booking/kvstore"
	"stay-booking/logger"
	"stay-booking/models"
	"stay-booking/repositories"
	"stay-booking/services"
)

// Catalog is the experience lookup the flow needs.
type Catalog interface {
	Get(ctx context.Context, id string) (*models.Experience, error)
}

// Reserver commits the draft. ReservationService implements it.
type Reserver interface {
	Create(ctx context.Context, id auth.Identity, d services.ReservationDraft) (*models.Reservation, error)
}

type Flow struct {
	Drafts         *DraftStore
	Options        repositories.OptionRepository
	Catalog        Catalog
	Reservations   Reserver
	Locker         kvstore.Locker
	TaxRatePercent int64
	Now            func() time.Time
}

func NewFlow(drafts *DraftStore, options repositories.OptionRepository, catalog Catalog, reservations Reserver, locker kvstore.Locker, taxPercent int64) *Flow {
	if locker == nil {
		locker = kvstore.NewMemoryLocker()
	}
	return &Flow{
		Drafts:         drafts,
		Options:        options,
		Catalog:        catalog,
		Reservations:   reservations,
		Locker:         locker,
		TaxRatePercent: taxPercent,
		Now:            time.Now,
	}
}

func notFound(draftID string) error {
	return services.NotFoundError{Resource: "booking draft", ID: draftID}
}

func wrongState(d *Draft, action string) error {
	return services.ConflictError{Resource: "booking", Msg: action + " is not allowed in state " + string(d.State)}
}

// Start opens a draft for experienceID in selecting_date with the default guests.
func (f *Flow) Start(ctx context.Context, id auth.Identity, experienceID string) (*Draft, error) {
	if !id.Authenticated() {
		return nil, services.ErrAuthRequired
	}
	if _, err := f.Catalog.Get(ctx, experienceID); err != nil {
		return nil, err
	}
	now := f.Now()
	d := &Draft{
		ID:           uuid.NewString(),
		AuthID:       id.AuthID,
		ExperienceID: experienceID,
		State:        StateSelectingDate,
		Guests:       filters.DefaultGuests(),
		CreatedAt:    now,
	}
	if err := f.save(ctx, d); err != nil {
		return nil, err
	}
	logger.L().Debug("booking draft started", zap.String("draft_id", d.ID), zap.String("experience_id", experienceID))
	return d, nil
}

func (f *Flow) Get(ctx context.Context, id auth.Identity, draftID string) (*Draft, error) {
	if !id.Authenticated() {
		return nil, services.ErrAuthRequired
	}
	return f.load(ctx, id, draftID)
}

func (f *Flow) load(ctx context.Context, id auth.Identity, draftID string) (*Draft, error) {
	d, err := f.Drafts.Get(ctx, draftID)
	if errors.Is(err, ErrDraftNotFound) {
		return nil, notFound(draftID)
	}
	if err != nil {
		return nil, services.FetchError{Op: "booking draft", Err: err}
	}
	// drafts of other users are invisible
	if d.AuthID != id.AuthID {
		return nil, notFound(draftID)
	}
	return d, nil
}

func (f *Flow) save(ctx context.Context, d *Draft) error {
	d.Version++
	d.UpdatedAt = f.Now()
	if err := f.Drafts.Save(ctx, d); err != nil {
		return services.FetchError{Op: "booking draft", Err: err}
	}
	return nil
}

// mutate runs fn on the draft under its lock and saves the result.
func (f *Flow) mutate(ctx context.Context, id auth.Identity, draftID string, fn func(*Draft) error) (*Draft, error) {
	if !id.Authenticated() {
		return nil, services.ErrAuthRequired
	}
	unlock, err := f.Locker.Lock(ctx, "draft:"+draftID)
	if err != nil {
		return nil, services.FetchError{Op: "booking draft lock", Err: err}
	}
	defer unlock()

	d, err := f.load(ctx, id, draftID)
	if err != nil {
		return nil, err
	}
	if err := fn(d); err != nil {
		return nil, err
	}
	if err := f.save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (f *Flow) dateOption(ctx context.Context, optionID string) (*models.DateOption, error) {
	opt, err := f.Options.FindDateOption(ctx, optionID)
	if err != nil {
		return nil, services.FetchError{Op: "date option", Err: err}
	}
	if opt == nil {
		return nil, services.NotFoundError{Resource: "date option", ID: optionID}
	}
	return opt, nil
}

func (f *Flow) roomOption(ctx context.Context, optionID string) (*models.RoomOption, error) {
	opt, err := f.Options.FindRoomOption(ctx, optionID)
	if err != nil {
		return nil, services.FetchError{Op: "room option", Err: err}
	}
	if opt == nil {
		return nil, services.NotFoundError{Resource: "room option", ID: optionID}
	}
	return opt, nil
}

// SelectDate records the date, stay length and guests, then moves to selecting_room.
func (f *Flow) SelectDate(ctx context.Context, id auth.Identity, draftID, dateOptionID string, nights int, guests filters.Guests) (*Draft, error) {
	return f.mutate(ctx, id, draftID, func(d *Draft) error {
		if d.State != StateSelectingDate {
			return wrongState(d, "selecting a date")
		}
		if nights != 1 && nights != 2 {
			return services.ValidationError{Field: "nights", Msg: "must be 1 or 2"}
		}
		if err := guests.Validate(); err != nil {
			return err
		}
		opt, err := f.dateOption(ctx, dateOptionID)
		if err != nil {
			return err
		}
		if !opt.Available() {
			return services.ConflictError{Resource: "date option", Msg: "no availability left for " + dateOptionID}
		}

		checkIn := opt.Start
		checkOut := opt.Start.AddDate(0, 0, nights)
		d.DateOptionID = opt.ID
		d.Nights = nights
		d.Guests = guests
		d.CheckIn, d.CheckOut = &checkIn, &checkOut
		d.Quote = nil
		d.State = StateSelectingRoom
		return nil
	})
}

// SelectRoom records the room option, prices the stay and moves to payment.
func (f *Flow) SelectRoom(ctx context.Context, id auth.Identity, draftID, roomOptionID string) (*Draft, error) {
	return f.mutate(ctx, id, draftID, func(d *Draft) error {
		if d.State != StateSelectingRoom {
			return wrongState(d, "selecting a room")
		}
		room, err := f.roomOption(ctx, roomOptionID)
		if err != nil {
			return err
		}
		date, err := f.dateOption(ctx, d.DateOptionID)
		if err != nil {
			return err
		}
		q := NewQuote(ToCents(date.Price), d.Nights, ToCents(room.Price), f.TaxRatePercent)
		d.RoomOptionID = room.ID
		d.Quote = &q
		d.State = StatePayment
		return nil
	})
}

// Revise steps back to an earlier selection state. Every selection made so far is kept.
func (f *Flow) Revise(ctx context.Context, id auth.Identity, draftID string, step State) (*Draft, error) {
	return f.mutate(ctx, id, draftID, func(d *Draft) error {
		if d.State == StateConfirmed {
			return wrongState(d, "revising")
		}
		if step != StateSelectingDate && step != StateSelectingRoom {
			return services.ValidationError{Field: "step", Msg: "must be selecting_date or selecting_room"}
		}
		if !step.Before(d.State) {
			return wrongState(d, "revising to "+string(step))
		}
		d.State = step
		return nil
	})
}

// Confirm is the only step with a backend effect. Prices and dates are recomputed from the
// catalog before the reservation is written. A confirmed draft returns unchanged.
func (f *Flow) Confirm(ctx context.Context, id auth.Identity, draftID string) (*Draft, error) {
	if !id.Authenticated() {
		return nil, services.ErrAuthRequired
	}
	unlock, err := f.Locker.Lock(ctx, "draft:"+draftID)
	if err != nil {
		return nil, services.FetchError{Op: "booking draft lock", Err: err}
	}
	defer unlock()

	d, err := f.load(ctx, id, draftID)
	if err != nil {
		return nil, err
	}
	if d.State == StateConfirmed {
		return d, nil
	}
	if d.State != StatePayment {
		return nil, wrongState(d, "confirming")
	}

	date, err := f.dateOption(ctx, d.DateOptionID)
	if err != nil {
		return nil, err
	}
	if !date.Available() {
		return nil, services.ConflictError{Resource: "date option", Msg: "no availability left for " + d.DateOptionID}
	}
	room, err := f.roomOption(ctx, d.RoomOptionID)
	if err != nil {
		return nil, err
	}
	q := NewQuote(ToCents(date.Price), d.Nights, ToCents(room.Price), f.TaxRatePercent)
	d.Quote = &q

	res, err := f.Reservations.Create(ctx, id, services.ReservationDraft{
		ExperienceID: d.ExperienceID,
		CheckInDate:  date.Start,
		CheckOutDate: date.Start.AddDate(0, 0, d.Nights),
		RoomType:     room.ID,
		GuestCount:   d.Guests.Total(),
		TotalPrice:   q.Total.Euros(),
	})
	if err != nil {
		// the draft stays in payment and can be confirmed again
		logger.L().Error("booking confirmation failed", zap.String("draft_id", d.ID), zap.Error(err))
		return nil, err
	}

	d.ReservationID = res.ID
	d.BookingReference = res.BookingReference
	d.State = StateConfirmed
	if err := f.save(ctx, d); err != nil {
		// the reservation exists, so report success and let the draft expire
		logger.L().Error("confirmed draft not saved", zap.String("draft_id", d.ID), zap.String("reservation_id", res.ID), zap.Error(err))
	}
	return d, nil
}

func (f *Flow) DateOptions(ctx context.Context) ([]models.DateOption, error) {
	out, err := f.Options.ListDateOptions(ctx)
	if err != nil {
		return nil, services.FetchError{Op: "date options", Err: err}
	}
	return out, nil
}

func (f *Flow) RoomOptions(ctx context.Context) ([]models.RoomOption, error) {
	out, err := f.Options.ListRoomOptions(ctx)
	if err != nil {
		return nil, services.FetchError{Op: "room options", Err: err}
	}
	return out, nil
}
