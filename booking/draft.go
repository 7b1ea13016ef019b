// Package booking owns the in-progress booking draft and its forward-only state machine.
package booking

import (
	"math"
	"strconv"
	"time"

	"stay-booking/filters"
)

type State string

const (
	StateSelectingDate State = "selecting_date"
	StateSelectingRoom State = "selecting_room"
	StatePayment       State = "payment"
	StateConfirmed     State = "confirmed"
)

var order = map[State]int{
	StateSelectingDate: 0,
	StateSelectingRoom: 1,
	StatePayment:       2,
	StateConfirmed:     3,
}

func (s State) Valid() bool {
	_, ok := order[s]
	return ok
}

// Before reports whether s comes strictly earlier in the flow than other.
func (s State) Before(other State) bool { return order[s] < order[other] }

// Cents is a money amount in euro cents. It encodes as a decimal number of euros.
type Cents int64

func ToCents(euros float64) Cents { return Cents(math.Round(euros * 100)) }

func (c Cents) Euros() float64 { return float64(c) / 100 }

func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(c.Euros(), 'f', 2, 64)), nil
}

func (c *Cents) UnmarshalJSON(b []byte) error {
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*c = ToCents(f)
	return nil
}

type Quote struct {
	Subtotal       Cents `json:"subtotal"`
	Upgrades       Cents `json:"upgrades"`
	Taxes          Cents `json:"taxes"`
	Total          Cents `json:"total"`
	TaxRatePercent int64 `json:"tax_rate_percent"`
}

// NewQuote prices a stay: the date price per night, a room upgrade per stay, then tax on both.
// Taxes round half up to the cent.
func NewQuote(nightly Cents, nights int, upgrade Cents, taxPercent int64) Quote {
	subtotal := nightly * Cents(nights)
	taxes := (int64(subtotal+upgrade)*taxPercent + 50) / 100
	return Quote{
		Subtotal:       subtotal,
		Upgrades:       upgrade,
		Taxes:          Cents(taxes),
		Total:          subtotal + upgrade + Cents(taxes),
		TaxRatePercent: taxPercent,
	}
}

// Draft is the single owned aggregate for one booking attempt.
type Draft struct {
	ID               string         `json:"id"`
	AuthID           string         `json:"auth_id"`
	ExperienceID     string         `json:"experience_id"`
	State            State          `json:"state"`
	DateOptionID     string         `json:"date_option_id,omitempty"`
	Nights           int            `json:"nights,omitempty"`
	CheckIn          *time.Time     `json:"check_in,omitempty"`
	CheckOut         *time.Time     `json:"check_out,omitempty"`
	Guests           filters.Guests `json:"guests"`
	RoomOptionID     string         `json:"room_option_id,omitempty"`
	Quote            *Quote         `json:"quote,omitempty"`
	ReservationID    string         `json:"reservation_id,omitempty"`
	BookingReference string         `json:"booking_reference,omitempty"`
	Version          int64          `json:"version"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Exit is a navigation target offered once the draft is confirmed.
type Exit struct {
	Name   string `json:"name"`
	Target string `json:"target"`
}

const (
	ExitViewReservation = "view_reservation"
	ExitCatalog         = "catalog"
)

func (d *Draft) Exits() []Exit {
	if d.State != StateConfirmed {
		return nil
	}
	return []Exit{
		{Name: ExitViewReservation, Target: "/api/reservations/" + d.ReservationID},
		{Name: ExitCatalog, Target: "/api/experiences"},
	}
}
