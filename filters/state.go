// Package filters holds the search filter aggregate sent wholesale to experience search.
package filters

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"stay-booking/services"
)

const (
	MinAdults     = 1
	MaxAdults     = 10
	MaxChildren   = 6
	MaxInfants    = 4
	DefaultAdults = 2
)

var Amenities = []string{"pool", "late-checkout", "sauna", "hammam", "spa", "whirlpool", "breakfast", "brunch", "lunch"}

var DistanceBuckets = []string{"0-5", "5-20", "20-50", "50-100", "100-250"}

const dateLayout = "2006-01-02"

type Guests struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

func DefaultGuests() Guests { return Guests{Adults: DefaultAdults} }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp forces every counter into its bounds.
func (g Guests) Clamp() Guests {
	return Guests{
		Adults:   clamp(g.Adults, MinAdults, MaxAdults),
		Children: clamp(g.Children, 0, MaxChildren),
		Infants:  clamp(g.Infants, 0, MaxInfants),
	}
}

func (g Guests) Validate() error {
	if g != g.Clamp() {
		return services.ValidationError{Field: "guests", Msg: "adults 1-10, children 0-6, infants 0-4"}
	}
	return nil
}

func (g Guests) Total() int { return g.Adults + g.Children + g.Infants }

type State struct {
	Guests    Guests          `json:"guests"`
	Amenities map[string]bool `json:"-"`
	Distance  string          `json:"distance,omitempty"`
	Style     string          `json:"style,omitempty"`
	Situation string          `json:"situation,omitempty"`
	RoomType  string          `json:"room_type,omitempty"`
	Query     string          `json:"query,omitempty"`
	Category  string          `json:"category,omitempty"`
	PriceMin  *float64        `json:"price_min,omitempty"`
	PriceMax  *float64        `json:"price_max,omitempty"`
	DateStart *time.Time      `json:"date_start,omitempty"`
	DateEnd   *time.Time      `json:"date_end,omitempty"`
}

func New() *State {
	return &State{Guests: DefaultGuests(), Amenities: map[string]bool{}}
}

func (s *State) IncAdults()   { s.Guests.Adults = clamp(s.Guests.Adults+1, MinAdults, MaxAdults) }
func (s *State) DecAdults()   { s.Guests.Adults = clamp(s.Guests.Adults-1, MinAdults, MaxAdults) }
func (s *State) IncChildren() { s.Guests.Children = clamp(s.Guests.Children+1, 0, MaxChildren) }
func (s *State) DecChildren() { s.Guests.Children = clamp(s.Guests.Children-1, 0, MaxChildren) }
func (s *State) IncInfants()  { s.Guests.Infants = clamp(s.Guests.Infants+1, 0, MaxInfants) }
func (s *State) DecInfants()  { s.Guests.Infants = clamp(s.Guests.Infants-1, 0, MaxInfants) }

// ResetGuests is the participants "clear" action.
func (s *State) ResetGuests() { s.Guests = Guests{Adults: MinAdults} }

// Clear drops every filter and restores the default guests.
func (s *State) Clear() { *s = *New() }

func knownAmenity(id string) bool {
	for _, a := range Amenities {
		if a == id {
			return true
		}
	}
	return false
}

func (s *State) ToggleAmenity(id string) error {
	if !knownAmenity(id) {
		return services.ValidationError{Field: "amenities", Msg: "unknown amenity " + strconv.Quote(id)}
	}
	if s.Amenities == nil {
		s.Amenities = map[string]bool{}
	}
	if s.Amenities[id] {
		delete(s.Amenities, id)
	} else {
		s.Amenities[id] = true
	}
	return nil
}

// SelectedAmenities is sorted so identical states build identical queries.
func (s *State) SelectedAmenities() []string {
	out := make([]string, 0, len(s.Amenities))
	for id, on := range s.Amenities {
		if on {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func ValidDistance(bucket string) bool {
	for _, b := range DistanceBuckets {
		if b == bucket {
			return true
		}
	}
	return false
}

// SetDistance selects a bucket; selecting the active bucket again or "" clears it.
func (s *State) SetDistance(bucket string) error {
	if bucket == "" || bucket == s.Distance {
		s.Distance = ""
		return nil
	}
	if !ValidDistance(bucket) {
		return services.ValidationError{Field: "distance", Msg: "unknown distance bucket"}
	}
	s.Distance = bucket
	return nil
}

func (s *State) SetQuery(q string) { s.Query = strings.TrimSpace(q) }

// FromQuery builds a state from request parameters. Guest counts are clamped, not rejected.
func FromQuery(v url.Values) (*State, error) {
	s := New()
	if raw := v.Get("adults"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, services.ValidationError{Field: "adults", Msg: "must be a number"}
		}
		s.Guests.Adults = n
	}
	if raw := v.Get("children"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, services.ValidationError{Field: "children", Msg: "must be a number"}
		}
		s.Guests.Children = n
	}
	if raw := v.Get("infants"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, services.ValidationError{Field: "infants", Msg: "must be a number"}
		}
		s.Guests.Infants = n
	}
	s.Guests = s.Guests.Clamp()

	for _, raw := range v["amenities"] {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id == "" || s.Amenities[id] {
				continue
			}
			if err := s.ToggleAmenity(id); err != nil {
				return nil, err
			}
		}
	}
	if err := s.SetDistance(v.Get("distance")); err != nil {
		return nil, err
	}

	s.SetQuery(v.Get("q"))
	s.Category = strings.TrimSpace(v.Get("category"))
	s.Style = v.Get("style")
	s.Situation = v.Get("situation")
	s.RoomType = v.Get("room_type")

	var err error
	if s.PriceMin, err = parseFloat(v, "price_min"); err != nil {
		return nil, err
	}
	if s.PriceMax, err = parseFloat(v, "price_max"); err != nil {
		return nil, err
	}
	if s.DateStart, err = parseDate(v, "date_start"); err != nil {
		return nil, err
	}
	if s.DateEnd, err = parseDate(v, "date_end"); err != nil {
		return nil, err
	}
	return s, nil
}

func parseFloat(v url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, services.ValidationError{Field: key, Msg: "must be a number"}
	}
	return &f, nil
}

func parseDate(v url.Values, key string) (*time.Time, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, services.ValidationError{Field: key, Msg: "expected YYYY-MM-DD"}
	}
	return &t, nil
}

// ToSearchFilters merges every dimension into the single search object.
// Guests, style, situation and room type have no catalog column and only shape the UI.
func (s *State) ToSearchFilters() services.SearchFilters {
	f := services.SearchFilters{
		Query:     s.Query,
		Category:  s.Category,
		Distance:  s.Distance,
		Amenities: s.SelectedAmenities(),
	}
	if s.PriceMin != nil || s.PriceMax != nil {
		f.PriceRange = &services.PriceRange{Min: s.PriceMin, Max: s.PriceMax}
	}
	if s.DateStart != nil || s.DateEnd != nil {
		r := &services.DateRange{}
		if s.DateStart != nil {
			r.Start = *s.DateStart
		}
		if s.DateEnd != nil {
			r.End = *s.DateEnd
		} else {
			r.End = r.Start
		}
		if s.DateStart == nil {
			r.Start = r.End
		}
		f.Dates = r
	}
	if len(f.Amenities) == 0 {
		f.Amenities = nil
	}
	return f
}
