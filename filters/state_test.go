package filters

import (
	"math/rand"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stay-booking/services"
)

func TestGuestCounters_StayInBounds(t *testing.T) {
	s := New()
	assert.Equal(t, Guests{Adults: 2}, s.Guests)

	ops := []func(){s.IncAdults, s.DecAdults, s.IncChildren, s.DecChildren, s.IncInfants, s.DecInfants}
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 5000; i++ {
		ops[r.Intn(len(ops))]()
		require.NoError(t, s.Guests.Validate(), "after step %d: %+v", i, s.Guests)
	}

	for i := 0; i < 20; i++ {
		s.DecAdults()
		s.IncChildren()
		s.IncInfants()
	}
	assert.Equal(t, Guests{Adults: 1, Children: 6, Infants: 4}, s.Guests)

	s.ResetGuests()
	assert.Equal(t, Guests{Adults: 1}, s.Guests)
}

func TestGuests_Validate(t *testing.T) {
	assert.Error(t, Guests{Adults: 0}.Validate())
	assert.Error(t, Guests{Adults: 11}.Validate())
	assert.Error(t, Guests{Adults: 1, Children: 7}.Validate())
	assert.NoError(t, Guests{Adults: 10, Children: 6, Infants: 4}.Validate())
	assert.Equal(t, 3, Guests{Adults: 2, Infants: 1}.Total())
}

func TestToggleAmenity(t *testing.T) {
	s := New()
	require.NoError(t, s.ToggleAmenity("sauna"))
	require.NoError(t, s.ToggleAmenity("pool"))
	assert.Equal(t, []string{"pool", "sauna"}, s.SelectedAmenities())

	require.NoError(t, s.ToggleAmenity("sauna"))
	assert.Equal(t, []string{"pool"}, s.SelectedAmenities())

	assert.True(t, services.IsValidation(s.ToggleAmenity("casino")))
}

func TestSetDistance(t *testing.T) {
	s := New()
	require.NoError(t, s.SetDistance("5-20"))
	assert.Equal(t, "5-20", s.Distance)

	require.NoError(t, s.SetDistance("5-20"))
	assert.Empty(t, s.Distance)

	assert.Error(t, s.SetDistance("1-2"))
}

func TestFromQuery(t *testing.T) {
	v := url.Values{}
	v.Set("adults", "42")
	v.Set("children", "-3")
	v.Set("q", "  spa ")
	v.Set("distance", "20-50")
	v.Add("amenities", "pool,sauna")
	v.Add("amenities", "pool")
	v.Set("price_min", "100")
	v.Set("date_start", "2025-02-18")
	v.Set("date_end", "2025-02-19")

	s, err := FromQuery(v)
	require.NoError(t, err)
	assert.Equal(t, Guests{Adults: 10}, s.Guests)
	assert.Equal(t, "spa", s.Query)
	assert.Equal(t, []string{"pool", "sauna"}, s.SelectedAmenities())

	f := s.ToSearchFilters()
	assert.Equal(t, "spa", f.Query)
	assert.Equal(t, "20-50", f.Distance)
	require.NotNil(t, f.PriceRange)
	assert.Equal(t, 100.0, *f.PriceRange.Min)
	assert.Nil(t, f.PriceRange.Max)
	require.NotNil(t, f.Dates)
	assert.Equal(t, time.Date(2025, 2, 18, 0, 0, 0, 0, time.UTC), f.Dates.Start)

	_, err = FromQuery(url.Values{"adults": {"two"}})
	assert.True(t, services.IsValidation(err))

	_, err = FromQuery(url.Values{"date_start": {"18/02/2025"}})
	assert.True(t, services.IsValidation(err))
}

func TestToSearchFilters_Empty(t *testing.T) {
	f := New().ToSearchFilters()
	assert.Equal(t, services.SearchFilters{}, f)
}
