package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avstrong/resort/internal/stay"
)

func villaRate() RateConfig {
	return RateConfig{
		RoomID:          "villa",
		BasePrice:       50000,
		BaseAdults:      2,
		BaseChildren:    0,
		ExtraAdultPrice: 10000,
		ExtraChildPrice: 5000,
		MaxAdults:       4,
		MaxChildren:     2,
		MaxRooms:        3,
	}
}

func twoNights() stay.DateRange {
	return stay.DateRange{CheckIn: stay.NewDate(2026, 1, 10), CheckOut: stay.NewDate(2026, 1, 12)}
}

func newTestCalculator(t *testing.T, mode ExtrasChargeMode) *Calculator {
	t.Helper()

	conf := DefaultConfig()
	conf.ExtrasMode = mode

	c, err := NewCalculator(conf)
	require.NoError(t, err)

	return c
}

func TestCalculator_Price_OccupancySurcharge(t *testing.T) {
	c := newTestCalculator(t, ExtrasPerStay)

	out, err := c.Price(Input{
		Rate:      villaRate(),
		Occupancy: stay.Occupancy{Rooms: 1, Adults: 3, Children: 1},
		Stay:      twoNights(),
	})
	require.NoError(t, err)

	assert.Equal(t, Amount(65000), out.PerNightPerRoom)
	assert.Equal(t, Amount(130000), out.RoomTotal)
	assert.Equal(t, Amount(13000), out.Tax)
	assert.Equal(t, Amount(6500), out.ServiceCharge)
	assert.Equal(t, Amount(0), out.DiscountAmount)
	assert.Equal(t, Amount(149500), out.GrandTotal)
	assert.Equal(t, 2, out.Nights)
}

func TestCalculator_Price_DiscountAboveSubtotalFloorsAtZero(t *testing.T) {
	c := newTestCalculator(t, ExtrasPerStay)

	out, err := c.Price(Input{
		Rate:      villaRate(),
		Occupancy: stay.Occupancy{Rooms: 1, Adults: 3, Children: 1},
		Stay:      twoNights(),
		Discount:  200000,
	})
	require.NoError(t, err)

	assert.Equal(t, Amount(0), out.GrandTotal)
	assert.Equal(t, Amount(149500), out.DiscountAmount)
}

func TestCalculator_Summarize_ClampsDiscountToGross(t *testing.T) {
	c := newTestCalculator(t, ExtrasPerStay)

	out := c.Summarize(130000, 0, 140000)
	assert.Equal(t, Amount(149500), out.RoomTotal+out.ExtrasTotal+out.Tax+out.ServiceCharge)
	assert.Equal(t, Amount(140000), out.DiscountAmount, "discount above room total is not cut back")
	assert.Equal(t, Amount(9500), out.GrandTotal)

	out = c.Summarize(130000, 0, 200000)
	assert.Equal(t, Amount(149500), out.DiscountAmount)
	assert.Zero(t, out.GrandTotal)
}

func TestCalculator_Price_Deterministic(t *testing.T) {
	c := newTestCalculator(t, ExtrasPerStay)
	in := Input{
		Rate:      villaRate(),
		Occupancy: stay.Occupancy{Rooms: 2, Adults: 4, Children: 2},
		Stay:      twoNights(),
		Extras:    []Extra{{ID: "spa", Title: "Spa", Price: 3333}},
		Discount:  1999,
	}

	first, err := c.Price(in)
	require.NoError(t, err)

	second, err := c.Price(in)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)

	b, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, a, b)
}

func TestCalculator_Price_ClampsOccupancy(t *testing.T) {
	c := newTestCalculator(t, ExtrasPerStay)
	rate := villaRate()

	over, err := c.Price(Input{
		Rate:      rate,
		Occupancy: stay.Occupancy{Rooms: rate.MaxRooms + 2, Adults: rate.MaxAdults + 5, Children: rate.MaxChildren + 1},
		Stay:      twoNights(),
	})
	require.NoError(t, err)

	exact, err := c.Price(Input{
		Rate:      rate,
		Occupancy: stay.Occupancy{Rooms: rate.MaxRooms, Adults: rate.MaxAdults, Children: rate.MaxChildren},
		Stay:      twoNights(),
	})
	require.NoError(t, err)

	assert.Equal(t, exact, over)
}

func TestCalculator_Price_TaxBaseIsRoomTotalOnly(t *testing.T) {
	c := newTestCalculator(t, ExtrasPerStay)

	out, err := c.Price(Input{
		Rate:      villaRate(),
		Occupancy: stay.Occupancy{Rooms: 1, Adults: 2},
		Stay:      twoNights(),
		Extras:    []Extra{{ID: "transfer", Price: 40000}},
		Discount:  10000,
	})
	require.NoError(t, err)

	assert.Equal(t, out.RoomTotal.ApplyBasisPoints(1000), out.Tax)
	assert.Equal(t, out.RoomTotal.ApplyBasisPoints(500), out.ServiceCharge)
	assert.Equal(t, out.RoomTotal+out.ExtrasTotal+out.Tax+out.ServiceCharge-out.DiscountAmount, out.GrandTotal)
}

func TestCalculator_Price_Errors(t *testing.T) {
	c := newTestCalculator(t, ExtrasPerStay)

	_, err := c.Price(Input{
		Rate:      villaRate(),
		Occupancy: stay.Occupancy{Rooms: 1, Adults: 2},
		Stay:      stay.DateRange{CheckIn: stay.NewDate(2026, 1, 10), CheckOut: stay.NewDate(2026, 1, 10)},
	})
	assert.ErrorIs(t, err, stay.ErrInvalidDateRange)

	_, err = c.Price(Input{
		Rate:      villaRate(),
		Occupancy: stay.Occupancy{Rooms: 0, Adults: 2},
		Stay:      twoNights(),
	})
	assert.ErrorIs(t, err, ErrInvalidOccupancy)

	bad := villaRate()
	bad.BaseAdults = 0

	_, err = c.Price(Input{Rate: bad, Occupancy: stay.Occupancy{Rooms: 1, Adults: 2}, Stay: twoNights()})
	assert.ErrorIs(t, err, ErrInvalidRateConfig)
}

func TestCalculator_ExtrasChargeModes(t *testing.T) {
	extras := []Extra{{ID: "breakfast", Price: 1500}, {ID: "spa", Price: 2000}}

	tests := []struct {
		mode ExtrasChargeMode
		want Amount
	}{
		{ExtrasPerStay, 3500},
		{ExtrasPerNight, 3500 * 5},
		{ExtrasPerRoomNight, 3500 * 5 * 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			c := newTestCalculator(t, tt.mode)
			assert.Equal(t, tt.want, c.ExtrasTotal(extras, 5, 2))
		})
	}
}

func TestNewCalculator_RejectsBadConfig(t *testing.T) {
	_, err := NewCalculator(Config{TaxRateBP: -1})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewCalculator(Config{ExtrasMode: "per_guest"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestResolveExtras(t *testing.T) {
	catalog := []Extra{{ID: "spa", Price: 100}, {ID: "breakfast", Price: 50}}

	got, err := ResolveExtras(catalog, []string{"breakfast", "spa", "breakfast"})
	require.NoError(t, err)
	assert.Equal(t, []Extra{{ID: "breakfast", Price: 50}, {ID: "spa", Price: 100}}, got)

	_, err = ResolveExtras(catalog, []string{"helicopter"})
	assert.ErrorIs(t, err, ErrUnknownExtra)
}

func TestAmount_ApplyBasisPointsRounding(t *testing.T) {
	assert.Equal(t, Amount(10), Amount(95).ApplyBasisPoints(1000))
	assert.Equal(t, Amount(9), Amount(94).ApplyBasisPoints(1000))
	assert.Equal(t, Amount(-10), Amount(-95).ApplyBasisPoints(1000))
	assert.Equal(t, "1495.00", Amount(149500).String())
}
