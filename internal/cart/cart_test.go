package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avstrong/resort/internal/logger"
	"github.com/avstrong/resort/internal/pricing"
	"github.com/avstrong/resort/internal/stay"
)

type fakeCatalog struct {
	extras []pricing.Extra
	err    error
}

func (f *fakeCatalog) Extras(_ context.Context) ([]pricing.Extra, error) {
	return f.extras, f.err
}

func newTestCalculator(t *testing.T) *pricing.Calculator {
	t.Helper()

	c, err := pricing.NewCalculator(pricing.DefaultConfig())
	require.NoError(t, err)

	return c
}

func priceItem(t *testing.T, calc *pricing.Calculator, roomID string, base pricing.Amount, nights int, extras []pricing.Extra, discount pricing.Amount) LineItem {
	t.Helper()

	r := stay.DateRange{CheckIn: stay.NewDate(2026, 3, 1), CheckOut: stay.NewDate(2026, 3, 1).AddDays(nights)}
	occ := stay.Occupancy{Rooms: 1, Adults: 2}

	b, err := calc.Price(pricing.Input{
		Rate: pricing.RateConfig{
			RoomID: roomID, BasePrice: base, BaseAdults: 2,
			MaxAdults: 4, MaxChildren: 2, MaxRooms: 2,
		},
		Occupancy: occ,
		Stay:      r,
		Extras:    extras,
		Discount:  discount,
	})
	require.NoError(t, err)

	return LineItem{ID: roomID, RoomID: roomID, Stay: r, Occupancy: b.Occupancy, Extras: extras, Breakdown: b}
}

func TestAggregator_Total_RederivesTaxFromBaseTotal(t *testing.T) {
	calc := newTestCalculator(t)
	agg := NewAggregator(logger.Discard(), calc, nil)

	items := []LineItem{
		priceItem(t, calc, "a", 33333, 1, nil, 0),
		priceItem(t, calc, "b", 33333, 1, nil, 0),
		priceItem(t, calc, "c", 33333, 1, nil, 0),
	}

	total := agg.Total(context.Background(), items, 0)

	assert.Equal(t, pricing.Amount(99999), total.RoomTotal)
	assert.Equal(t, pricing.Amount(99999).ApplyBasisPoints(1000), total.Tax)
	assert.Equal(t, pricing.Amount(99999).ApplyBasisPoints(500), total.ServiceCharge)
	assert.Equal(t, total.RoomTotal+total.Tax+total.ServiceCharge, total.GrandTotal)
	assert.Equal(t, 3, total.Occupancy.Rooms)
}

func TestAggregator_Total_RemovingItemMatchesFreshCart(t *testing.T) {
	calc := newTestCalculator(t)
	agg := NewAggregator(logger.Discard(), calc, nil)
	spa := []pricing.Extra{{ID: "spa", Price: 2500}}

	a := priceItem(t, calc, "a", 50000, 2, spa, 1000)
	b := priceItem(t, calc, "b", 42000, 3, nil, 0)
	c := priceItem(t, calc, "c", 61000, 1, spa, 500)

	store := NewStore()
	for _, item := range []LineItem{a, b, c} {
		_, err := store.Add("guest", item)
		require.NoError(t, err)
	}

	items := store.Snapshot("guest").Items
	require.NoError(t, store.Remove("guest", items[1].ID))

	afterRemoval := agg.Total(context.Background(), store.Snapshot("guest").Items, 0)
	fresh := agg.Total(context.Background(), []LineItem{a, c}, 0)

	assert.Equal(t, fresh, afterRemoval)
}

func TestAggregator_Total_UsesCurrentCatalogPrices(t *testing.T) {
	calc := newTestCalculator(t)
	item := priceItem(t, calc, "a", 50000, 2, []pricing.Extra{{ID: "spa", Price: 2500}}, 0)

	agg := NewAggregator(logger.Discard(), calc, &fakeCatalog{extras: []pricing.Extra{{ID: "spa", Price: 3000}}})
	total := agg.Total(context.Background(), []LineItem{item}, 0)

	assert.Equal(t, pricing.Amount(3000), total.ExtrasTotal)
}

func TestAggregator_Total_FallsBackToCachedExtras(t *testing.T) {
	calc := newTestCalculator(t)
	item := priceItem(t, calc, "a", 50000, 2, []pricing.Extra{{ID: "spa", Price: 2500}}, 0)

	down := NewAggregator(logger.Discard(), calc, &fakeCatalog{err: errors.New("catalog down")})
	assert.Equal(t, pricing.Amount(2500), down.Total(context.Background(), []LineItem{item}, 0).ExtrasTotal)

	withdrawn := NewAggregator(logger.Discard(), calc, &fakeCatalog{extras: []pricing.Extra{{ID: "golf", Price: 9000}}})
	assert.Equal(t, pricing.Amount(2500), withdrawn.Total(context.Background(), []LineItem{item}, 0).ExtrasTotal)
}

func TestAggregator_Total_CheckoutDiscountNeverNegative(t *testing.T) {
	calc := newTestCalculator(t)
	agg := NewAggregator(logger.Discard(), calc, nil)
	item := priceItem(t, calc, "a", 50000, 1, nil, 0)

	total := agg.Total(context.Background(), []LineItem{item}, 10_000_000)

	assert.Equal(t, pricing.Amount(0), total.GrandTotal)

	empty := agg.Total(context.Background(), nil, 0)
	assert.Equal(t, pricing.PriceBreakdown{}, empty)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	store := NewStore()

	added, err := store.Add("alice", LineItem{RoomID: "villa"})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)

	_, err = store.Add("", LineItem{})
	assert.ErrorIs(t, err, ErrSessionID)

	require.NoError(t, store.SetPromo("alice", "SUMMER"))

	snap := store.Snapshot("alice")
	assert.Len(t, snap.Items, 1)
	assert.Equal(t, "SUMMER", snap.PromoCode)
	assert.Empty(t, store.Snapshot("bob").Items)

	assert.ErrorIs(t, store.Remove("alice", "missing"), ErrItemNotFound)

	store.Clear("alice")
	assert.Empty(t, store.Snapshot("alice").Items)
}

func TestStore_RemoveItems(t *testing.T) {
	store := NewStore()

	first, err := store.Add("alice", LineItem{RoomID: "villa"})
	require.NoError(t, err)
	second, err := store.Add("alice", LineItem{RoomID: "suite"})
	require.NoError(t, err)
	require.NoError(t, store.SetPromo("alice", "SUMMER"))

	snap := store.Snapshot("alice")

	store.RemoveItems("alice", []string{first.ID, "unknown"})

	left := store.Snapshot("alice")
	require.Len(t, left.Items, 1)
	assert.Equal(t, second.ID, left.Items[0].ID)
	assert.Equal(t, "SUMMER", left.PromoCode)
	assert.Len(t, snap.Items, 2, "earlier snapshot is unaffected")

	store.RemoveItems("alice", []string{second.ID})
	assert.Equal(t, Session{ID: "alice"}, store.Snapshot("alice"))

	store.RemoveItems("bob", []string{first.ID})
	assert.Empty(t, store.Snapshot("bob").Items)
}
