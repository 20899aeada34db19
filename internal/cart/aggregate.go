package cart

import (
	"context"

	"github.com/avstrong/resort/internal/logger"
	"github.com/avstrong/resort/internal/pricing"
	"github.com/avstrong/resort/internal/stay"
)

type extrasCatalog interface {
	Extras(ctx context.Context) ([]pricing.Extra, error)
}

// Aggregator totals a cart by re-deriving every aggregate figure from the current
// line items. Tax and service charge are levied on the summed room totals.
type Aggregator struct {
	l       *logger.Logger
	calc    *pricing.Calculator
	catalog extrasCatalog
}

func NewAggregator(l *logger.Logger, calc *pricing.Calculator, catalog extrasCatalog) *Aggregator {
	return &Aggregator{
		l:       l,
		calc:    calc,
		catalog: catalog,
	}
}

// Total returns the checkout breakdown for items. checkoutDiscount is added on top of
// the per-item discounts (a promo applied to the whole cart).
func (a *Aggregator) Total(ctx context.Context, items []LineItem, checkoutDiscount pricing.Amount) pricing.PriceBreakdown {
	var (
		baseTotal   pricing.Amount
		extrasTotal pricing.Amount
		discount    = max(0, checkoutDiscount)
		occupancy   stay.Occupancy
	)

	prices := a.currentExtraPrices(ctx)

	for _, item := range items {
		baseTotal += item.Breakdown.RoomTotal
		discount += item.Breakdown.DiscountAmount
		extrasTotal += a.itemExtras(item, prices)

		occupancy.Rooms += item.Breakdown.Occupancy.Rooms
		occupancy.Adults += item.Breakdown.Occupancy.Adults
		occupancy.Children += item.Breakdown.Occupancy.Children
	}

	out := a.calc.Summarize(baseTotal, extrasTotal, discount)
	out.Occupancy = occupancy

	return out
}

func (a *Aggregator) currentExtraPrices(ctx context.Context) map[string]pricing.Extra {
	if a.catalog == nil {
		return nil
	}

	extras, err := a.catalog.Extras(ctx)
	if err != nil {
		a.l.LogWarn("Extras catalog unavailable, using cached line item totals: %v", err.Error())

		return nil
	}

	prices := make(map[string]pricing.Extra, len(extras))
	for _, e := range extras {
		prices[e.ID] = e
	}

	return prices
}

// itemExtras reprices an item's extras against the catalog; any miss falls back to the
// total cached on the item.
func (a *Aggregator) itemExtras(item LineItem, prices map[string]pricing.Extra) pricing.Amount {
	if prices == nil {
		return item.Breakdown.ExtrasTotal
	}

	current := make([]pricing.Extra, 0, len(item.Extras))

	for _, e := range item.Extras {
		latest, ok := prices[e.ID]
		if !ok {
			a.l.LogWarn("Extra %q of cart item %q is no longer in the catalog", e.ID, item.ID)

			return item.Breakdown.ExtrasTotal
		}

		current = append(current, latest)
	}

	return a.calc.ExtrasTotal(current, item.Breakdown.Nights, item.Breakdown.Occupancy.Rooms)
}
