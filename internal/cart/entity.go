package cart

import (
	"github.com/avstrong/resort/internal/pricing"
	"github.com/avstrong/resort/internal/stay"
)

// LineItem is one priced room selection in a cart. Stays may differ per item.
type LineItem struct {
	ID        string                 `json:"id"`
	RoomID    string                 `json:"room_id"`
	Stay      stay.DateRange         `json:"stay"`
	Occupancy stay.Occupancy         `json:"occupancy"`
	Extras    []pricing.Extra        `json:"extras"`
	Breakdown pricing.PriceBreakdown `json:"breakdown"`
}

func (li LineItem) ExtraIDs() []string {
	ids := make([]string, 0, len(li.Extras))
	for _, e := range li.Extras {
		ids = append(ids, e.ID)
	}

	return ids
}

// Session is a guest's cart, passed explicitly to pricing and checkout.
type Session struct {
	ID        string     `json:"id"`
	Items     []LineItem `json:"items"`
	PromoCode string     `json:"promo_code,omitempty"`
}

func (s Session) clone() Session {
	s.Items = append([]LineItem(nil), s.Items...)

	return s
}
