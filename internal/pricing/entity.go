package pricing

import (
	"fmt"

	"github.com/avstrong/resort/internal/stay"
)

const basisPointsDenominator = 10_000

// Amount is a currency value in minor units.
type Amount int64

// ApplyBasisPoints returns a*bp/10000 rounded half away from zero.
func (a Amount) ApplyBasisPoints(bp int64) Amount {
	v := int64(a) * bp
	half := int64(basisPointsDenominator / 2) //nolint:gomnd

	if v < 0 {
		return Amount((v - half) / basisPointsDenominator)
	}

	return Amount((v + half) / basisPointsDenominator)
}

func (a Amount) String() string {
	sign := ""
	v := int64(a)

	if v < 0 {
		sign = "-"
		v = -v
	}

	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100) //nolint:gomnd
}

// RateConfig holds a room's pricing rules.
type RateConfig struct {
	RoomID          string `json:"room_id"`
	BasePrice       Amount `json:"base_price"`
	BaseAdults      int    `json:"base_adults"`
	BaseChildren    int    `json:"base_children"`
	ExtraAdultPrice Amount `json:"extra_adult_price"`
	ExtraChildPrice Amount `json:"extra_child_price"`
	MaxAdults       int    `json:"max_adults"`
	MaxChildren     int    `json:"max_children"`
	MaxRooms        int    `json:"max_rooms"`
}

func (rc RateConfig) Validate() error {
	switch {
	case rc.BaseAdults < 1:
		return fmt.Errorf("room %q: base adults must be at least 1: %w", rc.RoomID, ErrInvalidRateConfig)
	case rc.BaseChildren < 0:
		return fmt.Errorf("room %q: base children must not be negative: %w", rc.RoomID, ErrInvalidRateConfig)
	case rc.MaxAdults < rc.BaseAdults || rc.MaxChildren < rc.BaseChildren:
		return fmt.Errorf("room %q: ceilings below baseline: %w", rc.RoomID, ErrInvalidRateConfig)
	case rc.MaxAdults < 1 || rc.MaxRooms < 1:
		return fmt.Errorf("room %q: ceilings must be positive: %w", rc.RoomID, ErrInvalidRateConfig)
	case rc.BasePrice < 0 || rc.ExtraAdultPrice < 0 || rc.ExtraChildPrice < 0:
		return fmt.Errorf("room %q: prices must not be negative: %w", rc.RoomID, ErrInvalidRateConfig)
	}

	return nil
}

// Extra is a catalog add-on service.
type Extra struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Price Amount `json:"price"`
}

type ExtrasChargeMode string

const (
	ExtrasPerStay      ExtrasChargeMode = "per_stay"
	ExtrasPerNight     ExtrasChargeMode = "per_night"
	ExtrasPerRoomNight ExtrasChargeMode = "per_room_night"
)

func (m ExtrasChargeMode) Valid() bool {
	switch m {
	case ExtrasPerStay, ExtrasPerNight, ExtrasPerRoomNight:
		return true
	}

	return false
}

// PriceBreakdown is derived in full by the calculator; fields are never set independently.
type PriceBreakdown struct {
	Nights          int            `json:"nights"`
	Occupancy       stay.Occupancy `json:"occupancy"`
	PerNightPerRoom Amount         `json:"per_night_per_room"`
	RoomTotal       Amount         `json:"room_total"`
	ExtrasTotal     Amount         `json:"extras_total"`
	DiscountAmount  Amount         `json:"discount_amount"`
	Tax             Amount         `json:"tax"`
	ServiceCharge   Amount         `json:"service_charge"`
	GrandTotal      Amount         `json:"grand_total"`
}

// Input is everything a stay price depends on.
type Input struct {
	Rate      RateConfig
	Occupancy stay.Occupancy
	Stay      stay.DateRange
	Extras    []Extra
	Discount  Amount
}
