package pricing

import "fmt"

type Config struct {
	TaxRateBP       int64
	ServiceChargeBP int64
	ExtrasMode      ExtrasChargeMode
}

func DefaultConfig() Config {
	return Config{
		TaxRateBP:       1000, //nolint:gomnd
		ServiceChargeBP: 500,  //nolint:gomnd
		ExtrasMode:      ExtrasPerStay,
	}
}

// Calculator prices stays. It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	conf Config
}

func NewCalculator(conf Config) (*Calculator, error) {
	if conf.TaxRateBP < 0 || conf.ServiceChargeBP < 0 {
		return nil, fmt.Errorf("negative rate: %w", ErrInvalidConfig)
	}

	if conf.ExtrasMode == "" {
		conf.ExtrasMode = ExtrasPerStay
	}

	if !conf.ExtrasMode.Valid() {
		return nil, fmt.Errorf("extras charge mode %q: %w", conf.ExtrasMode, ErrInvalidConfig)
	}

	return &Calculator{conf: conf}, nil
}

func (c *Calculator) Config() Config {
	return c.conf
}

// Price computes the breakdown for a single room selection. Occupancy above the
// room ceilings is clamped, a zero or negative room count is a caller bug.
func (c *Calculator) Price(in Input) (PriceBreakdown, error) {
	if err := in.Rate.Validate(); err != nil {
		return PriceBreakdown{}, err
	}

	if in.Occupancy.Rooms <= 0 {
		return PriceBreakdown{}, fmt.Errorf("rooms %d: %w", in.Occupancy.Rooms, ErrInvalidOccupancy)
	}

	occ := in.Occupancy.Clamp(in.Rate.MaxRooms, in.Rate.MaxAdults, in.Rate.MaxChildren)

	extraAdults := max(0, occ.Adults-in.Rate.BaseAdults)
	extraChildren := max(0, occ.Children-in.Rate.BaseChildren)

	perNight := in.Rate.BasePrice +
		Amount(extraAdults)*in.Rate.ExtraAdultPrice +
		Amount(extraChildren)*in.Rate.ExtraChildPrice

	if err := in.Stay.Validate(); err != nil {
		return PriceBreakdown{}, err
	}

	nights := in.Stay.Nights()
	roomTotal := perNight * Amount(nights) * Amount(occ.Rooms)
	extrasTotal := c.ExtrasTotal(in.Extras, nights, occ.Rooms)

	out := c.Summarize(roomTotal, extrasTotal, in.Discount)
	out.Nights = nights
	out.Occupancy = occ
	out.PerNightPerRoom = perNight

	return out, nil
}

// ExtrasTotal charges each extra according to the configured mode.
func (c *Calculator) ExtrasTotal(extras []Extra, nights, rooms int) Amount {
	var multiplier Amount

	switch c.conf.ExtrasMode {
	case ExtrasPerNight:
		multiplier = Amount(nights)
	case ExtrasPerRoomNight:
		multiplier = Amount(nights) * Amount(rooms)
	default:
		multiplier = 1
	}

	var total Amount

	for _, e := range extras {
		total += e.Price * multiplier
	}

	return total
}

// Summarize derives tax, service charge, and grand total from the room and extras
// totals. Tax and service charge are levied on the room total only. The discount is
// clamped to the gross amount (room + extras + tax + service charge), not to room +
// extras, so a discount above the gross yields a zero grand total rather than a
// residual tax charge.
func (c *Calculator) Summarize(roomTotal, extrasTotal, discount Amount) PriceBreakdown {
	tax := roomTotal.ApplyBasisPoints(c.conf.TaxRateBP)
	serviceCharge := roomTotal.ApplyBasisPoints(c.conf.ServiceChargeBP)
	gross := roomTotal + extrasTotal + tax + serviceCharge

	discount = min(max(0, discount), max(0, gross))

	return PriceBreakdown{
		RoomTotal:      roomTotal,
		ExtrasTotal:    extrasTotal,
		DiscountAmount: discount,
		Tax:            tax,
		ServiceCharge:  serviceCharge,
		GrandTotal:     max(0, gross-discount),
	}
}

// ResolveExtras maps selected ids onto catalog entries. Duplicate ids count once.
func ResolveExtras(catalog []Extra, ids []string) ([]Extra, error) {
	byID := make(map[string]Extra, len(catalog))
	for _, e := range catalog {
		byID[e.ID] = e
	}

	seen := make(map[string]struct{}, len(ids))
	out := make([]Extra, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}

		e, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("extra %q: %w", id, ErrUnknownExtra)
		}

		out = append(out, e)
	}

	return out, nil
}
