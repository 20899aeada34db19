package web

import (
	"context"
	"fmt"

	"github.com/avstrong/resort/internal/boost"
	"github.com/avstrong/resort/internal/booking"
	"github.com/avstrong/resort/internal/calendar"
	"github.com/avstrong/resort/internal/pricing"
	"github.com/avstrong/resort/internal/stay"
)

type quoteRequest struct {
	CheckIn   stay.Date `json:"check_in"`
	CheckOut  stay.Date `json:"check_out"`
	Rooms     int       `json:"rooms"`
	Adults    int       `json:"adults"`
	Children  int       `json:"children"`
	Extras    []string  `json:"extras"`
	PromoCode string    `json:"promo_code,omitempty"`
}

func (q quoteRequest) dateRange() stay.DateRange {
	return stay.DateRange{CheckIn: q.CheckIn, CheckOut: q.CheckOut}
}

type quoteResponse struct {
	RoomID    string                 `json:"room_id"`
	Stay      stay.DateRange         `json:"stay"`
	Extras    []pricing.Extra        `json:"extras"`
	Breakdown pricing.PriceBreakdown `json:"breakdown"`
	Promo     *boost.Resolution      `json:"promo,omitempty"`
}

func (s *Server) calendar(ctx context.Context, roomID string) (*calendar.Calendar, error) {
	reservations, err := s.rooms.ListRoomReservations(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("list reservations of room %s: %w", roomID, err)
	}

	return calendar.New(s.today(), reservations), nil
}

// quote prices a stay of roomID from current server-side data. The promo code, if any,
// is resolved against the undiscounted grand total and applied as a second pass.
func (s *Server) quote(ctx context.Context, roomID string, req quoteRequest) (*quoteResponse, error) {
	rc, err := s.rooms.RateConfig(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get rate config: %w", err)
	}

	r := req.dateRange()
	if err := r.Validate(); err != nil {
		return nil, err
	}

	cal, err := s.calendar(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if r.CheckIn.Before(cal.Today()) {
		return nil, fmt.Errorf("%s: %w", r.CheckIn, ErrPastCheckIn)
	}

	if !cal.RangeAvailable(r) {
		availabilityErr := booking.NewAvailabilityError()
		availabilityErr.AddUnavailableRoom(roomID, cal.BlockedIn(r))

		return nil, availabilityErr
	}

	catalog, err := s.rooms.Extras(ctx)
	if err != nil {
		return nil, fmt.Errorf("get extras catalog: %w", err)
	}

	extras, err := pricing.ResolveExtras(catalog, req.Extras)
	if err != nil {
		return nil, err
	}

	in := pricing.Input{
		Rate:      rc,
		Occupancy: stay.Occupancy{Rooms: req.Rooms, Adults: req.Adults, Children: req.Children},
		Stay:      r,
		Extras:    extras,
	}

	breakdown, err := s.calc.Price(in)
	if err != nil {
		return nil, fmt.Errorf("price stay: %w", err)
	}

	out := &quoteResponse{
		RoomID:    roomID,
		Stay:      r,
		Extras:    extras,
		Breakdown: breakdown,
	}

	if req.PromoCode == "" {
		return out, nil
	}

	res, err := s.boost.Resolve(ctx, req.PromoCode, breakdown.GrandTotal)
	if err != nil {
		return nil, fmt.Errorf("resolve promo: %w", err)
	}

	out.Promo = &res

	if res.Valid {
		in.Discount = res.DiscountAmount

		if out.Breakdown, err = s.calc.Price(in); err != nil {
			return nil, fmt.Errorf("price stay with discount: %w", err)
		}
	}

	return out, nil
}
