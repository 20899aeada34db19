package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avstrong/resort/internal/boost"
	"github.com/avstrong/resort/internal/cart"
	"github.com/avstrong/resort/internal/pricing"
)

const sessionHeader = "X-Session-ID"

type cartItemRequest struct {
	RoomID string `json:"room_id"`
	quoteRequest
}

type cartResponse struct {
	Session cart.Session           `json:"session"`
	Totals  pricing.PriceBreakdown `json:"totals"`
	Promo   *boost.Resolution      `json:"promo,omitempty"`
}

func sessionID(r *http.Request) (string, error) {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		return "", ErrSessionHeader
	}

	return id, nil
}

// cartTotals aggregates the session and applies its promo code to the aggregated
// grand total. An inapplicable code is reported and leaves the totals untouched.
func (s *Server) cartTotals(ctx context.Context, sess cart.Session) (pricing.PriceBreakdown, *boost.Resolution, error) {
	totals := s.aggregator.Total(ctx, sess.Items, 0)

	if sess.PromoCode == "" || len(sess.Items) == 0 {
		return totals, nil, nil
	}

	res, err := s.boost.Resolve(ctx, sess.PromoCode, totals.GrandTotal)
	if err != nil {
		return pricing.PriceBreakdown{}, nil, fmt.Errorf("resolve cart promo: %w", err)
	}

	if res.Valid {
		totals = s.aggregator.Total(ctx, sess.Items, res.DiscountAmount)
	}

	return totals, &res, nil
}

func (s *Server) writeCart(w http.ResponseWriter, r *http.Request, sessionID string, status int) {
	sess := s.carts.Snapshot(sessionID)

	totals, promo, err := s.cartTotals(r.Context(), sess)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, status, cartResponse{Session: sess, Totals: totals, Promo: promo})
}

func (s *Server) getCartHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeCart(w, r, id, http.StatusOK)
}

func (s *Server) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, err)

		return
	}

	var req cartItemRequest

	if err = decode(r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	// Promo codes apply to the whole cart, never to a single line.
	req.PromoCode = ""

	q, err := s.quote(r.Context(), req.RoomID, req.quoteRequest)
	if err != nil {
		s.writeError(w, err)

		return
	}

	item, err := s.carts.Add(id, cart.LineItem{
		RoomID:    q.RoomID,
		Stay:      q.Stay,
		Occupancy: q.Breakdown.Occupancy,
		Extras:    q.Extras,
		Breakdown: q.Breakdown,
	})
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.l.LogInfo("Room %s added to cart %s as item %s", item.RoomID, id, item.ID)

	s.writeCart(w, r, id, http.StatusCreated)
}

func (s *Server) removeCartItemHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, err)

		return
	}

	if err = s.carts.Remove(id, r.PathValue("itemID")); err != nil {
		s.writeError(w, err)

		return
	}

	s.writeCart(w, r, id, http.StatusOK)
}

func (s *Server) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.carts.Clear(id)

	w.WriteHeader(http.StatusNoContent)
}

type cartPromoRequest struct {
	Code string `json:"code"`
}

func (s *Server) cartPromoHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, err)

		return
	}

	var req cartPromoRequest

	if err = decode(r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	if err = s.carts.SetPromo(id, req.Code); err != nil {
		s.writeError(w, err)

		return
	}

	s.writeCart(w, r, id, http.StatusOK)
}

func (s *Server) cartTotalHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, err)

		return
	}

	totals, _, err := s.cartTotals(r.Context(), s.carts.Snapshot(id))
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, totals)
}
