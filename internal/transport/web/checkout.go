package web

import (
	"net/http"
	"strings"

	"github.com/avstrong/resort/internal/booking"
)

const idempotencyHeader = "Idempotency-Key"

// scopedKey keeps one client's idempotency keys from colliding with another's.
func scopedKey(kind, owner, key string) string {
	return kind + ":" + owner + ":" + key
}

type checkoutRequest struct {
	Guest booking.Guest `json:"guest"`
}

type quickBookRequest struct {
	RoomID string `json:"room_id"`
	quoteRequest
	Guest booking.Guest `json:"guest"`
}

type statusRequest struct {
	Status booking.Status `json:"status"`
}

func (s *Server) writeConfirmation(w http.ResponseWriter, confirmation *booking.Confirmation) {
	status := http.StatusCreated
	if confirmation.Replayed {
		status = http.StatusOK
	}

	s.writeJSON(w, status, confirmation)
}

func (s *Server) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		s.writeError(w, err)

		return
	}

	idempotencyKey := r.Header.Get(idempotencyHeader)
	if idempotencyKey == "" {
		s.writeError(w, ErrIdempotencyHeader)

		return
	}

	var req checkoutRequest

	if err = decode(r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	ctx := booking.NewContextWithIdempotencyKey(r.Context(), scopedKey("session", id, idempotencyKey))
	sess := s.carts.Snapshot(id)

	totals, _, err := s.cartTotals(ctx, sess)
	if err != nil {
		s.writeError(w, err)

		return
	}

	confirmation, err := s.bManager.CheckoutCart(ctx, sess, totals, req.Guest)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeConfirmation(w, confirmation)
}

// quickBookHandler re-quotes the stay from server-side data before booking it, so the
// guest is charged what the room costs now rather than what their form says.
func (s *Server) quickBookHandler(w http.ResponseWriter, r *http.Request) {
	idempotencyKey := r.Header.Get(idempotencyHeader)
	if idempotencyKey == "" {
		s.writeError(w, ErrIdempotencyHeader)

		return
	}

	var req quickBookRequest

	if err := decode(r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	guestEmail := strings.ToLower(strings.TrimSpace(req.Guest.Contact.Email))
	ctx := booking.NewContextWithIdempotencyKey(r.Context(), scopedKey("guest", guestEmail, idempotencyKey))

	// the first submission already holds the dates, so a retry must not be re-quoted
	replayed, err := s.bManager.Replay(ctx)
	if err != nil {
		s.writeError(w, err)

		return
	}

	if replayed != nil {
		s.writeConfirmation(w, replayed)

		return
	}

	q, err := s.quote(ctx, req.RoomID, req.quoteRequest)
	if err != nil {
		s.writeError(w, err)

		return
	}

	confirmation, err := s.bManager.QuickBook(ctx, booking.RoomEntry{
		RoomID:    q.RoomID,
		Stay:      q.Stay,
		Occupancy: q.Breakdown.Occupancy,
		Extras:    q.Extras,
		Breakdown: q.Breakdown,
	}, req.Guest)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeConfirmation(w, confirmation)
}

func (s *Server) bookingStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req statusRequest

	if err := decode(r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	b, err := s.bManager.Transition(r.Context(), r.PathValue("bookingID"), req.Status)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, b)
}
