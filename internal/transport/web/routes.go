package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avstrong/resort/internal/booking"
	"github.com/avstrong/resort/internal/cart"
	"github.com/avstrong/resort/internal/pricing"
	"github.com/avstrong/resort/internal/stay"
)

var (
	ErrPastCheckIn       = errors.New("check-in date is in the past")
	ErrBadRequestBody    = errors.New("malformed request body")
	ErrIdempotencyHeader = errors.New("missing Idempotency-Key header")
	ErrSessionHeader     = errors.New("missing X-Session-ID header")
)

type errorResponse struct {
	Error     string `json:"error"`
	Fields    any    `json:"fields,omitempty"`
	Cancelled bool   `json:"cancelled,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.l.LogErrorf("Could not encode response: %v", err.Error())
	}
}

// writeError maps domain errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	if inputErr := booking.IsInputError(err); inputErr != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid input", Fields: inputErr.Fields()})

		return
	}

	if availabilityErr := booking.IsAvailabilityError(err); availabilityErr != nil {
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: "rooms unavailable", Fields: availabilityErr.Fields()})

		return
	}

	if paymentErr := booking.IsPaymentError(err); paymentErr != nil {
		s.writeJSON(w, http.StatusPaymentRequired, errorResponse{Error: paymentErr.Error(), Cancelled: paymentErr.Cancelled})

		return
	}

	switch {
	case errors.Is(err, ErrBadRequestBody),
		errors.Is(err, ErrIdempotencyHeader),
		errors.Is(err, ErrSessionHeader),
		errors.Is(err, ErrPastCheckIn),
		errors.Is(err, stay.ErrInvalidDate),
		errors.Is(err, stay.ErrInvalidDateRange),
		errors.Is(err, pricing.ErrInvalidOccupancy),
		errors.Is(err, pricing.ErrUnknownExtra),
		errors.Is(err, cart.ErrSessionID):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, pricing.ErrRoomNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, booking.ErrRecordNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, booking.ErrIllegalTransition):
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, booking.ErrSubmissionFailed):
		s.l.LogErrorf("Could not submit booking: %v", err.Error())
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "booking could not be submitted, please retry"})
	default:
		s.l.LogErrorf("Could not handle request: %v", err.Error())
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequestBody, err.Error())
	}

	return nil
}

func (s *Server) today() stay.Date {
	return stay.Today(s.now)
}

func (s *Server) livenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) calendarHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	roomID := r.PathValue("roomID")

	anchor := s.today()

	if month := r.URL.Query().Get("month"); month != "" {
		t, err := time.Parse("2006-01", month)
		if err != nil {
			s.writeError(w, fmt.Errorf("month %q: %w", month, stay.ErrInvalidDate))

			return
		}

		anchor = stay.DateOf(t)
	}

	cal, err := s.calendar(ctx, roomID)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, cal.View(anchor, nil))
}

func (s *Server) quoteHandler(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest

	if err := decode(r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	q, err := s.quote(r.Context(), r.PathValue("roomID"), req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, q)
}

func (s *Server) extrasHandler(w http.ResponseWriter, r *http.Request) {
	extras, err := s.rooms.Extras(r.Context())
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, extras)
}

type promoRequest struct {
	Code        string         `json:"code"`
	OrderAmount pricing.Amount `json:"order_amount"`
}

func (s *Server) promoHandler(w http.ResponseWriter, r *http.Request) {
	var req promoRequest

	if err := decode(r, &req); err != nil {
		s.writeError(w, err)

		return
	}

	res, err := s.boost.Resolve(r.Context(), req.Code, req.OrderAmount)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) route(h http.HandlerFunc) http.Handler {
	return s.applyMiddlewares(h, s.recoverMiddleware(), s.loggerMiddleware(), s.requestIDMiddleware())
}

func (s *Server) addRoutes(r *http.ServeMux) {
	r.Handle("GET /api/rooms/{roomID}/calendar", s.route(s.calendarHandler))
	r.Handle("POST /api/rooms/{roomID}/quote", s.route(s.quoteHandler))
	r.Handle("GET /api/extras", s.route(s.extrasHandler))
	r.Handle("POST /api/promo/validate", s.route(s.promoHandler))

	r.Handle("GET /api/cart", s.route(s.getCartHandler))
	r.Handle("POST /api/cart/items", s.route(s.addCartItemHandler))
	r.Handle("DELETE /api/cart/items/{itemID}", s.route(s.removeCartItemHandler))
	r.Handle("DELETE /api/cart", s.route(s.clearCartHandler))
	r.Handle("PUT /api/cart/promo", s.route(s.cartPromoHandler))
	r.Handle("GET /api/cart/total", s.route(s.cartTotalHandler))

	r.Handle("POST /api/checkout", s.route(s.checkoutHandler))
	r.Handle("POST /api/bookings", s.route(s.quickBookHandler))
	r.Handle("PATCH /api/bookings/{bookingID}/status", s.route(s.bookingStatusHandler))

	r.Handle(fmt.Sprintf("GET %s", s.conf.LivenessEndpoint), s.route(s.livenessHandler))
}
