package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/avstrong/resort/internal/calendar"
	"github.com/avstrong/resort/internal/cart"
	"github.com/avstrong/resort/internal/logger"
	"github.com/avstrong/resort/internal/payment"
	"github.com/avstrong/resort/internal/pricing"
	"github.com/avstrong/resort/internal/stay"
)

type idGenerator interface {
	GetID(ctx context.Context) (string, error)
}

type storageReader interface {
	ListRoomReservations(ctx context.Context, roomID string) ([]stay.DateRange, error)
	GetBookingByIdempotencyKey(ctx context.Context) (*Booking, error)
	GetBooking(ctx context.Context, id string) (*Booking, error)
}

type storageWriter interface {
	BeginTransaction(ctx context.Context, level string) (context.Context, error)
	CommitTransaction(ctx context.Context) error
	RollbackTransaction(ctx context.Context) error
	SaveBooking(ctx context.Context, b *Booking) error
	CreditLoyaltyPoints(ctx context.Context, email string, points int64) error
	UpdateBookingStatus(ctx context.Context, id string, from, to Status, at time.Time) error
}

// Store is the booking record store.
type Store interface {
	storageReader
	storageWriter
}

type paymentAuthorizer interface {
	Authorize(ctx context.Context, req payment.Request) (payment.Authorization, error)
	Void(ctx context.Context, ref string) error
}

type cartItemRemover interface {
	RemoveItems(sessionID string, itemIDs []string)
}

type Config struct {
	L        *logger.Logger
	Currency string
	// LoyaltyPointsPerUnit is the number of points earned per whole currency unit paid.
	LoyaltyPointsPerUnit int64
	Now                  func() time.Time
}

// Manager finalizes checkouts into bookings and drives their settlement.
type Manager struct {
	l           *logger.Logger
	storage     Store
	idGenerator idGenerator
	payments    paymentAuthorizer
	carts       cartItemRemover
	tracer      trace.Tracer
	currency    string
	pointsRate  int64
	now         func() time.Time
}

func New(conf Config, storage Store, idGenerator idGenerator, payments paymentAuthorizer, carts cartItemRemover) *Manager {
	now := conf.Now
	if now == nil {
		now = time.Now
	}

	return &Manager{
		l:           conf.L,
		storage:     storage,
		idGenerator: idGenerator,
		payments:    payments,
		carts:       carts,
		tracer:      otel.Tracer("github.com/avstrong/resort/internal/booking"),
		currency:    conf.Currency,
		pointsRate:  conf.LoyaltyPointsPerUnit,
		now:         now,
	}
}

// LoyaltyPoints converts a paid total (minor units) into points, rounding down.
func (m *Manager) LoyaltyPoints(total pricing.Amount) int64 {
	if total <= 0 || m.pointsRate <= 0 {
		return 0
	}

	return int64(total) * m.pointsRate / 100 //nolint:gomnd
}

// CheckoutCart books every line item of the session at the aggregated totals.
func (m *Manager) CheckoutCart(ctx context.Context, sess cart.Session, totals pricing.PriceBreakdown, guest Guest) (*Confirmation, error) {
	rooms := make([]RoomEntry, 0, len(sess.Items))
	itemIDs := make([]string, 0, len(sess.Items))

	for _, item := range sess.Items {
		itemIDs = append(itemIDs, item.ID)
		rooms = append(rooms, RoomEntry{
			RoomID:    item.RoomID,
			Stay:      item.Stay,
			Occupancy: item.Occupancy,
			Extras:    item.Extras,
			Breakdown: item.Breakdown,
		})
	}

	return m.Finalize(ctx, &CheckoutInput{
		Mode:      ModeCart,
		SessionID: sess.ID,
		ItemIDs:   itemIDs,
		Guest:     guest,
		Rooms:     rooms,
		Totals:    totals,
	})
}

// QuickBook books a single room at the breakdown it was quoted at.
func (m *Manager) QuickBook(ctx context.Context, room RoomEntry, guest Guest) (*Confirmation, error) {
	return m.Finalize(ctx, &CheckoutInput{
		Mode:   ModeQuick,
		Guest:  guest,
		Rooms:  []RoomEntry{room},
		Totals: room.Breakdown,
	})
}

// Finalize validates the input, settles payment and persists the booking. On any
// failure nothing is committed and the cart is left as it was.
func (m *Manager) Finalize(ctx context.Context, input *CheckoutInput) (_ *Confirmation, err error) {
	ctx, span := m.tracer.Start(ctx, "booking.Finalize", trace.WithAttributes(
		attribute.String("booking.mode", string(input.Mode)),
		attribute.String("booking.payment_mode", string(input.Guest.PaymentMode)),
		attribute.Int("booking.rooms", len(input.Rooms)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		span.End()
	}()

	replayed, err := m.Replay(ctx)
	if err != nil || replayed != nil {
		return replayed, err
	}

	if err := input.validate(stay.Today(m.now)); err != nil {
		return nil, err
	}

	if err := m.checkAvailability(ctx, input.Rooms); err != nil {
		return nil, err
	}

	booking, err := m.buildBooking(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("build booking: %w", err)
	}

	if input.Guest.PaymentMode == PayOnline {
		auth, err := m.authorize(ctx, input)
		if err != nil {
			return nil, err
		}

		booking.TransactionRef = auth.TransactionRef
		booking.PaymentStatus = PaymentPaid
		booking.Status = StatusPaid
	}

	if err := m.persist(ctx, booking); err != nil {
		m.voidPayment(ctx, booking)

		if errors.Is(err, ErrAlreadySubmitted) {
			if replayed, replayErr := m.Replay(ctx); replayErr == nil && replayed != nil {
				return replayed, nil
			}
		}

		return nil, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	// items added to the cart after it was priced stay there
	if input.Mode == ModeCart && m.carts != nil {
		m.carts.RemoveItems(input.SessionID, input.ItemIDs)
	}

	m.l.LogInfo(
		"Booking %s created, mode: %s, payment: %s, rooms: %d, total: %v %s",
		booking.ID, booking.Mode, booking.PaymentMode, len(booking.Rooms), booking.Totals.GrandTotal, booking.Currency,
	)

	return &Confirmation{Booking: booking, LoyaltyPoints: booking.LoyaltyPoints}, nil
}

// Replay returns the booking already created under the context's idempotency key, or
// nil if this is the first submission. The cart may already be empty by then.
func (m *Manager) Replay(ctx context.Context) (*Confirmation, error) {
	existing, err := m.storage.GetBookingByIdempotencyKey(ctx)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, nil //nolint:nilnil
	}

	if err != nil {
		return nil, fmt.Errorf("get booking by idempotency key: %w", err)
	}

	m.l.LogInfo("Replaying booking %s for repeated submission", existing.ID)

	return &Confirmation{Booking: existing, LoyaltyPoints: existing.LoyaltyPoints, Replayed: true}, nil
}

// checkAvailability re-reads each room's reservations so a stale calendar fails
// before the guest is charged. The store repeats the check when saving.
func (m *Manager) checkAvailability(ctx context.Context, rooms []RoomEntry) error {
	availabilityErr := NewAvailabilityError()
	today := stay.Today(m.now)

	for i, room := range rooms {
		reservations, err := m.storage.ListRoomReservations(ctx, room.RoomID)
		if err != nil {
			return fmt.Errorf("list reservations of room %s: %w", room.RoomID, err)
		}

		// rooms earlier in the same checkout count as taken
		for _, prev := range rooms[:i] {
			if prev.RoomID == room.RoomID {
				reservations = append(reservations, prev.Stay)
			}
		}

		if taken := calendar.New(today, reservations).BlockedIn(room.Stay); len(taken) > 0 {
			availabilityErr.AddUnavailableRoom(room.RoomID, taken)
		}
	}

	if availabilityErr.UnavailableRoomsCount() > 0 {
		return availabilityErr
	}

	return nil
}

func (m *Manager) buildBooking(ctx context.Context, input *CheckoutInput) (*Booking, error) {
	id, err := m.idGenerator.GetID(ctx)
	if err != nil {
		return nil, ErrNextID
	}

	now := m.now().UTC()

	return &Booking{
		ID:               id,
		Mode:             input.Mode,
		Contact:          input.Guest.Contact,
		BillingAddressID: input.Guest.BillingAddressID,
		Rooms:            input.Rooms,
		Totals:           input.Totals,
		Currency:         m.currency,
		PaymentMode:      input.Guest.PaymentMode,
		PaymentStatus:    PaymentPending,
		Status:           StatusConfirmed,
		LoyaltyPoints:    m.LoyaltyPoints(input.Totals.GrandTotal),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func (m *Manager) authorize(ctx context.Context, input *CheckoutInput) (payment.Authorization, error) {
	auth, err := m.payments.Authorize(ctx, payment.Request{
		Amount:   input.Totals.GrandTotal,
		Currency: m.currency,
		Email:    input.Guest.Contact.Email,
		Name:     input.Guest.Contact.FullName(),
		Token:    input.Guest.PaymentToken,
	})
	if err == nil {
		return auth, nil
	}

	if errors.Is(err, payment.ErrCancelled) {
		m.l.LogInfo("Online payment cancelled by guest %s", input.Guest.Contact.Email)

		return payment.Authorization{}, &PaymentError{Cancelled: true, Reason: err.Error(), err: err}
	}

	m.l.LogErrorf("Online payment failed for guest %s: %v", input.Guest.Contact.Email, err.Error())

	return payment.Authorization{}, &PaymentError{Cancelled: false, Reason: err.Error(), err: err}
}

func (m *Manager) voidPayment(ctx context.Context, booking *Booking) {
	if booking.TransactionRef == "" {
		return
	}

	if err := m.payments.Void(context.WithoutCancel(ctx), booking.TransactionRef); err != nil {
		m.l.LogErrorf("Could not void payment %s after failed submission: %v", booking.TransactionRef, err.Error())

		return
	}

	m.l.LogInfo("Payment %s voided after failed submission", booking.TransactionRef)
}

func (m *Manager) persist(ctx context.Context, booking *Booking) (err error) {
	ctx, err = m.storage.BeginTransaction(ctx, "SERIALIZABLE")
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := m.storage.RollbackTransaction(ctx); rbErr != nil {
				m.l.LogErrorf("Could not rollback booking transaction after panic %v", p)
			}

			m.l.LogInfo("Transaction has been roll backed after panic")

			panic(p)
		}

		if err != nil {
			if rbErr := m.storage.RollbackTransaction(ctx); rbErr != nil {
				m.l.LogErrorf("Could not rollback booking transaction after error %v", rbErr.Error())
			}

			m.l.LogInfo("Transaction has been roll backed after error")

			return
		}

		if err = m.storage.CommitTransaction(ctx); err != nil {
			m.l.LogErrorf("Could not commit booking transaction, err %v", err.Error())

			return
		}

		m.l.LogInfo("Transaction has been committed")
	}()

	if err = m.storage.SaveBooking(ctx, booking); err != nil {
		return fmt.Errorf("save booking to storage: %w", err)
	}

	if booking.LoyaltyPoints > 0 {
		if err = m.storage.CreditLoyaltyPoints(ctx, booking.Contact.Email, booking.LoyaltyPoints); err != nil {
			return fmt.Errorf("credit loyalty points: %w", err)
		}
	}

	return nil
}

// Transition moves a booking along its lifecycle.
func (m *Manager) Transition(ctx context.Context, id string, next Status) (*Booking, error) {
	b, err := m.storage.GetBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", id, err)
	}

	if !b.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%s -> %s: %w", b.Status, next, ErrIllegalTransition)
	}

	// the store re-checks b.Status under its lock, a concurrent transition fails here
	if err := m.storage.UpdateBookingStatus(ctx, id, b.Status, next, m.now().UTC()); err != nil {
		return nil, fmt.Errorf("update booking %s status: %w", id, err)
	}

	m.l.LogInfo("Booking %s moved from %s to %s", id, b.Status, next)

	return m.storage.GetBooking(ctx, id)
}
