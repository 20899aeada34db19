package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/avstrong/resort/internal/boost"
	"github.com/avstrong/resort/internal/booking"
	"github.com/avstrong/resort/internal/logger"
	"github.com/avstrong/resort/internal/pricing"
	"github.com/avstrong/resort/internal/stay"
)

type trxKey struct{}

func withTransactionID(ctx context.Context, trxID string) context.Context {
	return context.WithValue(ctx, trxKey{}, trxID)
}

func transactionIDFromContext(ctx context.Context) (string, bool) {
	trxID, ok := ctx.Value(trxKey{}).(string)

	return trxID, ok
}

type Config struct {
	L *logger.Logger
}

type transaction struct {
	id                   string
	bookingModifications map[string]*booking.Booking
	pointsModifications  map[string]int64
}

type DB struct {
	mu                     sync.Mutex
	l                      *logger.Logger
	rooms                  map[string]pricing.RateConfig
	extras                 map[string]pricing.Extra
	promos                 map[string]*boost.PromoCode
	bookings               map[string]*booking.Booking
	loyalty                map[string]int64
	transactions           map[string]*transaction
	nextTrxID              int64
	bookingIdempotencyKeys map[string]*booking.Booking
}

func New(conf Config) *DB {
	//nolint:exhaustruct
	return &DB{
		l:                      conf.L,
		rooms:                  make(map[string]pricing.RateConfig),
		extras:                 make(map[string]pricing.Extra),
		promos:                 make(map[string]*boost.PromoCode),
		bookings:               make(map[string]*booking.Booking),
		loyalty:                make(map[string]int64),
		transactions:           make(map[string]*transaction),
		bookingIdempotencyKeys: make(map[string]*booking.Booking),
	}
}

func (db *DB) BeginTransaction(ctx context.Context, _ string) (context.Context, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	trxID := fmt.Sprintf("trx-%d", db.nextTrxID)
	db.nextTrxID++

	db.transactions[trxID] = &transaction{
		id:                   trxID,
		bookingModifications: make(map[string]*booking.Booking),
		pointsModifications:  make(map[string]int64),
	}

	return withTransactionID(ctx, trxID), nil
}

// transaction must be called with db.mu held.
func (db *DB) transaction(ctx context.Context) (*transaction, error) {
	trxID, ok := transactionIDFromContext(ctx)
	if !ok || trxID == "" {
		return nil, ErrTransactionIDNotFoundInCtx
	}

	trx, exists := db.transactions[trxID]
	if !exists {
		return nil, fmt.Errorf("transaction %s not found: %w", trxID, ErrTransactionNotFound)
	}

	return trx, nil
}

// CommitTransaction applies the buffered writes. Room conflicts are checked again
// here under the lock, so two transactions cannot both take the same night.
func (db *DB) CommitTransaction(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	trx, err := db.transaction(ctx)
	if err != nil {
		return err
	}

	idempotencyKey, ok := booking.IdempotencyKeyFromContext(ctx)
	if !ok {
		return booking.ErrIdempotencyKey
	}

	if existing, ok := db.bookingIdempotencyKeys[idempotencyKey]; ok && len(trx.bookingModifications) > 0 {
		delete(db.transactions, trx.id)

		return fmt.Errorf("key %q taken by booking %s: %w", idempotencyKey, existing.ID, booking.ErrAlreadySubmitted)
	}

	for _, b := range trx.bookingModifications {
		if err := db.checkConflicts(b, nil); err != nil {
			delete(db.transactions, trx.id)

			return err
		}
	}

	for _, b := range trx.bookingModifications {
		stored := *b
		db.bookings[b.ID] = &stored
		db.bookingIdempotencyKeys[idempotencyKey] = &stored
	}

	for email, points := range trx.pointsModifications {
		db.loyalty[email] += points
	}

	delete(db.transactions, trx.id)

	return nil
}

func (db *DB) RollbackTransaction(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	trx, err := db.transaction(ctx)
	if err != nil {
		return err
	}

	delete(db.transactions, trx.id)

	return nil
}

// checkConflicts must be called with db.mu held. pending holds bookings of the same
// transaction not yet committed.
func (db *DB) checkConflicts(b *booking.Booking, pending map[string]*booking.Booking) error {
	availabilityErr := booking.NewAvailabilityError()

	for _, room := range b.Rooms {
		var taken []stay.Date

		collect := func(other *booking.Booking) {
			if other.ID == b.ID || !other.Status.Active() {
				return
			}

			for _, r := range other.Rooms {
				if r.RoomID != room.RoomID || !r.Stay.Overlaps(room.Stay) {
					continue
				}

				room.Stay.Each(func(d stay.Date) {
					if !d.Before(r.Stay.CheckIn) && d.Before(r.Stay.CheckOut) {
						taken = append(taken, d)
					}
				})
			}
		}

		for _, other := range db.bookings {
			collect(other)
		}

		for _, other := range pending {
			collect(other)
		}

		if len(taken) > 0 {
			sort.Slice(taken, func(i, j int) bool { return taken[i].Before(taken[j]) })
			availabilityErr.AddUnavailableRoom(room.RoomID, taken)
		}
	}

	if availabilityErr.UnavailableRoomsCount() > 0 {
		return availabilityErr
	}

	return nil
}

func (db *DB) SaveBooking(ctx context.Context, b *booking.Booking) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	trx, err := db.transaction(ctx)
	if err != nil {
		return err
	}

	if _, ok := trx.bookingModifications[b.ID]; ok {
		return nil
	}

	if key, ok := booking.IdempotencyKeyFromContext(ctx); ok {
		if existing, taken := db.bookingIdempotencyKeys[key]; taken {
			return fmt.Errorf("key %q taken by booking %s: %w", key, existing.ID, booking.ErrAlreadySubmitted)
		}
	}

	if err := db.checkConflicts(b, trx.bookingModifications); err != nil {
		return err
	}

	trx.bookingModifications[b.ID] = b

	return nil
}

func (db *DB) CreditLoyaltyPoints(ctx context.Context, email string, points int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	trx, err := db.transaction(ctx)
	if err != nil {
		return err
	}

	trx.pointsModifications[email] += points

	return nil
}

func (db *DB) LoyaltyBalance(_ context.Context, email string) int64 {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.loyalty[email]
}

func (db *DB) GetBookingByIdempotencyKey(ctx context.Context) (*booking.Booking, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key, ok := booking.IdempotencyKeyFromContext(ctx)
	if !ok {
		return nil, booking.ErrIdempotencyKey
	}

	b, exists := db.bookingIdempotencyKeys[key]
	if exists {
		cp := *b

		return &cp, nil
	}

	return nil, booking.ErrRecordNotFound
}

func (db *DB) GetBooking(_ context.Context, id string) (*booking.Booking, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	b, ok := db.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, booking.ErrRecordNotFound)
	}

	cp := *b

	return &cp, nil
}

// UpdateBookingStatus moves a booking from one status to another. It fails with
// booking.ErrIllegalTransition when the stored status is no longer from.
func (db *DB) UpdateBookingStatus(_ context.Context, id string, from, to booking.Status, at time.Time) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	b, ok := db.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s: %w", id, booking.ErrRecordNotFound)
	}

	if b.Status != from {
		return fmt.Errorf("booking %s is %s, not %s: %w", id, b.Status, from, booking.ErrIllegalTransition)
	}

	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%s -> %s: %w", from, to, booking.ErrIllegalTransition)
	}

	b.Status = to
	b.UpdatedAt = at

	return nil
}

// ListRoomReservations returns the stays of every active booking holding roomID.
func (db *DB) ListRoomReservations(_ context.Context, roomID string) ([]stay.DateRange, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.rooms[roomID]; !ok {
		return nil, fmt.Errorf("room %s: %w", roomID, pricing.ErrRoomNotFound)
	}

	var out []stay.DateRange

	for _, b := range db.bookings {
		if !b.Status.Active() {
			continue
		}

		for _, r := range b.Rooms {
			if r.RoomID == roomID {
				out = append(out, r.Stay)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })

	return out, nil
}
