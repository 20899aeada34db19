package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/avstrong/resort/internal/boost"
	"github.com/avstrong/resort/internal/booking"
	"github.com/avstrong/resort/internal/logger"
	"github.com/avstrong/resort/internal/pricing"
	"github.com/avstrong/resort/internal/stay"
)

type storage interface {
	BeginTransaction(ctx context.Context, level string) (context.Context, error)
	CommitTransaction(ctx context.Context) error
	RollbackTransaction(ctx context.Context) error
	SaveBooking(ctx context.Context, b *booking.Booking) error
	SaveRoom(ctx context.Context, rc pricing.RateConfig) error
	SaveExtra(ctx context.Context, e pricing.Extra) error
	SavePromo(ctx context.Context, p boost.PromoCode) error
}

var rooms = []pricing.RateConfig{
	{
		RoomID: "garden-villa", BasePrice: 50000, BaseAdults: 2, BaseChildren: 0,
		ExtraAdultPrice: 10000, ExtraChildPrice: 5000, MaxAdults: 4, MaxChildren: 2, MaxRooms: 2,
	},
	{
		RoomID: "ocean-suite", BasePrice: 82000, BaseAdults: 2, BaseChildren: 1,
		ExtraAdultPrice: 15000, ExtraChildPrice: 7500, MaxAdults: 3, MaxChildren: 2, MaxRooms: 1,
	},
	{
		RoomID: "family-bungalow", BasePrice: 64000, BaseAdults: 2, BaseChildren: 2,
		ExtraAdultPrice: 12000, ExtraChildPrice: 4000, MaxAdults: 4, MaxChildren: 4, MaxRooms: 3,
	},
}

var extras = []pricing.Extra{
	{ID: "airport-transfer", Title: "Airport transfer", Price: 4500},
	{ID: "breakfast", Title: "Breakfast buffet", Price: 2500},
	{ID: "spa", Title: "Spa day pass", Price: 9000},
	{ID: "late-checkout", Title: "Late check-out", Price: 3000},
}

// Up seeds rates, extras, promo codes and a few reservations relative to today.
func Up(ctx context.Context, l *logger.Logger, storage storage, now time.Time) (err error) {
	for _, rc := range rooms {
		if err := storage.SaveRoom(ctx, rc); err != nil {
			return fmt.Errorf("save room %s: %w", rc.RoomID, err)
		}
	}

	for _, e := range extras {
		if err := storage.SaveExtra(ctx, e); err != nil {
			return fmt.Errorf("save extra %s: %w", e.ID, err)
		}
	}

	promos := []boost.PromoCode{
		{Code: "SUMMER15", DiscountBP: 1500, ValidThrough: now.AddDate(0, 3, 0)}, //nolint:gomnd
		{Code: "WELCOME200", FlatAmount: 20000, MinOrderAmount: 100000},          //nolint:gomnd
	}

	for _, p := range promos {
		if err := storage.SavePromo(ctx, p); err != nil {
			return fmt.Errorf("save promo %s: %w", p.Code, err)
		}
	}

	today := stay.DateOf(now.UTC())
	reservations := []*booking.Booking{
		seedBooking("seed-1", "garden-villa", today.AddDays(3), today.AddDays(6), now),   //nolint:gomnd
		seedBooking("seed-2", "garden-villa", today.AddDays(10), today.AddDays(12), now), //nolint:gomnd
		seedBooking("seed-3", "ocean-suite", today.AddDays(1), today.AddDays(4), now),    //nolint:gomnd
	}

	ctx, err = storage.BeginTransaction(ctx, "")
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	ctx = booking.NewContextWithIdempotencyKey(ctx, "migration")

	defer func() {
		if p := recover(); p != nil {
			if rbErr := storage.RollbackTransaction(ctx); rbErr != nil {
				l.LogErrorf("Could not rollback migration transaction after panic %v", p)
			}

			l.LogInfo("Migration transaction has been roll backed after panic")

			panic(p)
		}

		if err != nil {
			if rbErr := storage.RollbackTransaction(ctx); rbErr != nil {
				l.LogErrorf("Could not rollback migration transaction after error %v", rbErr.Error())
			}

			l.LogInfo("Migration transaction has been roll backed after error")

			return
		}

		if err = storage.CommitTransaction(ctx); err != nil {
			l.LogErrorf("Could not commit migration transaction, err %v", err.Error())

			return
		}

		l.LogInfo("Migration transaction has been committed")
	}()

	for _, b := range reservations {
		if err = storage.SaveBooking(ctx, b); err != nil {
			return fmt.Errorf("save booking %s to storage: %w", b.ID, err)
		}
	}

	return nil
}

func seedBooking(id, roomID string, checkIn, checkOut stay.Date, now time.Time) *booking.Booking {
	return &booking.Booking{
		ID:            id,
		Mode:          booking.ModeQuick,
		Contact:       booking.Contact{FirstName: "Seed", LastName: "Guest", Email: "seed@example.com", Phone: "0000000000"},
		Rooms:         []booking.RoomEntry{{RoomID: roomID, Stay: stay.DateRange{CheckIn: checkIn, CheckOut: checkOut}}},
		PaymentMode:   booking.PayOnArrival,
		PaymentStatus: booking.PaymentPending,
		Status:        booking.StatusConfirmed,
		CreatedAt:     now.UTC(),
		UpdatedAt:     now.UTC(),
	}
}
