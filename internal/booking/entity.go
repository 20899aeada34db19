package booking

import (
	"time"

	"github.com/avstrong/resort/internal/pricing"
	"github.com/avstrong/resort/internal/stay"
)

type Mode string

const (
	ModeCart  Mode = "cart"
	ModeQuick Mode = "quick"
)

type PaymentMode string

const (
	PayOnArrival PaymentMode = "pay_on_arrival"
	PayOnline    PaymentMode = "online"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusPaid, StatusCancelled},
	StatusConfirmed: {StatusPaid, StatusCancelled, StatusCompleted},
	StatusPaid:      {StatusCancelled, StatusCompleted},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Active reports whether the booking still holds its rooms.
func (s Status) Active() bool {
	return s != StatusCancelled
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

type Contact struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// RoomEntry is one reserved room with the price it was booked at.
type RoomEntry struct {
	RoomID    string                 `json:"room_id"`
	Stay      stay.DateRange         `json:"stay"`
	Occupancy stay.Occupancy         `json:"occupancy"`
	Extras    []pricing.Extra        `json:"extras,omitempty"`
	Breakdown pricing.PriceBreakdown `json:"breakdown"`
}

// Guest is what the guest fills in on the checkout form.
type Guest struct {
	Contact          Contact     `json:"contact"`
	BillingAddressID string      `json:"billing_address_id"`
	PaymentMode      PaymentMode `json:"payment_mode"`
	PaymentToken     string      `json:"payment_token,omitempty"`
}

// CheckoutInput is the single shape both checkout modes are reduced to.
type CheckoutInput struct {
	Mode      Mode
	SessionID string
	ItemIDs   []string
	Guest     Guest
	Rooms     []RoomEntry
	Totals    pricing.PriceBreakdown
}

// Booking is the persisted reservation. Only Status and UpdatedAt change after creation.
type Booking struct {
	ID               string                 `json:"id"`
	Mode             Mode                   `json:"mode"`
	Contact          Contact                `json:"contact"`
	BillingAddressID string                 `json:"billing_address_id"`
	Rooms            []RoomEntry            `json:"rooms"`
	Totals           pricing.PriceBreakdown `json:"totals"`
	Currency         string                 `json:"currency"`
	PaymentMode      PaymentMode            `json:"payment_mode"`
	PaymentStatus    PaymentStatus          `json:"payment_status"`
	TransactionRef   string                 `json:"transaction_ref,omitempty"`
	Status           Status                 `json:"status"`
	LoyaltyPoints    int64                  `json:"loyalty_points"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

type Confirmation struct {
	Booking       *Booking `json:"booking"`
	LoyaltyPoints int64    `json:"loyalty_points"`
	Replayed      bool     `json:"replayed"`
}
