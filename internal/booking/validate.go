package booking

import (
	"net/mail"
	"strings"
	"unicode"

	"github.com/avstrong/resort/internal/pricing"
	"github.com/avstrong/resort/internal/stay"
)

const (
	minPhoneDigits = 10
	maxPhoneDigits = 15
)

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)

	return err == nil && addr.Address == s && strings.Contains(addr.Address[strings.LastIndex(addr.Address, "@"):], ".")
}

func validPhone(s string) bool {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return r
	}, s)
	digits = strings.TrimPrefix(digits, "+")

	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return false
	}

	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

func validTotals(b pricing.PriceBreakdown) bool {
	return b.RoomTotal >= 0 && b.ExtrasTotal >= 0 && b.DiscountAmount >= 0 &&
		b.Tax >= 0 && b.ServiceCharge >= 0 && b.GrandTotal >= 0
}

// validate reports every problem at once; nothing is submitted when it fails.
func (in *CheckoutInput) validate(today stay.Date) error {
	inputErr := newInputError()
	c := in.Guest.Contact

	if strings.TrimSpace(c.FirstName) == "" {
		inputErr.addError("contact.first_name", "provide first name")
	}

	if strings.TrimSpace(c.LastName) == "" {
		inputErr.addError("contact.last_name", "provide last name")
	}

	switch {
	case strings.TrimSpace(c.Email) == "":
		inputErr.addError("contact.email", "provide email")
	case !validEmail(c.Email):
		inputErr.addError("contact.email", "provide valid email")
	}

	switch {
	case strings.TrimSpace(c.Phone) == "":
		inputErr.addError("contact.phone", "provide phone")
	case !validPhone(c.Phone):
		inputErr.addError("contact.phone", "phone must have 10 to 15 digits")
	}

	if strings.TrimSpace(in.Guest.BillingAddressID) == "" {
		inputErr.addError("billing_address_id", "select a billing address")
	}

	if in.Guest.PaymentMode != PayOnArrival && in.Guest.PaymentMode != PayOnline {
		inputErr.addError("payment_mode", "choose pay_on_arrival or online")
	}

	switch in.Mode {
	case ModeCart:
		if len(in.Rooms) == 0 {
			inputErr.addError("rooms", "cart is empty")
		}
	case ModeQuick:
		if len(in.Rooms) != 1 {
			inputErr.addError("rooms", "quick booking takes exactly one room")
		}
	default:
		inputErr.addError("mode", "unknown checkout mode")
	}

	for _, room := range in.Rooms {
		if room.RoomID == "" {
			inputErr.addError("rooms.room_id", "provide room id")
		}

		if room.Stay.CheckIn.IsZero() || room.Stay.CheckIn.Before(today) {
			inputErr.addError("rooms.check_in", "check-in must not be in the past")
		}

		if room.Stay.Validate() != nil {
			inputErr.addError("rooms.check_out", "check-out must be after check-in")
		}

		if !validTotals(room.Breakdown) {
			inputErr.addError("rooms.breakdown", "room totals must not be negative")
		}
	}

	if !validTotals(in.Totals) {
		inputErr.addError("totals", "totals must not be negative")
	}

	if inputErr.fieldsCount() > 0 {
		return inputErr
	}

	return nil
}
