package booking

import (
	"errors"
	"fmt"
	"sort"

	"github.com/avstrong/resort/internal/stay"
)

var (
	ErrIdempotencyKey    = errors.New("idempotency key not found")
	ErrNextID            = errors.New("get next id from generator")
	ErrRecordNotFound    = errors.New("record not found")
	ErrSubmissionFailed  = errors.New("booking submission failed")
	ErrIllegalTransition = errors.New("illegal booking status transition")
	ErrAlreadySubmitted  = errors.New("booking already submitted with this idempotency key")
)

type AvailabilityError struct {
	errors []string
}

func NewAvailabilityError() *AvailabilityError {
	//nolint:exhaustruct
	return &AvailabilityError{}
}

func IsAvailabilityError(err error) *AvailabilityError {
	if err == nil {
		return nil
	}

	var availabilityError *AvailabilityError

	if errors.As(err, &availabilityError) {
		return availabilityError
	}

	return nil
}

func (e *AvailabilityError) AddUnavailableRoom(roomID string, dates []stay.Date) {
	e.errors = append(e.errors, fmt.Sprintf("room '%v' is unavailable on following dates %v", roomID, dates))
}

func (e *AvailabilityError) Error() string {
	return fmt.Sprintf("%+v", e.errors)
}

func (e *AvailabilityError) Fields() []string {
	return e.errors
}

func (e *AvailabilityError) UnavailableRoomsCount() int {
	return len(e.errors)
}

type InputError struct {
	fields map[string][]string
}

func newInputError() *InputError {
	return &InputError{
		fields: make(map[string][]string),
	}
}

func IsInputError(err error) *InputError {
	if err == nil {
		return nil
	}

	var inputError *InputError

	if errors.As(err, &inputError) {
		return inputError
	}

	return nil
}

func (ie *InputError) fieldsCount() int {
	return len(ie.fields)
}

func (ie *InputError) addError(field, msg string) {
	ie.fields[field] = append(ie.fields[field], msg)
}

func (ie *InputError) Error() string {
	keys := make([]string, 0, len(ie.fields))
	for k := range ie.fields {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return fmt.Sprintf("invalid fields %v", keys)
}

func (ie *InputError) Fields() map[string][]string {
	return ie.fields
}

// PaymentError reports an online payment that did not go through. Cancelled is set
// when the guest backed out rather than the gateway refusing.
type PaymentError struct {
	Cancelled bool
	Reason    string
	err       error
}

func IsPaymentError(err error) *PaymentError {
	var paymentError *PaymentError

	if errors.As(err, &paymentError) {
		return paymentError
	}

	return nil
}

func (pe *PaymentError) Error() string {
	if pe.Cancelled {
		return "payment cancelled: " + pe.Reason
	}

	return "payment failed: " + pe.Reason
}

func (pe *PaymentError) Unwrap() error {
	return pe.err
}
