package calendar

import "github.com/avstrong/resort/internal/stay"

type State int

const (
	StateEmpty State = iota
	StatePartialStart
	StateComplete
)

func (s State) String() string {
	switch s {
	case StatePartialStart:
		return "partial_start"
	case StateComplete:
		return "complete"
	default:
		return "empty"
	}
}

// Selection drives the two-click check-in/check-out picker.
type Selection struct {
	cal      *Calendar
	state    State
	checkIn  stay.Date
	checkOut stay.Date
}

func NewSelection(cal *Calendar) *Selection {
	//nolint:exhaustruct
	return &Selection{cal: cal}
}

func (s *Selection) State() State {
	return s.state
}

// Click applies a date click and reports whether the selection just became complete.
// Unselectable dates and a repeated click on the pending check-in are ignored.
func (s *Selection) Click(d stay.Date) bool {
	if !s.cal.Selectable(d) {
		return false
	}

	switch s.state {
	case StatePartialStart:
		switch {
		case d == s.checkIn:
			return false
		case d.Before(s.checkIn):
			s.checkIn, s.checkOut = d, s.checkIn
		default:
			s.checkOut = d
		}

		s.state = StateComplete

		return true
	default:
		s.checkIn = d
		s.checkOut = stay.Date{}
		s.state = StatePartialStart

		return false
	}
}

func (s *Selection) Clear() {
	s.checkIn = stay.Date{}
	s.checkOut = stay.Date{}
	s.state = StateEmpty
}

// Range returns the committed stay; ok is false until the selection is complete.
func (s *Selection) Range() (stay.DateRange, bool) {
	if s.state != StateComplete {
		return stay.DateRange{}, false
	}

	return stay.DateRange{CheckIn: s.checkIn, CheckOut: s.checkOut}, true
}

func (s *Selection) CheckIn() (stay.Date, bool) {
	return s.checkIn, s.state != StateEmpty
}

// Covers reports whether d falls within the selection, check-out day included.
func (s *Selection) Covers(d stay.Date) bool {
	switch s.state {
	case StatePartialStart:
		return d == s.checkIn
	case StateComplete:
		return !d.Before(s.checkIn) && !d.After(s.checkOut)
	default:
		return false
	}
}
