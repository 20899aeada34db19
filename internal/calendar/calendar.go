package calendar

import (
	"time"

	"github.com/avstrong/resort/internal/stay"
)

// Blocked is the set of nights already taken by existing reservations.
type Blocked map[stay.Date]struct{}

// BlockedDates unions every reservation's nights, [check-in, check-out). The check-out
// day stays free so a new guest can arrive the day another leaves.
func BlockedDates(reservations []stay.DateRange) Blocked {
	blocked := make(Blocked)

	for _, r := range reservations {
		r.Each(func(d stay.Date) {
			blocked[d] = struct{}{}
		})
	}

	return blocked
}

func (b Blocked) Contains(d stay.Date) bool {
	_, ok := b[d]

	return ok
}

// Calendar is a snapshot of one room's availability as of Today.
type Calendar struct {
	today   stay.Date
	blocked Blocked
}

func New(today stay.Date, reservations []stay.DateRange) *Calendar {
	return &Calendar{
		today:   today,
		blocked: BlockedDates(reservations),
	}
}

func (c *Calendar) Today() stay.Date {
	return c.today
}

func (c *Calendar) IsBlocked(d stay.Date) bool {
	return c.blocked.Contains(d)
}

// Selectable reports whether d can be clicked: not in the past and not blocked.
func (c *Calendar) Selectable(d stay.Date) bool {
	return !d.Before(c.today) && !c.blocked.Contains(d)
}

// RangeAvailable reports whether every night of r is free and none is in the past.
func (c *Calendar) RangeAvailable(r stay.DateRange) bool {
	if r.Validate() != nil || r.CheckIn.Before(c.today) {
		return false
	}

	free := true

	r.Each(func(d stay.Date) {
		if c.blocked.Contains(d) {
			free = false
		}
	})

	return free
}

// BlockedIn lists blocked dates within r in ascending order.
func (c *Calendar) BlockedIn(r stay.DateRange) []stay.Date {
	var out []stay.Date

	r.Each(func(d stay.Date) {
		if c.blocked.Contains(d) {
			out = append(out, d)
		}
	})

	return out
}

type Day struct {
	Date        stay.Date `json:"date"`
	Past        bool      `json:"past"`
	Blocked     bool      `json:"blocked"`
	Selectable  bool      `json:"selectable"`
	InSelection bool      `json:"in_selection"`
}

type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Days  []Day      `json:"days"`
}

// Month builds the day cells of one month, marking the current selection if any.
func (c *Calendar) Month(year int, month time.Month, sel *Selection) Month {
	first := stay.NewDate(year, month, 1)
	out := Month{Year: first.Year, Month: first.Month}

	for d := first; d.Month == first.Month; d = d.AddDays(1) {
		out.Days = append(out.Days, Day{
			Date:        d,
			Past:        d.Before(c.today),
			Blocked:     c.blocked.Contains(d),
			Selectable:  c.Selectable(d),
			InSelection: sel != nil && sel.Covers(d),
		})
	}

	return out
}

// View is the two-month window shown to the guest.
type View struct {
	Months [2]Month `json:"months"`
}

func (c *Calendar) View(anchor stay.Date, sel *Selection) View {
	next := Next(anchor)

	return View{Months: [2]Month{
		c.Month(anchor.Year, anchor.Month, sel),
		c.Month(next.Year, next.Month, sel),
	}}
}

// Next returns the first day of the month after anchor's.
func Next(anchor stay.Date) stay.Date {
	return stay.DateOf(stay.NewDate(anchor.Year, anchor.Month, 1).Time().AddDate(0, 1, 0))
}

// Prev returns the first day of the month before anchor's.
func Prev(anchor stay.Date) stay.Date {
	return stay.DateOf(stay.NewDate(anchor.Year, anchor.Month, 1).Time().AddDate(0, -1, 0))
}
