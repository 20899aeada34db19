package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avstrong/resort/internal/stay"
)

func jan(day int) stay.Date {
	return stay.NewDate(2026, time.January, day)
}

func newTestCalendar() *Calendar {
	return New(jan(5), []stay.DateRange{
		{CheckIn: jan(10), CheckOut: jan(13)},
		{CheckIn: jan(20), CheckOut: jan(22)},
	})
}

func TestBlockedDates_CheckOutDayIsFree(t *testing.T) {
	blocked := BlockedDates([]stay.DateRange{{CheckIn: jan(10), CheckOut: jan(13)}})

	assert.True(t, blocked.Contains(jan(10)))
	assert.True(t, blocked.Contains(jan(11)))
	assert.True(t, blocked.Contains(jan(12)))
	assert.False(t, blocked.Contains(jan(13)))
	assert.Len(t, blocked, 3)
}

func TestCalendar_Selectable(t *testing.T) {
	cal := newTestCalendar()

	assert.False(t, cal.Selectable(jan(4)), "past")
	assert.True(t, cal.Selectable(jan(5)), "today")
	assert.False(t, cal.Selectable(jan(11)), "blocked")
	assert.True(t, cal.Selectable(jan(13)), "turnover day")
}

func TestCalendar_RangeAvailable(t *testing.T) {
	cal := newTestCalendar()

	assert.True(t, cal.RangeAvailable(stay.DateRange{CheckIn: jan(13), CheckOut: jan(20)}))
	assert.True(t, cal.RangeAvailable(stay.DateRange{CheckIn: jan(6), CheckOut: jan(10)}))
	assert.False(t, cal.RangeAvailable(stay.DateRange{CheckIn: jan(8), CheckOut: jan(11)}))
	assert.False(t, cal.RangeAvailable(stay.DateRange{CheckIn: jan(3), CheckOut: jan(6)}))
	assert.Equal(t, []stay.Date{jan(20), jan(21)}, cal.BlockedIn(stay.DateRange{CheckIn: jan(18), CheckOut: jan(25)}))
}

func TestSelection_ClickFlow(t *testing.T) {
	sel := NewSelection(newTestCalendar())

	assert.False(t, sel.Click(jan(14)))
	assert.Equal(t, StatePartialStart, sel.State())

	_, ok := sel.Range()
	assert.False(t, ok, "nothing committed before complete")

	assert.True(t, sel.Click(jan(17)))
	assert.Equal(t, StateComplete, sel.State())

	r, ok := sel.Range()
	require.True(t, ok)
	assert.Equal(t, stay.DateRange{CheckIn: jan(14), CheckOut: jan(17)}, r)

	assert.False(t, sel.Click(jan(25)))
	assert.Equal(t, StatePartialStart, sel.State(), "click on complete restarts")

	ci, _ := sel.CheckIn()
	assert.Equal(t, jan(25), ci)
}

func TestSelection_ClickBeforeCheckInSwaps(t *testing.T) {
	sel := NewSelection(newTestCalendar())

	sel.Click(jan(15))
	assert.True(t, sel.Click(jan(6)))

	r, ok := sel.Range()
	require.True(t, ok)
	assert.Equal(t, jan(6), r.CheckIn)
	assert.Equal(t, jan(15), r.CheckOut)
}

func TestSelection_IgnoresUnselectableAndSameDay(t *testing.T) {
	sel := NewSelection(newTestCalendar())

	assert.False(t, sel.Click(jan(11)))
	assert.Equal(t, StateEmpty, sel.State())

	sel.Click(jan(15))
	assert.False(t, sel.Click(jan(15)))
	assert.Equal(t, StatePartialStart, sel.State())

	assert.False(t, sel.Click(jan(2)))
	assert.Equal(t, StatePartialStart, sel.State())

	sel.Clear()
	assert.Equal(t, StateEmpty, sel.State())
}

func TestCalendar_ViewTwoMonths(t *testing.T) {
	cal := newTestCalendar()
	sel := NewSelection(cal)
	sel.Click(jan(30))
	sel.Click(stay.NewDate(2026, time.February, 2))

	view := cal.View(jan(5), sel)

	assert.Equal(t, time.January, view.Months[0].Month)
	assert.Len(t, view.Months[0].Days, 31)
	assert.Equal(t, time.February, view.Months[1].Month)
	assert.Len(t, view.Months[1].Days, 28)

	day11 := view.Months[0].Days[10]
	assert.True(t, day11.Blocked)
	assert.False(t, day11.Selectable)
	assert.True(t, view.Months[0].Days[0].Past)
	assert.True(t, view.Months[0].Days[29].InSelection)
	assert.True(t, view.Months[1].Days[1].InSelection)
	assert.False(t, view.Months[1].Days[2].InSelection)
}

func TestNavigation(t *testing.T) {
	assert.Equal(t, stay.NewDate(2027, time.January, 1), Next(stay.NewDate(2026, time.December, 31)))
	assert.Equal(t, stay.NewDate(2025, time.December, 1), Prev(jan(15)))
}
