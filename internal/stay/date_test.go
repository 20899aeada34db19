package stay

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRange_Nights(t *testing.T) {
	r := DateRange{CheckIn: NewDate(2026, 1, 30), CheckOut: NewDate(2026, 2, 2)}

	assert.Equal(t, 3, r.Nights())
	require.NoError(t, r.Validate())
}

func TestDateRange_ValidateRejectsEmptyAndInverted(t *testing.T) {
	same := DateRange{CheckIn: NewDate(2026, 1, 10), CheckOut: NewDate(2026, 1, 10)}
	inverted := DateRange{CheckIn: NewDate(2026, 1, 12), CheckOut: NewDate(2026, 1, 10)}

	assert.ErrorIs(t, same.Validate(), ErrInvalidDateRange)
	assert.ErrorIs(t, inverted.Validate(), ErrInvalidDateRange)
	assert.ErrorIs(t, DateRange{}.Validate(), ErrInvalidDateRange)
}

func TestDateRange_EachExcludesCheckOut(t *testing.T) {
	r := DateRange{CheckIn: NewDate(2026, 1, 10), CheckOut: NewDate(2026, 1, 13)}

	var got []string

	r.Each(func(d Date) { got = append(got, d.String()) })

	assert.Equal(t, []string{"2026-01-10", "2026-01-11", "2026-01-12"}, got)
}

func TestDateRange_Overlaps(t *testing.T) {
	a := DateRange{CheckIn: NewDate(2026, 1, 10), CheckOut: NewDate(2026, 1, 13)}

	assert.False(t, a.Overlaps(DateRange{CheckIn: NewDate(2026, 1, 13), CheckOut: NewDate(2026, 1, 15)}))
	assert.True(t, a.Overlaps(DateRange{CheckIn: NewDate(2026, 1, 12), CheckOut: NewDate(2026, 1, 15)}))
	assert.True(t, a.Overlaps(DateRange{CheckIn: NewDate(2026, 1, 8), CheckOut: NewDate(2026, 1, 20)}))
}

func TestDate_JSON(t *testing.T) {
	var r DateRange

	require.NoError(t, json.Unmarshal([]byte(`{"check_in":"2026-03-01","check_out":"2026-03-04"}`), &r))
	assert.Equal(t, NewDate(2026, time.March, 1), r.CheckIn)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"check_in":"2026-03-01","check_out":"2026-03-04"}`, string(b))

	assert.Error(t, json.Unmarshal([]byte(`{"check_in":"03/01/2026"}`), &r))
}

func TestOccupancy_Clamp(t *testing.T) {
	o := Occupancy{Rooms: 9, Adults: 0, Children: -2}.Clamp(3, 4, 2)

	assert.Equal(t, Occupancy{Rooms: 3, Adults: 1, Children: 0}, o)
}
