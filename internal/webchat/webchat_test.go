package webchat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestCheckOpenWeekday(t *testing.T) {
	// Monday and Tuesday mornings inside opening hours
	assert.NoError(t, CheckOpen(at(2019, time.June, 17, 9, 30)))
	assert.NoError(t, CheckOpen(at(2019, time.June, 18, 9, 30)))
	// weekday evening after close
	assert.ErrorIs(t, CheckOpen(at(2019, time.June, 18, 19, 30)), ErrClosed)
	// weekday before open
	assert.ErrorIs(t, CheckOpen(at(2019, time.June, 18, 7, 30)), ErrClosed)
}

func TestCheckOpenSaturday(t *testing.T) {
	assert.NoError(t, CheckOpen(at(2019, time.June, 15, 9, 30)))
	assert.ErrorIs(t, CheckOpen(at(2019, time.June, 15, 16, 30)), ErrClosed)
	assert.ErrorIs(t, CheckOpen(at(2019, time.June, 15, 8, 0)), ErrClosed)
}

func TestCheckOpenSundayClosed(t *testing.T) {
	for _, hh := range []int{0, 9, 12, 16, 19, 23} {
		assert.ErrorIs(t, CheckOpen(at(2019, time.June, 16, hh, 30)), ErrClosed, "hour %d", hh)
	}
}

func TestCheckOpenCensusWeekend(t *testing.T) {
	// census Saturday opens earlier and closes later than a normal Saturday
	assert.NoError(t, CheckOpen(at(2019, time.October, 12, 9, 30)))
	assert.NoError(t, CheckOpen(at(2019, time.October, 12, 19, 30)))
	// census Sunday is open during the day, unlike normal Sundays
	assert.NoError(t, CheckOpen(at(2019, time.October, 13, 12, 0)))
	// but not before its opening hour
	assert.ErrorIs(t, CheckOpen(at(2019, time.October, 13, 7, 30)), ErrClosed)
}

func TestCheckOpenBankHoliday(t *testing.T) {
	// Easter Monday 2019 falls on a weekday but stays closed
	assert.ErrorIs(t, CheckOpen(at(2019, time.April, 22, 10, 0)), ErrClosed)
	assert.ErrorIs(t, CheckOpen(at(2019, time.December, 25, 10, 0)), ErrClosed)
}
