package digest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHoursWindow(t *testing.T) {
	h := Hours{Loc: time.UTC, Start: 8, End: 20}

	day := func(hour, min int) time.Time {
		return time.Date(2026, 3, 4, hour, min, 0, 0, time.UTC)
	}

	assert.False(t, h.Contains(day(7, 59)))
	assert.True(t, h.Contains(day(8, 0)))
	assert.True(t, h.Contains(day(12, 30)))
	assert.True(t, h.Contains(day(19, 59)))
	assert.False(t, h.Contains(day(20, 0)))
	assert.False(t, h.Contains(day(23, 0)))
}

func TestHoursRespectsTimezone(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	assert.NoError(t, err)
	h := Hours{Loc: chicago, Start: 8, End: 20}

	// 14:00 UTC in March is 08:00 in Chicago (CST, UTC-6)
	assert.True(t, h.Contains(time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC)))
	// 13:00 UTC is 07:00 Chicago
	assert.False(t, h.Contains(time.Date(2026, 3, 4, 13, 0, 0, 0, time.UTC)))
}
