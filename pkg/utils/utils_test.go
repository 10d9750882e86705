package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCleanToValidUTF8(t *testing.T) {
	assert.Equal(t, "ok", CleanToValidUTF8("o\xffk"))
	assert.Equal(t, "₹ price", CleanToValidUTF8("₹ price"))
	assert.Equal(t, "", CleanToValidUTF8("\xc3"))
}

func TestPercent(t *testing.T) {
	tests := []struct {
		count, total int64
		want         int
	}{
		{count: 7, total: 10, want: 70},
		{count: 1, total: 3, want: 33},
		{count: 2, total: 3, want: 66},
		{count: 0, total: 0, want: 0},
		{count: 5, total: 0, want: 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.count, tt.total))
	}
}

func TestSetClock(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	restore := SetClock(func() time.Time { return fixed })

	assert.Equal(t, fixed, TimeNowUTC())
	assert.Equal(t, fixed.AddDate(0, 0, -30), DaysAgo(30))

	restore()
	assert.NotEqual(t, fixed, TimeNowUTC())
}
