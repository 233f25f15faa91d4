package daykey

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   int64
		want DayKey
	}{
		{0, 0},
		{1, 0},
		{MillisPerDay - 1, 0},
		{MillisPerDay, DayKey(MillisPerDay)},
		{MillisPerDay + 1, DayKey(MillisPerDay)},
		{-1, DayKey(-MillisPerDay)},
		{-MillisPerDay, DayKey(-MillisPerDay)},
		{-MillisPerDay - 1, DayKey(-2 * MillisPerDay)},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Truncate(tt.in), "Truncate(%d)", tt.in)
	}
}

func TestTruncateNearInt64Bounds(t *testing.T) {
	require.Equal(t, DayKey(MinMillis), Truncate(MinMillis))
	require.Equal(t, DayKey(MinMillis), Truncate(MinMillis+MillisPerDay-1))
	require.Equal(t, DayKey(MinMillis), Truncate(math.MinInt64))
	require.Negative(t, int64(Truncate(math.MinInt64)))
	require.Equal(t, DayKey(math.MaxInt64/MillisPerDay*MillisPerDay), Truncate(math.MaxInt64))
}

func TestTruncateIdempotent(t *testing.T) {
	for _, ms := range []int64{0, 123, -123, 1700000000123, -86400001, 253402300799999} {
		once := Truncate(ms)
		require.Equal(t, once, Truncate(int64(once)), "ms=%d", ms)
		require.Zero(t, int64(once)%MillisPerDay)
		require.LessOrEqual(t, int64(once), ms)
		require.Greater(t, int64(once)+MillisPerDay, ms)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		millis int64
		want   string
	}{
		{"epoch", 0, "01/01/1970 GMT"},
		{"second day", MillisPerDay, "01/02/1970 GMT"},
		{"pre-epoch", -1, "12/31/1969 GMT"},
		{"year end uses calendar year", time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC).UnixMilli(), "12/31/2024 GMT"},
		{"leap day", time.Date(2024, 2, 29, 12, 30, 0, 0, time.UTC).UnixMilli(), "02/29/2024 GMT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Truncate(tt.millis).Format())
		})
	}
}

func TestTimeIsUTCMidnight(t *testing.T) {
	ts := time.Date(2026, 2, 16, 17, 45, 12, 0, time.UTC)
	got := Truncate(ts.UnixMilli()).Time()
	require.Equal(t, time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC), got)
	require.Equal(t, time.UTC, got.Location())
}
