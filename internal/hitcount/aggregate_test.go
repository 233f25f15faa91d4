package hitcount

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/agis/hitcount/internal/daykey"
	"github.com/agis/hitcount/internal/record"
	"github.com/stretchr/testify/require"
)

func TestAggregateSingleDay(t *testing.T) {
	state, err := Aggregate(strings.NewReader("0|a.com\n0|a.com\n0|b.com\n"))
	require.NoError(t, err)
	require.Equal(t, []daykey.DayKey{0}, state.Days())

	c := state.Counter(0)
	require.NotNil(t, c)
	require.Equal(t, int64(2), c.Count("a.com"))
	require.Equal(t, int64(1), c.Count("b.com"))
}

func TestAggregateDaysAscending(t *testing.T) {
	in := strings.Join([]string{
		"172800000|c.com",
		"86400000|b.com",
		"-1|z.com",
		"0|a.com",
		"86399999|a.com",
	}, "\n")
	state, err := Aggregate(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []daykey.DayKey{-86400000, 0, 86400000, 172800000}, state.Days())
	require.Equal(t, int64(2), state.Counter(0).Count("a.com"))
	require.Nil(t, state.Counter(12345))
}

func TestAggregateCRLFAndNoTrailingNewline(t *testing.T) {
	state, err := Aggregate(strings.NewReader("0|a.com\r\n0|a.com"))
	require.NoError(t, err)
	require.Equal(t, int64(2), state.Counter(0).Count("a.com"))
}

func TestAggregateEmptyInput(t *testing.T) {
	state, err := Aggregate(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, 0, state.Len())
	require.Empty(t, state.Days())
}

func TestAggregateAbortsOnMalformedLine(t *testing.T) {
	state, err := Aggregate(strings.NewReader("0|a.com\nabc\n0|b.com\n"))
	require.Nil(t, state)

	var lineErr LineError
	require.True(t, errors.As(err, &lineErr))
	require.Equal(t, 2, lineErr.Number)

	var malformed record.MalformedLineError
	require.True(t, errors.As(err, &malformed))
	require.Equal(t, "abc", malformed.Line)
	require.Contains(t, err.Error(), `"abc"`)
}

func TestAggregateAbortsOnBlankLine(t *testing.T) {
	_, err := Aggregate(strings.NewReader("0|a.com\n\n0|b.com\n"))
	var malformed record.MalformedLineError
	require.True(t, errors.As(err, &malformed))
}

func TestAggregateAbortsOnMalformedTimestamp(t *testing.T) {
	_, err := Aggregate(strings.NewReader("0|a.com\nnope|b.com\n"))
	var tsErr record.MalformedTimestampError
	require.True(t, errors.As(err, &tsErr))
	require.Equal(t, "nope", tsErr.Field)
}

func TestAggregateRejectsUnrepresentableDay(t *testing.T) {
	_, err := Aggregate(strings.NewReader("0|a.com\n-9223372036854775808|b.com\n"))
	require.ErrorIs(t, err, record.ErrOutOfRange)
	var lineErr LineError
	require.True(t, errors.As(err, &lineErr))
	require.Equal(t, 2, lineErr.Number)
}

func TestAggregateReadError(t *testing.T) {
	boom := errors.New("disk on fire")
	_, err := Aggregate(iotest.ErrReader(boom))
	require.ErrorIs(t, err, boom)
	var lineErr LineError
	require.False(t, errors.As(err, &lineErr))
}

func TestAggregateLinesStopsAtFirstError(t *testing.T) {
	consumed := 0
	_, err := AggregateLines(func(yield func(string) bool) {
		for _, l := range []string{"0|a", "bad", "0|b"} {
			consumed++
			if !yield(l) {
				return
			}
		}
	})
	require.Error(t, err)
	require.Equal(t, 2, consumed)
}

func TestAggregateTotalsMatchInput(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	var lines []string
	perDay := map[daykey.DayKey]int64{}
	for i := 0; i < 3000; i++ {
		ts := rng.Int64N(10*daykey.MillisPerDay) - 3*daykey.MillisPerDay
		lines = append(lines, fmt.Sprintf("%d|site-%d", ts, rng.IntN(40)))
		perDay[daykey.Truncate(ts)]++
	}

	state, err := AggregateLines(slices.Values(lines))
	require.NoError(t, err)

	days := state.Days()
	require.Len(t, days, len(perDay))
	require.True(t, slices.IsSorted(days))
	for _, d := range days {
		c := state.Counter(d)
		requireConsistent(t, c)
		require.Equal(t, perDay[d], c.Total(), "day %s", d)
	}

	st := state.Stats()
	require.Equal(t, 3000, st.Lines)
	require.Equal(t, len(perDay), st.Days)
	require.LessOrEqual(t, st.DistinctSites, 40)
}
