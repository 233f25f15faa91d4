package hitcount

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"slices"

	"github.com/agis/hitcount/internal/daykey"
	"github.com/agis/hitcount/internal/record"
)

// MaxLineBytes caps a single input line.
const MaxLineBytes = 64 << 20

// LineError ties a parse failure to its 1-based line number.
type LineError struct {
	Number int
	Err    error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Number, e.Err)
}

func (e LineError) Unwrap() error { return e.Err }

// State maps each day seen in the input to its Counter.
type State struct {
	days  map[daykey.DayKey]*Counter
	lines int
}

func NewState() *State {
	return &State{days: map[daykey.DayKey]*Counter{}}
}

func (s *State) Add(ev record.Event) {
	day := daykey.Truncate(ev.TimestampMillis)
	c, ok := s.days[day]
	if !ok {
		c = NewCounter()
		s.days[day] = c
	}
	c.AddHit(ev.Website)
	s.lines++
}

// Counter returns the counter for day, nil if the day has no hits.
func (s *State) Counter(day daykey.DayKey) *Counter { return s.days[day] }

// Days returns the distinct days in ascending order.
func (s *State) Days() []daykey.DayKey {
	out := make([]daykey.DayKey, 0, len(s.days))
	for d := range s.days {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

func (s *State) Len() int { return len(s.days) }

type Stats struct {
	Lines         int
	Days          int
	WebsiteDays   int
	DistinctSites int
}

func (s *State) Stats() Stats {
	st := Stats{Lines: s.lines, Days: len(s.days)}
	seen := map[string]struct{}{}
	for _, c := range s.days {
		st.WebsiteDays += c.Len()
		for name := range c.counts {
			seen[name] = struct{}{}
		}
	}
	st.DistinctSites = len(seen)
	return st
}

// AggregateLines consumes every line. The first malformed line aborts the
// run and no partial state is returned.
func AggregateLines(lines iter.Seq[string]) (*State, error) {
	state := NewState()
	n := 0
	for line := range lines {
		n++
		ev, err := record.ParseLine(line)
		if err != nil {
			return nil, LineError{Number: n, Err: err}
		}
		state.Add(ev)
	}
	return state, nil
}

func Aggregate(r io.Reader) (*State, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)
	state, err := AggregateLines(func(yield func(string) bool) {
		for sc.Scan() {
			if !yield(sc.Text()) {
				return
			}
		}
	})
	if err != nil {
		return nil, err
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return state, nil
}
