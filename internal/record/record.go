package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/agis/hitcount/internal/daykey"
)

// Separator splits the timestamp field from the website field.
const Separator = "|"

// Event is one parsed visit: milliseconds since the Unix epoch and the website.
type Event struct {
	TimestampMillis int64
	Website         string
}

// ErrOutOfRange rejects timestamps whose UTC day start does not fit in an int64.
var ErrOutOfRange = errors.New("timestamp before earliest representable day")

type MalformedLineError struct {
	Line   string
	Fields int
}

func (e MalformedLineError) Error() string {
	return fmt.Sprintf("malformed line %q: expected exactly one %q separator, got %d field(s)", e.Line, Separator, e.Fields)
}

type MalformedTimestampError struct {
	Line  string
	Field string
	Err   error
}

func (e MalformedTimestampError) Error() string {
	return fmt.Sprintf("malformed timestamp %q in line %q: %v", e.Field, e.Line, e.Err)
}

func (e MalformedTimestampError) Unwrap() error { return e.Err }

// ParseLine parses "<epoch-millis>|<website>". The website is taken verbatim
// and may be empty.
func ParseLine(line string) (Event, error) {
	parts := strings.Split(line, Separator)
	if len(parts) != 2 {
		return Event{}, MalformedLineError{Line: line, Fields: len(parts)}
	}
	ts, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Event{}, MalformedTimestampError{Line: line, Field: parts[0], Err: err}
	}
	if ts < daykey.MinMillis {
		return Event{}, MalformedTimestampError{Line: line, Field: parts[0], Err: ErrOutOfRange}
	}
	return Event{TimestampMillis: ts, Website: parts[1]}, nil
}
