package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/agis/hitcount/internal/hitcount"
)

// TieOrder picks how websites sharing a count are ordered within a day.
type TieOrder string

const (
	TiesByName TieOrder = "name"
	TiesNone   TieOrder = "none"
)

func ParseTieOrder(v string) (TieOrder, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "name":
		return TiesByName, nil
	case "none":
		return TiesNone, nil
	default:
		return "", fmt.Errorf("invalid ties mode: %s (want name|none)", v)
	}
}

type Printer struct {
	Ties TieOrder
	Out  io.Writer
	Err  io.Writer
}

// Render lays out the report: a date header per day in ascending order, then
// "<website> <count>" lines by descending count.
func Render(state *hitcount.State, ties TieOrder) []string {
	var lines []string
	for _, day := range state.Days() {
		lines = append(lines, day.Format())
		for _, b := range state.Counter(day).Snapshot() {
			if ties != TiesNone {
				slices.Sort(b.Websites)
			}
			count := strconv.FormatInt(b.Count, 10)
			for _, site := range b.Websites {
				lines = append(lines, site+" "+count)
			}
		}
	}
	return lines
}

// Report writes the whole report in a single call once it is fully rendered.
func (p Printer) Report(state *hitcount.State) error {
	var buf bytes.Buffer
	for _, line := range Render(state, p.Ties) {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	_, err := p.out().Write(buf.Bytes())
	return err
}

func (p Printer) Error(message, hint string) error {
	if hint != "" {
		_, err := fmt.Fprintf(p.err(), "error: %s\nhint: %s\n", message, hint)
		return err
	}
	_, err := fmt.Fprintf(p.err(), "error: %s\n", message)
	return err
}

func (p Printer) out() io.Writer {
	if p.Out == nil {
		return os.Stdout
	}
	return p.Out
}

func (p Printer) err() io.Writer {
	if p.Err == nil {
		return os.Stderr
	}
	return p.Err
}
