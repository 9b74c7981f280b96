// Package score parses the score mini-language into tone and rest events and
// plays them in order.
//
// A score is a ';'-separated list of segments. Each segment is a note name,
// or "break"/"-" for a rest, optionally followed by ",<milliseconds>":
//
//	C4;E4;G4;C5,1000
//	C4;-,200;E4
package score

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"beep/note"
)

// DefaultDuration applies to segments that omit a duration.
const DefaultDuration = 500 * time.Millisecond

const (
	segmentSep  = ";"
	durationSep = ","
)

var (
	ErrMalformedSegment = errors.New("invalid format for notes")
	ErrInvalidDuration  = errors.New("invalid duration")
)

// maxDurationMs is the longest duration that still fits a time.Duration.
const maxDurationMs = math.MaxInt64 / int64(time.Millisecond)

// Event is either a Tone or a Rest.
type Event interface {
	Length() time.Duration
	isEvent()
}

type Tone struct {
	// Note is the token as written in the score; empty for raw frequencies.
	Note      string
	Frequency float64
	Duration  time.Duration
}

type Rest struct {
	Duration time.Duration
}

func (t Tone) Length() time.Duration { return t.Duration }
func (r Rest) Length() time.Duration { return r.Duration }

func (Tone) isEvent() {}
func (Rest) isEvent() {}

type Score []Event

// Duration is the nominal playing time of the whole score.
func (s Score) Duration() time.Duration {
	var total time.Duration
	for _, ev := range s {
		total += ev.Length()
	}
	return total
}

// String renders s back into score text. Tones built from a raw frequency
// have no textual form and are left out.
func (s Score) String() string {
	parts := make([]string, 0, len(s))
	for _, ev := range s {
		ms := strconv.FormatInt(ev.Length().Milliseconds(), 10)
		switch ev := ev.(type) {
		case Tone:
			if ev.Note == "" {
				continue
			}
			parts = append(parts, ev.Note+durationSep+ms)
		case Rest:
			parts = append(parts, "-,"+ms)
		}
	}
	return strings.Join(parts, segmentSep)
}

func isRest(field string) bool {
	return field == "break" || field == "-"
}

// ParseDuration reads a millisecond count. Negative values and values that
// do not fit a time.Duration are rejected.
func ParseDuration(field string) (time.Duration, error) {
	ms, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number of milliseconds", ErrInvalidDuration, field)
	}
	if ms < 0 {
		return 0, fmt.Errorf("%w: %d ms is negative", ErrInvalidDuration, ms)
	}
	if ms > maxDurationMs {
		return 0, fmt.Errorf("%w: %d ms is too long", ErrInvalidDuration, ms)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// Parse turns score text into events, resolving every note against a4. The
// first bad segment fails the whole parse.
func Parse(text string, a4 float64) (Score, error) {
	if err := note.ValidateReference(a4); err != nil {
		return nil, err
	}

	var sc Score
	for _, segment := range strings.Split(text, segmentSep) {
		fields := strings.Split(segment, durationSep)
		if len(fields) > 2 {
			return nil, fmt.Errorf("%w: %s", ErrMalformedSegment, segment)
		}
		if fields[0] == "" {
			continue
		}

		d := DefaultDuration
		if len(fields) == 2 {
			var err error
			if d, err = ParseDuration(fields[1]); err != nil {
				return nil, fmt.Errorf("segment %q: %w", segment, err)
			}
		}

		if isRest(fields[0]) {
			sc = append(sc, Rest{Duration: d})
			continue
		}

		freq, err := note.Resolve(fields[0], a4)
		if err != nil {
			return nil, err
		}
		sc = append(sc, Tone{Note: fields[0], Frequency: freq, Duration: d})
	}
	return sc, nil
}
