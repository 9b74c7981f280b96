// Package note converts note names such as C4, D#3 or Gb2 into frequencies
// using 12-tone equal temperament.
package note

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

const (
	// DefaultA4 is the standard concert pitch of A4 in Hz.
	DefaultA4 = 440.0

	// MaxOffset is the highest accepted semitone offset from A4 (C8).
	MaxOffset = 39

	referenceOctave = 4
)

var (
	ErrInvalidFormat    = errors.New("invalid note format")
	ErrInvalidName      = errors.New("invalid note name")
	ErrOutOfRange       = errors.New("note is too high")
	ErrInvalidReference = errors.New("invalid A4 pitch")
)

type PitchClass int

const (
	C PitchClass = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

var pitchNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func (p PitchClass) String() string {
	if p < C || p > B {
		return "PitchClass(" + strconv.Itoa(int(p)) + ")"
	}
	return pitchNames[p]
}

var (
	sharpPattern = regexp.MustCompile(`^([A-G]#?)([0-9]+)$`)
	flatPattern  = regexp.MustCompile(`^([A-G]b)([0-9]+)$`)

	flatToSharp = map[string]string{
		"Db": "C#",
		"Eb": "D#",
		"Gb": "F#",
		"Ab": "G#",
		"Bb": "A#",
	}
)

// Note is a parsed note token.
type Note struct {
	Pitch  PitchClass
	Octave int64
	// Offset is the distance from A4 in semitones.
	Offset int64
}

func (n Note) String() string {
	return n.Pitch.String() + strconv.FormatInt(n.Octave, 10)
}

// Frequency returns the equal-tempered frequency of n relative to a4.
func (n Note) Frequency(a4 float64) (float64, error) {
	if err := ValidateReference(a4); err != nil {
		return 0, err
	}
	return a4 * math.Pow(2, float64(n.Offset)/12), nil
}

// ValidateReference reports whether a4 can be used as a tuning reference.
func ValidateReference(a4 float64) error {
	if math.IsNaN(a4) || math.IsInf(a4, 0) || a4 <= 0 {
		return fmt.Errorf("%w: %v (must be a positive number of Hz)", ErrInvalidReference, a4)
	}
	return nil
}

// normalize upper-cases the letter and reads a second-position b/B as the
// flat marker. Everything else is left as typed.
func normalize(token string) string {
	if token == "" {
		return token
	}
	b := []byte(token)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	if len(b) > 1 && b[1] == 'B' {
		b[1] = 'b'
	}
	return string(b)
}

func pitchIndex(name string) (PitchClass, bool) {
	for i, n := range pitchNames {
		if n == name {
			return PitchClass(i), true
		}
	}
	return 0, false
}

// Parse reads a note token. Matching is case-insensitive on the letter and
// flats are folded into their sharp equivalents.
func Parse(token string) (Note, error) {
	norm := normalize(token)

	var name, digits string
	if m := sharpPattern.FindStringSubmatch(norm); m != nil {
		name, digits = m[1], m[2]
	} else if m := flatPattern.FindStringSubmatch(norm); m != nil {
		sharp, ok := flatToSharp[m[1]]
		if !ok {
			return Note{}, fmt.Errorf("%w: there's no such note as %s", ErrInvalidName, m[1])
		}
		name, digits = sharp, m[2]
	} else {
		return Note{}, fmt.Errorf("%w: what is %q?", ErrInvalidFormat, token)
	}

	pitch, ok := pitchIndex(name)
	if !ok {
		return Note{}, fmt.Errorf("%w: there's no such note as %s", ErrInvalidName, name)
	}

	octave, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		// Only overflow can fail here; the pattern guarantees digits.
		return Note{}, fmt.Errorf("%w: %s, max is C8", ErrOutOfRange, token)
	}
	// Any octave above 8 exceeds the ceiling whatever the pitch class, and
	// checking first keeps the multiplication below from overflowing.
	if octave > 8 {
		return Note{}, fmt.Errorf("%w: %s, max is C8", ErrOutOfRange, token)
	}

	offset := int64(pitch-A) + (octave-referenceOctave)*12
	if offset > MaxOffset {
		return Note{}, fmt.Errorf("%w: %s, max is C8", ErrOutOfRange, token)
	}

	return Note{Pitch: pitch, Octave: octave, Offset: offset}, nil
}

// Resolve parses token and returns its frequency in Hz for the given A4.
func Resolve(token string, a4 float64) (float64, error) {
	n, err := Parse(token)
	if err != nil {
		return 0, err
	}
	return n.Frequency(a4)
}

// Canonical returns the sharp spelling of token, e.g. "db4" -> "C#4".
func Canonical(token string) (string, error) {
	n, err := Parse(token)
	if err != nil {
		return "", err
	}
	return n.String(), nil
}
