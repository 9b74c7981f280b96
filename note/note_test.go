package note

import (
	"errors"
	"math"
	"testing"
)

func closeTo(got, want float64) bool {
	return math.Abs(got-want) <= 1e-6*math.Abs(want)
}

func TestResolveReference(t *testing.T) {
	got, err := Resolve("A4", DefaultA4)
	if err != nil {
		t.Fatal(err)
	}
	if got != 440.0 {
		t.Errorf("A4 = %v, want exactly 440", got)
	}
}

func TestResolve(t *testing.T) {
	for _, tt := range []struct {
		token string
		a4    float64
		want  float64
	}{
		{"A5", 440, 880},
		{"A3", 440, 220},
		{"C4", 440, 261.6255653005986},
		{"E4", 440, 329.6275569128699},
		{"G4", 440, 391.99543598174927},
		{"C5", 440, 523.2511306011972},
		{"C8", 440, 4186.009044809578},
		{"A0", 440, 27.5},
		{"A4", 432, 432},
		{"A5", 415, 830},
	} {
		t.Run(tt.token, func(t *testing.T) {
			got, err := Resolve(tt.token, tt.a4)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.token, err)
			}
			if !closeTo(got, tt.want) {
				t.Errorf("Resolve(%q, %v) = %v, want %v", tt.token, tt.a4, got, tt.want)
			}
		})
	}
}

func TestResolveEnharmonic(t *testing.T) {
	pairs := [][2]string{
		{"Db4", "C#4"},
		{"Eb3", "D#3"},
		{"Gb2", "F#2"},
		{"Ab5", "G#5"},
		{"Bb1", "A#1"},
	}
	for _, a4 := range []float64{440, 432, 443.5} {
		for _, p := range pairs {
			flat, err := Resolve(p[0], a4)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", p[0], err)
			}
			sharp, err := Resolve(p[1], a4)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", p[1], err)
			}
			if flat != sharp {
				t.Errorf("%s = %v, %s = %v at A4=%v", p[0], flat, p[1], sharp, a4)
			}
		}
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	for _, tt := range []struct{ lower, upper string }{
		{"a4", "A4"},
		{"c#3", "C#3"},
		{"db4", "Db4"},
		{"bb2", "Bb2"},
		{"BB2", "Bb2"},
		{"gB5", "Gb5"},
	} {
		got, err := Resolve(tt.lower, DefaultA4)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tt.lower, err)
		}
		want, err := Resolve(tt.upper, DefaultA4)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tt.upper, err)
		}
		if got != want {
			t.Errorf("Resolve(%q) = %v, Resolve(%q) = %v", tt.lower, got, tt.upper, want)
		}
	}
}

func TestResolveRangeBoundary(t *testing.T) {
	if _, err := Resolve("C8", DefaultA4); err != nil {
		t.Errorf("C8 should be playable: %v", err)
	}
	for _, token := range []string{"C#8", "Db8", "B8", "C9", "A99", "C99999999999999999999"} {
		if _, err := Resolve(token, DefaultA4); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Resolve(%q) error = %v, want ErrOutOfRange", token, err)
		}
	}
}

func TestResolveLowNotesAllowed(t *testing.T) {
	got, err := Resolve("C0", DefaultA4)
	if err != nil {
		t.Fatal(err)
	}
	if got <= 0 || got > 20 {
		t.Errorf("C0 = %v, want a small positive frequency", got)
	}
}

func TestResolveInvalidFormat(t *testing.T) {
	for _, token := range []string{"H4", "C", "", "4", "C#", "C##4", "Cbb4", "C-1", "C 4", "C4 ", " C4", "C4.5", "break"} {
		if _, err := Resolve(token, DefaultA4); !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("Resolve(%q) error = %v, want ErrInvalidFormat", token, err)
		}
	}
}

func TestResolveInvalidName(t *testing.T) {
	for _, token := range []string{"E#4", "B#3", "Cb4", "Fb2"} {
		if _, err := Resolve(token, DefaultA4); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Resolve(%q) error = %v, want ErrInvalidName", token, err)
		}
	}
}

func TestResolveInvalidReference(t *testing.T) {
	for _, a4 := range []float64{0, -440, math.NaN(), math.Inf(1)} {
		if _, err := Resolve("A4", a4); !errors.Is(err, ErrInvalidReference) {
			t.Errorf("Resolve(A4, %v) error = %v, want ErrInvalidReference", a4, err)
		}
	}
}

func TestParse(t *testing.T) {
	n, err := Parse("gb2")
	if err != nil {
		t.Fatal(err)
	}
	if n.Pitch != FSharp || n.Octave != 2 || n.Offset != -27 {
		t.Errorf("Parse(gb2) = %+v", n)
	}
	if n.String() != "F#2" {
		t.Errorf("String() = %q, want F#2", n.String())
	}
}

func TestCanonical(t *testing.T) {
	got, err := Canonical("db4")
	if err != nil {
		t.Fatal(err)
	}
	if got != "C#4" {
		t.Errorf("Canonical(db4) = %q, want C#4", got)
	}
}

func TestPitchClassString(t *testing.T) {
	if A.String() != "A" || ASharp.String() != "A#" {
		t.Errorf("unexpected names %q %q", A, ASharp)
	}
	if PitchClass(12).String() != "PitchClass(12)" {
		t.Errorf("out of range name = %q", PitchClass(12).String())
	}
}
