package score

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beep/note"
)

func mustResolve(t *testing.T, token string) float64 {
	t.Helper()
	f, err := note.Resolve(token, note.DefaultA4)
	require.NoError(t, err)
	return f
}

func TestParseTriad(t *testing.T) {
	sc, err := Parse("C4;E4;G4;C5,1000", note.DefaultA4)
	require.NoError(t, err)
	require.Len(t, sc, 4)

	want := []time.Duration{500 * time.Millisecond, 500 * time.Millisecond, 500 * time.Millisecond, time.Second}
	prev := 0.0
	for i, ev := range sc {
		tone, ok := ev.(Tone)
		require.True(t, ok, "event %d is %T, want Tone", i, ev)
		assert.Equal(t, want[i], tone.Duration, "event %d duration", i)
		assert.Greater(t, tone.Frequency, prev, "event %d frequency should ascend", i)
		prev = tone.Frequency
	}
	assert.InDelta(t, 261.6256, sc[0].(Tone).Frequency, 1e-4)
	assert.InDelta(t, 2*sc[0].(Tone).Frequency, sc[3].(Tone).Frequency, 1e-9)
}

func TestParseRest(t *testing.T) {
	sc, err := Parse("C4;-,200;E4", note.DefaultA4)
	require.NoError(t, err)

	want := Score{
		Tone{Note: "C4", Frequency: mustResolve(t, "C4"), Duration: 500 * time.Millisecond},
		Rest{Duration: 200 * time.Millisecond},
		Tone{Note: "E4", Frequency: mustResolve(t, "E4"), Duration: 500 * time.Millisecond},
	}
	assert.Equal(t, want, sc)
}

func TestParseBreakKeyword(t *testing.T) {
	sc, err := Parse("break;break,0", note.DefaultA4)
	require.NoError(t, err)
	assert.Equal(t, Score{Rest{Duration: DefaultDuration}, Rest{Duration: 0}}, sc)
}

func TestParseRestKeywordIsCaseSensitive(t *testing.T) {
	_, err := Parse("BREAK", note.DefaultA4)
	assert.ErrorIs(t, err, note.ErrInvalidFormat)
}

func TestParseSkipsEmptySegments(t *testing.T) {
	for _, text := range []string{"C4;", ";C4", "C4;;", ";;C4;;", ",200;C4"} {
		t.Run(text, func(t *testing.T) {
			sc, err := Parse(text, note.DefaultA4)
			require.NoError(t, err)
			require.Len(t, sc, 1)
			assert.Equal(t, "C4", sc[0].(Tone).Note)
		})
	}
}

func TestParseEmpty(t *testing.T) {
	sc, err := Parse("", note.DefaultA4)
	require.NoError(t, err)
	assert.Empty(t, sc)
}

func TestParseMalformedSegment(t *testing.T) {
	for _, text := range []string{"C4,500,200", "C4;E4,1,2;G4", ",,", "-,1,"} {
		_, err := Parse(text, note.DefaultA4)
		assert.ErrorIs(t, err, ErrMalformedSegment, text)
	}
}

func TestParseInvalidDuration(t *testing.T) {
	for _, text := range []string{"C4,-1", "C4,abc", "C4,", "-,1.5", "C4, 500", "C4,9223372036854775807", "C4,99999999999999999999"} {
		_, err := Parse(text, note.DefaultA4)
		assert.ErrorIs(t, err, ErrInvalidDuration, text)
	}
}

func TestParseSignedDuration(t *testing.T) {
	sc, err := Parse("A4,+250", note.DefaultA4)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, sc[0].Length())
}

func TestParseFailsFast(t *testing.T) {
	sc, err := Parse("C4;E4;H4;G4", note.DefaultA4)
	assert.ErrorIs(t, err, note.ErrInvalidFormat)
	assert.Nil(t, sc)

	_, err = Parse("C4;C#8", note.DefaultA4)
	assert.ErrorIs(t, err, note.ErrOutOfRange)
}

func TestParseUsesReference(t *testing.T) {
	sc, err := Parse("A4;A5", 432)
	require.NoError(t, err)
	assert.Equal(t, 432.0, sc[0].(Tone).Frequency)
	assert.Equal(t, 864.0, sc[1].(Tone).Frequency)

	_, err = Parse("A4", 0)
	assert.ErrorIs(t, err, note.ErrInvalidReference)
}

func TestParseIdempotent(t *testing.T) {
	const text = "C4;d#4,250;-,100;Gb4,750;break;c5,1000;"
	a, err := Parse(text, note.DefaultA4)
	require.NoError(t, err)
	b, err := Parse(text, note.DefaultA4)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestScoreString(t *testing.T) {
	sc, err := Parse("C4;-,200;E4,750;break", note.DefaultA4)
	require.NoError(t, err)
	assert.Equal(t, "C4,500;-,200;E4,750;-,500", sc.String())

	again, err := Parse(sc.String(), note.DefaultA4)
	require.NoError(t, err)
	assert.Equal(t, sc, again)
}

func TestScoreDuration(t *testing.T) {
	sc, err := Parse("C4;-,200;E4,1000", note.DefaultA4)
	require.NoError(t, err)
	assert.Equal(t, 1700*time.Millisecond, sc.Duration())
}

func TestParseDuration(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want time.Duration
		err  error
	}{
		{"0", 0, nil},
		{"500", 500 * time.Millisecond, nil},
		{"-0", 0, nil},
		{"-5", 0, ErrInvalidDuration},
		{"", 0, ErrInvalidDuration},
	} {
		got, err := ParseDuration(tt.in)
		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Errorf("ParseDuration(%q) error = %v, want %v", tt.in, err, tt.err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseDuration(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
}
