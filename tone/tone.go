// Package tone renders beeps into 16-bit PCM.
package tone

import (
	"math"
	"time"
)

const (
	SampleRate = 44100
	Volume     = 0.35

	// Linear fade applied to both ends of a tone so note boundaries don't click.
	rampDuration = 5 * time.Millisecond
)

// Frames returns the number of sample frames that cover d at sampleRate.
func Frames(sampleRate int, d time.Duration) int {
	if d <= 0 {
		return 0
	}
	sr := int64(sampleRate)
	secs, rem := int64(d/time.Second), int64(d%time.Second)
	return int(secs*sr + rem*sr/int64(time.Second))
}

// Square generates a mono square wave at freq Hz lasting d.
func Square(sampleRate int, freq float64, d time.Duration, volume float64) []int16 {
	n := Frames(sampleRate, d)
	return SquareSpan(sampleRate, freq, n, 0, n, volume)
}

// SquareSpan renders frames [from, to) of an n-frame square wave, so a long
// tone can be produced one block at a time. Joining consecutive spans gives
// the same samples as Square.
func SquareSpan(sampleRate int, freq float64, n, from, to int, volume float64) []int16 {
	from, to = max(from, 0), min(to, n)
	if to <= from {
		return nil
	}
	samples := make([]int16, to-from)
	if freq <= 0 {
		return samples
	}

	ramp := Frames(sampleRate, rampDuration)
	if ramp*2 > n {
		ramp = n / 2
	}
	amp := 32767 * volume

	for i := from; i < to; i++ {
		t := float64(i) / float64(sampleRate)
		s := amp
		if math.Sin(2*math.Pi*freq*t) < 0 {
			s = -amp
		}
		switch {
		case ramp > 0 && i < ramp:
			s *= float64(i) / float64(ramp)
		case ramp > 0 && i >= n-ramp:
			s *= float64(n-1-i) / float64(ramp)
		}
		samples[i-from] = int16(s)
	}
	return samples
}

// Silence returns d worth of zero samples.
func Silence(sampleRate int, d time.Duration) []int16 {
	return make([]int16, Frames(sampleRate, d))
}

// Stereo duplicates each mono sample into an interleaved L/R pair.
func Stereo(mono []int16) []int16 {
	out := make([]int16, len(mono)*2)
	for i, s := range mono {
		out[i*2] = s
		out[i*2+1] = s
	}
	return out
}

// Bytes encodes samples as little-endian S16.
func Bytes(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		buf[i*2] = byte(s)
		buf[i*2+1] = byte(s >> 8)
	}
	return buf
}
