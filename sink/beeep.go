package sink

import (
	"fmt"
	"math"
	"time"

	"github.com/gen2brain/beeep"
)

// beeepSink drives the platform beeper (Beep() on Windows, the console
// speaker or terminal bell elsewhere).
type beeepSink struct {
	beep func(freq float64, ms int) error
}

func newBeeep(Options) (Sink, error) {
	return &beeepSink{beep: beeep.Beep}, nil
}

func (s *beeepSink) Emit(frequency float64, d time.Duration) error {
	start := time.Now()
	if err := s.beep(math.Round(frequency), int(d.Milliseconds())); err != nil {
		return fmt.Errorf("beeep: %w", err)
	}
	hold(start, d)
	return nil
}

func (s *beeepSink) Close() error { return nil }
