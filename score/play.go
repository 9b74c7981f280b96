package score

import (
	"context"
	"fmt"
	"time"

	"beep/sink"
)

// Player plays a parsed score through a sink, one event at a time.
type Player struct {
	Sink sink.Sink

	// OnEvent, if set, is called before each event starts.
	OnEvent func(i int, ev Event)

	// sleep waits out rests on sinks that don't record them. Tests swap it.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewPlayer(s sink.Sink) *Player {
	return &Player{Sink: s, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Play runs every event in order and returns once the last one has finished.
// A cancelled ctx stops playback before the next event; the event already
// sounding is not cut short unless it is a rest.
func (p *Player) Play(ctx context.Context, sc Score) error {
	rester, renders := p.Sink.(sink.Rester)
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	for i, ev := range sc {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.OnEvent != nil {
			p.OnEvent(i, ev)
		}

		switch ev := ev.(type) {
		case Tone:
			if err := p.Sink.Emit(ev.Frequency, ev.Duration); err != nil {
				return fmt.Errorf("event %d: %w", i+1, err)
			}
		case Rest:
			var err error
			if renders {
				err = rester.Rest(ev.Duration)
			} else {
				err = sleep(ctx, ev.Duration)
			}
			if err != nil {
				return fmt.Errorf("event %d: %w", i+1, err)
			}
		}
	}
	return nil
}
