//go:build linux

package sink

import (
	"fmt"
	"time"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"

	"beep/tone"
)

func init() {
	backends["pulse"] = newPulse
}

type pulseSink struct {
	client *pulse.Client
}

func newPulse(Options) (Sink, error) {
	c, err := pulse.NewClient(pulse.ClientApplicationName("beep"))
	if err != nil {
		return nil, fmt.Errorf("pulse: %w", err)
	}
	return &pulseSink{client: c}, nil
}

func (s *pulseSink) Emit(frequency float64, d time.Duration) error {
	start := time.Now()
	frames := tone.Frames(tone.SampleRate, d)
	if frames == 0 {
		return nil
	}

	// Samples are rendered per callback so long tones stay small in memory.
	pos := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if pos >= frames {
			return 0, pulse.EndOfData
		}
		mono := tone.SquareSpan(tone.SampleRate, frequency, frames, pos, pos+len(buf)/2, tone.Volume)
		pos += len(mono)
		return copy(buf, tone.Stereo(mono)), nil
	})
	stream, err := s.client.NewPlayback(reader,
		pulse.PlaybackStereo,
		pulse.PlaybackSampleRate(tone.SampleRate),
		pulse.PlaybackLatency(0.1),
		pulse.PlaybackRawOption(func(p *proto.CreatePlaybackStream) {
			p.ChannelVolumes = proto.ChannelVolumes{uint32(proto.VolumeNorm), uint32(proto.VolumeNorm)}
		}),
	)
	if err != nil {
		return fmt.Errorf("pulse playback: %w", err)
	}
	defer stream.Close()

	stream.Start()
	stream.Drain()
	stream.Stop()
	if err := stream.Error(); err != nil {
		return fmt.Errorf("pulse playback: %w", err)
	}
	hold(start, d)
	return nil
}

func (s *pulseSink) Close() error {
	s.client.Close()
	return nil
}
