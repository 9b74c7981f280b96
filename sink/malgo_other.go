//go:build !linux

package sink

import (
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/malgo"

	"beep/tone"
)

func init() {
	backends["malgo"] = newMalgo
}

// malgoSink owns one playback device for the whole run. The data callback
// drains the current buffer and signals done once it runs dry.
type malgoSink struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device

	mu      sync.Mutex
	samples []byte
	pos     int
	done    chan struct{}
}

func newMalgo(Options) (Sink, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("malgo: %w", err)
	}
	s := &malgoSink{ctx: ctx}

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = 1
	config.SampleRate = tone.SampleRate

	s.device, err = malgo.InitDevice(ctx.Context, config, malgo.DeviceCallbacks{
		Data: s.dataCallback,
	})
	if err != nil {
		ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("malgo device: %w", err)
	}
	return s, nil
}

func (s *malgoSink) dataCallback(pOutput, _ []byte, frameCount uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := int(frameCount) * 2
	n := 0
	if s.samples != nil {
		n = copy(pOutput[:want], s.samples[s.pos:])
		s.pos += n
	}
	// Zero-fill remainder
	for i := n; i < want; i++ {
		pOutput[i] = 0
	}
	if s.samples != nil && s.pos >= len(s.samples) {
		s.samples = nil
		close(s.done)
	}
}

func (s *malgoSink) Emit(frequency float64, d time.Duration) error {
	start := time.Now()
	buf := tone.Bytes(tone.Square(tone.SampleRate, frequency, d, tone.Volume))
	if len(buf) == 0 {
		return nil
	}

	done := make(chan struct{})
	s.mu.Lock()
	s.samples, s.pos, s.done = buf, 0, done
	s.mu.Unlock()

	if err := s.device.Start(); err != nil {
		s.mu.Lock()
		s.samples = nil
		s.mu.Unlock()
		return fmt.Errorf("malgo start: %w", err)
	}
	<-done
	hold(start, d)
	return s.device.Stop()
}

func (s *malgoSink) Close() error {
	s.device.Uninit()
	_ = s.ctx.Uninit()
	s.ctx.Free()
	return nil
}
