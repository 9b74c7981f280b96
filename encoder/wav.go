package encoder

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
)

var errWavClosed = errors.New("wav encoder closed")

// WavEncoder streams PCM into a WAV file. wav.Encode runs in its own
// goroutine and pulls blocks as they are encoded, so memory stays bounded by
// one block; the RIFF sizes are patched in when the stream ends.
type WavEncoder struct {
	blocks chan []int16
	done   chan struct{}
	err    error

	mu          sync.Mutex
	totalFrames uint64
	closed      bool
}

func NewWav(w io.WriteSeeker) *WavEncoder {
	e := &WavEncoder{
		blocks: make(chan []int16),
		done:   make(chan struct{}),
	}
	format := beep.Format{
		SampleRate:  beep.SampleRate(SampleRate),
		NumChannels: Channels,
		Precision:   BitsPerSample / 8,
	}
	go func() {
		defer close(e.done)
		e.err = wav.Encode(w, &blockStreamer{blocks: e.blocks}, format)
	}()
	return e
}

func (e *WavEncoder) EncodeBlock(block []int16) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return errWavClosed
	}
	if len(block) == 0 {
		return nil
	}
	select {
	case e.blocks <- append([]int16(nil), block...):
		e.totalFrames += uint64(len(block))
		return nil
	case <-e.done:
		if e.err == nil {
			return errWavClosed
		}
		return fmt.Errorf("writing wav: %w", e.err)
	}
}

// Close ends the stream and waits for the header to be finalized.
func (e *WavEncoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.closed {
		e.closed = true
		close(e.blocks)
	}
	<-e.done
	if e.err != nil {
		return fmt.Errorf("writing wav: %w", e.err)
	}
	return nil
}

func (e *WavEncoder) TotalFrames() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalFrames
}

// blockStreamer adapts a channel of mono int16 blocks to a beep.Streamer.
// It drains once the channel is closed.
type blockStreamer struct {
	blocks <-chan []int16
	cur    []int16
}

func (s *blockStreamer) Stream(out [][2]float64) (int, bool) {
	n := 0
	for n < len(out) {
		if len(s.cur) == 0 {
			if n > 0 {
				return n, true
			}
			b, ok := <-s.blocks
			if !ok {
				return 0, false
			}
			s.cur = b
			continue
		}
		v := float64(s.cur[0]) / 32768
		out[n][0], out[n][1] = v, v
		s.cur = s.cur[1:]
		n++
	}
	return n, true
}

func (s *blockStreamer) Err() error { return nil }
