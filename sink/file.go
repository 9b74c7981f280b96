package sink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"beep/encoder"
	"beep/tone"
)

// ErrTooLong is returned when a render would not fit the output format.
var ErrTooLong = errors.New("too long for the output file")

// fileSink renders tones and rests into an audio file instead of a device.
// It never sleeps and encodes one block at a time.
type fileSink struct {
	f   *os.File
	enc encoder.Encoder

	maxFrames uint64
	frames    uint64
}

// writeSeeker hides Close so an encoder can't close the file under us.
type writeSeeker struct {
	io.WriteSeeker
}

func createOutput(opts Options) (*os.File, error) {
	if opts.Output == "" {
		return nil, ErrNoOutput
	}
	f, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	return f, nil
}

func newWav(opts Options) (Sink, error) {
	f, err := createOutput(opts)
	if err != nil {
		return nil, err
	}
	return &fileSink{f: f, enc: encoder.NewWav(writeSeeker{f}), maxFrames: encoder.MaxWavFrames}, nil
}

func newFlac(opts Options) (Sink, error) {
	f, err := createOutput(opts)
	if err != nil {
		return nil, err
	}
	enc, err := encoder.NewFlac(writeSeeker{f})
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileSink{f: f, enc: enc, maxFrames: encoder.MaxFlacFrames}, nil
}

// reserve converts d to frames and checks the output can still hold them.
func (s *fileSink) reserve(d time.Duration) (int, error) {
	n := tone.Frames(encoder.SampleRate, d)
	if uint64(n) > s.maxFrames-s.frames {
		limit := time.Duration(s.maxFrames/encoder.SampleRate) * time.Second
		return 0, fmt.Errorf("%w: %v would pass the %v limit", ErrTooLong, d, limit)
	}
	s.frames += uint64(n)
	return n, nil
}

func (s *fileSink) Emit(frequency float64, d time.Duration) error {
	n, err := s.reserve(d)
	if err != nil {
		return err
	}
	for from := 0; from < n; from += encoder.BlockSize {
		block := tone.SquareSpan(encoder.SampleRate, frequency, n, from, from+encoder.BlockSize, tone.Volume)
		if err := s.enc.EncodeBlock(block); err != nil {
			return err
		}
	}
	return nil
}

func (s *fileSink) Rest(d time.Duration) error {
	n, err := s.reserve(d)
	if err != nil {
		return err
	}
	silence := make([]int16, encoder.BlockSize)
	for from := 0; from < n; from += encoder.BlockSize {
		if err := s.enc.EncodeBlock(silence[:min(encoder.BlockSize, n-from)]); err != nil {
			return err
		}
	}
	return nil
}

func (s *fileSink) Close() error {
	encErr := s.enc.Close()
	if err := s.f.Close(); err != nil && encErr == nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return encErr
}
