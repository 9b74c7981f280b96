package encoder

import (
	"math"

	"beep/tone"
)

const (
	SampleRate    = tone.SampleRate
	Channels      = 1
	BitsPerSample = 16
	BlockSize     = 4096
)

const (
	// MaxWavFrames fits the signed 32-bit RIFF size fields.
	MaxWavFrames = (math.MaxInt32 - 44) / (Channels * BitsPerSample / 8)
	// MaxFlacFrames fits the 36-bit total sample count of STREAMINFO.
	MaxFlacFrames = 1<<36 - 1
)

// Encoder turns mono 16-bit PCM blocks into a file format. EncodeBlock does
// not keep block after it returns.
type Encoder interface {
	EncodeBlock(block []int16) error
	Close() error
	TotalFrames() uint64
}
