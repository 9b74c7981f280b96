// Package sink plays tones. Each backend implements Sink and is selected by
// name at startup.
package sink

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrUnsupportedBackend = errors.New("unsupported backend")
	ErrNoOutput           = errors.New("backend needs an output file")
)

// DefaultBackend is used when no backend is configured.
const DefaultBackend = "beeep"

// Sink emits one tone at a time. Emit returns once the tone has played for
// approximately d.
type Sink interface {
	Emit(frequency float64, d time.Duration) error
	Close() error
}

// Rester is implemented by sinks that render offline and record rests
// themselves instead of having the caller wait.
type Rester interface {
	Rest(d time.Duration) error
}

type Options struct {
	// Output is the destination file for rendering backends.
	Output string
}

type factory func(Options) (Sink, error)

var backends = map[string]factory{
	"beeep": newBeeep,
	"none":  newNone,
	"wav":   newWav,
	"flac":  newFlac,
}

// UsesOutput reports whether the named backend writes to Options.Output.
func UsesOutput(name string) bool {
	return name == "wav" || name == "flac"
}

// New builds the named backend.
func New(name string, opts Options) (Sink, error) {
	f, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, name)
	}
	return f(opts)
}

// Names lists the backends available on this platform.
func Names() []string {
	names := make([]string, 0, len(backends))
	for n := range backends {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// hold blocks until d has passed since start. Backends whose native call
// returns early use it to keep the blocking contract.
func hold(start time.Time, d time.Duration) {
	if remaining := d - time.Since(start); remaining > 0 {
		time.Sleep(remaining)
	}
}

type noneSink struct{}

func newNone(Options) (Sink, error) { return noneSink{}, nil }

func (noneSink) Emit(_ float64, d time.Duration) error {
	hold(time.Now(), d)
	return nil
}

func (noneSink) Close() error { return nil }
