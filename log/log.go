package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultDirKeyword selects the OS-specific log directory.
const DefaultDirKeyword = "default"

var (
	diagLog  zerolog.Logger
	diagFile *os.File
	logMu    sync.Mutex
	logReady bool
	pid      int
	dir      string
)

// ResolveDir turns the configured log path into a directory. An empty path
// means file logging is off; relative paths are taken from the working
// directory.
func ResolveDir(p string) (string, error) {
	switch {
	case p == "":
		return "", nil
	case p == DefaultDirKeyword:
		return getDefaultDir()
	case filepath.IsAbs(p):
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

func SetDir(d string) {
	dir = d
}

func ensureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

// Init starts diagnostics logging to diagnostics_log.txt in the configured
// directory. Without a directory logging stays off. verbose lowers the level
// to debug so every played event is recorded.
func Init(verbose bool) error {
	logMu.Lock()
	defer logMu.Unlock()

	if dir == "" {
		return nil
	}
	if err := ensureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error
	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).Level(level).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Debugf(format string, args ...any) {
	if logReady {
		diagLog.Debug().Msg(fmt.Sprintf(format, args...))
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func SessionStart(command, backend string, a4 float64) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("command", command).
		Str("backend", backend).
		Float64("a4_hz", a4).
		Msg("session_start")
}

// Event records one played tone or rest. A zero frequency marks a rest.
func Event(index int, name string, frequency float64, d time.Duration) {
	if !logReady {
		return
	}
	ev := diagLog.Debug().Int("index", index)
	if name != "" {
		ev = ev.Str("note", name)
	}
	if frequency > 0 {
		ev = ev.Float64("freq_hz", frequency)
	}
	ev.Int64("dur_ms", d.Milliseconds()).Msg("event")
}

func SessionEnd(events int, elapsed time.Duration, err error) {
	if !logReady {
		return
	}
	ev := diagLog.Info()
	if err != nil {
		ev = diagLog.Error().Err(err)
	}
	ev.Int("events", events).
		Float64("elapsed_ms", float64(elapsed.Microseconds())/1000).
		Msg("session_end")
}
