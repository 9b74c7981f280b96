package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"beep/config"
	"beep/note"
	"beep/score"
	"beep/sink"
)

var errUsage = errors.New("usage")

// Command is one of PlayFrequency, PlayNote, PlayScore or Wait.
type Command interface {
	Name() string
}

type PlayFrequency struct {
	Frequency float64
	Duration  time.Duration
}

type PlayNote struct {
	Note     string
	Duration time.Duration
	A4       float64
}

type PlayScore struct {
	Score string
	A4    float64
}

type Wait struct {
	Duration time.Duration
}

func (PlayFrequency) Name() string { return "f" }
func (PlayNote) Name() string      { return "n" }
func (PlayScore) Name() string     { return "s" }
func (Wait) Name() string          { return "b" }

// Invocation is a fully parsed command line.
type Invocation struct {
	Backend string
	Output  string
	LogPath string
	Verbose bool
	Version bool
	Command Command
}

// env carries what argument parsing may read besides argv.
type env struct {
	stdin     io.Reader
	stdout    io.Writer
	clipboard func() (string, error)
}

// usageError is a command-line mistake. It matches errUsage.
type usageError struct{ msg string }

func (e usageError) Error() string        { return e.msg }
func (usageError) Is(target error) bool { return target == errUsage }

func usageErrorf(format string, args ...any) error {
	return usageError{fmt.Sprintf(format, args...)}
}

// isPositional reports whether arg must be taken literally even though it
// starts with '-': a lone "-", a negative number, or a score beginning with
// a rest such as "-,200;C4".
func isPositional(arg string) bool {
	if arg == "-" {
		return true
	}
	if len(arg) < 2 || arg[0] != '-' {
		return false
	}
	c := arg[1]
	return (c >= '0' && c <= '9') || c == ',' || c == ';'
}

// parseInterspersed lets flags appear before or after positional arguments.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		for len(args) > 0 && isPositional(args[0]) {
			positional = append(positional, args[0])
			args = args[1:]
		}
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		if args[0] == "--" {
			return append(positional, args[1:]...), nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func newFlagSet(name string, out io.Writer, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprint(out, usage)
		fs.PrintDefaults()
	}
	return fs
}

const mainUsage = `CLI program to play Beep sound.

Usage: beep [global flags] <command> [args]

Commands:
  f <frequency> [duration]  Play a beep sound with the specified frequency and duration.
  n <note> [duration]       Play a beep sound with the specified note and duration.
  s <notes>                 Play more beep sounds using a music score.
  b [duration]              Wait for a specified duration. (break)

Use "beep <command> -h" for help on a command.

Global flags:
`

const scoreUsage = `Usage: beep s [-a A4] [--file PATH | --clipboard | <notes>]

Play more beep sounds using a music score.

Format: '<note_name>[,duration][;note_name[,duration]...]'
note_name: Note name in the format '<A-G>[#|b]<octave>' e.g. C4, D#3, Gb2.
           Can also be 'break' or '-', which pause the sound for the duration.
duration:  Duration of the beep sound in milliseconds, default 500.

Example: C4;E4;G4;C5,1000

Flags:
`

// parseArgs turns argv (without the program name) into an Invocation.
// Defaults come from cfg. flag.ErrHelp is returned after help was printed.
func parseArgs(args []string, cfg config.Config, e env) (Invocation, error) {
	inv := Invocation{Backend: cfg.Backend, Output: cfg.Output, LogPath: cfg.LogPath}

	global := newFlagSet("beep", e.stdout, mainUsage)
	backendHelp := "Backend to use for beep sound: " + strings.Join(sink.Names(), ", ")
	global.StringVar(&inv.Backend, "b", inv.Backend, backendHelp)
	global.StringVar(&inv.Backend, "backend", inv.Backend, backendHelp)
	global.StringVar(&inv.Output, "o", inv.Output, "Output file for the wav and flac backends")
	global.StringVar(&inv.Output, "output", inv.Output, "Output file for the wav and flac backends")
	global.BoolVar(&inv.Verbose, "v", false, "Print each note as it plays")
	global.BoolVar(&inv.Verbose, "verbose", false, "Print each note as it plays")
	global.StringVar(&inv.LogPath, "logpath", inv.LogPath, `Diagnostics log directory ("default" for the OS location)`)
	global.BoolVar(&inv.Version, "version", false, "Print version and exit")

	if err := global.Parse(args); err != nil {
		return inv, flagError(err)
	}
	if inv.Version {
		return inv, nil
	}

	rest := global.Args()
	if len(rest) == 0 {
		return inv, usageErrorf("No subcommands provided. Use -h or --help for usage information.")
	}

	var err error
	switch sub, subArgs := rest[0], rest[1:]; sub {
	case "f":
		inv.Command, err = parseFrequency(subArgs, e)
	case "n":
		inv.Command, err = parseNote(subArgs, cfg.A4, e)
	case "s":
		inv.Command, err = parseScore(subArgs, cfg.A4, e)
	case "b":
		inv.Command, err = parseWait(subArgs, e)
	default:
		err = usageErrorf("unknown command %q. Use -h or --help for usage information.", sub)
	}
	return inv, err
}

func flagError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return usageError{err.Error()}
}

func parseDurationArg(positional []string, i int) (time.Duration, error) {
	if len(positional) <= i {
		return score.DefaultDuration, nil
	}
	return score.ParseDuration(positional[i])
}

func checkArity(cmd string, positional []string, max int) error {
	if len(positional) > max {
		return usageErrorf("%s: unexpected arguments: %s", cmd, strings.Join(positional[max:], " "))
	}
	return nil
}

func parseFrequency(args []string, e env) (Command, error) {
	fs := newFlagSet("f", e.stdout, "Usage: beep f <frequency> [duration]\n\nPlay a beep sound with the specified frequency (Hz) and duration (ms, default 500).\n")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return nil, flagError(err)
	}
	if len(positional) == 0 {
		return nil, usageErrorf("f: frequency is required")
	}
	if err := checkArity("f", positional, 2); err != nil {
		return nil, err
	}

	freq, err := strconv.ParseFloat(positional[0], 64)
	if err != nil || math.IsNaN(freq) || math.IsInf(freq, 0) || freq <= 0 {
		return nil, fmt.Errorf("invalid frequency %q: must be a positive number of Hz", positional[0])
	}
	d, err := parseDurationArg(positional, 1)
	if err != nil {
		return nil, err
	}
	return PlayFrequency{Frequency: freq, Duration: d}, nil
}

func a4Flags(fs *flag.FlagSet, a4 *float64) {
	const help = "Pitch of the A note in 4th octave (A4) in Hz, used as the standard pitch for calculating note pitches"
	fs.Float64Var(a4, "a", *a4, help)
	fs.Float64Var(a4, "a4", *a4, help)
	fs.Float64Var(a4, "A4Pitch", *a4, "Same as -a4")
}

func parseNote(args []string, a4 float64, e env) (Command, error) {
	cmd := PlayNote{A4: a4}
	fs := newFlagSet("n", e.stdout, "Usage: beep n [-a A4] <note> [duration]\n\nPlay a beep sound with the specified note (e.g. C4) and duration (ms, default 500).\n\nFlags:\n")
	a4Flags(fs, &cmd.A4)
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return nil, flagError(err)
	}
	if len(positional) == 0 {
		return nil, usageErrorf("n: note is required")
	}
	if err := checkArity("n", positional, 2); err != nil {
		return nil, err
	}
	cmd.Note = positional[0]
	if cmd.Duration, err = parseDurationArg(positional, 1); err != nil {
		return nil, err
	}
	return cmd, nil
}

func parseScore(args []string, a4 float64, e env) (Command, error) {
	cmd := PlayScore{A4: a4}
	var file string
	var fromClipboard bool
	fs := newFlagSet("s", e.stdout, scoreUsage)
	a4Flags(fs, &cmd.A4)
	fs.StringVar(&file, "file", "", `Read the score from a file ("-" for stdin)`)
	fs.BoolVar(&fromClipboard, "clipboard", false, "Read the score from the clipboard")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return nil, flagError(err)
	}

	sources := len(positional)
	if file != "" {
		sources++
	}
	if fromClipboard {
		sources++
	}
	switch {
	case sources == 0:
		return nil, usageErrorf("s: notes are required")
	case sources > 1:
		return nil, usageErrorf("s: give exactly one of <notes>, --file or --clipboard")
	}

	switch {
	case file != "":
		cmd.Score, err = readScoreFile(file, e.stdin)
	case fromClipboard:
		cmd.Score, err = e.clipboard()
		if err != nil {
			err = fmt.Errorf("reading clipboard: %w", err)
		}
		cmd.Score = strings.TrimRight(cmd.Score, "\r\n")
	default:
		cmd.Score = positional[0]
	}
	if err != nil {
		return nil, err
	}
	return cmd, nil
}

// readScoreFile reads a score, dropping the trailing newline editors add.
func readScoreFile(path string, stdin io.Reader) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading score: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func parseWait(args []string, e env) (Command, error) {
	fs := newFlagSet("b", e.stdout, "Usage: beep b [duration]\n\nWait for a specified duration in milliseconds, default 500. (break)\n")
	positional, err := parseInterspersed(fs, args)
	if err != nil {
		return nil, flagError(err)
	}
	if err := checkArity("b", positional, 1); err != nil {
		return nil, err
	}
	d, err := parseDurationArg(positional, 0)
	if err != nil {
		return nil, err
	}
	return Wait{Duration: d}, nil
}

// events builds the timed events a command plays.
func events(cmd Command) (score.Score, error) {
	switch c := cmd.(type) {
	case PlayFrequency:
		return score.Score{score.Tone{Frequency: c.Frequency, Duration: c.Duration}}, nil
	case PlayNote:
		freq, err := note.Resolve(c.Note, c.A4)
		if err != nil {
			return nil, err
		}
		return score.Score{score.Tone{Note: c.Note, Frequency: freq, Duration: c.Duration}}, nil
	case PlayScore:
		return score.Parse(c.Score, c.A4)
	case Wait:
		return score.Score{score.Rest{Duration: c.Duration}}, nil
	}
	return nil, fmt.Errorf("unknown command %T", cmd)
}

// a4Of reports the tuning reference a command uses, for logging.
func a4Of(cmd Command) float64 {
	switch c := cmd.(type) {
	case PlayNote:
		return c.A4
	case PlayScore:
		return c.A4
	}
	return 0
}
