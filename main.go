package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"

	"beep/config"
	"beep/log"
	"beep/score"
	"beep/shutdown"
	"beep/sink"
)

var version = "dev"

const (
	exitOK          = 0
	exitError       = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := shutdown.WithSignals(context.Background())
	code := run(ctx, os.Args, env{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		clipboard: clipboard.ReadAll,
	}, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, argv []string, e env, stderr io.Writer) int {
	prog := filepath.Base(argv[0])
	rep := newReporter(stderr, prog)

	cfg, err := config.Load()
	if err != nil {
		rep.errorf(err)
		return exitError
	}

	inv, err := parseArgs(argv[1:], cfg, e)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		rep.errorf(err)
		return exitError
	}
	if inv.Version {
		fmt.Fprintf(e.stdout, "beep %s\n", version)
		return exitOK
	}

	logDir, err := log.ResolveDir(inv.LogPath)
	if err != nil {
		rep.errorf(fmt.Errorf("failed to resolve log directory: %w", err))
		return exitError
	}
	log.SetDir(logDir)
	if err := log.Init(inv.Verbose); err != nil {
		fmt.Fprintf(stderr, "Warning: could not init logging: %v\n", err)
	}
	defer log.Close()
	log.Info("beep " + version)
	envFile := cfg.EnvFile
	if envFile == "" {
		envFile = "none"
	}
	log.Debugf("config: env_file=%s backend=%s output=%q", envFile, inv.Backend, inv.Output)
	if inv.Output != "" && !sink.UsesOutput(inv.Backend) {
		log.Warn(fmt.Sprintf("output %s ignored by backend %s", inv.Output, inv.Backend))
	}

	// Parsing finishes before any sound is made.
	sc, err := events(inv.Command)
	if err != nil {
		log.Errorf("%s: %v", inv.Command.Name(), err)
		rep.errorf(err)
		return exitError
	}

	log.Debugf("score: %d events, %v, %q", len(sc), sc.Duration(), sc.String())

	out, err := sink.New(inv.Backend, sink.Options{Output: inv.Output})
	if err != nil {
		log.Errorf("backend %s: %v", inv.Backend, err)
		rep.errorf(err)
		return exitError
	}

	log.SessionStart(inv.Command.Name(), inv.Backend, a4Of(inv.Command))
	start := time.Now()

	player := score.NewPlayer(out)
	player.OnEvent = func(i int, ev score.Event) {
		logEvent(i, ev)
		if inv.Verbose {
			rep.event(i, len(sc), ev)
		}
	}
	playErr := player.Play(ctx, sc)
	if closeErr := out.Close(); playErr == nil {
		playErr = closeErr
	}
	log.SessionEnd(len(sc), time.Since(start), playErr)

	switch {
	case playErr == nil:
		if inv.Verbose {
			rep.summary(len(sc), sc.Duration())
		}
		return exitOK
	case errors.Is(playErr, context.Canceled):
		return exitInterrupted
	}
	rep.errorf(playErr)
	return exitError
}

func logEvent(i int, ev score.Event) {
	switch ev := ev.(type) {
	case score.Tone:
		log.Event(i, ev.Note, ev.Frequency, ev.Duration)
	case score.Rest:
		log.Event(i, "", 0, ev.Duration)
	}
}
