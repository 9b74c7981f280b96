package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/hako/durafmt"
	"golang.org/x/term"

	"beep/note"
	"beep/score"
)

var (
	progName  = lipgloss.NewStyle().Bold(true)
	errLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	noteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	restStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

// reporter writes user-facing lines to stderr, styled only on a terminal.
type reporter struct {
	w     io.Writer
	color bool
	prog  string
}

func newReporter(w io.Writer, prog string) *reporter {
	color := false
	if f, ok := w.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &reporter{w: w, color: color, prog: prog}
}

func (r *reporter) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

func (r *reporter) errorf(err error) {
	fmt.Fprintf(r.w, "%s: %s %v\n", r.style(progName, r.prog), r.style(errLabel, "error:"), err)
}

// event prints one progress line for --verbose.
func (r *reporter) event(i, total int, ev score.Event) {
	counter := r.style(dimStyle, fmt.Sprintf("[%d/%d]", i+1, total))
	ms := ev.Length().Milliseconds()
	switch ev := ev.(type) {
	case score.Tone:
		name := ev.Note
		if name == "" {
			name = "tone"
		} else if canon, err := note.Canonical(ev.Note); err == nil && canon != ev.Note {
			name += " (" + canon + ")"
		}
		fmt.Fprintf(r.w, "%s %s %.2f Hz %d ms\n", counter, r.style(noteStyle, name), ev.Frequency, ms)
	case score.Rest:
		fmt.Fprintf(r.w, "%s %s %d ms\n", counter, r.style(restStyle, "rest"), ms)
	}
}

// summary closes a --verbose run with the event count and nominal length.
func (r *reporter) summary(events int, d time.Duration) {
	fmt.Fprintf(r.w, "%s %d events, %s\n", r.style(dimStyle, "done:"), events, durafmt.Parse(d).LimitFirstN(2))
}
