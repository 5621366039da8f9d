// Package terminal is the text I/O surface for trials and calibration: it
// presents stimuli on stdout and captures responses with the arrival
// timestamp taken the moment this process observes the input. The delay
// between the physical keypress and that observation is what the
// calibrator estimates and the engine compensates for.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"cogbench/internal/clock"
)

// ErrTimeout reports that no input arrived inside a response window.
var ErrTimeout = errors.New("terminal: input timeout")

// ErrClosed reports that stdin reached EOF.
var ErrClosed = errors.New("terminal: input closed")

// Line is one captured input line with its observation timestamp.
type Line struct {
	Text string
	At   time.Time
}

// Console abstracts the interactive terminal so the engine, the calibrator
// and the menu can be driven by a scripted fake in tests.
type Console interface {
	Print(a ...any)
	Printf(format string, a ...any)
	Clear()

	// ReadLine blocks for one input line. A timeout of zero waits
	// indefinitely. Returns ErrTimeout when the window elapses and the
	// context error on cancellation.
	ReadLine(ctx context.Context, timeout time.Duration) (Line, error)

	// Drain discards any input typed before the next stimulus, so a
	// stale keystroke can never score against a fresh trial.
	Drain()

	// Pause sleeps for d, honoring cancellation.
	Pause(ctx context.Context, d time.Duration) error

	// Interactive reports whether stdout is a real terminal; ANSI
	// rendering (colors, screen clears) is suppressed when it is not.
	Interactive() bool
}

// Std is the production console over stdin/stdout. A single pump goroutine
// owns stdin for the life of the process and stamps every line as it is
// observed; readers multiplex over the pumped channel with timeouts.
type Std struct {
	clk         clock.Clock
	lines       chan Line
	interactive bool
}

// NewStd starts the input pump and returns the console.
func NewStd(clk clock.Clock) *Std {
	c := &Std{
		clk:         clk,
		lines:       make(chan Line, 8),
		interactive: term.IsTerminal(int(os.Stdout.Fd())),
	}
	go c.pump()
	return c
}

// pump reads stdin line by line, stamping each at the instant it is
// observed. The stamp happens before anything else so scheduler delay in
// the consumer never inflates a measured latency.
func (c *Std) pump() {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		c.lines <- Line{Text: scanner.Text(), At: c.clk.Now()}
	}
	close(c.lines)
}

func (c *Std) Print(a ...any) {
	fmt.Print(a...)
}

func (c *Std) Printf(format string, a ...any) {
	fmt.Printf(format, a...)
}

// Clear clears the screen and homes the cursor.
func (c *Std) Clear() {
	if c.interactive {
		fmt.Print("\033[H\033[2J")
	} else {
		fmt.Println()
	}
}

func (c *Std) Interactive() bool { return c.interactive }

func (c *Std) ReadLine(ctx context.Context, timeout time.Duration) (Line, error) {
	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case line, ok := <-c.lines:
		if !ok {
			return Line{}, ErrClosed
		}
		line.Text = strings.TrimSpace(line.Text)
		return line, nil
	case <-timeoutCh:
		return Line{}, ErrTimeout
	case <-ctx.Done():
		return Line{}, ctx.Err()
	}
}

func (c *Std) Drain() {
	for {
		select {
		case _, ok := <-c.lines:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func (c *Std) Pause(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
