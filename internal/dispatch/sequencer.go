// Package dispatch replays an assistant outcome against the dashboard
// command interpreter, with user-visible pacing and per-command fault
// isolation.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dashterm/internal/assist"
	"dashterm/internal/logging"
	"dashterm/internal/shell"
)

// DefaultPace is the delay between emitted lines and submitted commands.
// Purely perceptual; tests run with zero.
const DefaultPace = 150 * time.Millisecond

// Interpreter accepts parsed commands from the sequencer.
type Interpreter interface {
	// Submit runs one command; it reports false when the command name is
	// not recognized.
	Submit(name string, args []string) bool
}

// Reporter receives user-visible messages. Fire and forget.
type Reporter interface {
	Info(msg string)
	Error(msg string)
}

// Sequencer drives the interpreter from assistant outcomes.
type Sequencer struct {
	interp   Interpreter
	reporter Reporter
	pace     time.Duration
}

// New creates a sequencer. A negative pace selects DefaultPace; zero
// disables pacing.
func New(interp Interpreter, reporter Reporter, pace time.Duration) *Sequencer {
	if pace < 0 {
		pace = DefaultPace
	}
	return &Sequencer{interp: interp, reporter: reporter, pace: pace}
}

// Run reports the outcome to the user and executes its commands in order.
// One rejected command never prevents the rest of the batch; only context
// cancellation stops it early.
func (s *Sequencer) Run(ctx context.Context, out *assist.Outcome) {
	log := logging.Get(logging.CategoryDispatch)

	if out == nil {
		return
	}
	if !out.Success {
		msg := "query failed"
		if out.Err != nil {
			msg = out.Err.Error()
		}
		s.reporter.Error(msg)
		return
	}

	if out.Explanation != "" {
		for _, line := range strings.Split(out.Explanation, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			s.reporter.Info(line)
			if !s.pause(ctx) {
				return
			}
		}
	}

	if len(out.Commands) > 0 {
		s.reporter.Info(fmt.Sprintf("Running %d command(s):", len(out.Commands)))
		for _, command := range out.Commands {
			s.reporter.Info("> " + command)
			if !s.pause(ctx) {
				return
			}

			tokens := shell.Tokenize(command)
			if len(tokens) == 0 {
				continue
			}
			name := strings.ToLower(tokens[0])
			if !s.interp.Submit(name, tokens[1:]) {
				log.Warn("interpreter rejected command %q", command)
				s.reporter.Error("Unrecognized command: " + name)
			}
			if !s.pause(ctx) {
				return
			}
		}
		return
	}

	if out.Explanation == "" && out.Response != "" {
		// Defensive fallback: nothing parsed, show the raw reply.
		s.reporter.Info(out.Response)
	}
}

// pause sleeps for the configured pacing delay; it reports false when the
// context was cancelled.
func (s *Sequencer) pause(ctx context.Context) bool {
	if s.pace <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-time.After(s.pace):
		return true
	case <-ctx.Done():
		return false
	}
}
