package terminal

import (
	"context"
	"strings"
	"time"

	"cogbench/internal/clock"
)

// Reply is one scripted input: the text the "user" types and how long after
// the prompt it arrives.
type Reply struct {
	Text  string
	After time.Duration
}

// TimeoutReply marks a response window that elapses with no input.
func TimeoutReply() Reply { return Reply{After: -1} }

// Script is a Console driven by a fake clock and a queue of replies, used
// to test the engine and calibrator without a terminal or real time.
type Script struct {
	Clk     *clock.Fake
	Replies []Reply
	Output  strings.Builder

	next int
}

// NewScript builds a scripted console over a fake clock.
func NewScript(clk *clock.Fake, replies ...Reply) *Script {
	return &Script{Clk: clk, Replies: replies}
}

func (s *Script) Print(a ...any) {
	for _, v := range a {
		switch t := v.(type) {
		case string:
			s.Output.WriteString(t)
		default:
		}
	}
}

func (s *Script) Printf(format string, a ...any) {
	s.Output.WriteString(format)
}

func (s *Script) Clear()            {}
func (s *Script) Drain()            {}
func (s *Script) Interactive() bool { return false }

// Pause advances the fake clock instead of sleeping.
func (s *Script) Pause(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Clk.Advance(d)
	return nil
}

// ReadLine consumes the next scripted reply, advancing the fake clock by
// the reply's delay (or the full timeout for a TimeoutReply). An exhausted
// script times out when a window is set and blocks on cancellation
// semantics otherwise, mirroring a user who stops typing.
func (s *Script) ReadLine(ctx context.Context, timeout time.Duration) (Line, error) {
	if err := ctx.Err(); err != nil {
		return Line{}, err
	}
	if s.next >= len(s.Replies) {
		if timeout > 0 {
			s.Clk.Advance(timeout)
			return Line{}, ErrTimeout
		}
		return Line{}, ErrClosed
	}

	reply := s.Replies[s.next]
	s.next++

	if reply.After < 0 || (timeout > 0 && reply.After > timeout) {
		s.Clk.Advance(timeout)
		return Line{}, ErrTimeout
	}
	s.Clk.Advance(reply.After)
	return Line{Text: strings.TrimSpace(reply.Text), At: s.Clk.Now()}, nil
}
