package session

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/avatartag/internal/model"
	"github.com/ppiankov/avatartag/internal/selection"
	"golang.org/x/time/rate"
)

// PollOptions bounds AwaitReady
type PollOptions struct {
	MaxPolls int           // Upper bound on item-count queries; <= 0 uses the default
	Interval time.Duration // Pause between queries; <= 0 uses the default
}

func (o PollOptions) withDefaults() PollOptions {
	if o.MaxPolls <= 0 {
		o.MaxPolls = model.DefaultMaxPolls
	}
	if o.Interval <= 0 {
		o.Interval = model.DefaultPollInterval
	}
	return o
}

// PollOptionsFromConfig converts the session config section
func PollOptionsFromConfig(cfg model.SessionConfig) PollOptions {
	return PollOptions{
		MaxPolls: cfg.MaxPolls,
		Interval: cfg.PollInterval,
	}
}

// AwaitReady polls counter until it reports items, then starts the session.
//
// The counter is queried at most MaxPolls times, paced by a rate limiter so
// the wait yields between queries. Exhausting the bound or cancelling ctx
// leaves the session Failed; Failed is terminal until Reset.
func (s *Session) AwaitReady(ctx context.Context, counter selection.ItemCounter, opts PollOptions) error {
	if s.state != StateUninitialized {
		return fmt.Errorf("await in state %s: %w", s.state, ErrAlreadyStarted)
	}

	opts = opts.withDefaults()
	s.state = StateAwaitingItems
	s.polls = 0

	limiter := rate.NewLimiter(rate.Every(opts.Interval), 1)

	for s.polls < opts.MaxPolls {
		if err := limiter.Wait(ctx); err != nil {
			return s.fail(fmt.Errorf("await items after %d polls: %w", s.polls, err))
		}

		s.polls++
		if n := counter.Count(); n > 0 {
			s.log.WithField("polls", s.polls).Debugf("items available: %d", n)
			return s.Start(n)
		}
	}

	return s.fail(fmt.Errorf("no items after %d polls: %w", s.polls, ErrTimedOut))
}

func (s *Session) fail(err error) error {
	s.state = StateFailed
	s.failure = err
	s.log.WithError(err).Error("labeling session failed")
	return err
}
