// internal/game/controller.go
//
// Submission controller for the shared word chain.
// Responsibilities:
//   - Single-flight guard: at most one submission in flight per chain.
//   - Validate the candidate against the current chain.
//   - Resolve the submitter through the identity provider.
//   - Score, build and append the entry.
//
// State machine: idle → submitting → idle. The guard is held across the
// identity lookup, so a stalled provider keeps the chain locked until it
// returns. A Submit that arrives while another is in flight is dropped.
//
// No retries are attempted; on any failure the chain is left unchanged.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordchain/apps/go-server/internal/chain"
	"github.com/robalobadob/wordchain/apps/go-server/internal/words"
)

// Controller orchestrates submissions to a single chain. It is the chain's
// only writer.
type Controller struct {
	chain    *chain.Chain
	identity Identity
	log      zerolog.Logger
	now      func() time.Time
	newID    func() string

	submitting atomic.Bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger (default: disabled).
func WithLogger(l zerolog.Logger) Option { return func(c *Controller) { c.log = l } }

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option { return func(c *Controller) { c.now = now } }

// WithIDGenerator overrides the entry ID generator (default: uuid).
func WithIDGenerator(f func() string) Option { return func(c *Controller) { c.newID = f } }

// NewController returns an idle controller writing to ch.
func NewController(ch *chain.Chain, id Identity, opts ...Option) *Controller {
	c := &Controller{
		chain:    ch,
		identity: id,
		log:      zerolog.Nop(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Chain returns the chain this controller writes to.
func (c *Controller) Chain() *chain.Chain { return c.chain }

// Submitting reports whether a submission is currently in flight.
func (c *Controller) Submitting() bool { return c.submitting.Load() }

// Submit tries to extend the chain with word, which must already be trimmed.
//
// The boolean is false when another submission was in flight and this call
// was dropped; the Outcome is then zero and must be ignored.
func (c *Controller) Submit(ctx context.Context, word string) (Outcome, bool) {
	if !c.submitting.CompareAndSwap(false, true) {
		c.log.Debug().Str("word", word).Msg("submission dropped: another in flight")
		return Outcome{}, false
	}
	defer c.submitting.Store(false)

	if err := words.Validate(word, c.chain); err != nil {
		var rej *words.Rejection
		if !errors.As(err, &rej) {
			return Outcome{Kind: KindSubmissionFailed, Err: err}, true
		}
		c.log.Debug().Str("word", word).Str("reason", string(rej.Reason)).Msg("word rejected")
		return Outcome{Kind: KindValidationFailed, Rejection: rej}, true
	}

	user, err := c.identity.CurrentUser(ctx)
	if err != nil {
		c.log.Warn().Err(err).Str("word", word).Msg("identity lookup failed")
		return Outcome{Kind: KindSubmissionFailed, Err: fmt.Errorf("current user: %w", err)}, true
	}

	entry := chain.Entry{
		ID:         c.newID(),
		Word:       words.Canonical(word),
		AuthorID:   user.ID,
		Author:     user.Username,
		CreatedAt:  c.timestamp(),
		MemeScore:  words.Score(word),
		Disruptive: words.IsDisruptive(word),
	}
	c.chain.Append(entry)

	c.log.Info().
		Str("word", entry.Word).
		Str("author", entry.Author).
		Int("memeScore", entry.MemeScore).
		Bool("disruptive", entry.Disruptive).
		Int("length", c.chain.Len()).
		Msg("word added")
	return Outcome{Kind: KindSuccess, Entry: &entry}, true
}

// timestamp returns now, never earlier than the last entry's CreatedAt.
func (c *Controller) timestamp() time.Time {
	t := c.now().UTC()
	if last, ok := c.chain.Last(); ok && t.Before(last.CreatedAt) {
		return last.CreatedAt
	}
	return t
}
