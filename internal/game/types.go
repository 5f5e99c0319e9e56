// internal/game/types.go
//
// Core type definitions for chain submissions.
// Defines:
//   - User / Identity: the external identity provider contract.
//   - Kind / Outcome: the result of one submission attempt.

package game

import (
	"context"

	"github.com/robalobadob/wordchain/apps/go-server/internal/chain"
	"github.com/robalobadob/wordchain/apps/go-server/internal/words"
)

// User is the submitter as reported by the identity provider.
type User struct {
	ID       string
	Username string
}

// Identity resolves the user behind a submission. It is called once per
// submission that passes validation and may fail (auth, storage, network).
type Identity interface {
	CurrentUser(ctx context.Context) (User, error)
}

// IdentityFunc adapts a plain function to Identity.
type IdentityFunc func(ctx context.Context) (User, error)

// CurrentUser calls f(ctx).
func (f IdentityFunc) CurrentUser(ctx context.Context) (User, error) { return f(ctx) }

// Kind classifies an Outcome.
type Kind string

const (
	KindSuccess          Kind = "success"
	KindValidationFailed Kind = "validation_failed"
	KindSubmissionFailed Kind = "submission_failed"
)

// Outcome reports how a submission ended. Exactly one of Entry, Rejection
// or Err is set, matching Kind.
type Outcome struct {
	Kind      Kind
	Entry     *chain.Entry
	Rejection *words.Rejection
	Err       error
}

// Message is the text the presentation layer shows the submitter.
func (o Outcome) Message() string {
	switch o.Kind {
	case KindSuccess:
		if o.Entry != nil && o.Entry.Disruptive {
			return "🚀 Successfully disrupted the chain!"
		}
		return "✨ Word added successfully!"
	case KindValidationFailed:
		if o.Rejection != nil {
			return o.Rejection.Error()
		}
	}
	return "Failed to submit word. Please try again or check your connection."
}
