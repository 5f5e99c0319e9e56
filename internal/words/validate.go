// internal/words/validate.go
//
// Admission rules for a candidate chain word.
//
// Rules are checked in this order; the first failure wins:
//   1. empty                  - zero length
//   2. non_alphabetic         - anything outside A–Z / a–z
//   3. wrong_starting_letter  - must start with the previous word's last letter
//   4. duplicate              - already used anywhere in the chain
//
// Trimming surrounding whitespace is the caller's job.

package words

import (
	"fmt"
	"strings"
)

// Reason identifies why a candidate word was rejected.
type Reason string

const (
	ReasonEmpty         Reason = "empty"
	ReasonNonAlphabetic Reason = "non_alphabetic"
	ReasonWrongStart    Reason = "wrong_starting_letter"
	ReasonDuplicate     Reason = "duplicate"
)

// Rejection is returned by Validate for a word that may not extend the chain.
type Rejection struct {
	Reason Reason
	// Expected is the required starting letter (uppercase); set only for
	// ReasonWrongStart.
	Expected byte
}

// Error returns the user-facing message for the rejection.
func (r *Rejection) Error() string {
	switch r.Reason {
	case ReasonEmpty:
		return "Please enter a word"
	case ReasonNonAlphabetic:
		return "Word must contain only letters"
	case ReasonWrongStart:
		return fmt.Sprintf("Word must start with %q", string(r.Expected))
	case ReasonDuplicate:
		return "This word has already been used"
	}
	return "invalid word"
}

// History is the read-only view of the chain that validation needs.
type History interface {
	// LastWord returns the most recent word, or false on an empty chain.
	LastWord() (string, bool)
	// Contains reports case-insensitive membership.
	Contains(word string) bool
}

// Validate checks candidate against h. It returns nil when the word is
// accepted and a *Rejection otherwise.
func Validate(candidate string, h History) error {
	if len(candidate) == 0 {
		return &Rejection{Reason: ReasonEmpty}
	}
	if !IsAlpha(candidate) {
		return &Rejection{Reason: ReasonNonAlphabetic}
	}
	if last, ok := h.LastWord(); ok && last != "" {
		want := upper(last[len(last)-1])
		if upper(candidate[0]) != want {
			return &Rejection{Reason: ReasonWrongStart, Expected: want}
		}
	}
	if h.Contains(candidate) {
		return &Rejection{Reason: ReasonDuplicate}
	}
	return nil
}

// IsAlpha reports whether s consists only of ASCII letters.
func IsAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

// Canonical returns the display form of an accepted word.
func Canonical(word string) string { return strings.ToUpper(word) }

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
