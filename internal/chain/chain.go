// internal/chain/chain.go
//
// In-memory chain of accepted words shared by every player.
//
// Characteristics:
//   - Append-only: entries are never removed or reordered.
//   - Concurrency-safe via RWMutex (concurrent reads, exclusive append).
//   - Case-insensitive lookup set kept next to the ordered slice.
//   - State is lost when the process restarts.
//
// Chain does not re-validate on Append; callers run words.Validate first
// while holding the submission guard (see game.Controller).

package chain

import (
	"strings"
	"sync"
	"time"
)

// Entry is one accepted word plus its metadata. Values are never mutated
// after Append.
type Entry struct {
	ID         string    `json:"id"`
	Word       string    `json:"word"`       // uppercase
	AuthorID   string    `json:"authorId"`   // opaque id from the identity provider
	Author     string    `json:"author"`     // username, for display
	CreatedAt  time.Time `json:"createdAt"`  // non-decreasing along the chain
	Votes      int       `json:"votes"`
	MemeScore  int       `json:"memeScore"`  // 0..100
	Disruptive bool      `json:"disruptive"`
}

// Chain is the ordered sequence of accepted entries.
type Chain struct {
	mu      sync.RWMutex        // guards entries and seen
	entries []Entry             // in acceptance order
	seen    map[string]struct{} // lowercase words
}

// New returns an empty chain awaiting its first word.
func New() *Chain {
	return &Chain{seen: make(map[string]struct{})}
}

// LastWord returns the most recent word. The boolean is false on an empty
// chain, in which case any starting letter is allowed.
func (c *Chain) LastWord() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.entries) == 0 {
		return "", false
	}
	return c.entries[len(c.entries)-1].Word, true
}

// Last returns the most recent entry.
func (c *Chain) Last() (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.entries) == 0 {
		return Entry{}, false
	}
	return c.entries[len(c.entries)-1], true
}

// NextLetter returns the uppercase letter the next word must start with.
func (c *Chain) NextLetter() (byte, bool) {
	w, ok := c.LastWord()
	if !ok || w == "" {
		return 0, false
	}
	l := w[len(w)-1]
	if l >= 'a' && l <= 'z' {
		l -= 'a' - 'A'
	}
	return l, true
}

// Prompt is the input label shown to the next player.
func (c *Chain) Prompt() string {
	if l, ok := c.NextLetter(); ok {
		return "Enter a word starting with " + string(l)
	}
	return "Enter a word starting with any letter"
}

// Contains reports whether word is already in the chain (case-insensitive).
func (c *Chain) Contains(word string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.seen[strings.ToLower(word)]
	return ok
}

// Append adds e to the end of the chain.
func (c *Chain) Append(e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
	c.seen[strings.ToLower(e.Word)] = struct{}{}
}

// Len returns the number of accepted entries.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Entries returns a snapshot copy of the chain in acceptance order.
func (c *Chain) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}
