// internal/words/score.go
//
// Meme scoring for chain words.
// Responsibilities:
//   - Score(): base points per letter plus themed bonuses, capped at MaxScore.
//   - IsDisruptive(): cosmetic "startup" flag shown on an entry.
//
// Notes:
//   • Bonus groups live in scoreGroups as (terms, bonus) rows.
//   • A group pays out at most once per word, however many of its terms match.
//   • The disruptive term list is independent of the bonus table.

package words

import "strings"

const (
	// LetterPoints is the base score awarded per letter.
	LetterPoints = 5
	// MaxScore caps the meme score of a single word.
	MaxScore = 100
)

// termGroup pairs a set of theme terms with the bonus they award.
type termGroup struct {
	Terms []string
	Bonus int
}

// scoreGroups is the bonus table. Terms are lowercase substrings.
var scoreGroups = []termGroup{
	{Terms: []string{"ai", "ml", "api", "saas", "cloud"}, Bonus: 20},
	{Terms: []string{"scale", "enterprise", "solution"}, Bonus: 15},
	{Terms: []string{"blockchain", "crypto", "neural", "quantum"}, Bonus: 25},
	{Terms: []string{"revenue", "growth", "retention"}, Bonus: 15},
}

// disruptiveTerms flag a word as disruptive.
var disruptiveTerms = []string{"ai", "tech", "smart", "cloud"}

// Score returns the meme score of word in [0, MaxScore].
func Score(word string) int {
	lw := strings.ToLower(word)
	score := len(word) * LetterPoints
	for _, g := range scoreGroups {
		if containsAny(lw, g.Terms) {
			score += g.Bonus
		}
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// IsDisruptive reports whether word contains one of the disruptive terms.
func IsDisruptive(word string) bool {
	return containsAny(strings.ToLower(word), disruptiveTerms)
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
