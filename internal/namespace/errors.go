package namespace

import (
	"errors"
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ErrKey is wrapped by every namespace key error.
var ErrKey = errors.New("namespace key error")

// KeyExistsError is returned when adding a key that is already present.
type KeyExistsError struct {
	Namespace string
	Key       string
}

func (e *KeyExistsError) Error() string {
	return fmt.Sprintf("%q already exists; remove it first with %s.Delete(%q)", e.Key, e.Namespace, e.Key)
}

// Unwrap lets errors.Is match ErrKey.
func (e *KeyExistsError) Unwrap() error { return ErrKey }

// KeyMissingError is returned when a key is not present. Suggestion holds
// the closest existing key, if any is close enough.
type KeyMissingError struct {
	Namespace  string
	Key        string
	Suggestion string
}

func (e *KeyMissingError) Error() string {
	if e.Suggestion == "" {
		return fmt.Sprintf("%s does not exist", e.Key)
	}
	return fmt.Sprintf("%s does not exist; did you mean %q", e.Key, e.Suggestion)
}

// Unwrap lets errors.Is match ErrKey.
func (e *KeyMissingError) Unwrap() error { return ErrKey }

// suggestionCutoff is the minimum similarity for a key to be suggested.
const suggestionCutoff = 0.6

// closestMatch returns the candidate most similar to key, or "" when none
// reaches suggestionCutoff. Ties go to the earlier candidate.
func closestMatch(key string, candidates []string) string {
	best, bestScore := "", suggestionCutoff
	for _, candidate := range candidates {
		if score := similarity(key, candidate); score >= bestScore && (best == "" || score > bestScore) {
			best, bestScore = candidate, score
		}
	}
	return best
}

// similarity is 2*M/T where M counts the characters the two strings share
// in an optimal diff and T is their combined length.
func similarity(a, b string) float64 {
	total := len([]rune(a)) + len([]rune(b))
	if total == 0 {
		return 1
	}
	dmp := diffmatchpatch.New()
	matched := 0
	for _, d := range dmp.DiffMain(a, b, false) {
		if d.Type == diffmatchpatch.DiffEqual {
			matched += len([]rune(d.Text))
		}
	}
	return 2 * float64(matched) / float64(total)
}
