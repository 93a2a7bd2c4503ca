package patch

import (
	"errors"
	"fmt"
)

// ErrIDExhausted is returned when no one- or two-letter suffix is free.
var ErrIDExhausted = errors.New("patch: could not allocate unique id")

// suffixes yields A..Z, then AA..ZZ.
func suffixes(yield func(string) bool) {
	for a := 'A'; a <= 'Z'; a++ {
		if !yield(string(a)) {
			return
		}
	}
	for a := 'A'; a <= 'Z'; a++ {
		for b := 'A'; b <= 'Z'; b++ {
			if !yield(string([]rune{a, b})) {
				return
			}
		}
	}
}

// allocateID returns proposed when free, otherwise proposed-<suffix> with
// the first free suffix. The chosen id is recorded in taken.
func allocateID(proposed string, taken map[string]bool) (string, error) {
	if !taken[proposed] {
		taken[proposed] = true
		return proposed, nil
	}
	var found string
	suffixes(func(s string) bool {
		candidate := fmt.Sprintf("%s-%s", proposed, s)
		if taken[candidate] {
			return true
		}
		found = candidate
		return false
	})
	if found == "" {
		return "", fmt.Errorf("%w for %s", ErrIDExhausted, proposed)
	}
	taken[found] = true
	return found, nil
}
