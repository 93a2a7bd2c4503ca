package expand

import (
	"errors"
	"fmt"
)

// ErrIDExhausted is returned when every suffix for a base id is taken.
var ErrIDExhausted = errors.New("expand: could not allocate unique id")

const suffixes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// allocateID returns base when free, otherwise the first free base-A..base-Z.
// The chosen id is recorded in taken.
func allocateID(base string, taken map[string]bool) (string, error) {
	if !taken[base] {
		taken[base] = true
		return base, nil
	}
	for _, ch := range suffixes {
		candidate := fmt.Sprintf("%s-%c", base, ch)
		if !taken[candidate] {
			taken[candidate] = true
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w for base=%s", ErrIDExhausted, base)
}

func deliverableBaseID(root string) string {
	return fmt.Sprintf("DEL-%s-01", root)
}

func taskBaseID(root string, seq int) string {
	return fmt.Sprintf("TSK-%s-%02d", root, seq)
}
