package flagsync

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Markpayne01/splitwise2ynab/pkg/splitwise"
)

// ErrNoFriendMatch indicates the configured counterparty name matched no
// Splitwise friend.
var ErrNoFriendMatch = errors.New("no splitwise friend matched")

// ResolveFriendID finds the Splitwise friend with the given name. The
// name is compared case-insensitively against each friend's first name
// and full name. More than one match is an error: the name must be
// unique to be usable as a counterparty.
func ResolveFriendID(friends []splitwise.User, name string) (int64, error) {
	target := strings.ToLower(strings.TrimSpace(name))
	if target == "" {
		return 0, fmt.Errorf("%w: empty name", ErrNoFriendMatch)
	}

	var matches []splitwise.User
	for _, friend := range friends {
		first := strings.ToLower(strings.TrimSpace(friend.FirstName))
		full := strings.ToLower(strings.TrimSpace(friend.FullName()))
		if target == first || target == full {
			matches = append(matches, friend)
		}
	}

	if len(matches) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrNoFriendMatch, name)
	}

	if len(matches) > 1 {
		var names []string
		for _, m := range matches {
			display := m.FullName()
			if display == "" {
				display = fmt.Sprintf("%d", m.ID)
			}
			names = append(names, display)
		}
		return 0, fmt.Errorf("ambiguous splitwise friend name %q, matches: %s", name, strings.Join(names, ", "))
	}

	return matches[0].ID, nil
}
