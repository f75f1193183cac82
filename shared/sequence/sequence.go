// Package sequence allocates human-readable identifiers of the form <prefix>-<n>
// for master data tables.
package sequence

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"inap/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	separator          = "-"
	DefaultMaxAttempts = 3
)

// Lister returns the identifiers currently stored for a prefix.
type Lister func(ctx context.Context) ([]string, error)

// Inserter persists a row under the allocated identifier.
type Inserter func(ctx context.Context, id string) error

// Format renders the identifier for suffix n.
func Format(prefix string, n int) string {
	return prefix + separator + strconv.Itoa(n)
}

// Suffix parses the numeric suffix of id. Identifiers that do not carry the prefix
// or whose suffix is not a positive integer are reported as not ok.
func Suffix(prefix, id string) (int, bool) {
	rest, found := strings.CutPrefix(id, prefix+separator)
	if !found || rest == "" {
		return 0, false
	}

	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	n, err := strconv.Atoi(rest)
	if err != nil || n <= 0 {
		return 0, false
	}

	return n, true
}

// Next returns the identifier after the numerically greatest one in ids.
// Malformed identifiers are ignored. An empty set yields <prefix>-1.
func Next(prefix string, ids []string) string {
	highest := 0

	for _, id := range ids {
		n, ok := Suffix(prefix, id)
		if !ok {
			continue
		}

		highest = max(highest, n)
	}

	return Format(prefix, highest+1)
}

// Allocate computes the next identifier and inserts it, recomputing when the insert
// reports a conflict from a concurrent allocation. The last conflict is returned once
// attempts are exhausted.
func Allocate(ctx context.Context, prefix string, attempts int, list Lister, insert Inserter) (string, error) {
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	var lastErr error

	for attempt := range attempts {
		ids, err := list(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to list identifiers for %s: %w", prefix, err)
		}

		id := Next(prefix, ids)

		err = insert(ctx, id)
		if err == nil {
			return id, nil
		}

		if !failure.IsConflict(err) {
			return "", err
		}

		log.Warn().Str("id", id).Int("attempt", attempt+1).Msg("identifier already taken, reallocating")

		lastErr = err
	}

	return "", lastErr
}
