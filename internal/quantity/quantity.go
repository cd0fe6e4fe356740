// Package quantity is the single commit pipeline for cart line quantities.
// Free-text edits are debounced into one gateway call per burst; the
// stepper buttons commit immediately. Both paths share one clamp and one
// commit function.
package quantity

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultMax is the quantity ceiling when no stock count is known.
const DefaultMax = 99

// DefaultWindow is the quiescence window for free-text edits.
const DefaultWindow = 700 * time.Millisecond

// Clamp bounds v to [1, max].
func Clamp(v, max int) int {
	if max < 1 {
		max = 1
	}
	if v < 1 {
		return 1
	}
	if v > max {
		return max
	}
	return v
}

// ParseAndClamp parses a free-text quantity. The bool reports whether raw
// held a usable number; on failure the returned value is the default 1.
func ParseAndClamp(raw string, max int) (int, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 1, false
	}
	v, err := strconv.Atoi(trimmed)
	if err != nil {
		return 1, false
	}
	return Clamp(v, max), true
}

// CommitFunc pushes a committed quantity to the cart store.
type CommitFunc func(ctx context.Context, lineID uuid.UUID, quantity int) error
