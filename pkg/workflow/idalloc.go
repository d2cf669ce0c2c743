package workflow

import (
	"fmt"
	"strconv"
	"strings"
)

const idPrefix = "step_"

// IDAllocator mints step ids of the form "step_N". The sequence is
// monotonic for the lifetime of a session: ids retired by a removal are
// never handed out again, so callers must persist the sequence alongside
// the document and re-seed from it.
type IDAllocator struct {
	next int
}

// NewIDAllocator returns an allocator whose first minted id is "step_<seed+1>".
func NewIDAllocator(seed int) *IDAllocator {
	if seed < 0 {
		seed = 0
	}
	return &IDAllocator{next: seed}
}

// SeedFrom returns the highest numeric suffix used by any step id in the
// document, so an allocator seeded from it mints fresh ids.
func SeedFrom(w *Workflow) int {
	max := 0
	for _, s := range w.Steps {
		if n, ok := numericSuffix(s.ID); ok && n > max {
			max = n
		}
	}
	return max
}

// Observe raises the floor so the given id (seen in backend output or a
// loaded document) is never minted again.
func (a *IDAllocator) Observe(id string) {
	if n, ok := numericSuffix(id); ok && n > a.next {
		a.next = n
	}
}

// Next mints the next unique id.
func (a *IDAllocator) Next() string {
	a.next++
	return fmt.Sprintf("%s%d", idPrefix, a.next)
}

// Sequence returns the current high-water mark, for persistence.
func (a *IDAllocator) Sequence() int { return a.next }

func numericSuffix(id string) (int, bool) {
	if !strings.HasPrefix(id, idPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, idPrefix))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
