package workflow

import (
	"fmt"
	"strings"
)

// DocumentDiff summarizes the changes between two committed documents.
// It backs commit messages and structured logs; it is not a patch format.
type DocumentDiff struct {
	NameChanged    bool     `json:"name_changed,omitempty"`
	TriggerChanged bool     `json:"trigger_changed,omitempty"`
	Added          []string `json:"added,omitempty"`    // step ids
	Removed        []string `json:"removed,omitempty"`  // step ids
	Modified       []string `json:"modified,omitempty"` // step ids
}

// Diff compares two documents by step id. A nil old document is treated as
// the empty placeholder (initial load). Returns nil when nothing changed.
func Diff(old, new *Workflow) *DocumentDiff {
	if new == nil {
		return nil
	}
	if old == nil {
		old = New()
	}

	d := &DocumentDiff{
		NameChanged:    old.Name != new.Name,
		TriggerChanged: old.Trigger != new.Trigger,
	}

	oldByID := make(map[string]Step, len(old.Steps))
	for _, s := range old.Steps {
		oldByID[s.ID] = s
	}

	seen := make(map[string]bool, len(new.Steps))
	for _, s := range new.Steps {
		seen[s.ID] = true
		prev, existed := oldByID[s.ID]
		if !existed {
			d.Added = append(d.Added, s.ID)
			continue
		}
		if !stepEqual(prev, s) {
			d.Modified = append(d.Modified, s.ID)
		}
	}
	for _, s := range old.Steps {
		if !seen[s.ID] {
			d.Removed = append(d.Removed, s.ID)
		}
	}

	if !d.NameChanged && !d.TriggerChanged &&
		len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0 {
		return nil
	}
	return d
}

// Summary renders the diff as a short human-readable phrase,
// e.g. "added 2 steps, modified 1 step".
func (d *DocumentDiff) Summary() string {
	if d == nil {
		return "no changes"
	}
	var parts []string
	if n := len(d.Added); n > 0 {
		parts = append(parts, fmt.Sprintf("added %d %s", n, plural(n, "step")))
	}
	if n := len(d.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("removed %d %s", n, plural(n, "step")))
	}
	if n := len(d.Modified); n > 0 {
		parts = append(parts, fmt.Sprintf("modified %d %s", n, plural(n, "step")))
	}
	if d.TriggerChanged {
		parts = append(parts, "changed the trigger")
	}
	if d.NameChanged {
		parts = append(parts, "renamed the workflow")
	}
	if len(parts) == 0 {
		return "no changes"
	}
	return strings.Join(parts, ", ")
}

func stepEqual(a, b Step) bool {
	if a.ID != b.ID || a.App != b.App || a.Action != b.Action ||
		a.Details != b.Details || a.NextStepID != b.NextStepID ||
		len(a.Branches) != len(b.Branches) {
		return false
	}
	for i := range a.Branches {
		if a.Branches[i] != b.Branches[i] {
			return false
		}
	}
	return true
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
