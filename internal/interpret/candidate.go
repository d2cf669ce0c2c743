package interpret

import "github.com/flowsmith/flowsmith/pkg/workflow"

// Kind distinguishes the three interpreter outcomes.
type Kind string

const (
	// KindUnchanged: the instruction does not ask for a mutation.
	KindUnchanged Kind = "unchanged"
	// KindReplace: the instruction creates a new workflow from scratch.
	KindReplace Kind = "replace"
	// KindUpdate: the instruction modifies the existing workflow.
	KindUpdate Kind = "update"
)

// Candidate is a not-yet-validated document produced for one turn.
// Document is nil when Kind is KindUnchanged.
type Candidate struct {
	Kind     Kind
	Document *workflow.Workflow

	// Violations carries schema-closure findings detected while decoding
	// backend output (unknown fields). The caller merges them with the
	// structural validation result before deciding whether to commit.
	Violations []workflow.Violation
}

// Unchanged returns the no-op candidate.
func Unchanged() Candidate {
	return Candidate{Kind: KindUnchanged}
}
