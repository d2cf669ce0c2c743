package workflow

import (
	"errors"
	"fmt"
)

// ErrMalformedInput marks input that does not parse as a workflow document
// at all. This is a distinct condition from a validation violation: a
// malformed candidate never reaches the validator's rule checks.
var ErrMalformedInput = errors.New("malformed workflow document")

// ViolationCode identifies one class of schema rule.
type ViolationCode string

const (
	// CodeSchemaViolation: a step (or branch, or the document root) carries
	// a field outside the permitted set.
	CodeSchemaViolation ViolationCode = "schema_violation"
	// CodeMissingField: a required field is absent or empty.
	CodeMissingField ViolationCode = "missing_field"
	// CodeDuplicateID: two steps share an id.
	CodeDuplicateID ViolationCode = "duplicate_id"
	// CodeDanglingReference: a next_step_id points at no existing step and
	// is not the terminal sentinel.
	CodeDanglingReference ViolationCode = "dangling_reference"
	// CodeNullBranchTarget: a branch next_step_id is null or empty. Branch
	// targets are a hard rule, unlike the optional link on a step.
	CodeNullBranchTarget ViolationCode = "null_branch_target"
)

// Violation is a single schema rule failure on a candidate document.
type Violation struct {
	Code        ViolationCode `json:"code"`
	StepIndex   int           `json:"step_index"` // -1 when not tied to a step
	StepID      string        `json:"step_id,omitempty"`
	Field       string        `json:"field,omitempty"`
	Ref         string        `json:"ref,omitempty"`          // offending reference target
	BranchIndex int           `json:"branch_index,omitempty"` // -1 unless branch-scoped
	Message     string        `json:"message"`
}

func (v Violation) String() string {
	loc := "document"
	if v.StepIndex >= 0 {
		loc = fmt.Sprintf("step %d", v.StepIndex)
		if v.StepID != "" {
			loc = fmt.Sprintf("step %d (%s)", v.StepIndex, v.StepID)
		}
	}
	if v.BranchIndex >= 0 {
		loc = fmt.Sprintf("%s branch %d", loc, v.BranchIndex)
	}
	return fmt.Sprintf("%s: %s: %s", v.Code, loc, v.Message)
}

// Result aggregates the violations found on one candidate.
// An empty Result means the candidate is valid.
type Result struct {
	Violations []Violation `json:"violations"`
}

// Valid reports whether the candidate passed every check.
func (r Result) Valid() bool { return len(r.Violations) == 0 }

func (r *Result) add(v Violation) { r.Violations = append(r.Violations, v) }
