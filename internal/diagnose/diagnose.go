package diagnose

import (
	"fmt"
	"strings"

	"github.com/flowsmith/flowsmith/pkg/workflow"
)

// Kind classifies what went wrong with a turn.
type Kind string

const (
	// KindInvalidCandidate: the backend produced a document that failed
	// validation; the previous document was kept.
	KindInvalidCandidate Kind = "invalid_candidate"
	// KindGenerationFailure: the backend was unreachable, timed out, or
	// answered with something that is not a document.
	KindGenerationFailure Kind = "generation_failure"
)

// Item pairs one violation with the rule it broke, phrased for a reader.
type Item struct {
	Violation workflow.Violation
	Rule      string
}

// Diagnostic is the feedback surfaced when a turn does not commit.
type Diagnostic struct {
	Kind       Kind
	Summary    string
	Items      []Item
	Suggestion string
}

const suggestion = "Try rephrasing with simpler, direct instructions, one change at a time."

// Explain builds a diagnostic for a candidate rejected by validation.
func Explain(res workflow.Result, instruction string) *Diagnostic {
	d := &Diagnostic{
		Kind:       KindInvalidCandidate,
		Summary:    fmt.Sprintf("I could not apply that change: the result broke %s.", plural(len(res.Violations), "rule")),
		Suggestion: suggestion,
	}
	for _, v := range res.Violations {
		d.Items = append(d.Items, Item{Violation: v, Rule: ruleFor(v.Code)})
	}
	return d
}

// ExplainFailure builds a diagnostic for a backend failure. The raw error
// is summarized, never echoed verbatim into the conversation.
func ExplainFailure(err error, instruction string) *Diagnostic {
	return &Diagnostic{
		Kind:       KindGenerationFailure,
		Summary:    "I could not generate an update for that instruction. Your workflow was left untouched.",
		Suggestion: suggestion,
	}
}

// Render formats the diagnostic as markdown for chat and HTTP surfaces.
func (d *Diagnostic) Render() string {
	var b strings.Builder
	b.WriteString(d.Summary)
	if len(d.Items) > 0 {
		b.WriteString("\n")
		for _, item := range d.Items {
			b.WriteString("\n- ")
			b.WriteString(item.Violation.String())
		}
	}
	b.WriteString("\n\n")
	b.WriteString(d.Suggestion)
	return b.String()
}

func ruleFor(code workflow.ViolationCode) string {
	switch code {
	case workflow.CodeSchemaViolation:
		return "steps may only carry the documented fields"
	case workflow.CodeMissingField:
		return "every step needs an id, app, action and details"
	case workflow.CodeDuplicateID:
		return "step ids must be unique"
	case workflow.CodeDanglingReference:
		return "references must point at an existing step or the end marker"
	case workflow.CodeNullBranchTarget:
		return "every branch must name a target"
	default:
		return string(code)
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
