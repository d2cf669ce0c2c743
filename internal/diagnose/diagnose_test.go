package diagnose

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsmith/flowsmith/pkg/workflow"
)

func TestExplainListsEveryViolation(t *testing.T) {
	doc := &workflow.Workflow{
		Name:    "Broken",
		Trigger: "Manual",
		Steps: []workflow.Step{
			{ID: "step_1", App: "Slack", Action: "", Details: "x", NextStepID: "step_9"},
		},
	}
	res := workflow.Validate(doc)
	require.Len(t, res.Violations, 2)

	d := Explain(res, "make it broken")
	assert.Equal(t, KindInvalidCandidate, d.Kind)
	assert.Len(t, d.Items, 2)
	assert.Contains(t, d.Summary, "2 rules")

	out := d.Render()
	// Every violation appears in the rendered feedback, plus a suggestion.
	assert.Contains(t, out, "action")
	assert.Contains(t, out, "step_9")
	assert.Contains(t, out, "rephrasing")
}

func TestExplainSingularSummary(t *testing.T) {
	res := workflow.Result{Violations: []workflow.Violation{
		{Code: workflow.CodeDuplicateID, StepIndex: 1, StepID: "step_1", Field: "id", BranchIndex: -1,
			Message: `id "step_1" already used by step 0`},
	}}

	d := Explain(res, "")
	assert.Contains(t, d.Summary, "1 rule")
	assert.NotContains(t, d.Summary, "1 rules")
}

func TestExplainFailureHidesRawError(t *testing.T) {
	raw := errors.New("Post \"https://openrouter.ai/api/v1/chat/completions\": dial tcp: connection refused")
	d := ExplainFailure(raw, "add a step")

	assert.Equal(t, KindGenerationFailure, d.Kind)
	out := d.Render()
	assert.False(t, strings.Contains(out, "dial tcp"), "raw backend errors must not leak into chat")
	assert.Contains(t, out, "untouched")
}

func TestRuleForCoversEveryCode(t *testing.T) {
	codes := []workflow.ViolationCode{
		workflow.CodeSchemaViolation,
		workflow.CodeMissingField,
		workflow.CodeDuplicateID,
		workflow.CodeDanglingReference,
		workflow.CodeNullBranchTarget,
	}
	for _, code := range codes {
		rule := ruleFor(code)
		assert.NotEqual(t, string(code), rule, "code %s has no human-readable rule", code)
	}
}
