package workflow

import "fmt"

// requiredStepFields are present and non-empty on every step.
var requiredStepFields = []string{"id", "app", "action", "details"}

// Validate checks a typed candidate document against the schema rules:
// required fields, id uniqueness, reference integrity and branch targets.
// It never fails for well-formed input; it only reports. Unknown-field
// detection happens at decode time (DecodeStrict), since a typed Workflow
// cannot carry fields outside the schema.
func Validate(w *Workflow) Result {
	var res Result

	ids := make(map[string]int, len(w.Steps))
	for i, s := range w.Steps {
		values := map[string]string{
			"id": s.ID, "app": s.App, "action": s.Action, "details": s.Details,
		}
		for _, f := range requiredStepFields {
			if values[f] == "" {
				res.add(Violation{
					Code: CodeMissingField, StepIndex: i, StepID: s.ID,
					Field: f, BranchIndex: -1,
					Message: fmt.Sprintf("required field %q is missing or empty", f),
				})
			}
		}

		// The sentinel is not a step id; a step claiming it would make every
		// reference to it ambiguous between the step and termination.
		if s.ID == EndSentinel {
			res.add(Violation{
				Code: CodeSchemaViolation, StepIndex: i, StepID: s.ID,
				Field: "id", BranchIndex: -1,
				Message: fmt.Sprintf("id %q is reserved as the terminal marker and cannot name a step", EndSentinel),
			})
		}

		if s.ID != "" {
			if first, dup := ids[s.ID]; dup {
				res.add(Violation{
					Code: CodeDuplicateID, StepIndex: i, StepID: s.ID,
					Field: "id", BranchIndex: -1,
					Message: fmt.Sprintf("id %q already used by step %d", s.ID, first),
				})
			} else {
				ids[s.ID] = i
			}
		}
	}

	// Reference checks run against the full id set so forward links are fine.
	for i, s := range w.Steps {
		if s.NextStepID != "" && s.NextStepID != EndSentinel {
			if _, ok := ids[s.NextStepID]; !ok {
				res.add(Violation{
					Code: CodeDanglingReference, StepIndex: i, StepID: s.ID,
					Field: "next_step_id", Ref: s.NextStepID, BranchIndex: -1,
					Message: fmt.Sprintf("next_step_id %q does not reference an existing step", s.NextStepID),
				})
			}
		}

		for j, b := range s.Branches {
			if b.Condition == "" {
				res.add(Violation{
					Code: CodeMissingField, StepIndex: i, StepID: s.ID,
					Field: "condition", BranchIndex: j,
					Message: "branch condition must be a non-empty predicate",
				})
			}
			if b.NextStepID == "" {
				res.add(Violation{
					Code: CodeNullBranchTarget, StepIndex: i, StepID: s.ID,
					Field: "next_step_id", BranchIndex: j,
					Message: "branch next_step_id must never be null or empty",
				})
				continue
			}
			if b.NextStepID != EndSentinel {
				if _, ok := ids[b.NextStepID]; !ok {
					res.add(Violation{
						Code: CodeDanglingReference, StepIndex: i, StepID: s.ID,
						Field: "next_step_id", Ref: b.NextStepID, BranchIndex: j,
						Message: fmt.Sprintf("branch next_step_id %q does not reference an existing step", b.NextStepID),
					})
				}
			}
		}
	}

	return res
}
