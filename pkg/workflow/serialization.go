package workflow

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Permitted field sets, used for schema closure checks on raw candidates.
var (
	allowedRootFields   = map[string]bool{"name": true, "trigger": true, "steps": true}
	allowedStepFields   = map[string]bool{"id": true, "app": true, "action": true, "details": true, "next_step_id": true, "branches": true}
	allowedBranchFields = map[string]bool{"condition": true, "next_step_id": true}
)

// DecodeStrict parses raw bytes (typically backend output) into a Workflow.
// It distinguishes three outcomes:
//   - input that is not a JSON object at all -> ErrMalformedInput;
//   - a JSON object carrying fields outside the schema -> SchemaViolation
//     entries in the Result (the typed document is still returned, with
//     the extra fields dropped);
//   - a clean document -> (*Workflow, empty Result, nil).
//
// Rule checks beyond field closure (uniqueness, references) are Validate's
// job; callers combine both.
func DecodeStrict(data []byte) (*Workflow, Result, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, Result{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return DecodeStrictMap(raw)
}

// DecodeStrictMap is DecodeStrict for already-parsed generic maps
// (e.g. a YAML document loaded by the CLI).
func DecodeStrictMap(raw map[string]any) (*Workflow, Result, error) {
	res := checkFieldClosure(raw)

	var wf Workflow
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &wf,
		TagName: "json",
	})
	if err != nil {
		return nil, Result{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, Result{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if wf.Steps == nil {
		wf.Steps = []Step{}
	}
	return &wf, res, nil
}

// checkFieldClosure walks the raw document and reports every field outside
// the permitted sets. The forbidden classics (type, config, name on a step)
// fall out of the same rule.
func checkFieldClosure(raw map[string]any) Result {
	var res Result

	for k := range raw {
		if !allowedRootFields[k] {
			res.add(Violation{
				Code: CodeSchemaViolation, StepIndex: -1, Field: k, BranchIndex: -1,
				Message: fmt.Sprintf("field %q is not part of the workflow schema", k),
			})
		}
	}

	steps, _ := raw["steps"].([]any)
	for i, rs := range steps {
		stepMap, ok := rs.(map[string]any)
		if !ok {
			continue // shape errors surface as ErrMalformedInput in Decode
		}
		stepID, _ := stepMap["id"].(string)
		for k := range stepMap {
			if !allowedStepFields[k] {
				res.add(Violation{
					Code: CodeSchemaViolation, StepIndex: i, StepID: stepID,
					Field: k, BranchIndex: -1,
					Message: fmt.Sprintf("field %q is not permitted on a step", k),
				})
			}
		}

		branches, _ := stepMap["branches"].([]any)
		for j, rb := range branches {
			branchMap, ok := rb.(map[string]any)
			if !ok {
				continue
			}
			for k := range branchMap {
				if !allowedBranchFields[k] {
					res.add(Violation{
						Code: CodeSchemaViolation, StepIndex: i, StepID: stepID,
						Field: k, BranchIndex: j,
						Message: fmt.Sprintf("field %q is not permitted on a branch", k),
					})
				}
			}
		}
	}

	return res
}

// EncodeJSON serializes the document compactly, e.g. for prompts.
func EncodeJSON(w *Workflow) []byte {
	data, _ := json.Marshal(w)
	return data
}

// EncodeJSONIndent serializes the document for human display.
func EncodeJSONIndent(w *Workflow) []byte {
	data, _ := json.MarshalIndent(w, "", "  ")
	return data
}
