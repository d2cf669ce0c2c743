package workflow

import (
	"errors"
	"testing"
)

func TestDecodeStrictCleanDocument(t *testing.T) {
	data := []byte(`{
		"name": "Lead Alerts",
		"trigger": "New lead",
		"steps": [
			{"id": "step_1", "app": "Slack", "action": "send_message", "details": "Alert #sales"}
		]
	}`)

	wf, res, err := DecodeStrict(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Valid() {
		t.Errorf("unexpected violations: %v", res.Violations)
	}
	if wf.Name != "Lead Alerts" || len(wf.Steps) != 1 {
		t.Errorf("document not decoded: %+v", wf)
	}
}

func TestDecodeStrictMalformedInput(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "this is not json"},
		{"json array", `[1, 2, 3]`},
		{"json scalar", `"hello"`},
		{"truncated", `{"name": "x", "steps": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeStrict([]byte(tt.data))
			if !errors.Is(err, ErrMalformedInput) {
				t.Errorf("expected ErrMalformedInput, got %v", err)
			}
		})
	}
}

func TestDecodeStrictUnknownFields(t *testing.T) {
	data := []byte(`{
		"name": "W",
		"trigger": "T",
		"version": 2,
		"steps": [
			{"id": "step_1", "app": "Slack", "action": "send", "details": "x",
			 "type": "message", "config": {}},
			{"id": "step_2", "app": "Email", "action": "send", "details": "y",
			 "branches": [{"condition": "c", "next_step_id": "end", "label": "yes"}]}
		]
	}`)

	wf, res, err := DecodeStrict(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wf == nil {
		t.Fatal("expected typed document alongside violations")
	}

	// version (root), type + config (step_1), label (branch)
	if got := countCode(res, CodeSchemaViolation); got != 4 {
		t.Errorf("expected 4 SchemaViolation records, got %d: %v", got, res.Violations)
	}

	for _, v := range res.Violations {
		if v.Field == "label" {
			if v.StepIndex != 1 || v.BranchIndex != 0 {
				t.Errorf("branch violation misplaced: %+v", v)
			}
		}
		if v.Field == "type" && v.StepID != "step_1" {
			t.Errorf("step violation misplaced: %+v", v)
		}
	}
}

func TestDecodeStrictNilStepsBecomesEmpty(t *testing.T) {
	wf, _, err := DecodeStrict([]byte(`{"name": "W", "trigger": "T"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wf.Steps == nil {
		t.Error("expected empty steps slice, got nil")
	}
}

func TestEncodeJSONRoundTrip(t *testing.T) {
	wf := validDoc()
	wf.Steps[0].Branches = []Branch{{Condition: "c", NextStepID: "step_2"}}

	decoded, res, err := DecodeStrict(EncodeJSON(wf))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Valid() {
		t.Errorf("unexpected violations: %v", res.Violations)
	}
	if !decoded.Equal(wf) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, wf)
	}
}
