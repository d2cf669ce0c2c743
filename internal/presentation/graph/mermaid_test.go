package graph_test

import (
	"strings"
	"testing"

	"github.com/flowsmith/flowsmith/internal/presentation/graph"
	"github.com/flowsmith/flowsmith/pkg/workflow"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		wf       *workflow.Workflow
		contains []string
	}{
		{
			name: "empty document",
			wf:   workflow.New(),
			contains: []string{
				"graph TD",
				`start(("Manual Trigger"))`,
				"start --> fin",
			},
		},
		{
			name: "default chain",
			wf: &workflow.Workflow{
				Name:    "W",
				Trigger: "New lead",
				Steps: []workflow.Step{
					{ID: "step_1", App: "Typeform", Action: "get_submission", Details: "d"},
					{ID: "step_2", App: "Slack", Action: "send_message", Details: "d"},
				},
			},
			contains: []string{
				`start(("New lead"))`,
				"start --> step_1",
				`step_1["Typeform <br/> get_submission"]`,
				"step_1 --> step_2",
				"step_2 --> fin",
			},
		},
		{
			name: "branches with fallback",
			wf: &workflow.Workflow{
				Trigger: "T",
				Steps: []workflow.Step{
					{ID: "step_1", App: "CRM", Action: "score", Details: "d",
						NextStepID: "step_2",
						Branches: []workflow.Branch{
							{Condition: "score > 80", NextStepID: "step_2"},
							{Condition: "spam", NextStepID: workflow.EndSentinel},
						}},
					{ID: "step_2", App: "Slack", Action: "alert", Details: "d"},
				},
			},
			contains: []string{
				`step_1 -- "score > 80" --> step_2`,
				`step_1 -- "spam" --> fin`,
				`step_1 -. "otherwise" .-> step_2`,
			},
		},
		{
			name: "label escaping",
			wf: &workflow.Workflow{
				Trigger: `Webhook "incoming"`,
				Steps: []workflow.Step{
					{ID: "step_1", App: "HTTP", Action: "post", Details: "d"},
				},
			},
			contains: []string{
				`start(("Webhook 'incoming'"))`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.wf)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}

func TestGenerateDOT(t *testing.T) {
	wf := &workflow.Workflow{
		Name:    "W",
		Trigger: "New lead",
		Steps: []workflow.Step{
			{ID: "step_1", App: "Typeform", Action: "get_submission", Details: "d"},
			{ID: "step_2", App: "Slack", Action: "send_message", Details: "d",
				Branches: []workflow.Branch{{Condition: "vip", NextStepID: workflow.EndSentinel}}},
		},
	}

	got := graph.GenerateDOT(wf)
	for _, want := range []string{
		"digraph workflow {",
		"rankdir=TB;",
		"start -> step_1;",
		"step_1 -> step_2;",
		`step_2 -> end [label="vip"];`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("GenerateDOT() = \n%v\nWant substring: %v", got, want)
		}
	}
}
