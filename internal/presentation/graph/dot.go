package graph

import (
	"fmt"
	"strings"

	"github.com/flowsmith/flowsmith/pkg/workflow"
)

// GenerateDOT produces a Graphviz digraph from a workflow document, for
// surfaces that render with dot rather than Mermaid. Steps become boxes
// labeled with app, action and details; the trigger and end marker are
// ellipses.
func GenerateDOT(wf *workflow.Workflow) string {
	var sb strings.Builder
	sb.WriteString("digraph workflow {\n")
	sb.WriteString("    rankdir=TB;\n")
	sb.WriteString("    node [shape=box, style=rounded, fontname=\"Helvetica\"];\n")

	sb.WriteString(fmt.Sprintf("    start [label=%q, shape=ellipse, style=filled, fillcolor=lightblue];\n", wf.Trigger))
	sb.WriteString("    end [label=\"End\", shape=ellipse, style=filled, fillcolor=lightgray];\n")

	for _, step := range wf.Steps {
		label := fmt.Sprintf("%s\n%s\n%s", step.App, step.Action, truncate(step.Details, 60))
		sb.WriteString(fmt.Sprintf("    %s [label=%q];\n", sanitizeDOTID(step.ID), label))
	}

	if len(wf.Steps) > 0 {
		sb.WriteString(fmt.Sprintf("    start -> %s;\n", sanitizeDOTID(wf.Steps[0].ID)))
	} else {
		sb.WriteString("    start -> end;\n")
	}

	for i, step := range wf.Steps {
		from := sanitizeDOTID(step.ID)
		if len(step.Branches) > 0 {
			for _, br := range step.Branches {
				sb.WriteString(fmt.Sprintf("    %s -> %s [label=%q];\n",
					from, dotTarget(br.NextStepID), br.Condition))
			}
			if step.NextStepID != "" {
				sb.WriteString(fmt.Sprintf("    %s -> %s [label=\"otherwise\", style=dashed];\n",
					from, dotTarget(step.NextStepID)))
			}
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s -> %s;\n", from, dotTarget(wf.Successor(i))))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func dotTarget(id string) string {
	if id == workflow.EndSentinel || id == "" {
		return "end"
	}
	return sanitizeDOTID(id)
}

func sanitizeDOTID(id string) string {
	s := strings.ReplaceAll(id, "-", "_")
	s = strings.ReplaceAll(s, ".", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
