package graph

import (
	"fmt"
	"strings"

	"github.com/flowsmith/flowsmith/pkg/workflow"
)

// GenerateMermaid produces a Mermaid flowchart from a workflow document.
// It applies semantic styling:
// - Trigger: ((Circle))
// - Step: [Rectangle] with app and action
// - End: ((Circle))
// Branch edges carry their condition as the edge label.
func GenerateMermaid(wf *workflow.Workflow) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	sb.WriteString(fmt.Sprintf("    start((\"%s\"))\n", escapeMermaidLabel(wf.Trigger)))
	sb.WriteString("    fin((\"End\"))\n")

	if len(wf.Steps) > 0 {
		sb.WriteString(fmt.Sprintf("    start --> %s\n", sanitizeMermaidID(wf.Steps[0].ID)))
	} else {
		sb.WriteString("    start --> fin\n")
	}

	for i, step := range wf.Steps {
		safeID := sanitizeMermaidID(step.ID)

		label := fmt.Sprintf("%s <br/> %s", escapeMermaidLabel(step.App), escapeMermaidLabel(step.Action))
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", safeID, label))

		if len(step.Branches) > 0 {
			for _, br := range step.Branches {
				sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n",
					safeID, escapeMermaidLabel(br.Condition), targetID(br.NextStepID)))
			}
			// An explicit next_step_id alongside branches is the fallback edge.
			if step.NextStepID != "" {
				sb.WriteString(fmt.Sprintf("    %s -. \"otherwise\" .-> %s\n",
					safeID, targetID(step.NextStepID)))
			}
			continue
		}

		succ := wf.Successor(i)
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", safeID, targetID(succ)))
	}

	return sb.String()
}

func targetID(id string) string {
	if id == workflow.EndSentinel || id == "" {
		return "fin"
	}
	return sanitizeMermaidID(id)
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
