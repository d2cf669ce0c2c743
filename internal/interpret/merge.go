package interpret

import "github.com/flowsmith/flowsmith/pkg/workflow"

// RemoveStep returns a new document with the step removed and every
// reference to it repaired: pointers are redirected to the removed step's
// own default successor, or to the terminal sentinel when it had none.
// Branch targets are never left empty. The input document is not mutated.
func RemoveStep(current *workflow.Workflow, stepID string) *workflow.Workflow {
	out := current.Clone()
	idx := out.StepIndexByID(stepID)
	if idx < 0 {
		return out
	}

	successor := out.Successor(idx)
	if successor == "" || successor == stepID {
		successor = workflow.EndSentinel
	}

	out.Steps = append(out.Steps[:idx], out.Steps[idx+1:]...)

	for i := range out.Steps {
		if out.Steps[i].NextStepID == stepID {
			out.Steps[i].NextStepID = successor
		}
		for j := range out.Steps[i].Branches {
			if out.Steps[i].Branches[j].NextStepID == stepID {
				out.Steps[i].Branches[j].NextStepID = successor
			}
		}
	}
	return out
}

// Reconcile merges a backend-proposed document against the current one:
//
//   - a proposed step whose id matches an existing step keeps that id, and
//     inherits the current step's links when the proposal left them empty
//     (untouched structure is preserved);
//   - any other step gets a freshly minted unique id, and every reference
//     to its proposed id is remapped. The terminal sentinel is reserved: a
//     step claiming it is re-minted, but references to the sentinel keep
//     meaning termination and are never redirected at the minted step;
//   - empty name/trigger fall back to the current document's values.
//
// The allocator must be seeded with the session's id high-water mark so
// retired ids are never reused.
func Reconcile(current, proposed *workflow.Workflow, alloc *workflow.IDAllocator) *workflow.Workflow {
	out := proposed.Clone()

	if out.Name == "" {
		out.Name = current.Name
	}
	if out.Trigger == "" {
		out.Trigger = current.Trigger
	}

	currentIDs := make(map[string]bool, len(current.Steps))
	for _, s := range current.Steps {
		currentIDs[s.ID] = true
	}

	remap := make(map[string]string)
	seen := make(map[string]bool, len(out.Steps))
	for i := range out.Steps {
		id := out.Steps[i].ID
		if id != "" && currentIDs[id] && !seen[id] {
			seen[id] = true
			continue
		}
		minted := alloc.Next()
		if id != "" && id != workflow.EndSentinel && !seen[id] {
			remap[id] = minted
		}
		out.Steps[i].ID = minted
		seen[minted] = true
	}

	if len(remap) > 0 {
		for i := range out.Steps {
			if to, ok := remap[out.Steps[i].NextStepID]; ok {
				out.Steps[i].NextStepID = to
			}
			for j := range out.Steps[i].Branches {
				if to, ok := remap[out.Steps[i].Branches[j].NextStepID]; ok {
					out.Steps[i].Branches[j].NextStepID = to
				}
			}
		}
	}

	// Preserve links the proposal dropped on steps it otherwise kept.
	for i := range out.Steps {
		if !currentIDs[out.Steps[i].ID] {
			continue
		}
		prev, _ := current.StepByID(out.Steps[i].ID)
		if out.Steps[i].NextStepID == "" && len(out.Steps[i].Branches) == 0 {
			out.Steps[i].NextStepID = prev.NextStepID
			if prev.Branches != nil {
				branches := make([]workflow.Branch, len(prev.Branches))
				copy(branches, prev.Branches)
				out.Steps[i].Branches = branches
			}
		}
	}

	return out
}
