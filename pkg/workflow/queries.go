package workflow

// StepByID returns the step with the given id, if present.
func (w *Workflow) StepByID(id string) (*Step, bool) {
	for i := range w.Steps {
		if w.Steps[i].ID == id {
			return &w.Steps[i], true
		}
	}
	return nil, false
}

// StepIndexByID returns the document-order index of the step with the
// given id, or -1.
func (w *Workflow) StepIndexByID(id string) int {
	for i := range w.Steps {
		if w.Steps[i].ID == id {
			return i
		}
	}
	return -1
}

// Successor returns the effective default successor for the step at index i.
// Explicit NextStepID wins. A decision step without a fallback has no
// default successor (empty string). Otherwise the default chain applies:
// the next step in document order, or EndSentinel for the last step.
func (w *Workflow) Successor(i int) string {
	s := w.Steps[i]
	if s.NextStepID != "" {
		return s.NextStepID
	}
	if len(s.Branches) > 0 {
		return ""
	}
	if i+1 < len(w.Steps) {
		return w.Steps[i+1].ID
	}
	return EndSentinel
}

// ReachableStepIDs walks the graph from the trigger (which enters the first
// step in document order) and returns the set of step ids reachable through
// default-chain links, explicit links and branch targets.
func (w *Workflow) ReachableStepIDs() map[string]bool {
	reachable := make(map[string]bool)
	if len(w.Steps) == 0 {
		return reachable
	}

	queue := []string{w.Steps[0].ID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if id == EndSentinel || reachable[id] {
			continue
		}
		idx := w.StepIndexByID(id)
		if idx < 0 {
			continue // dangling; the validator reports these
		}
		reachable[id] = true

		if next := w.Successor(idx); next != "" {
			queue = append(queue, next)
		}
		for _, b := range w.Steps[idx].Branches {
			if b.NextStepID != "" {
				queue = append(queue, b.NextStepID)
			}
		}
	}
	return reachable
}

// TerminalSteps returns the steps with no explicit NextStepID and no
// branches. Under the default chain only the last such step truly ends the
// flow, but structurally these are the candidates.
func (w *Workflow) TerminalSteps() []Step {
	var out []Step
	for _, s := range w.Steps {
		if s.NextStepID == "" && len(s.Branches) == 0 {
			out = append(out, s)
		}
	}
	return out
}
