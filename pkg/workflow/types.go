package workflow

// EndSentinel is the designated "end of flow" reference value.
// It is a valid target for NextStepID (on steps and branches) and is
// distinct from any step id.
const EndSentinel = "end"

// Default values for a freshly created document.
const (
	DefaultName    = "Untitled Workflow"
	DefaultTrigger = "Manual Trigger"
)

// Workflow is the document being edited: a trigger plus an ordered
// sequence of steps. Step ids are unique within the document.
type Workflow struct {
	Name    string `json:"name" yaml:"name"`
	Trigger string `json:"trigger" yaml:"trigger"`
	Steps   []Step `json:"steps" yaml:"steps"`
}

// Step is one action node in the workflow graph.
// Exactly these fields are permitted; the validator rejects anything else.
type Step struct {
	ID      string `json:"id" yaml:"id"`
	App     string `json:"app" yaml:"app"`
	Action  string `json:"action" yaml:"action"`
	Details string `json:"details" yaml:"details"`

	// NextStepID, if set, must reference an existing step id or EndSentinel.
	// On a step with Branches it acts as the default/fallback path.
	NextStepID string `json:"next_step_id,omitempty" yaml:"next_step_id,omitempty"`

	// Branches makes this step a decision point.
	Branches []Branch `json:"branches,omitempty" yaml:"branches,omitempty"`
}

// Branch is a labeled conditional edge from a decision step.
// Condition is an opaque human-readable predicate; it is never evaluated.
// NextStepID is required and must never be empty.
type Branch struct {
	Condition  string `json:"condition" yaml:"condition"`
	NextStepID string `json:"next_step_id" yaml:"next_step_id"`
}

// New returns the placeholder document a session starts with.
func New() *Workflow {
	return &Workflow{
		Name:    DefaultName,
		Trigger: DefaultTrigger,
		Steps:   []Step{},
	}
}

// Clone returns a deep copy. Documents cross turn boundaries by value;
// callers must never observe aliased step slices.
func (w *Workflow) Clone() *Workflow {
	if w == nil {
		return nil
	}
	out := &Workflow{
		Name:    w.Name,
		Trigger: w.Trigger,
		Steps:   make([]Step, len(w.Steps)),
	}
	for i, s := range w.Steps {
		cs := s
		if s.Branches != nil {
			cs.Branches = make([]Branch, len(s.Branches))
			copy(cs.Branches, s.Branches)
		}
		out.Steps[i] = cs
	}
	return out
}

// Equal reports whether two documents are structurally identical.
func (w *Workflow) Equal(other *Workflow) bool {
	if w == nil || other == nil {
		return w == other
	}
	if w.Name != other.Name || w.Trigger != other.Trigger || len(w.Steps) != len(other.Steps) {
		return false
	}
	for i := range w.Steps {
		a, b := w.Steps[i], other.Steps[i]
		if a.ID != b.ID || a.App != b.App || a.Action != b.Action ||
			a.Details != b.Details || a.NextStepID != b.NextStepID ||
			len(a.Branches) != len(b.Branches) {
			return false
		}
		for j := range a.Branches {
			if a.Branches[j] != b.Branches[j] {
				return false
			}
		}
	}
	return true
}
