package interpret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsmith/flowsmith/pkg/workflow"
)

func TestRemoveStepRepairsReferences(t *testing.T) {
	doc := &workflow.Workflow{
		Name:    "W",
		Trigger: "T",
		Steps: []workflow.Step{
			{ID: "step_1", App: "A", Action: "a", Details: "d", NextStepID: "step_2"},
			{ID: "step_2", App: "B", Action: "b", Details: "d", NextStepID: "step_3"},
			{ID: "step_3", App: "C", Action: "c", Details: "d"},
		},
	}

	out := RemoveStep(doc, "step_2")

	require.Len(t, out.Steps, 2)
	// step_1 pointed at the removed step; it now points at the removed
	// step's own successor.
	assert.Equal(t, "step_3", out.Steps[0].NextStepID)
	// The input document is untouched.
	assert.Len(t, doc.Steps, 3)
	assert.Equal(t, "step_2", doc.Steps[0].NextStepID)
}

func TestRemoveStepRewritesBranchTargets(t *testing.T) {
	doc := &workflow.Workflow{
		Steps: []workflow.Step{
			{ID: "step_1", App: "A", Action: "a", Details: "d",
				Branches: []workflow.Branch{
					{Condition: "yes", NextStepID: "step_2"},
					{Condition: "no", NextStepID: "step_3"},
				}},
			{ID: "step_2", App: "B", Action: "b", Details: "d", NextStepID: workflow.EndSentinel},
			{ID: "step_3", App: "C", Action: "c", Details: "d"},
		},
	}

	out := RemoveStep(doc, "step_2")

	require.Len(t, out.Steps, 2)
	// The branch that targeted step_2 follows step_2's successor, which was
	// the end sentinel. Branch targets are never left empty.
	assert.Equal(t, workflow.EndSentinel, out.Steps[0].Branches[0].NextStepID)
	assert.Equal(t, "step_3", out.Steps[0].Branches[1].NextStepID)
}

func TestRemoveLastStepPointsAtEnd(t *testing.T) {
	doc := &workflow.Workflow{
		Steps: []workflow.Step{
			{ID: "step_1", App: "A", Action: "a", Details: "d", NextStepID: "step_2"},
			{ID: "step_2", App: "B", Action: "b", Details: "d"},
		},
	}

	out := RemoveStep(doc, "step_2")
	require.Len(t, out.Steps, 1)
	assert.Equal(t, workflow.EndSentinel, out.Steps[0].NextStepID)
}

func TestRemoveStepSelfLoop(t *testing.T) {
	doc := &workflow.Workflow{
		Steps: []workflow.Step{
			{ID: "step_1", App: "A", Action: "a", Details: "d", NextStepID: "step_2"},
			{ID: "step_2", App: "B", Action: "b", Details: "d", NextStepID: "step_2"},
		},
	}

	out := RemoveStep(doc, "step_2")
	// The removed step's successor was itself; fall back to the sentinel.
	assert.Equal(t, workflow.EndSentinel, out.Steps[0].NextStepID)
}

func TestRemoveStepUnknownIDIsNoop(t *testing.T) {
	doc := twoStepDoc()
	out := RemoveStep(doc, "step_42")
	assert.True(t, out.Equal(doc))
}

func TestReconcileKeepsMatchingIDs(t *testing.T) {
	current := twoStepDoc()
	proposed := current.Clone()
	proposed.Steps[1].Details = "Alert #growth instead"

	alloc := workflow.NewIDAllocator(workflow.SeedFrom(current))
	out := Reconcile(current, proposed, alloc)

	require.Len(t, out.Steps, 2)
	assert.Equal(t, "step_1", out.Steps[0].ID)
	assert.Equal(t, "step_2", out.Steps[1].ID)
	assert.Equal(t, "Alert #growth instead", out.Steps[1].Details)
}

func TestReconcileMintsFreshIDsForNewSteps(t *testing.T) {
	current := twoStepDoc()
	proposed := current.Clone()
	proposed.Steps = append(proposed.Steps, workflow.Step{
		ID: "notify_ae", App: "Email", Action: "send", Details: "Notify the AE",
	})
	proposed.Steps[1].NextStepID = "notify_ae"

	alloc := workflow.NewIDAllocator(workflow.SeedFrom(current))
	out := Reconcile(current, proposed, alloc)

	require.Len(t, out.Steps, 3)
	// Backend-invented ids are replaced with minted ones and every
	// reference is remapped.
	assert.Equal(t, "step_3", out.Steps[2].ID)
	assert.Equal(t, "step_3", out.Steps[1].NextStepID)
}

func TestReconcileRemapsBranchTargetsOfMintedSteps(t *testing.T) {
	current := twoStepDoc()
	proposed := current.Clone()
	proposed.Steps = append(proposed.Steps,
		workflow.Step{ID: "check_vip", App: "Filter", Action: "branch_on_vip", Details: "Route by VIP status",
			Branches: []workflow.Branch{
				{Condition: "lead is a VIP", NextStepID: "vip_alert"},
				{Condition: "otherwise", NextStepID: "step_2"},
			}},
		workflow.Step{ID: "vip_alert", App: "Slack", Action: "send_message", Details: "Alert #vip",
			NextStepID: workflow.EndSentinel},
	)

	alloc := workflow.NewIDAllocator(workflow.SeedFrom(current))
	out := Reconcile(current, proposed, alloc)

	require.Len(t, out.Steps, 4)
	assert.Equal(t, "step_3", out.Steps[2].ID)
	assert.Equal(t, "step_4", out.Steps[3].ID)
	// Branch targets follow the minted ids; references to kept steps and to
	// the sentinel are untouched.
	assert.Equal(t, "step_4", out.Steps[2].Branches[0].NextStepID)
	assert.Equal(t, "step_2", out.Steps[2].Branches[1].NextStepID)
	assert.Equal(t, workflow.EndSentinel, out.Steps[3].NextStepID)
}

func TestReconcileStepClaimingSentinelIsReminted(t *testing.T) {
	current := twoStepDoc()
	current.Steps[0].NextStepID = workflow.EndSentinel
	current.Steps = current.Steps[:1]

	// Backend invented a step literally named after the terminal marker.
	proposed := current.Clone()
	proposed.Steps = append(proposed.Steps, workflow.Step{
		ID: workflow.EndSentinel, App: "Slack", Action: "send_message", Details: "Alert #sales",
	})

	alloc := workflow.NewIDAllocator(workflow.SeedFrom(current))
	out := Reconcile(current, proposed, alloc)

	require.Len(t, out.Steps, 2)
	assert.Equal(t, "step_2", out.Steps[1].ID)
	// The terminal edge still terminates; it is never redirected at the
	// re-minted step.
	assert.Equal(t, workflow.EndSentinel, out.Steps[0].NextStepID)
}

func TestReconcileNeverReusesRetiredIDs(t *testing.T) {
	current := &workflow.Workflow{
		Name:    "W",
		Trigger: "T",
		Steps: []workflow.Step{
			{ID: "step_1", App: "A", Action: "a", Details: "d"},
		},
	}
	// step_2 and step_3 existed once and were removed; the session floor is 3.
	proposed := current.Clone()
	proposed.Steps = append(proposed.Steps, workflow.Step{
		App: "B", Action: "b", Details: "new step without id",
	})

	alloc := workflow.NewIDAllocator(3)
	out := Reconcile(current, proposed, alloc)

	require.Len(t, out.Steps, 2)
	assert.Equal(t, "step_4", out.Steps[1].ID)
}

func TestReconcileDeduplicatesProposedIDs(t *testing.T) {
	current := twoStepDoc()
	proposed := current.Clone()
	// Backend echoed step_1 twice.
	proposed.Steps = append(proposed.Steps, proposed.Steps[0])

	alloc := workflow.NewIDAllocator(workflow.SeedFrom(current))
	out := Reconcile(current, proposed, alloc)

	ids := map[string]bool{}
	for _, s := range out.Steps {
		assert.False(t, ids[s.ID], "duplicate id %s survived reconcile", s.ID)
		ids[s.ID] = true
	}
}

func TestReconcilePreservesDroppedLinks(t *testing.T) {
	current := twoStepDoc()
	current.Steps[0].NextStepID = "step_2"
	current.Steps[0].Branches = nil

	proposed := current.Clone()
	// Backend kept the step but dropped its link.
	proposed.Steps[0].NextStepID = ""

	alloc := workflow.NewIDAllocator(workflow.SeedFrom(current))
	out := Reconcile(current, proposed, alloc)

	assert.Equal(t, "step_2", out.Steps[0].NextStepID)
}

func TestReconcileFillsEmptyNameAndTrigger(t *testing.T) {
	current := twoStepDoc()
	proposed := &workflow.Workflow{Steps: current.Clone().Steps}

	alloc := workflow.NewIDAllocator(workflow.SeedFrom(current))
	out := Reconcile(current, proposed, alloc)

	assert.Equal(t, current.Name, out.Name)
	assert.Equal(t, current.Trigger, out.Trigger)
}
