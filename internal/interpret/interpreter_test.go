package interpret

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowsmith/flowsmith/pkg/ports"
	"github.com/flowsmith/flowsmith/pkg/workflow"
)

type stubGenerator struct {
	document string
	err      error
	calls    int
}

func (g *stubGenerator) GenerateWorkflow(ctx context.Context, req ports.GenerateRequest) ([]byte, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return []byte(g.document), nil
}

func (g *stubGenerator) Summarize(ctx context.Context, req ports.SummarizeRequest) (string, error) {
	return "", nil
}

func TestInterpretDescribeSkipsBackend(t *testing.T) {
	gen := &stubGenerator{}
	it := New(gen)
	alloc := workflow.NewIDAllocator(0)

	cand, err := it.Interpret(context.Background(), twoStepDoc(), "What does this workflow do?", alloc)
	require.NoError(t, err)
	assert.Equal(t, KindUnchanged, cand.Kind)
	assert.Nil(t, cand.Document)
	assert.Zero(t, gen.calls, "describe must never call the backend")
}

func TestInterpretAmbiguousConservative(t *testing.T) {
	gen := &stubGenerator{}
	it := New(gen) // conservative is the default
	alloc := workflow.NewIDAllocator(0)

	cand, err := it.Interpret(context.Background(), twoStepDoc(), "hmm, interesting", alloc)
	require.NoError(t, err)
	assert.Equal(t, KindUnchanged, cand.Kind)
	assert.Zero(t, gen.calls)
}

func TestInterpretAmbiguousBestEffort(t *testing.T) {
	gen := &stubGenerator{document: `{"name": "W", "trigger": "T", "steps": []}`}
	it := New(gen, WithPolicy(PolicyBestEffort))
	alloc := workflow.NewIDAllocator(0)

	cand, err := it.Interpret(context.Background(), twoStepDoc(), "hmm, interesting", alloc)
	require.NoError(t, err)
	assert.Equal(t, KindUpdate, cand.Kind)
	assert.Equal(t, 1, gen.calls)
}

func TestInterpretRemoveIsLocal(t *testing.T) {
	gen := &stubGenerator{}
	it := New(gen)
	alloc := workflow.NewIDAllocator(2)

	cand, err := it.Interpret(context.Background(), twoStepDoc(), "remove step_2", alloc)
	require.NoError(t, err)
	assert.Equal(t, KindUpdate, cand.Kind)
	require.NotNil(t, cand.Document)
	assert.Len(t, cand.Document.Steps, 1)
	assert.Zero(t, gen.calls, "explicit removal must not call the backend")
}

func TestInterpretRemoveUnresolvableFallsToBackend(t *testing.T) {
	gen := &stubGenerator{document: `{"name": "W", "trigger": "T", "steps": []}`}
	it := New(gen)
	alloc := workflow.NewIDAllocator(2)

	cand, err := it.Interpret(context.Background(), twoStepDoc(), "remove the email step", alloc)
	require.NoError(t, err)
	assert.Equal(t, KindUpdate, cand.Kind)
	assert.Equal(t, 1, gen.calls)
}

func TestInterpretCreateIsReplace(t *testing.T) {
	gen := &stubGenerator{document: `{
		"name": "Expense Approval", "trigger": "New expense report",
		"steps": [{"id": "x", "app": "Email", "action": "send", "details": "d"}]
	}`}
	it := New(gen)
	alloc := workflow.NewIDAllocator(2)

	cand, err := it.Interpret(context.Background(), twoStepDoc(), "start over with an expense approval flow", alloc)
	require.NoError(t, err)
	assert.Equal(t, KindReplace, cand.Kind)
	require.Len(t, cand.Document.Steps, 1)
	// Replace reconciles against an empty document: every id is minted and
	// the session floor keeps retired ids retired.
	assert.Equal(t, "step_3", cand.Document.Steps[0].ID)
}

func TestInterpretBackendFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("connection refused")}
	it := New(gen)
	alloc := workflow.NewIDAllocator(0)

	_, err := it.Interpret(context.Background(), twoStepDoc(), "add an email step", alloc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrGenerationFailure))
}

func TestInterpretUnparseableBackendOutput(t *testing.T) {
	gen := &stubGenerator{document: "I'm sorry, I can't do that."}
	it := New(gen)
	alloc := workflow.NewIDAllocator(0)

	_, err := it.Interpret(context.Background(), twoStepDoc(), "add an email step", alloc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrGenerationFailure))
}

func TestInterpretCarriesSchemaViolations(t *testing.T) {
	gen := &stubGenerator{document: `{
		"name": "W", "trigger": "T",
		"steps": [{"id": "step_1", "app": "A", "action": "a", "details": "d", "type": "message"}]
	}`}
	it := New(gen)
	alloc := workflow.NewIDAllocator(2)

	cand, err := it.Interpret(context.Background(), twoStepDoc(), "add a message type to step 1", alloc)
	require.NoError(t, err)
	require.Len(t, cand.Violations, 1)
	assert.Equal(t, workflow.CodeSchemaViolation, cand.Violations[0].Code)
}
