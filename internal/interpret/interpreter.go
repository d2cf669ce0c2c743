package interpret

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/flowsmith/flowsmith/internal/logging"
	"github.com/flowsmith/flowsmith/pkg/ports"
	"github.com/flowsmith/flowsmith/pkg/workflow"
)

// Interpreter classifies instructions and produces candidate documents.
type Interpreter struct {
	gen    ports.Generator
	policy Policy
	logger *slog.Logger
}

// Option configures the Interpreter.
type Option func(*Interpreter)

// WithPolicy sets the ambiguity policy.
func WithPolicy(p Policy) Option {
	return func(it *Interpreter) {
		it.policy = p
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(it *Interpreter) {
		it.logger = logger
	}
}

// New creates an Interpreter over the given generation backend.
func New(gen ports.Generator, opts ...Option) *Interpreter {
	it := &Interpreter{
		gen:    gen,
		policy: PolicyConservative,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// Interpret produces a candidate for one instruction. The current document
// is never mutated; describe/ask intents short-circuit to Unchanged without
// touching the backend, so they are idempotent by construction. Backend or
// parse failures surface as ports.ErrGenerationFailure.
func (it *Interpreter) Interpret(ctx context.Context, current *workflow.Workflow, instruction string, alloc *workflow.IDAllocator) (Candidate, error) {
	intent := Classify(current, instruction)
	it.logger.Debug("instruction classified", "intent", intent)

	switch intent {
	case IntentDescribe:
		return Unchanged(), nil

	case IntentAmbiguous:
		if it.policy == PolicyConservative {
			return Unchanged(), nil
		}
		if len(current.Steps) == 0 {
			intent = IntentCreate
		} else {
			intent = IntentModify
		}

	case IntentRemove:
		target, ok := RemovalTarget(current, instruction)
		if !ok {
			// Could not pin the removal to one step; let the backend
			// resolve it as a modification rather than guessing.
			intent = IntentModify
			break
		}
		it.logger.Debug("removing step locally", "step_id", target)
		return Candidate{Kind: KindUpdate, Document: RemoveStep(current, target)}, nil
	}

	return it.generate(ctx, current, instruction, intent, alloc)
}

func (it *Interpreter) generate(ctx context.Context, current *workflow.Workflow, instruction string, intent Intent, alloc *workflow.IDAllocator) (Candidate, error) {
	raw, err := it.gen.GenerateWorkflow(ctx, ports.GenerateRequest{
		CurrentDocument:   workflow.EncodeJSON(current),
		Instruction:       instruction,
		SchemaDescription: workflow.SchemaDescription,
	})
	if err != nil {
		if errors.Is(err, ports.ErrGenerationFailure) {
			return Candidate{}, err
		}
		return Candidate{}, fmt.Errorf("%w: %v", ports.ErrGenerationFailure, err)
	}

	proposed, res, err := workflow.DecodeStrict(raw)
	if err != nil {
		// The backend answered, but not with anything document-shaped.
		return Candidate{}, fmt.Errorf("%w: unparseable backend response: %v", ports.ErrGenerationFailure, err)
	}

	base := current
	kind := KindUpdate
	if intent == IntentCreate {
		// Full replace: no step survives, every id is minted fresh.
		base = workflow.New()
		kind = KindReplace
	}
	merged := Reconcile(base, proposed, alloc)

	return Candidate{Kind: kind, Document: merged, Violations: res.Violations}, nil
}
