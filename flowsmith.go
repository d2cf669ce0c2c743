package flowsmith

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowsmith/flowsmith/internal/diagnose"
	"github.com/flowsmith/flowsmith/internal/interpret"
	"github.com/flowsmith/flowsmith/internal/logging"
	"github.com/flowsmith/flowsmith/pkg/ports"
	"github.com/flowsmith/flowsmith/pkg/session"
	"github.com/flowsmith/flowsmith/pkg/workflow"
)

// Version of the flowsmith library.
var Version = "0.1.0"

// Architect is the high-level entry point: it runs the full turn loop of
// interpret, merge, validate and commit against a session.
type Architect struct {
	gen     ports.Generator
	interp  *interpret.Interpreter
	policy  interpret.Policy
	timeout time.Duration
	logger  *slog.Logger
}

// Option defines a functional option for configuring the Architect.
type Option func(*Architect)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Architect) {
		a.logger = logger
	}
}

// WithPolicy sets the ambiguity policy for instruction interpretation.
func WithPolicy(p interpret.Policy) Option {
	return func(a *Architect) {
		a.policy = p
	}
}

// WithGenerationTimeout bounds each backend call. Zero disables the bound.
func WithGenerationTimeout(d time.Duration) Option {
	return func(a *Architect) {
		a.timeout = d
	}
}

// TurnResult is the outcome of one submitted instruction.
type TurnResult struct {
	// Document is the committed document after the turn. When the turn did
	// not commit it is the prior document, unchanged.
	Document *workflow.Workflow
	// Message is the assistant response for the conversation log.
	Message string
	// Committed reports whether the document was replaced this turn.
	Committed bool
	// Diagnostic is set when the turn was rejected, explaining why.
	Diagnostic *diagnose.Diagnostic
	// Diff summarizes what changed when the turn committed.
	Diff *workflow.DocumentDiff
}

// New creates an Architect over the given generation backend.
func New(gen ports.Generator, opts ...Option) *Architect {
	a := &Architect{
		gen:     gen,
		policy:  interpret.PolicyConservative,
		timeout: 60 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.interp = interpret.New(gen,
		interpret.WithLogger(a.logger),
		interpret.WithPolicy(a.policy),
	)
	return a
}

// Submit processes one instruction against the session. The session's
// document is replaced only when the merged candidate validates cleanly;
// every other outcome leaves it byte-for-byte intact. The instruction and
// the assistant response are appended to the session's message log either
// way. Submit returns an error only for programmer misuse; turn-level
// failures are reported through the TurnResult.
func (a *Architect) Submit(ctx context.Context, sess *session.Session, instruction string) (*TurnResult, error) {
	if sess == nil {
		return nil, fmt.Errorf("nil session")
	}
	if sess.Document == nil {
		sess.Document = workflow.New()
	}
	sess.Append("user", instruction)

	seed := sess.NextStepSeq
	if s := workflow.SeedFrom(sess.Document); s > seed {
		seed = s
	}
	alloc := workflow.NewIDAllocator(seed)

	ictx := ctx
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ictx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	cand, err := a.interp.Interpret(ictx, sess.Document, instruction, alloc)
	if err != nil {
		a.logger.Warn("generation failed", "session", sess.ID, "err", err)
		diag := diagnose.ExplainFailure(err, instruction)
		msg := diag.Render()
		sess.Append("assistant", msg)
		return &TurnResult{Document: sess.Document, Message: msg, Diagnostic: diag}, nil
	}

	if cand.Kind == interpret.KindUnchanged {
		msg := a.describe(ctx, sess.Document, instruction)
		sess.Append("assistant", msg)
		return &TurnResult{Document: sess.Document, Message: msg}, nil
	}

	res := workflow.Validate(cand.Document)
	for _, v := range cand.Violations {
		res.Violations = append(res.Violations, v)
	}
	if !res.Valid() {
		a.logger.Info("candidate rejected", "session", sess.ID, "violations", len(res.Violations))
		diag := diagnose.Explain(res, instruction)
		msg := diag.Render()
		sess.Append("assistant", msg)
		return &TurnResult{Document: sess.Document, Message: msg, Diagnostic: diag}, nil
	}

	diff := workflow.Diff(sess.Document, cand.Document)

	// Commit point. From here the new document is the session's document.
	sess.Document = cand.Document
	sess.NextStepSeq = alloc.Sequence()

	msg := a.summarize(ctx, sess.Document, instruction, diff)
	sess.Append("assistant", msg)

	a.logger.Info("turn committed", "session", sess.ID, "kind", cand.Kind, "steps", len(sess.Document.Steps))
	return &TurnResult{Document: sess.Document, Message: msg, Committed: true, Diff: diff}, nil
}

// describe answers an information-seeking turn. The backend failing here is
// harmless: nothing was committed, so we fall back to a canned summary.
func (a *Architect) describe(ctx context.Context, doc *workflow.Workflow, instruction string) string {
	msg, err := a.gen.Summarize(ctx, ports.SummarizeRequest{
		Document:    workflow.EncodeJSON(doc),
		Instruction: instruction,
	})
	if err != nil || msg == "" {
		return fmt.Sprintf("Your workflow **%s** runs on *%s* and currently has %d step(s). "+
			"Tell me what you'd like to add or change.", doc.Name, doc.Trigger, len(doc.Steps))
	}
	return msg
}

// summarize narrates a committed change. A summarization failure never rolls
// the commit back; the deterministic fallback message is used instead.
func (a *Architect) summarize(ctx context.Context, doc *workflow.Workflow, instruction string, diff *workflow.DocumentDiff) string {
	msg, err := a.gen.Summarize(ctx, ports.SummarizeRequest{
		Document:    workflow.EncodeJSON(doc),
		Instruction: instruction,
	})
	if err == nil && msg != "" {
		return msg
	}
	fallback := fmt.Sprintf("Updated workflow: **%s** with %d steps.", doc.Name, len(doc.Steps))
	if diff != nil {
		fallback = fmt.Sprintf("Updated workflow: **%s** with %d steps (%s).", doc.Name, len(doc.Steps), diff.Summary())
	}
	return fallback
}
