package ports

import (
	"context"
	"errors"
)

// ErrGenerationFailure marks any backend failure: unreachable service,
// timeout, or output that is not a workflow document. Callers treat it as
// a diagnosed no-op for the turn, never as corruption of committed state.
var ErrGenerationFailure = errors.New("workflow generation failed")

// GenerateRequest asks the backend for a full updated workflow document.
type GenerateRequest struct {
	// CurrentDocument is the committed document serialized as JSON.
	CurrentDocument []byte
	// Instruction is the raw natural-language request for this turn.
	Instruction string
	// SchemaDescription tells the backend the exact document shape and
	// rules. See workflow.SchemaDescription.
	SchemaDescription string
}

// SummarizeRequest asks the backend for a short conversational response
// about the document, for describe turns and commit messages.
type SummarizeRequest struct {
	Document    []byte
	Instruction string
}

// Generator is the text-generation backend port.
type Generator interface {
	// GenerateWorkflow returns the proposed document as raw JSON bytes.
	// The caller decodes, merges and validates; the backend is never
	// trusted with commit authority.
	GenerateWorkflow(ctx context.Context, req GenerateRequest) ([]byte, error)

	// Summarize returns a short plain-markdown response about the document.
	Summarize(ctx context.Context, req SummarizeRequest) (string, error)
}
