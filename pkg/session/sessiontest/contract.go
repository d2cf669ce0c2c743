package sessiontest

import (
	"context"
	"testing"

	"github.com/flowsmith/flowsmith/pkg/session"
	"github.com/flowsmith/flowsmith/pkg/workflow"
)

// RunStoreContract is a reusable suite verifying that a store complies with
// the session.Store contract. Every adapter runs it.
func RunStoreContract(t *testing.T, store session.Store) {
	t.Helper()

	ctx := context.Background()
	sessionID := "contract-session"

	// 1. Load non-existent session
	if _, err := store.Load(ctx, sessionID); err != session.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// 2. Save session
	sess := session.New(sessionID)
	sess.Document.Steps = append(sess.Document.Steps, workflow.Step{
		ID: "step_1", App: "Slack", Action: "Send Message", Details: "Channel: #support",
	})
	sess.NextStepSeq = 1
	sess.Append("user", "add a slack step")
	if err := store.Save(ctx, sess); err != nil {
		t.Fatalf("failed to save session: %v", err)
	}

	// 3. Load session
	loaded, err := store.Load(ctx, sessionID)
	if err != nil {
		t.Fatalf("failed to load session: %v", err)
	}
	if loaded.ID != sessionID {
		t.Errorf("expected ID %s, got %s", sessionID, loaded.ID)
	}
	if len(loaded.Document.Steps) != 1 || loaded.Document.Steps[0].ID != "step_1" {
		t.Errorf("document not round-tripped: %+v", loaded.Document)
	}
	if loaded.NextStepSeq != 1 {
		t.Errorf("expected NextStepSeq 1, got %d", loaded.NextStepSeq)
	}
	if len(loaded.Messages) != 2 {
		t.Errorf("expected 2 messages, got %d", len(loaded.Messages))
	}

	// 4. List contains the session
	ids, err := store.List(ctx)
	if err != nil {
		t.Fatalf("failed to list sessions: %v", err)
	}
	found := false
	for _, id := range ids {
		if id == sessionID {
			found = true
		}
	}
	if !found {
		t.Errorf("session %s missing from list %v", sessionID, ids)
	}

	// 5. Delete session
	if err := store.Delete(ctx, sessionID); err != nil {
		t.Fatalf("failed to delete session: %v", err)
	}
	if _, err := store.Load(ctx, sessionID); err != session.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
