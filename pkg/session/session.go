package session

import (
	"errors"

	"github.com/flowsmith/flowsmith/pkg/workflow"
)

// ErrNotFound is returned when a session ID cannot be found in the store.
var ErrNotFound = errors.New("session not found")

// Greeting is the assistant message every new session opens with.
const Greeting = "Hi! I'm your Workflow Architect. Describe a process you want to automate " +
	"(e.g., 'When a new lead arrives in Typeform, send them an email and alert the team on Slack')."

// Message is one entry in the running instruction/response log.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Session is the explicit per-session context: the committed document, the
// message log, and the id high-water mark. It is the only state that lives
// across turns, and it is exclusively mutated by that session's turn
// processing — no process-wide singletons.
type Session struct {
	ID       string             `json:"id"`
	Document *workflow.Workflow `json:"document"`
	Messages []Message          `json:"messages"`

	// NextStepSeq is the IDAllocator high-water mark. Persisting it keeps
	// minted ids monotonic even after steps are removed.
	NextStepSeq int `json:"next_step_seq"`
}

// New creates a session with the placeholder document and greeting.
func New(id string) *Session {
	return &Session{
		ID:       id,
		Document: workflow.New(),
		Messages: []Message{{Role: "assistant", Content: Greeting}},
	}
}

// Append adds a message to the log.
func (s *Session) Append(role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// Clone deep-copies the session so a turn can work on a candidate without
// aliasing the committed state.
func (s *Session) Clone() *Session {
	out := &Session{
		ID:          s.ID,
		Document:    s.Document.Clone(),
		Messages:    make([]Message, len(s.Messages)),
		NextStepSeq: s.NextStepSeq,
	}
	copy(out.Messages, s.Messages)
	return out
}
