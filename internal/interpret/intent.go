package interpret

import (
	"regexp"
	"strings"

	"github.com/flowsmith/flowsmith/pkg/workflow"
)

// Intent is the classified purpose of an instruction.
type Intent string

const (
	IntentDescribe  Intent = "describe"
	IntentCreate    Intent = "create"
	IntentModify    Intent = "modify"
	IntentRemove    Intent = "remove"
	IntentAmbiguous Intent = "ambiguous"
)

// Policy decides what an ambiguous instruction means.
type Policy string

const (
	// PolicyConservative treats ambiguity as a no-op. This is the default
	// contract: a "describe this workflow" request applied twice must be
	// idempotent.
	PolicyConservative Policy = "conservative"
	// PolicyBestEffort treats ambiguity as a modification attempt.
	PolicyBestEffort Policy = "best-effort"
)

// describePrefixes open an information-seeking request. "when" is absent
// on purpose: "When a new lead arrives..." describes a trigger, not a
// question.
var describePrefixes = []string{
	"what", "why", "how", "who", "where",
	"explain", "describe", "summarize", "summarise",
	"tell me", "show me", "walk me through",
	"can you explain", "can you describe", "could you explain",
	"does this", "do i", "is there", "is this",
}

var removeVerbs = regexp.MustCompile(`(?i)\b(remove|delete|drop|get rid of)\b`)

var modifyKeywords = []string{
	"add ", "change", "update", "modify", "rename", "set ", "insert",
	"instead", "replace", "swap", "move ", "also ", "after ", "before ",
	"if ", "otherwise", "depending on", "branch",
}

var createKeywords = []string{
	"create", "build", "make a", "set up", "setup", "automate",
	"workflow for", "i want a", "i need a", "new workflow", "start over",
	"from scratch",
}

// actionVerbs hint that an instruction narrates an automation to build
// ("when X, send Y and alert Z").
var actionVerbs = []string{
	"send", "alert", "notify", "post", "email", "create a ticket", "log",
	"assign", "add them", "update the",
}

// Classify determines the intent of an instruction against the current
// document. It runs before any backend call and never mutates anything.
func Classify(current *workflow.Workflow, instruction string) Intent {
	text := strings.ToLower(strings.TrimSpace(instruction))
	if text == "" {
		return IntentAmbiguous
	}

	if removeVerbs.MatchString(text) {
		return IntentRemove
	}

	for _, p := range describePrefixes {
		if strings.HasPrefix(text, p) {
			return IntentDescribe
		}
	}

	empty := current == nil || len(current.Steps) == 0

	for _, k := range createKeywords {
		if strings.Contains(text, k) {
			return IntentCreate
		}
	}

	if !empty {
		for _, k := range modifyKeywords {
			if strings.Contains(text, k) {
				return IntentModify
			}
		}
	}

	// A trigger narration ("when ...", "whenever ...", "every time ...")
	// combined with an action verb reads as a workflow description to build.
	if strings.HasPrefix(text, "when ") || strings.HasPrefix(text, "whenever ") ||
		strings.HasPrefix(text, "every time ") || strings.HasPrefix(text, "each time ") {
		for _, v := range actionVerbs {
			if strings.Contains(text, v) {
				return IntentCreate
			}
		}
	}

	if empty {
		// Nothing to modify yet; an actionable sentence starts a workflow.
		for _, v := range actionVerbs {
			if strings.Contains(text, v) {
				return IntentCreate
			}
		}
	}

	// A trailing question mark with no mutation signal is a question.
	if strings.HasSuffix(text, "?") {
		return IntentDescribe
	}

	return IntentAmbiguous
}

var stepIDPattern = regexp.MustCompile(`(?i)\bstep[_\s]?(\d+)\b`)

// RemovalTarget resolves which step a removal instruction points at:
// an explicit "step_N" reference first, then a semantic match on the
// step's app or action text. Returns false when no single step matches.
func RemovalTarget(current *workflow.Workflow, instruction string) (string, bool) {
	if current == nil || len(current.Steps) == 0 {
		return "", false
	}
	text := strings.ToLower(instruction)

	if m := stepIDPattern.FindStringSubmatch(text); m != nil {
		id := "step_" + m[1]
		if _, ok := current.StepByID(id); ok {
			return id, true
		}
		return "", false
	}

	var matches []string
	for _, s := range current.Steps {
		app := strings.ToLower(s.App)
		action := strings.ToLower(s.Action)
		if (app != "" && strings.Contains(text, app)) ||
			(action != "" && strings.Contains(text, action)) {
			matches = append(matches, s.ID)
		}
	}
	if len(matches) == 1 {
		return matches[0], true
	}
	return "", false
}
