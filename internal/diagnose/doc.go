// Package diagnose renders validation failures and backend errors as
// human-readable feedback for the conversation surface. A diagnostic
// explains what was wrong with the rejected candidate and suggests how
// to rephrase; it never exposes raw backend payloads.
package diagnose
