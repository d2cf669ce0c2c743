/*
Package workflow contains the document model for an automation workflow.

A Workflow is the full trigger+steps structure being edited in a session.
Steps form an ordered sequence; a step may link explicitly to another step
via NextStepID, branch on a condition via Branches, or fall through to the
next step in document order (the default chain, computed at read time and
never stored).

The package is kept pure: data types, structural queries, strict decoding
and validation. It performs no I/O and holds no session state.
*/
package workflow
