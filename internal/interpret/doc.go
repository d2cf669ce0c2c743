/*
Package interpret turns a natural-language instruction plus the current
workflow document into a candidate document.

Instructions are ambiguous between "describe/ask" (no mutation), "create"
(full replace) and "modify" (targeted update). Intent is classified BEFORE
any mutation or backend call, and the default policy is conservative: an
information-seeking or unclear request never silently alters the document.
Removals are resolved locally and deterministically; create/modify intents
go through the generation backend and then the merge engine, which preserves
untouched structure and mints fresh step ids.
*/
package interpret
