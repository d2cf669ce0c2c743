/*
Package flowsmith turns natural-language instructions into a typed workflow
document through a validated, atomic update loop.

A workflow is a named automation with a trigger and an ordered list of steps;
steps may branch on conditions. Each conversational turn submits one
instruction against the current document. The instruction is interpreted
(describe, create, modify or remove), a candidate document is produced and
merged against the current one, and the candidate is validated. Only a fully
valid candidate replaces the document; a rejected candidate leaves the
document untouched and yields a diagnostic explaining what was wrong.

# Key Properties

  - Atomic commits: a turn either applies completely or not at all.
  - Conservative interpretation: questions and ambiguous requests never
    silently mutate the document.
  - Stable identity: step ids are minted monotonically per session and a
    retired id is never reused.
  - Structure preservation: steps the instruction did not touch keep their
    fields and links.

# Usage

Wire a generation backend (such as the OpenRouter adapter) into an
Architect and feed it turns:

	package main

	import (
		"context"
		"fmt"
		"log"
		"os"

		"github.com/flowsmith/flowsmith"
		"github.com/flowsmith/flowsmith/pkg/adapters/openrouter"
		"github.com/flowsmith/flowsmith/pkg/session"
	)

	func main() {
		gen := openrouter.New(os.Getenv("OPENROUTER_API_KEY"))
		arch := flowsmith.New(gen)

		sess := session.New("demo")
		res, err := arch.Submit(context.Background(), sess,
			"When a new lead comes in, send a Slack message to #sales")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(res.Message)
	}
*/
package flowsmith
