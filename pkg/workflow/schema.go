package workflow

// SchemaDescription is the schema contract handed to the generation
// backend alongside the current document and the user instruction. The
// backend is untrusted; everything stated here is enforced again by
// DecodeStrict and Validate before a candidate can commit.
const SchemaDescription = `Output ONLY a JSON object matching this schema. No chat, no markdown.

{
  "name": "A creative name for this automation",
  "trigger": "The event that starts it (e.g., 'New Email received')",
  "steps": [
    {
      "id": "Unique ID for the step (e.g., 'step_1')",
      "app": "The app involved (e.g., 'Slack', 'Gmail', 'Linear')",
      "action": "The action to take (e.g., 'Send Message', 'Create Ticket')",
      "details": "Short summary of config (e.g., 'Channel: #support')",
      "next_step_id": "OPTIONAL: id of the step that runs next, or 'end'",
      "branches": [
        {
          "condition": "Human-readable predicate (e.g., 'priority is high')",
          "next_step_id": "REQUIRED: id of an existing step, or 'end'. Never null."
        }
      ]
    }
  ]
}

CRITICAL rules:
- Every step MUST have exactly the 4 required fields: id, app, action, details.
- DO NOT use fields like "type", "config", or "name" on steps. Only use:
  id, app, action, details, next_step_id, branches.
- Steps run in array order unless next_step_id or branches say otherwise.
- Conditional requests ("if ... otherwise ...", "depending on") MUST become a
  step with a "branches" array, not a flattened sequential chain. Every branch
  needs a non-null next_step_id.
- When MODIFYING an existing workflow, keep the ids of untouched steps and
  change only what the request asks for. When CREATING a new workflow,
  overwrite the current state entirely.`
