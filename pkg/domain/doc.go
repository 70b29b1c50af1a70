/*
Package domain contains the core models of the segue scene-transition orchestrator.

It is kept pure and free of I/O, following Hexagonal Architecture principles:
adapters and the runtime depend on it, never the other way around.

# Key Entities

  - Settings: The persisted user configuration (instruction template, auto background flag).
  - Request: One transition invocation (note, style, token budget, background override).
  - Message: The generated line handed to the host conversation store.
  - Outcome: The terminal status string reported to the caller.
*/
package domain
