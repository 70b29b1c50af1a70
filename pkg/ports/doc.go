/*
Package ports defines the driven ports (interfaces) of the segue orchestrator.

These interfaces decouple the transition logic from the host chat application,
so the same core runs inside a CLI, an HTTP server, an MCP server or a test.

# Key Interfaces

  - SettingsStore: Persists the loosely-typed settings blob under a fixed key.
  - Conversation: The host message store (append, observer events, save).
  - Generator: The quiet text-generation capability.
  - Templater: Placeholder substitution ({{char}}, {{user}}).
  - CharacterDirectory: Active-character lookup.
  - ImageBackend: Availability probe and background-regeneration trigger.
*/
package ports
