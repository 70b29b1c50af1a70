/*
Package segue is a scene-transition orchestrator for chat applications.

On request it silently asks a language model for a short in-character line that
moves the story to a new scene, inserts that line into the conversation as if the
active character spoke it, and optionally triggers a background-image refresh.

# Concept

The host chat application owns the message store, the generation backend and the
image subsystem. Segue reaches them only through the interfaces in pkg/ports,
so the same orchestration runs behind a CLI, an HTTP server, an MCP server or a
test double.

A transition always ends in exactly one outcome string:

	Scene line inserted.
	No output generated.
	Error: <message>

Generation failures never abort a transition: a visible diagnostic line is
inserted instead. Insertion failures abort it. Background-trigger failures are
logged and ignored.

# Usage

	chat := memory.NewChat(domain.Character{Name: "Seraphina"})
	eng, err := segue.New(memory.NewSettingsStore(), chat,
		segue.WithGenerator(myBackend),
		segue.WithCharacters(chat),
	)
	if err != nil {
		log.Fatal(err)
	}

	outcome := eng.Invoke(ctx, []string{"style=noir", "They", "reach", "the", "docks."})
	fmt.Println(outcome) // Scene line inserted.
*/
package segue
