/*
Package runner implements the interactive assessment loop for terminals and pipes.

It is the bridge between the engine and a person (or a script) answering
questions. The runner draws each step through a pluggable IOHandler, parses
the reply into answers or navigation commands, and persists the session after
every change when a session manager is configured.

# Key Components

  - Runner: the loop, from the first question to the result brochure.
  - IOHandler: decouples how frames are shown and replies are read.
  - TextHandler: interactive terminal usage, with optional Markdown rendering.
  - JSONHandler: JSON-Lines frames for scripted hosts.

# Usage

	r := runner.NewRunner(engine,
		runner.WithSessions(session.NewManager(store)),
		runner.WithSessionID("kiosk-1"),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	final, err := r.Run(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(final.Phase)
*/
package runner
