package main

import (
	"bytes"
	"testing"
)

func TestRootHelpListsCommands(t *testing.T) {
	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help: %v", err)
	}

	out := stdout.String()
	for _, name := range []string{"synth", "import", "align", "export", "entries", "status", "config"} {
		requireContains(t, out, name)
	}
}
