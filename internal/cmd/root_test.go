package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandHelpMentionsOrchestrate(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})
	_ = cmd.Execute()

	output := buf.String()
	assert.Contains(t, strings.ToLower(output), "orchestrate")
}

func TestRootCommandHasExpectedSubcommands(t *testing.T) {
	root := NewRootCommand()
	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"run", "validate", "feedback"} {
		assert.True(t, names[want], "expected subcommand %q", want)
	}
}

func TestFeedbackCommandHasShowAndClear(t *testing.T) {
	root := NewRootCommand()
	feedback := findCommand(root, "feedback")
	require.NotNil(t, feedback)

	names := make(map[string]bool)
	for _, c := range feedback.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["show"])
	assert.True(t, names["clear"])
}

func findCommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, sub := range cmd.Commands() {
		if sub.Name() == name {
			return sub
		}
	}
	return nil
}
