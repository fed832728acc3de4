// Package commands_test provides tests for CLI command creation.
package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestNewConvertCommand(t *testing.T) {
	cmd := NewConvertCommand()

	assert.Equal(t, "convert", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	// Verify flags exist
	flags := []string{"input", "output", "validate-schema", "password"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewMergeCommand(t *testing.T) {
	cmd := NewMergeCommand()

	assert.Equal(t, "merge FILE...", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	flags := []string{"output", "validate-schema", "password"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewSplitCommand(t *testing.T) {
	cmd := NewSplitCommand()

	assert.Equal(t, "split <file>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	flags := []string{"rows", "output"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewCleanCommand(t *testing.T) {
	cmd := NewCleanCommand()

	assert.Equal(t, "clean <file>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("tasks"), "flag %q should exist", "tasks")
}

func TestNewExtractCommand(t *testing.T) {
	cmd := NewExtractCommand()

	assert.Equal(t, "extract <file>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("tasks"), "flag %q should exist", "tasks")
}

func TestNewSheetsCommand(t *testing.T) {
	cmd := NewSheetsCommand()

	assert.Equal(t, "sheets", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	// Verify subcommands are registered
	subs := map[string]bool{}
	for _, sub := range cmd.Commands() {
		subs[sub.Name()] = true
	}
	for _, name := range []string{"combine", "split", "rename", "reorder", "copy", "list"} {
		assert.True(t, subs[name], "subcommand %q should exist", name)
	}
}

func TestSheetsSubcommandFlags(t *testing.T) {
	tests := []struct {
		name  string
		use   string
		flags []string
	}{
		{"combine", "combine <file>", []string{"target", "output"}},
		{"split", "split <file>", []string{"rows", "output"}},
		{"rename", "rename <file>", []string{"names", "output"}},
		{"reorder", "reorder <file>", []string{"order", "output"}},
		{"copy", "copy <source> <target>", []string{"sheets", "output"}},
	}

	parent := NewSheetsCommand()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cmd *cobra.Command
			for _, sub := range parent.Commands() {
				if sub.Name() == tt.name {
					cmd = sub
				}
			}
			if assert.NotNil(t, cmd, "subcommand %q should exist", tt.name) {
				assert.Equal(t, tt.use, cmd.Use)
				for _, flag := range tt.flags {
					assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
				}
			}
		})
	}
}

func TestNewInspectCommand(t *testing.T) {
	cmd := NewInspectCommand()

	assert.Equal(t, "inspect <file>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("output"), "flag %q should exist", "output")
}

func TestNewWatchCommand(t *testing.T) {
	cmd := NewWatchCommand()

	assert.Equal(t, "watch <dir>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"tasks", "out-dir"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewServeCommand(t *testing.T) {
	cmd := NewServeCommand()

	assert.Equal(t, "serve", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
}
