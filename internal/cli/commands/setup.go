// Package commands implements the tabforge subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tabforge-labs/tabforge/internal/config"
	"github.com/tabforge-labs/tabforge/internal/engine"
	"github.com/tabforge-labs/tabforge/internal/task"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
	Engine *engine.Engine
}

// NewCommandContext assembles the dependencies commands share from the
// command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	eng := engine.New(engine.Config{
		Logger: logger,
		Strict: cfg.Strict,
	})

	return &CommandContext{
		Cfg:    cfg,
		Logger: logger,
		Engine: eng,
	}
}

// readFile loads one input file for the engine.
func readFile(path string) (engine.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.File{}, err
	}
	return engine.File{Name: filepath.Base(path), Data: data}, nil
}

// readFiles loads every input file in order.
func readFiles(paths []string) ([]engine.File, error) {
	files := make([]engine.File, 0, len(paths))
	for _, path := range paths {
		file, err := readFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// writeArtifact stores the artifact at out, defaulting to the
// artifact's own name in the working directory. Missing parent
// directories are created.
func writeArtifact(a engine.Artifact, out string) (string, error) {
	if out == "" {
		out = a.Name
	}
	if dir := filepath.Dir(out); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(out, a.Data, 0644); err != nil {
		return "", err
	}
	return out, nil
}

// loadTasks parses an operation selection: either the path of a YAML
// (or JSON) tasks file, or the document itself when the argument does
// not name a file.
func loadTasks(arg string) (*task.Set, error) {
	raw := []byte(arg)
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		raw, err = os.ReadFile(arg)
		if err != nil {
			return nil, err
		}
	}

	var payload map[string]any
	if err := yaml.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parsing tasks: %w", err)
	}
	return task.ParseSet(payload)
}
