package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tabforge-labs/tabforge/internal/engine"
)

// CleanOptions holds options for the clean command.
type CleanOptions struct {
	Tasks    string
	Output   string
	Validate bool
	Password string
}

// NewCleanCommand creates the clean command.
func NewCleanCommand() *cobra.Command {
	opts := &CleanOptions{}

	cmd := &cobra.Command{
		Use:   "clean <file>",
		Short: "Apply cleaning operations to a tabular file",
		Long: `Apply a set of cleaning operations to one tabular file and write
the cleaned result in the same format.

The operation set is YAML (JSON works too), given inline or as a file:

  remove_duplicates: true
  trim_whitespace: true
  replace_nulls:
    value: "0"
  change_data_types:
    id: int

Operations always run in a fixed order, independent of their order in
the document.`,
		Example: `  # Inline task document
  tabforge clean --tasks '{"remove_duplicates": true}' data.csv

  # Tasks from a file
  tabforge clean --tasks pipeline.yaml data.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Tasks, "tasks", "", "Task document or path to one (required)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file (default: cleaned_<file>)")
	cmd.Flags().BoolVar(&opts.Validate, "validate-schema", false, "Require identical column sets across sheets")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Protect spreadsheet output with a password")
	_ = cmd.MarkFlagRequired("tasks")

	return cmd
}

func runClean(cmd *cobra.Command, path string, opts *CleanOptions) error {
	cc := NewCommandContext(cmd)

	set, err := loadTasks(opts.Tasks)
	if err != nil {
		return err
	}
	file, err := readFile(path)
	if err != nil {
		return err
	}

	artifact, err := cc.Engine.Clean(file, set, engine.Options{
		Validate: opts.Validate,
		Password: opts.Password,
	})
	if err != nil {
		return err
	}

	out, err := writeArtifact(artifact, opts.Output)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
	return nil
}
