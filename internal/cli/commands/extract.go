package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tabforge-labs/tabforge/internal/engine"
)

// ExtractOptions holds options for the extract command.
type ExtractOptions struct {
	Tasks    string
	Output   string
	Validate bool
	Password string
}

// NewExtractCommand creates the extract command.
func NewExtractCommand() *cobra.Command {
	opts := &ExtractOptions{}

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract rows, columns or metadata from a tabular file",
		Long: `Extract a slice of one tabular file: rows by index range or
condition, a subset of columns, selected spreadsheet sheets, or the
file's metadata.

The operation set uses the same YAML/JSON task document as clean:

  extract_columns: [id, name]
  extract_rows_by_condition:
    condition: "amount > 100"

Extraction reads the first sheet of a spreadsheet; use extract_sheets
to pull whole sheets instead.`,
		Example: `  # Keep two columns
  tabforge extract --tasks '{"extract_columns": ["id", "name"]}' data.csv

  # Rows 10-99
  tabforge extract --tasks '{"extract_rows_by_index": {"start": 10, "end": 99}}' data.csv

  # Sheet names and first-sheet shape
  tabforge extract --tasks '{"extract_metadata": true}' book.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Tasks, "tasks", "", "Task document or path to one (required)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file (default: extracted_<file>)")
	cmd.Flags().BoolVar(&opts.Validate, "validate-schema", false, "Require identical column sets across sheets")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Protect spreadsheet output with a password")
	_ = cmd.MarkFlagRequired("tasks")

	return cmd
}

func runExtract(cmd *cobra.Command, path string, opts *ExtractOptions) error {
	cc := NewCommandContext(cmd)

	set, err := loadTasks(opts.Tasks)
	if err != nil {
		return err
	}
	file, err := readFile(path)
	if err != nil {
		return err
	}

	artifact, err := cc.Engine.Extract(file, set, engine.Options{
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
