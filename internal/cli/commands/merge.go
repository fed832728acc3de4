package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tabforge-labs/tabforge/internal/engine"
)

// MergeOptions holds options for the merge command.
type MergeOptions struct {
	Output   string
	Validate bool
	Password string
}

// NewMergeCommand creates the merge command.
func NewMergeCommand() *cobra.Command {
	opts := &MergeOptions{}

	cmd := &cobra.Command{
		Use:   "merge FILE...",
		Short: "Merge tabular files into one",
		Long: `Merge two or more tabular files into one output.

The output format follows the first file. Spreadsheet merges tag every
row with its source file and sheet; flat merges concatenate rows in
input order. Empty inputs are skipped.`,
		Example: `  # Concatenate CSV exports
  tabforge merge january.csv february.csv march.csv

  # Merge workbooks into one tagged sheet, checking schemas agree
  tabforge merge -o combined.xlsx --validate-schema q1.xlsx q2.xlsx`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file (default: merged_<format>.<ext>)")
	cmd.Flags().BoolVar(&opts.Validate, "validate-schema", false, "Require identical column sets across inputs")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Protect spreadsheet output with a password")

	return cmd
}

func runMerge(cmd *cobra.Command, paths []string, opts *MergeOptions) error {
	cc := NewCommandContext(cmd)

	files, err := readFiles(paths)
	if err != nil {
		return err
	}

	artifact, err := cc.Engine.Merge(files, engine.Options{
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
	fmt.Fprintf(cmd.OutOrStdout(), "Merged %d files into %s\n", len(files), out)
	return nil
}
