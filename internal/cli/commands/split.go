package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tabforge-labs/tabforge/internal/engine"
)

// SplitOptions holds options for the split command.
type SplitOptions struct {
	Rows     int
	Output   string
	Validate bool
	Password string
}

// NewSplitCommand creates the split command.
func NewSplitCommand() *cobra.Command {
	opts := &SplitOptions{}

	cmd := &cobra.Command{
		Use:   "split <file>",
		Short: "Split a tabular file into a zip of row chunks",
		Long: `Split one tabular file into consecutive chunks of at most N rows,
packaged as a zip. Chunks keep the input's format; spreadsheets split
per sheet into single-sheet workbooks.`,
		Example: `  # 1000-row CSV chunks
  tabforge split -n 1000 big.csv

  # Split a workbook, 500 rows per part
  tabforge split -n 500 -o parts.zip book.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Rows, "rows", "n", 0, "Maximum rows per chunk (required)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output zip (default: split_<file>.zip)")
	cmd.Flags().BoolVar(&opts.Validate, "validate-schema", false, "Require identical column sets across sheets")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Protect spreadsheet chunks with a password")
	_ = cmd.MarkFlagRequired("rows")

	return cmd
}

func runSplit(cmd *cobra.Command, path string, opts *SplitOptions) error {
	cc := NewCommandContext(cmd)

	file, err := readFile(path)
	if err != nil {
		return err
	}

	artifact, err := cc.Engine.Split(file, opts.Rows, engine.Options{
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
