package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tabforge-labs/tabforge/internal/codec"
	"github.com/tabforge-labs/tabforge/internal/engine"
)

// ConvertOptions holds options for the convert command.
type ConvertOptions struct {
	Input    string
	Output   string
	Validate bool
	Password string
}

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	opts := &ConvertOptions{}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a tabular file into another format",
		Long: `Convert one tabular file into another format.

Both formats are inferred from the file extensions. Spreadsheet inputs
are flattened by concatenating their non-empty sheets before encoding
to a flat format.`,
		Example: `  # CSV to JSON
  tabforge convert -i data.csv -o data.json

  # Excel to CSV, validating sheet schemas first
  tabforge convert -i book.xlsx -o book.csv --validate-schema

  # CSV to a password-protected workbook
  tabforge convert -i data.csv -o data.xlsx --password s3cret`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConvert(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Input file (required)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file (required)")
	cmd.Flags().BoolVar(&opts.Validate, "validate-schema", false, "Require identical column sets across sheets")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Protect spreadsheet output with a password")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runConvert(cmd *cobra.Command, opts *ConvertOptions) error {
	cc := NewCommandContext(cmd)

	file, err := readFile(opts.Input)
	if err != nil {
		return err
	}
	from, err := codec.FromFilename(opts.Input)
	if err != nil {
		return err
	}
	to, err := codec.FromFilename(opts.Output)
	if err != nil {
		return err
	}

	artifact, err := cc.Engine.Convert(file, from, to, engine.Options{
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
