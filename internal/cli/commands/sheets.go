package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tabforge-labs/tabforge/internal/codec"
	"github.com/tabforge-labs/tabforge/internal/engine"
	"github.com/tabforge-labs/tabforge/pkg/tabular"
)

// SheetOptions holds the options shared by the sheet subcommands.
type SheetOptions struct {
	Output   string
	Validate bool
	Password string
}

// NewSheetsCommand creates the sheets command group.
func NewSheetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Work with spreadsheet sheets",
		Long: `Reshape the sheets of a spreadsheet: combine them into one, split
rows across new sheets, rename or reorder them, copy sheets between
workbooks, or list what a workbook contains.`,
	}

	cmd.AddCommand(
		newSheetsCombineCommand(),
		newSheetsSplitCommand(),
		newSheetsRenameCommand(),
		newSheetsReorderCommand(),
		newSheetsCopyCommand(),
		newSheetsListCommand(),
	)

	return cmd
}

func newSheetsCombineCommand() *cobra.Command {
	opts := &SheetOptions{}
	var target string

	cmd := &cobra.Command{
		Use:   "combine <file>",
		Short: "Concatenate all sheets into one",
		Example: `  # Concatenate every sheet into one named All
  tabforge sheets combine -t All book.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			file, err := readFile(args[0])
			if err != nil {
				return err
			}
			artifact, err := cc.Engine.CombineSheets(file, target, sheetEngineOptions(opts))
			if err != nil {
				return err
			}
			return reportArtifact(cmd, artifact, opts.Output)
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "Name of the combined sheet (required)")
	addSheetFlags(cmd, opts)
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func newSheetsSplitCommand() *cobra.Command {
	opts := &SheetOptions{}
	var rows int

	cmd := &cobra.Command{
		Use:   "split <file>",
		Short: "Split rows across fixed-size sheets",
		Example: `  # At most 1000 rows per sheet
  tabforge sheets split -n 1000 book.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			file, err := readFile(args[0])
			if err != nil {
				return err
			}
			artifact, err := cc.Engine.SplitToSheets(file, rows, sheetEngineOptions(opts))
			if err != nil {
				return err
			}
			return reportArtifact(cmd, artifact, opts.Output)
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "n", 0, "Maximum rows per sheet (required)")
	addSheetFlags(cmd, opts)
	_ = cmd.MarkFlagRequired("rows")
	return cmd
}

func newSheetsRenameCommand() *cobra.Command {
	opts := &SheetOptions{}
	var names []string

	cmd := &cobra.Command{
		Use:   "rename <file>",
		Short: "Rename sheets positionally",
		Example: `  # One replacement name per existing sheet
  tabforge sheets rename --names Summary,Detail book.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			file, err := readFile(args[0])
			if err != nil {
				return err
			}
			artifact, err := cc.Engine.RenameSheets(file, names, sheetEngineOptions(opts))
			if err != nil {
				return err
			}
			return reportArtifact(cmd, artifact, opts.Output)
		},
	}

	cmd.Flags().StringSliceVar(&names, "names", nil, "New sheet names, one per existing sheet (required)")
	addSheetFlags(cmd, opts)
	_ = cmd.MarkFlagRequired("names")
	return cmd
}

func newSheetsReorderCommand() *cobra.Command {
	opts := &SheetOptions{}
	var order []string

	cmd := &cobra.Command{
		Use:   "reorder <file>",
		Short: "Rebuild a workbook in a new sheet order",
		Long: `Rebuild a workbook with its sheets in the requested order. Every
existing sheet must appear exactly once, by name or zero-based index.`,
		Example: `  # By name
  tabforge sheets reorder --order Detail,Summary book.xlsx

  # By index
  tabforge sheets reorder --order 1,0 book.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			file, err := readFile(args[0])
			if err != nil {
				return err
			}
			artifact, err := cc.Engine.ReorderSheets(file, order, sheetEngineOptions(opts))
			if err != nil {
				return err
			}
			return reportArtifact(cmd, artifact, opts.Output)
		},
	}

	cmd.Flags().StringSliceVar(&order, "order", nil, "Complete sheet order, names or indices (required)")
	addSheetFlags(cmd, opts)
	_ = cmd.MarkFlagRequired("order")
	return cmd
}

func newSheetsCopyCommand() *cobra.Command {
	opts := &SheetOptions{}
	var sheets []string

	cmd := &cobra.Command{
		Use:   "copy <source> <target>",
		Short: "Copy sheets from one workbook into another",
		Long: `Copy the selected sheets of the source workbook into the target
workbook. Name collisions get a numeric suffix.`,
		Example: `  # Copy two lookup sheets into a report
  tabforge sheets copy --sheets Rates,Codes lookup.xlsx report.xlsx`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			source, err := readFile(args[0])
			if err != nil {
				return err
			}
			target, err := readFile(args[1])
			if err != nil {
				return err
			}
			artifact, err := cc.Engine.CopySheets(source, target, sheets, sheetEngineOptions(opts))
			if err != nil {
				return err
			}
			return reportArtifact(cmd, artifact, opts.Output)
		},
	}

	cmd.Flags().StringSliceVar(&sheets, "sheets", nil, "Sheets to copy, names or indices (required)")
	addSheetFlags(cmd, opts)
	_ = cmd.MarkFlagRequired("sheets")
	return cmd
}

func newSheetsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <file>",
		Short: "List a workbook's sheets and their shapes",
		Example: `  # Inventory of a workbook
  tabforge sheets list book.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			file, err := readFile(args[0])
			if err != nil {
				return err
			}
			f, err := codec.FromFilename(file.Name)
			if err != nil {
				return err
			}
			if f != codec.Excel {
				return tabular.NewInvalidParameterError("only excel files are supported for sheet operations")
			}
			wb, err := codec.DecodeWorkbook(f, file.Data, codec.DecodeOptions{Strict: cc.Cfg.Strict})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sheets in %s (%d total):\n\n", file.Name, wb.Len())
			for i := 0; i < wb.Len(); i++ {
				name, table, _ := wb.SheetAt(i)
				fmt.Fprintf(out, "  %2d. %-24s %d rows, %d columns\n", i+1, name, table.NumRows(), table.NumColumns())
			}
			return nil
		},
	}
	return cmd
}

// addSheetFlags registers the output flags every sheet subcommand
// shares.
func addSheetFlags(cmd *cobra.Command, opts *SheetOptions) {
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file (default: derived from the input name)")
	cmd.Flags().BoolVar(&opts.Validate, "validate-schema", false, "Require identical column sets across sheets")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Protect the output workbook with a password")
}

func sheetEngineOptions(opts *SheetOptions) engine.Options {
	return engine.Options{Validate: opts.Validate, Password: opts.Password}
}

// reportArtifact writes the artifact and prints where it went.
func reportArtifact(cmd *cobra.Command, artifact engine.Artifact, out string) error {
	path, err := writeArtifact(artifact, out)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
