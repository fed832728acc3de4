package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tabforge-labs/tabforge/internal/codec"
)

// inspectPreviewRows caps how many data rows inspect shows.
const inspectPreviewRows = 10

// InspectOptions holds options for the inspect command.
type InspectOptions struct {
	Output string
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize a tabular file",
		Long: `Summarize one tabular file without transforming it.

Spreadsheets list their sheets with row and column counts; flat files
show a preview of the first rows.

Output adapts to the environment: a styled table on a terminal, CSV
when piped. --output forces one or the other.`,
		Example: `  # Preview a CSV
  tabforge inspect data.csv

  # Sheet inventory of a workbook
  tabforge inspect book.xlsx

  # Force CSV even on a terminal
  tabforge inspect --output csv data.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.Output, "output", "", "Output style (table|csv, default: table on a terminal)")

	return cmd
}

func runInspect(cmd *cobra.Command, path string, opts *InspectOptions) error {
	cc := NewCommandContext(cmd)

	styled, err := styledOutput(opts.Output)
	if err != nil {
		return err
	}
	file, err := readFile(path)
	if err != nil {
		return err
	}
	f, err := codec.FromFilename(file.Name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	decodeOpts := codec.DecodeOptions{Strict: cc.Cfg.Strict}

	if f == codec.Excel {
		wb, err := codec.DecodeWorkbook(f, file.Data, decodeOpts)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, wb.Len())
		for i := 0; i < wb.Len(); i++ {
			name, t, _ := wb.SheetAt(i)
			rows = append(rows, []string{
				name,
				strconv.Itoa(t.NumRows()),
				strconv.Itoa(t.NumColumns()),
			})
		}
		renderRows(out, styled, []string{"Sheet", "Rows", "Columns"}, rows)
		_, _ = fmt.Fprintf(out, "(%d sheets)\n", wb.Len())
		return nil
	}

	t, err := codec.DecodeTable(f, file.Data, decodeOpts)
	if err != nil {
		return err
	}

	preview := t.Rows
	if len(preview) > inspectPreviewRows {
		preview = preview[:inspectPreviewRows]
	}
	rows := make([][]string, len(preview))
	for i, row := range preview {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = v.Text()
		}
		rows[i] = cells
	}
	renderRows(out, styled, t.Columns, rows)
	_, _ = fmt.Fprintf(out, "(%d rows)\n", t.NumRows())
	return nil
}

// styledOutput resolves the output style: an explicit flag wins,
// otherwise a terminal gets the styled table and pipes get CSV.
func styledOutput(flag string) (bool, error) {
	switch flag {
	case "table":
		return true, nil
	case "csv":
		return false, nil
	case "":
		return term.IsTerminal(int(os.Stdout.Fd())), nil
	default:
		return false, fmt.Errorf("unknown output style %q (use table or csv)", flag)
	}
}

func renderRows(w io.Writer, styled bool, cols []string, rows [][]string) {
	if styled {
		renderTable(w, cols, rows)
		return
	}
	renderCSV(w, cols, rows)
}

func renderTable(w io.Writer, cols []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		cells := make(table.Row, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		t.AppendRow(cells)
	}

	t.Render()
}

func renderCSV(w io.Writer, cols []string, rows [][]string) {
	_, _ = fmt.Fprintln(w, strings.Join(cols, ","))

	for _, row := range rows {
		values := make([]string, len(row))
		for i, cell := range row {
			values[i] = escapeCSV(cell)
		}
		_, _ = fmt.Fprintln(w, strings.Join(values, ","))
	}
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
