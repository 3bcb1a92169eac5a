package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tahirov/xlrename/pkg/sheet"
)

type SheetArgs struct {
	*RootArgs

	Column   string
	StartRow int
}

func NewSheetArgs(rootArgs *RootArgs) *SheetArgs {
	return &SheetArgs{
		RootArgs: rootArgs,
	}
}

func (sa *SheetArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&sa.Column, "column", "c", "", "Spreadsheet column holding the names")
	cmd.Flags().IntVarP(&sa.StartRow, "start-row", "r", 0, "First spreadsheet row to read (1-based)")
}

func NewSheetCmd(sa *SheetArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet <path>",
		Short: "Preview the names a spreadsheet column would assign",
		Example: `  # Show column A from row 1:
  xlrename sheet adlar.xlsx

  # Show column C from row 3:
  xlrename sheet adlar.xlsx --column C --start-row 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSheet(cmd, sa, args[0])
		},
	}
	sa.AddFlags(cmd)

	return cmd
}

func runSheet(cmd *cobra.Command, sa *SheetArgs, path string) error {
	cfg, err := sa.LoadConfig()
	if err != nil {
		return err
	}

	column := sa.Column
	if column == "" {
		column = cfg.Column
	}

	startRow := sa.StartRow
	if startRow == 0 {
		startRow = cfg.StartRow
	}

	names, err := sheet.ReadColumn(path, startRow, column)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	// Blank rows are skipped, so this numbers the names, not the rows.
	for i, name := range names {
		mustN(fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i+1, name))
	}

	return nil
}
