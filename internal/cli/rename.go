package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tahirov/xlrename/pkg/config"
	"github.com/tahirov/xlrename/pkg/files"
	"github.com/tahirov/xlrename/pkg/journal"
	"github.com/tahirov/xlrename/pkg/rename"
)

type RenameArgs struct {
	*RootArgs

	SheetPath string
	Column    string
	DestDir   string
	Order     string
	StartRow  int
	Delay     time.Duration
}

func NewRenameArgs(rootArgs *RootArgs) *RenameArgs {
	return &RenameArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RenameArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&ra.SheetPath, "sheet", "x", "", "Path to the spreadsheet with new names")
	cmd.PersistentFlags().StringVarP(&ra.Column, "column", "c", "", "Spreadsheet column holding the names")
	cmd.PersistentFlags().IntVarP(&ra.StartRow, "start-row", "r", 0, "First spreadsheet row to read (1-based)")
	cmd.PersistentFlags().StringVarP(&ra.DestDir, "dest", "d", "", "Destination directory, defaults to the source")
	cmd.PersistentFlags().StringVarP(&ra.Order, "sort", "s", "",
		fmt.Sprintf("Order items are paired with rows, one of: %s", files.AllOrders))
	cmd.PersistentFlags().DurationVar(&ra.Delay, "delay", 0, "Pause between items")

	err := cmd.MarkPersistentFlagRequired("sheet")
	if err != nil {
		panic(err)
	}

	err = cmd.MarkPersistentFlagFilename("sheet", "xlsx", "xlsm")
	if err != nil {
		panic(fmt.Errorf("mark sheet flag: %w", err))
	}

	err = cmd.RegisterFlagCompletionFunc("sort",
		cobra.FixedCompletions(files.AllOrders, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func NewRenameCmd(ra *RenameArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename folders or files using spreadsheet names",
		Example: `  # Rename subfolders to the names in column B, starting at row 2:
  xlrename rename folders ./hesabatlar --sheet adlar.xlsx --column B --start-row 2

  # Rename files, pairing newest first:
  xlrename rename files ./scans --sheet adlar.xlsx --sort date`,
	}

	ra.AddFlags(cmd)

	cmd.AddCommand(
		newRenameSubCmd(ra, "folders", "Rename subfolders in natural order", files.KindDirs),
		newRenameSubCmd(ra, "files", "Rename files in natural order", files.KindFiles),
	)

	return cmd
}

func newRenameSubCmd(ra *RenameArgs, use, short string, kind files.Kind) *cobra.Command {
	return &cobra.Command{
		Use:               use + " [dir]",
		Short:             short,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cobra.FixedCompletions(nil, cobra.ShellCompDirectiveFilterDirs),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			return runRename(cmd, ra, dir, kind)
		},
	}
}

func runRename(cmd *cobra.Command, ra *RenameArgs, dir string, kind files.Kind) error {
	cfg, err := ra.LoadConfig()
	if err != nil {
		return err
	}

	column := ra.Column
	if column == "" {
		column = cfg.Column
	}

	startRow := ra.StartRow
	if startRow == 0 {
		startRow = cfg.StartRow
	}

	orderName := ra.Order
	if orderName == "" {
		orderName = cfg.Sort
	}

	order, err := files.ParseOrder(orderName)
	if err != nil {
		return err
	}

	dest := ra.DestDir
	if dest == "" {
		dest = dir
	}

	entries, err := files.List(dir, kind, order)
	if err != nil {
		return fmt.Errorf("list %s: %w", dir, err)
	}

	jnl, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer closeJournal(jnl)

	engine := rename.New(
		rename.WithRecorder(jnl),
		rename.WithDelay(ra.Delay),
	)

	join := watchEvents(cmd, engine)
	defer join()

	batch := rename.Batch{
		SourceDir: dir,
		DestDir:   dest,
		SheetPath: ra.SheetPath,
		Column:    column,
		StartRow:  startRow,
		Items:     files.Names(entries),
	}

	var results []rename.Result

	if kind == files.KindDirs {
		results, err = engine.FoldersFromSheet(cmd.Context(), batch)
	} else {
		results, err = engine.FilesFromSheet(cmd.Context(), batch)
	}
	if err != nil {
		return err
	}

	return reportResults(cmd, results)
}

func openJournal(cfg *config.Config) (*journal.Journal, error) {
	jnl, err := journal.Open(cfg.JournalPath)
	if err != nil {
		return nil, fmt.Errorf("open journal %q: %w", cfg.JournalPath, err)
	}

	return jnl, nil
}

func closeJournal(jnl *journal.Journal) {
	err := jnl.Close()
	if err != nil {
		panic(err)
	}
}
