package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tahirov/xlrename/pkg/pdf"
)

type PDFArgs struct {
	*RootArgs

	DeleteNames []string
	Delay       time.Duration
}

func NewPDFArgs(rootArgs *RootArgs) *PDFArgs {
	return &PDFArgs{
		RootArgs: rootArgs,
	}
}

func (pa *PDFArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&pa.DeleteNames, "delete", nil,
		"Extra file names removed from each folder after packing")
	cmd.Flags().DurationVar(&pa.Delay, "delay", 0, "Pause between folders")
}

type RestampArgs struct {
	*RootArgs

	Keyword        string
	Date           string
	DeleteOriginal bool
}

func NewRestampArgs(rootArgs *RootArgs) *RestampArgs {
	return &RestampArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RestampArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&ra.Keyword, "keyword", "k", "", "Only stamp PDFs whose name contains this")
	cmd.Flags().StringVarP(&ra.Date, "date", "t", time.Now().Format("02.01.2006"), "Date text to stamp")
	cmd.Flags().BoolVar(&ra.DeleteOriginal, "delete-original", false, "Remove the source PDF after stamping")
}

func NewPDFCmd(rootArgs *RootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Package images into PDFs and stamp dates onto PDFs",
	}

	packArgs := NewPDFArgs(rootArgs)
	packCmd := &cobra.Command{
		Use:   "pack [dir]",
		Short: "Turn each image subfolder into a single PDF",
		Example: `  # Pack every subfolder of the current directory:
  xlrename pdf pack

  # Pack and drop Thumbs.db leftovers:
  xlrename pdf pack ./scans --delete Thumbs.db`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cobra.FixedCompletions(nil, cobra.ShellCompDirectiveFilterDirs),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			return runPack(cmd, packArgs, dir)
		},
	}
	packArgs.AddFlags(packCmd)

	restampArgs := NewRestampArgs(rootArgs)
	restampCmd := &cobra.Command{
		Use:   "restamp [dir]",
		Short: "Stamp a date onto the last page of matching PDFs",
		Example: `  # Stamp today's date onto every "hesabat" PDF:
  xlrename pdf restamp ./hesabatlar --keyword hesabat

  # Stamp a fixed date and drop the originals:
  xlrename pdf restamp --date 01.09.2026 --delete-original`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cobra.FixedCompletions(nil, cobra.ShellCompDirectiveFilterDirs),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			return runRestamp(cmd, restampArgs, dir)
		},
	}
	restampArgs.AddFlags(restampCmd)

	cmd.AddCommand(packCmd, restampCmd)

	return cmd
}

func runPack(cmd *cobra.Command, pa *PDFArgs, dir string) error {
	cfg, err := pa.LoadConfig()
	if err != nil {
		return err
	}

	deleteNames := append(cfg.DeleteFiles, pa.DeleteNames...)

	packer := pdf.NewPacker(
		pdf.WithSubfolder(cfg.Subfolder),
		pdf.WithExtensions(cfg.Extensions),
		pdf.WithDeleteNames(deleteNames),
		pdf.WithDelay(pa.Delay),
	)

	join := watchEvents(cmd, packer)
	defer join()

	results, err := packer.Pack(cmd.Context(), dir)
	if err != nil {
		return err
	}

	return reportPDFResults(cmd, results)
}

func runRestamp(cmd *cobra.Command, ra *RestampArgs, dir string) error {
	r := pdf.NewRestamper()
	r.DeleteOriginal = ra.DeleteOriginal

	results, err := r.Restamp(cmd.Context(), dir, ra.Keyword, ra.Date)
	if err != nil {
		return err
	}

	return reportPDFResults(cmd, results)
}

func reportPDFResults(cmd *cobra.Command, results []pdf.Result) error {
	var failed int

	for _, r := range results {
		if !r.Success {
			failed++
		}

		mustN(fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", r.Folder, r.Message))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d failed", failed, len(results))
	}

	return nil
}
