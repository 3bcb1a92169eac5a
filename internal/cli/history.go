package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tahirov/xlrename/pkg/files"
)

type HistoryArgs struct {
	*RootArgs

	Entries bool
}

func NewHistoryArgs(rootArgs *RootArgs) *HistoryArgs {
	return &HistoryArgs{
		RootArgs: rootArgs,
	}
}

func (ha *HistoryArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&ha.Entries, "entries", "e", false, "Show the renames of each batch")
}

func NewHistoryCmd(ha *HistoryArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded rename batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, ha)
		},
	}
	ha.AddFlags(cmd)

	return cmd
}

func runHistory(cmd *cobra.Command, ha *HistoryArgs) error {
	cfg, err := ha.LoadConfig()
	if err != nil {
		return err
	}

	jnl, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer closeJournal(jnl)

	batches, err := jnl.Batches()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	for _, b := range batches {
		mustN(fmt.Fprintf(w, "%d\t%s\t%s\t%d renames\n",
			b.ID, b.Op, humanize.Time(b.Time), b.Count))

		if !ha.Entries {
			continue
		}

		entries, err := jnl.Entries(b.ID)
		if err != nil {
			return err
		}

		for _, e := range entries {
			mustN(fmt.Fprintf(w, "\t%s\t-> %s\n", e.From, e.To))
		}
	}

	err = w.Flush()
	if err != nil {
		return fmt.Errorf("write history: %w", err)
	}

	return nil
}

type RevertArgs struct {
	*RootArgs
}

func NewRevertArgs(rootArgs *RootArgs) *RevertArgs {
	return &RevertArgs{
		RootArgs: rootArgs,
	}
}

func NewRevertCmd(ra *RevertArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "revert <batch-id>",
		Short: "Undo a recorded rename batch",
		Long: `Undo a recorded rename batch by moving every entry back, newest rename
first. Reverting stops at the first entry that cannot be moved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid batch id %q", args[0])
			}

			return runRevert(cmd, ra, id)
		},
	}
}

func runRevert(cmd *cobra.Command, ra *RevertArgs, id uint64) error {
	cfg, err := ra.LoadConfig()
	if err != nil {
		return err
	}

	jnl, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer closeJournal(jnl)

	reverted, err := jnl.Revert(cmd.Context(), id, files.Move)
	if err != nil {
		return fmt.Errorf("reverted %d entries: %w", reverted, err)
	}

	mustN(fmt.Fprintf(cmd.OutOrStdout(), "reverted %d entries\n", reverted))

	return nil
}
