package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tahirov/xlrename/pkg/files"
	"github.com/tahirov/xlrename/pkg/rename"
)

type PatternArgs struct {
	*RootArgs

	Kind  string
	Delay time.Duration
}

func NewPatternArgs(rootArgs *RootArgs) *PatternArgs {
	return &PatternArgs{
		RootArgs: rootArgs,
	}
}

func (pa *PatternArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&pa.Kind, "kind", "k", "all",
		fmt.Sprintf("Entry kind, one of: %s", files.AllKinds))
	cmd.Flags().DurationVar(&pa.Delay, "delay", 0, "Pause between items")

	err := cmd.RegisterFlagCompletionFunc("kind",
		cobra.FixedCompletions(files.AllKinds, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func NewPatternCmd(pa *PatternArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pattern <dir> <find> [replace]",
		Short: "Rename entries by replacing every occurrence of a substring",
		Example: `  # Replace the IMG_ prefix:
  xlrename pattern ./scans "IMG_" "Şəkil "

  # Strip a suffix from folders only:
  xlrename pattern ./hesabatlar " - copy" --kind dirs`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var replace string
			if len(args) > 2 {
				replace = args[2]
			}

			return runPattern(cmd, pa, args[0], args[1], replace)
		},
	}
	pa.AddFlags(cmd)

	return cmd
}

func runPattern(cmd *cobra.Command, pa *PatternArgs, dir, find, replace string) error {
	kind, err := files.ParseKind(pa.Kind)
	if err != nil {
		return err
	}

	cfg, err := pa.LoadConfig()
	if err != nil {
		return err
	}

	jnl, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer closeJournal(jnl)

	engine := rename.New(
		rename.WithRecorder(jnl),
		rename.WithDelay(pa.Delay),
	)

	join := watchEvents(cmd, engine)
	defer join()

	results, err := engine.Pattern(cmd.Context(), dir, find, replace, kind)
	if err != nil {
		return err
	}

	return reportResults(cmd, results)
}
