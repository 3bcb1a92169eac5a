package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tahirov/xlrename/pkg/natsort"
)

type SortArgs struct {
	*RootArgs
}

func NewSortArgs(rootArgs *RootArgs) *SortArgs {
	return &SortArgs{
		RootArgs: rootArgs,
	}
}

func NewSortCmd(sa *SortArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "sort [name]...",
		Short: "Sort names in natural order, from arguments or stdin",
		Example: `  # Sort arguments:
  xlrename sort Şəkil10 Şəkil2 Şəkil1

  # Sort lines from stdin:
  ls | xlrename sort`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd, args)
		},
	}
}

func runSort(cmd *cobra.Command, names []string) error {
	if len(names) == 0 {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			names = append(names, scanner.Text())
		}

		err := scanner.Err()
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}

	natsort.Sort(names)

	for _, name := range names {
		mustN(fmt.Fprintln(cmd.OutOrStdout(), name))
	}

	return nil
}
