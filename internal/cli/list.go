package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tahirov/xlrename/pkg/files"
)

type ListArgs struct {
	*RootArgs

	Kind  string
	Order string
}

func NewListArgs(rootArgs *RootArgs) *ListArgs {
	return &ListArgs{
		RootArgs: rootArgs,
	}
}

func (la *ListArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&la.Kind, "kind", "k", "all",
		fmt.Sprintf("Entry kind, one of: %s", files.AllKinds))
	cmd.Flags().StringVarP(&la.Order, "sort", "s", "",
		fmt.Sprintf("Sort order, one of: %s", files.AllOrders))

	err := cmd.RegisterFlagCompletionFunc("kind",
		cobra.FixedCompletions(files.AllKinds, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("sort",
		cobra.FixedCompletions(files.AllOrders, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func NewListCmd(la *ListArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [dir]",
		Short: "List directory entries in natural order",
		Example: `  # List the current directory:
  xlrename list

  # List only subfolders, largest first:
  xlrename list ./hesabatlar --kind dirs --sort size`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: cobra.FixedCompletions(nil, cobra.ShellCompDirectiveFilterDirs),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			return list(cmd, la, dir)
		},
	}
	la.AddFlags(cmd)

	return cmd
}

func list(cmd *cobra.Command, la *ListArgs, dir string) error {
	kind, err := files.ParseKind(la.Kind)
	if err != nil {
		return err
	}

	order := files.ByName
	if la.Order != "" {
		order, err = files.ParseOrder(la.Order)
		if err != nil {
			return err
		}
	} else {
		cfg, err := la.LoadConfig()
		if err != nil {
			return err
		}

		order, err = files.ParseOrder(cfg.Sort)
		if err != nil {
			return err
		}
	}

	entries, err := files.List(dir, kind, order)
	if err != nil {
		return fmt.Errorf("list %s: %w", dir, err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	for _, entry := range entries {
		size := humanize.Bytes(uint64(max(entry.Size, 0)))
		if entry.IsDir {
			size = "-"
		}

		mustN(fmt.Fprintf(w, "%s\t%s\t%s\n",
			entry.Name, size, entry.ModTime.Format("2006-01-02 15:04")))
	}

	err = w.Flush()
	if err != nil {
		return fmt.Errorf("write listing: %w", err)
	}

	return nil
}
