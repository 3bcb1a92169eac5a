// Package cli wires the xlrename commands.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tahirov/xlrename/pkg/config"
	"github.com/tahirov/xlrename/pkg/log"
	"github.com/tahirov/xlrename/pkg/version"
)

const (
	cmdName = "xlrename"
	cmdDesc = `Bulk rename files and folders from spreadsheet columns, with natural Azerbaijani ordering.`
)

type RootArgs struct {
	LogLevel   string
	LogFormat  string
	ConfigPath string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.ConfigPath, "config", "", "Path to the xlrename configuration file")

	var err error

	err = cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}
}

// LoadConfig writes the default configuration if none exists yet, then loads
// the active one.
func (ra *RootArgs) LoadConfig() (*config.Config, error) {
	path := ra.ConfigPath
	if path == "" {
		path = config.GetPath()
	}

	err := config.WriteDefault(path)
	if err != nil {
		slog.Warn("write default config", slog.Any("err", err))
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	return cfg, nil
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		Version:           version.Detail(),
		PersistentPreRunE: setupLogging(args),
	}

	args.AddFlags(cmd)

	cmd.AddCommand(
		NewListCmd(NewListArgs(args)),
		NewRenameCmd(NewRenameArgs(args)),
		NewPatternCmd(NewPatternArgs(args)),
		NewSheetCmd(NewSheetArgs(args)),
		NewPDFCmd(args),
		NewHistoryCmd(NewHistoryArgs(args)),
		NewRevertCmd(NewRevertArgs(args)),
		NewSortCmd(NewSortArgs(args)),
	)

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(rc *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.NewHandler(cmd.ErrOrStderr(), rc.LogLevel, rc.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		return nil
	}
}
