package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/postboard/internal/app"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	prefsPath  string
	apiBase    string
	logFile    string
	logLevel   string
	refresh    time.Duration
	jsonOut    bool
}

func (g *globalFlags) appOptions() app.Options {
	return app.Options{
		ConfigPath:   g.configPath,
		PrefsPath:    g.prefsPath,
		APIBase:      g.apiBase,
		LogPath:      g.logFile,
		LogLevel:     g.logLevel,
		RefreshEvery: g.refresh,
	}
}

// setup builds the shared components for a one-shot command. The caller must
// Close the returned Env.
func (g *globalFlags) setup() (*app.Env, error) {
	return app.Setup(g.appOptions())
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "postboard",
		Short: "Browse and edit posts on a JSONPlaceholder-style API",
		Long: `postboard keeps a local copy of a remote /posts collection and lets you
search, filter, sort, page, create, edit and delete posts.

Without a subcommand it starts the terminal UI. The subcommands run one
operation and print the result, for scripting.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Run(cmd.Context(), flags.appOptions())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default: ~/.config/postboard/config.toml)")
	pf.StringVar(&flags.prefsPath, "prefs", "", "preferences file (default: prefs.toml beside the config file)")
	pf.StringVar(&flags.apiBase, "api", "", "API base URL (overrides api_base)")
	pf.StringVar(&flags.logFile, "log-file", "", "log file, or stderr (overrides log_path)")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (overrides log_level)")
	pf.BoolVar(&flags.jsonOut, "json", false, "print JSON instead of a table")
	root.Flags().DurationVar(&flags.refresh, "refresh", 0, "re-fetch interval for the UI (overrides refresh_every)")

	root.AddCommand(
		newListCmd(flags),
		newGetCmd(flags),
		newCreateCmd(flags),
		newUpdateCmd(flags),
		newDeleteCmd(flags),
		newLogsCmd(flags),
		newMockCmd(flags),
		newVersionCmd(),
	)
	return root
}
