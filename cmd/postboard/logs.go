package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/postboard/internal/config"
	"github.com/five82/postboard/internal/logging"
	"github.com/five82/postboard/internal/logtail"
)

func newLogsCmd(global *globalFlags) *cobra.Command {
	var (
		lines   int
		level   string
		noColor bool
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the tail of the postboard log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			minLevel, err := logging.ParseLevel(level)
			if err != nil {
				return err
			}
			path := global.logFile
			if path == "" {
				cfg, err := config.Load(global.configPath)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				path = cfg.LogPath
			}

			raw, err := logtail.Read(path, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, entry := range logtail.Filter(raw, minLevel) {
				if global.jsonOut {
					fmt.Fprintln(out, entry.Raw)
					continue
				}
				if noColor {
					fmt.Fprintln(out, entry.String())
					continue
				}
				fmt.Fprintln(out, logtail.Colorize(entry))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVarP(&lines, "lines", "n", 200, "lines to read from the end of the file (0 reads all)")
	f.StringVar(&level, "level", "debug", "minimum level to print")
	f.BoolVar(&noColor, "no-color", false, "disable colors")
	return cmd
}
