package main

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/postboard/internal/fakeapi"
	"github.com/five82/postboard/internal/logging"
)

func newMockCmd(global *globalFlags) *cobra.Command {
	var (
		addr    string
		seed    int
		persist bool
		latency time.Duration
	)
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Serve an in-memory /posts API for offline use",
		Long: `Mock serves a JSONPlaceholder-style /posts API from memory. Like the public
demo service it echoes writes without storing them unless --persist is set.

Example:
  postboard mock --addr 127.0.0.1:3000 &
  postboard --api http://127.0.0.1:3000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logFile := global.logFile
			if logFile == "" {
				logFile = "stderr"
			}
			logger, err := logging.New(logFile, global.logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "serving %d posts on http://%s/posts\n", seed, ln.Addr())

			server := fakeapi.New(fakeapi.Options{
				Seed:    fakeapi.SeedPosts(seed),
				Persist: persist,
				Latency: latency,
				Logger:  logger,
			})
			return server.Serve(cmd.Context(), ln)
		},
	}
	f := cmd.Flags()
	f.StringVar(&addr, "addr", "127.0.0.1:3000", "listen address")
	f.IntVar(&seed, "seed", 100, "number of generated posts")
	f.BoolVar(&persist, "persist", false, "keep writes instead of echoing them")
	f.DurationVar(&latency, "latency", 0, "delay every response")
	return cmd
}
