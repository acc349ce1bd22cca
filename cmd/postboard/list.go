package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/postboard/internal/query"
)

type listFlags struct {
	search   string
	owner    int64
	sortKey  string
	desc     bool
	page     int
	pageSize int
}

func newListCmd(global *globalFlags) *cobra.Command {
	flags := &listFlags{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch posts and print one page of the derived view",
		Long: `List fetches the whole collection, then applies search, owner filter,
sort and pagination exactly as the UI does.

Example:
  postboard list --search qui --owner 3 --sort title --desc
  postboard list --page 2 --page-size 25 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, global, flags)
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.search, "search", "", "case-insensitive title substring")
	f.Int64Var(&flags.owner, "owner", 0, "only posts of this owner id")
	f.StringVar(&flags.sortKey, "sort", "id", "sort key: id, title or ownerId")
	f.BoolVar(&flags.desc, "desc", false, "sort descending")
	f.IntVar(&flags.page, "page", 1, "1-based page number")
	f.IntVar(&flags.pageSize, "page-size", 0, "posts per page (default from config or prefs)")
	return cmd
}

func runList(cmd *cobra.Command, global *globalFlags, flags *listFlags) error {
	key, err := query.ParseSortKey(flags.sortKey)
	if err != nil {
		return err
	}
	dir := query.Ascending
	if flags.desc {
		dir = query.Descending
	}

	env, err := global.setup()
	if err != nil {
		return err
	}
	defer env.Close()

	sess := env.Session
	if res := sess.FetchAll(cmd.Context()); res.Err != nil {
		return res.Err
	}

	coord := sess.Coordinator()
	coord.SetSort(key, dir)
	if flags.pageSize > 0 {
		coord.SetPageSize(flags.pageSize)
	}
	if flags.search != "" {
		coord.SetSearch(flags.search)
	}
	if flags.owner > 0 {
		coord.SetOwner(flags.owner)
	}
	// Page last: the search and owner setters return to page 1.
	coord.SetPage(flags.page)

	view := sess.View()
	if err := writeRecords(cmd.OutOrStdout(), global.jsonOut, view.Items); err != nil {
		return err
	}
	if !global.jsonOut {
		p := sess.Params()
		fmt.Fprintf(cmd.ErrOrStderr(), "page %d/%d · %d of %d posts match\n",
			p.Page, view.TotalPages, view.Filtered, len(sess.Records()))
	}
	return nil
}
