package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/five82/postboard/internal/records"
)

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &records.ValidationError{Field: "id", Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	return id, nil
}

func newGetCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print one post from the remote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			env, err := global.setup()
			if err != nil {
				return err
			}
			defer env.Close()

			rec, err := env.Session.Get(cmd.Context(), id).Unwrap()
			if err != nil {
				return err
			}
			return writeRecord(cmd.OutOrStdout(), global.jsonOut, rec)
		},
	}
}

type draftFlags struct {
	title string
	body  string
	owner int64
}

func (d *draftFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&d.title, "title", "", "post title")
	f.StringVar(&d.body, "body", "", "post body")
	f.Int64Var(&d.owner, "owner", 0, "owner id")
}

func newCreateCmd(global *globalFlags) *cobra.Command {
	flags := &draftFlags{}
	cmd := &cobra.Command{
		Use:   "create --title T --owner N [--body B]",
		Short: "Create a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := global.setup()
			if err != nil {
				return err
			}
			defer env.Close()

			draft := records.Draft{Title: flags.title, Body: flags.body, OwnerID: flags.owner}
			rec, err := env.Session.Create(cmd.Context(), draft).Unwrap()
			if err != nil {
				return err
			}
			return writeRecord(cmd.OutOrStdout(), global.jsonOut, rec)
		},
	}
	flags.register(cmd)
	return cmd
}

func newUpdateCmd(global *globalFlags) *cobra.Command {
	flags := &draftFlags{}
	cmd := &cobra.Command{
		Use:   "update <id> [--title T] [--body B] [--owner N]",
		Short: "Replace a post, keeping fields that are not given",
		Long: `Update fetches the collection, starts from the current post and replaces
the whole record on the remote with the given fields changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
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
			var current records.Record
			for _, r := range sess.Records() {
				if r.ID == id {
					current = r
					break
				}
			}
			if current.ID == 0 {
				return fmt.Errorf("update: %w", records.ErrNotFound)
			}

			f := cmd.Flags()
			if f.Changed("title") {
				current.Title = flags.title
			}
			if f.Changed("body") {
				current.Body = flags.body
			}
			if f.Changed("owner") {
				current.OwnerID = flags.owner
			}
			rec, err := sess.Update(cmd.Context(), current).Unwrap()
			if err != nil {
				return err
			}
			return writeRecord(cmd.OutOrStdout(), global.jsonOut, rec)
		},
	}
	flags.register(cmd)
	return cmd
}

func newDeleteCmd(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			env, err := global.setup()
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.Session.Delete(cmd.Context(), id).Err; err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted #%d\n", id)
			return nil
		},
	}
}
