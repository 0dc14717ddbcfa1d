package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// RemoveOptions holds flags for the remove command.
type RemoveOptions struct {
	*RootOptions
	Where string
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RemoveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove records matching a query",
		Long: `Remove every record matching --where and print the removed records.

Example:
  collectionize remove --name todos --where '{"done":true}'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				return runRemove(ctx, s, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Where, "where", "", "JSON query selecting records to remove (required)")
	_ = cmd.MarkFlagRequired("where")

	return cmd
}

func runRemove(ctx context.Context, s *session, opts *RemoveOptions) error {
	q, err := s.parseQuery(opts.Where)
	if err != nil {
		return err
	}

	removed := s.coll.Remove(q)
	if len(removed) > 0 {
		if err := s.save(ctx); err != nil {
			return err
		}
	}
	s.formatter.VerboseLog("removed %d records", len(removed))
	return s.formatter.Records(removed)
}
