package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/collectionize/internal/collection"
)

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <record-json>",
		Short: "Append a record",
		Long: `Append a record to the end of the collection.

The record is indexed by its "id" field when that field is truthy.

Example:
  collectionize add --name todos '{"id":1,"title":"write docs"}'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				return runAdd(ctx, s, args[0])
			})
		},
	}

	return cmd
}

func runAdd(ctx context.Context, s *session, arg string) error {
	rec, err := s.parseRecord(arg, "record")
	if err != nil {
		return err
	}

	added := s.coll.Add(rec)
	if err := s.save(ctx); err != nil {
		return err
	}
	return s.formatter.Records([]collection.Record{added})
}
