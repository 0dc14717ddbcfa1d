package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/collectionize/internal/collection"
)

// UpdateOptions holds flags for the update command.
type UpdateOptions struct {
	*RootOptions
	Key   string
	Where string
	ByID  bool
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpdateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "update <record-json>",
		Short: "Merge a record into matching records, or add it",
		Long: `Merge the given fields into every matching record.

Records are matched on the --key field of the given record (default "id"),
or on an explicit --where query. With --by-id the id index is used directly.
When nothing matches, the record is added instead.

Example:
  collectionize update --name todos '{"id":1,"done":true}'
  collectionize update --name todos --where '{"done":false}' '{"stale":true}'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				return runUpdate(ctx, s, opts, args[0])
			})
		},
	}

	cmd.Flags().StringVar(&opts.Key, "key", collection.IDField, "field of the record used to find matches")
	cmd.Flags().StringVar(&opts.Where, "where", "", "match records with this JSON query instead of --key")
	cmd.Flags().BoolVar(&opts.ByID, "by-id", false, "match through the id index")
	cmd.MarkFlagsMutuallyExclusive("where", "by-id")
	cmd.MarkFlagsMutuallyExclusive("key", "by-id")
	cmd.MarkFlagsMutuallyExclusive("key", "where")

	return cmd
}

func runUpdate(ctx context.Context, s *session, opts *UpdateOptions, arg string) error {
	rec, err := s.parseRecord(arg, "record")
	if err != nil {
		return err
	}

	var updated []collection.Record
	switch {
	case opts.ByID:
		updated = s.coll.UpdateByID(rec)
	case opts.Where != "":
		q, err := s.parseQuery(opts.Where)
		if err != nil {
			return err
		}
		updated = s.coll.Update(rec, q)
	default:
		updated = s.coll.Update(rec, collection.Key(opts.Key))
	}

	if err := s.save(ctx); err != nil {
		return err
	}
	return s.formatter.Records(updated)
}
