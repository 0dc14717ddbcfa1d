package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/collectionize/internal/collection"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Print the record with the given id",
		Long: `Print the record indexed under the given id.

Ids compare by their string form, so "1" finds a record whose id is the
number 1. Exits with status 1 when no live record has the id.

Example:
  collectionize get --name todos 1`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				return runGet(s, args[0])
			})
		},
	}

	return cmd
}

func runGet(s *session, id string) error {
	rec, state := s.coll.Lookup(id)
	if state != collection.Live {
		msg := fmt.Sprintf("no record with id %q", id)
		_ = s.formatter.Error(ErrCodeNotFound, msg, map[string]string{"id": id, "index": state.String()})
		return NewExitError(ExitFailure, msg)
	}
	return s.formatter.Records([]collection.Record{rec})
}

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Where string
	Sort  string
	Limit int
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print records in order",
		Long: `Print the collection's records in sequence order.

Empty slots left by move print as {}. --where restricts the output to
records matching a JSON query; empty slots never match a query. --sort
orders the output by a field: numbers by value, text by Unicode collation,
records without the field last.

Example:
  collectionize list --name todos
  collectionize list --name todos --sort title
  collectionize list --name todos --where '{"done":false}' --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				return runList(s, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Where, "where", "", "JSON query records must match")
	cmd.Flags().StringVar(&opts.Sort, "sort", "", "field to order the output by")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "print at most this many records (0 = all)")

	return cmd
}

func runList(s *session, opts *ListOptions) error {
	records := s.coll.All()
	if opts.Where != "" {
		q, err := s.parseQuery(opts.Where)
		if err != nil {
			return err
		}
		records = s.coll.Where(q)
	}
	if opts.Sort != "" {
		records = slices.Clone(records)
		slices.SortStableFunc(records, fieldOrder(opts.Sort))
	}

	if opts.Limit > 0 && len(records) > opts.Limit {
		records = records[:opts.Limit]
	}
	return s.formatter.Records(records)
}
