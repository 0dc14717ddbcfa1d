package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// IncrOptions holds flags for the incr command.
type IncrOptions struct {
	*RootOptions
	Where string
}

// NewIncrCommand creates the incr command.
func NewIncrCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IncrOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "incr <field>",
		Short: "Increment a numeric field",
		Long: `Increment field by one on every record matching --where.

A missing or non-numeric value becomes 0.

Example:
  collectionize incr --name todos --where '{"id":1}' views`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				return runIncr(ctx, s, opts, args[0])
			})
		},
	}

	cmd.Flags().StringVar(&opts.Where, "where", "", "JSON query selecting records (required)")
	_ = cmd.MarkFlagRequired("where")

	return cmd
}

func runIncr(ctx context.Context, s *session, opts *IncrOptions, field string) error {
	q, err := s.parseQuery(opts.Where)
	if err != nil {
		return err
	}

	// Match before incrementing: the query may name the field being changed.
	matched := s.coll.Filter(q)
	s.coll.Incr(q, field)

	if len(matched) > 0 {
		if err := s.save(ctx); err != nil {
			return err
		}
	}
	return s.formatter.Records(matched)
}
