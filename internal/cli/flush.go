package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/collectionize/internal/collection"
	"github.com/roach88/collectionize/internal/seed"
)

// FlushOptions holds flags for the flush command.
type FlushOptions struct {
	*RootOptions
	From string
}

// NewFlushCommand creates the flush command.
func NewFlushCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FlushOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "flush",
		Short: "Replace every record",
		Long: `Replace the collection's records with the contents of a record file,
or empty the collection when --from is not given.

Record files are JSON, YAML or CUE arrays of objects (see package seed).

Example:
  collectionize flush --name todos --from ./todos.yaml
  collectionize flush --name todos`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				return runFlush(ctx, s, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "record file (.json, .yaml, .yml, .cue)")

	return cmd
}

func runFlush(ctx context.Context, s *session, opts *FlushOptions) error {
	var records []collection.Record
	if opts.From != "" {
		loaded, err := seed.Load(opts.From)
		if err != nil {
			_ = s.formatter.Error(ErrCodeSeedFailed, "failed to load records", err.Error())
			return WrapExitError(ExitCommandError, "load records", err)
		}
		records = loaded
		s.formatter.VerboseLog("loaded %d records from %s", len(records), opts.From)
	}

	s.coll.Flush(records)
	if err := s.save(ctx); err != nil {
		return err
	}
	return s.formatter.Records(s.coll.All())
}
