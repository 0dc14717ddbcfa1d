package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewMoveCommand creates the move command.
func NewMoveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <old-index> <new-index>",
		Short: "Move a record to a new position",
		Long: `Move the record at old-index so that it ends up at new-index.

A new-index past the end pads the collection with empty slots. An old-index
outside the collection, or a negative index, changes nothing and exits with
status 1.

Example:
  collectionize move --name todos 0 2`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				return runMove(ctx, s, args[0], args[1])
			})
		},
	}

	return cmd
}

func runMove(ctx context.Context, s *session, oldArg, newArg string) error {
	oldIndex, err := strconv.Atoi(oldArg)
	if err != nil {
		_ = s.formatter.Error(ErrCodeBadArgs, "old-index must be an integer", oldArg)
		return WrapExitError(ExitCommandError, "invalid old-index", err)
	}
	newIndex, err := strconv.Atoi(newArg)
	if err != nil {
		_ = s.formatter.Error(ErrCodeBadArgs, "new-index must be an integer", newArg)
		return WrapExitError(ExitCommandError, "invalid new-index", err)
	}

	if !s.coll.Move(oldIndex, newIndex) {
		msg := fmt.Sprintf("cannot move %d to %d in a collection of %d", oldIndex, newIndex, s.coll.Len())
		_ = s.formatter.Error(ErrCodeBadArgs, msg, nil)
		return NewExitError(ExitFailure, msg)
	}

	if err := s.save(ctx); err != nil {
		return err
	}
	return s.formatter.Records(s.coll.All())
}
