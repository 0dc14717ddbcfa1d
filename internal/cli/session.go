package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/collectionize/internal/backend"
	"github.com/roach88/collectionize/internal/codec"
	"github.com/roach88/collectionize/internal/collection"
	"github.com/roach88/collectionize/internal/config"
)

// session is one command's view of a persisted collection.
type session struct {
	cfg       *config.Config
	store     backend.Backend
	coll      *collection.Collection
	formatter *OutputFormatter
	logger    *slog.Logger
}

// openSession loads configuration, installs logging, opens the backend and
// restores the named collection from it.
func openSession(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*session, error) {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, "invalid configuration", err.Error())
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}

	// Configure logging based on verbose flag
	logLevel := cfg.Level()
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	collection.SetKeyPrefix(cfg.KeyPrefix)

	logger.Debug("opening storage", "driver", cfg.Driver, "path", cfg.Path, "table", cfg.DynamoDB.Table)
	store, err := backend.Open(ctx, cfg.Backend())
	if err != nil {
		_ = formatter.Error(ErrCodeStorage, "failed to open storage", err.Error())
		return nil, WrapExitError(ExitCommandError, "open storage", err)
	}

	coll := collection.New(opts.Name,
		collection.WithStorage(store),
		collection.WithLogger(logger),
	)
	coll.On(collection.EventParseError, func(args ...any) {
		formatter.VerboseLog("stored data for %q is unreadable; starting empty", opts.Name)
	})

	if err := coll.Restore(ctx); err != nil {
		store.Close()
		_ = formatter.Error(ErrCodeStorage, "failed to read collection", err.Error())
		return nil, WrapExitError(ExitCommandError, "restore collection", err)
	}
	formatter.VerboseLog("restored %d records from %s", coll.Len(), coll.StorageKey())

	return &session{
		cfg:       cfg,
		store:     store,
		coll:      coll,
		formatter: formatter,
		logger:    logger,
	}, nil
}

// save persists the collection.
func (s *session) save(ctx context.Context) error {
	if err := s.coll.ClientSave(ctx); err != nil {
		_ = s.formatter.Error(ErrCodeStorage, "failed to save collection", err.Error())
		return WrapExitError(ExitCommandError, "save collection", err)
	}
	return nil
}

// Close releases the backend.
func (s *session) Close() error {
	return s.store.Close()
}

// parseRecord decodes a JSON object argument.
func (s *session) parseRecord(arg, what string) (collection.Record, error) {
	rec, err := codec.DecodeRecord([]byte(arg))
	if err != nil {
		_ = s.formatter.Error(ErrCodeBadRecord, "invalid "+what, err.Error())
		return nil, WrapExitError(ExitCommandError, "invalid "+what, err)
	}
	return rec, nil
}

// parseQuery decodes a JSON object argument into a Query.
func (s *session) parseQuery(arg string) (collection.Query, error) {
	rec, err := s.parseRecord(arg, "--where query")
	if err != nil {
		return nil, err
	}
	return collection.Query(rec), nil
}

// withSession runs fn against an open session and closes it afterwards.
func withSession(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := openSession(ctx, opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	return fn(ctx, s)
}
