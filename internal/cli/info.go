package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roach88/collectionize/internal/backend"
	"github.com/roach88/collectionize/internal/codec"
	"github.com/roach88/collectionize/internal/collection"
)

// Info summarizes a persisted collection.
type Info struct {
	Name       string `json:"name"`
	Key        string `json:"key"`
	Driver     string `json:"driver"`
	Location   string `json:"location"`
	Records    int    `json:"records"`
	EmptySlots int    `json:"empty_slots"`
	Indexed    int    `json:"indexed"`
	Bytes      int    `json:"bytes"`

	// Collections names every collection stored under the same key prefix,
	// when the backend can list its keys.
	Collections []string `json:"collections,omitempty"`
}

// String renders the summary for text output.
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Collection:  %s\n", i.Name)
	fmt.Fprintf(&b, "Key:         %s\n", i.Key)
	fmt.Fprintf(&b, "Storage:     %s (%s)\n", i.Driver, i.Location)
	fmt.Fprintf(&b, "Records:     %s (%s empty slots)\n", humanize.Comma(int64(i.Records)), humanize.Comma(int64(i.EmptySlots)))
	fmt.Fprintf(&b, "Indexed ids: %s\n", humanize.Comma(int64(i.Indexed)))
	fmt.Fprintf(&b, "Stored size: %s", humanize.Bytes(uint64(i.Bytes)))
	if i.Collections != nil {
		fmt.Fprintf(&b, "\nCollections: %s", strings.Join(i.Collections, ", "))
	}
	return b.String()
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Summarize the collection and its storage",
		Long: `Print the collection's storage key, backend, record counts and the
size of its persisted form.

Example:
  collectionize info --name todos`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				return runInfo(ctx, s)
			})
		},
	}

	return cmd
}

func runInfo(ctx context.Context, s *session) error {
	info, err := describe(s)
	if err != nil {
		_ = s.formatter.Error(ErrCodeGeneric, "failed to encode collection", err.Error())
		return WrapExitError(ExitCommandError, "describe collection", err)
	}

	if lister, ok := s.store.(backend.Lister); ok {
		names, err := collectionNames(ctx, lister)
		if err != nil {
			_ = s.formatter.Error(ErrCodeStorage, "failed to list collections", err.Error())
			return WrapExitError(ExitCommandError, "list collections", err)
		}
		info.Collections = names
	}
	return s.formatter.Success(info)
}

// collectionNames lists the collections stored under the current key prefix.
func collectionNames(ctx context.Context, lister backend.Lister) ([]string, error) {
	prefix := collection.KeyPrefix()
	keys, err := lister.Keys(ctx, prefix)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = strings.TrimPrefix(k, prefix)
	}
	return names, nil
}

func describe(s *session) (Info, error) {
	records := s.coll.All()

	maps := make([]map[string]any, len(records))
	info := Info{
		Name:     s.coll.Name(),
		Key:      s.coll.StorageKey(),
		Driver:   s.cfg.Driver,
		Location: location(s.cfg.Backend()),
		Records:  len(records),
	}
	ids := make(map[string]struct{})
	for i, rec := range records {
		maps[i] = rec
		switch {
		case len(rec) == 0:
			// Slots left by move reload as empty objects.
			info.EmptySlots++
		case collection.Truthy(rec.ID()):
			ids[collection.KeyOf(rec.ID())] = struct{}{}
		}
	}
	info.Indexed = len(ids)

	data, err := codec.Encode(maps)
	if err != nil {
		return Info{}, err
	}
	info.Bytes = len(data)
	return info, nil
}

func location(cfg backend.Config) string {
	switch cfg.Driver {
	case backend.DriverDynamoDB:
		if cfg.Region != "" {
			return cfg.Table + "@" + cfg.Region
		}
		return cfg.Table
	case backend.DriverMemory:
		return "in-process"
	default:
		return cfg.Path
	}
}
