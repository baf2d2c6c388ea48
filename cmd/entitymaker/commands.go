package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"entitymaker/internal/domain/entity"
	"entitymaker/internal/infra/feed"
	"entitymaker/internal/infra/watch"
	"entitymaker/internal/observability/logging"
	"entitymaker/internal/record"
	"entitymaker/internal/schema"
)

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [entity]",
		Short: "List entity fields",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schemas := a.schemas()
			if len(args) == 1 {
				b, err := a.newBuilder(args[0])
				if err != nil {
					return err
				}
				schemas = []*schema.Schema{b.Schema()}
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, s := range schemas {
				fmt.Fprintf(tw, "%s\n", s.Name())
				for _, f := range s.Fields() {
					req := ""
					if f.Required {
						req = "required"
					}
					fmt.Fprintf(tw, "  %s\t%s\t%s\n", f.Name, f.TypeName(), req)
				}
			}
			return tw.Flush()
		},
	}
}

func newBuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "build <entity> <record.yaml>",
		Short: "Build an entity from a field document and print it as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.WithLogger(cmd.Context(), a.logger)
			snap, err := a.buildFile(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), snap)
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <entity> <record.yaml>",
		Short: "Rebuild and print an entity every time its field document changes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = logging.WithLogger(ctx, a.logger)

			w, err := watch.NewWatcher(a.logger, a.cfg.WatchInterval)
			if err != nil {
				return err
			}
			defer func() { _ = w.Close() }()

			changes, err := w.Watch(ctx, args[1])
			if err != nil {
				return err
			}

			a.rebuild(ctx, cmd, args[0], args[1])
			for range changes {
				a.rebuild(ctx, cmd, args[0], args[1])
			}
			return nil
		},
	}
}

func newFeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "feed <feed.xml|URL>",
		Short: "Import an RSS or Atom feed as blog posts and print them as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			im := feed.NewImporter(a.cfg.Workers, a.logger, a.builderOptions()...)
			posts, err := a.importFeed(cmd.Context(), im, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), posts)
		},
	}
}

// importFeed reads source from the network when it is an http(s) URL and from
// disk otherwise.
func (a *app) importFeed(ctx context.Context, im *feed.Importer, source string) ([]entity.BlogPost, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		client := &http.Client{Timeout: a.cfg.FetchTimeout}
		return im.ImportURL(ctx, feed.NewFetcher(client, a.logger), source)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open feed: %w", err)
	}
	defer func() { _ = f.Close() }()

	return im.Import(ctx, f)
}

// buildFile decodes path and builds the named entity from it with a fresh builder.
func (a *app) buildFile(ctx context.Context, name, path string) (any, error) {
	b, err := a.newBuilder(name)
	if err != nil {
		return nil, err
	}
	doc, err := record.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return record.Build(ctx, b, doc)
}

// rebuild is one watch iteration; failures are reported and watching continues.
func (a *app) rebuild(ctx context.Context, cmd *cobra.Command, name, path string) {
	snap, err := a.buildFile(ctx, name, path)
	if err != nil {
		a.logger.Error("build failed", slog.String("path", path), slog.Any("error", err))
		return
	}
	if err := writeJSON(cmd.OutOrStdout(), snap); err != nil {
		a.logger.Error("write snapshot", slog.Any("error", err))
	}
}
