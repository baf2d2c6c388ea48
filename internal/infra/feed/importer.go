// Package feed imports RSS and Atom documents as BlogPost entities.
// It uses the gofeed library to parse feed content and goquery to reduce item
// HTML to plain text.
package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"entitymaker/internal/builder"
	"entitymaker/internal/domain/entity"
	"entitymaker/internal/domain/value"
	"entitymaker/internal/observability/tracing"
)

// Importer converts feed items into blog posts. Items are converted
// concurrently; every worker owns the builder it fills.
type Importer struct {
	workers     int
	logger      *slog.Logger
	builderOpts []builder.Option
}

// NewImporter creates an importer running at most workers conversions at once.
// builderOpts are passed to every BlogPostBuilder it creates.
func NewImporter(workers int, logger *slog.Logger, builderOpts ...builder.Option) *Importer {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		workers:     workers,
		logger:      logger,
		builderOpts: builderOpts,
	}
}

// Import parses a feed from r and returns one post per item in feed order.
// Items that cannot be built are logged and skipped.
func (im *Importer) Import(ctx context.Context, r io.Reader) (_ []entity.BlogPost, err error) {
	ctx, span := tracing.Start(ctx, "feed.Import", attribute.Int("workers", im.workers))
	defer func() { tracing.End(span, err) }()

	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	results := make([]*entity.BlogPost, len(feed.Items))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(im.workers)

	for i, item := range feed.Items {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			post, err := im.convert(int64(i+1), item)
			if err != nil {
				im.logger.Warn("feed item skipped",
					slog.Int("position", i+1),
					slog.String("title", item.Title),
					slog.Any("error", err))
				return nil
			}
			results[i] = &post
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	posts := make([]entity.BlogPost, 0, len(results))
	for _, p := range results {
		if p != nil {
			posts = append(posts, *p)
		}
	}
	span.SetAttributes(
		attribute.Int("items", len(feed.Items)),
		attribute.Int("posts", len(posts)))
	im.logger.Info("feed imported",
		slog.String("feed", feed.Title),
		slog.Int("items", len(feed.Items)),
		slog.Int("posts", len(posts)))
	return posts, nil
}

func (im *Importer) convert(id int64, item *gofeed.Item) (entity.BlogPost, error) {
	b := entity.NewBlogPostBuilder(im.builderOpts...)
	b.SetBlogPostID(id)
	b.SetTitle(strings.TrimSpace(item.Title))

	content := item.Content
	if content == "" {
		content = item.Description
	}
	if content != "" {
		body, err := PlainText(content)
		if err != nil {
			return entity.BlogPost{}, err
		}
		b.SetBody(body)
	}

	if at := publishedAt(item); !at.IsZero() {
		b.SetPublicationDate(at)
	}
	if len(item.Categories) > 0 {
		b.SetTags(value.NewTagSet(item.Categories...))
	}
	if item.Link != "" {
		link, err := url.Parse(item.Link)
		if err != nil {
			return entity.BlogPost{}, fmt.Errorf("item link: %w", err)
		}
		b.SetOnline(link)
	}
	if a := itemAuthor(item); !a.IsZero() {
		b.SetAuthor(a)
	}

	return b.BlogPost()
}

// PlainText strips markup from an HTML fragment and collapses whitespace.
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse item html: %w", err)
	}
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

func publishedAt(item *gofeed.Item) time.Time {
	switch {
	case item.PublishedParsed != nil:
		return *item.PublishedParsed
	case item.UpdatedParsed != nil:
		return *item.UpdatedParsed
	}
	return time.Time{}
}

func itemAuthor(item *gofeed.Item) value.Author {
	p := item.Author
	if p == nil && len(item.Authors) > 0 {
		p = item.Authors[0]
	}
	if p == nil {
		return value.Author{}
	}
	return value.Author{Name: p.Name, Email: p.Email}
}
