package feed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entitymaker/internal/builder"
	"entitymaker/internal/observability/logging"
)

const atomFeed = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Builders Weekly</title>
  <id>urn:example:feed</id>
  <updated>2012-09-20T00:00:00Z</updated>
  <entry>
    <title> Generated builders </title>
    <id>urn:example:1</id>
    <link href="https://blog.example.com/generated"/>
    <published>2012-09-18T08:30:00Z</published>
    <updated>2012-09-18T09:00:00Z</updated>
    <author><name>Antoine</name><email>antoine@example.com</email></author>
    <category term="go"/>
    <category term="codegen"/>
    <content type="html">&lt;p&gt;Why write  them&lt;/p&gt;
&lt;p&gt;by &lt;b&gt;hand&lt;/b&gt;?&lt;/p&gt;</content>
  </entry>
  <entry>
    <title>Broken link</title>
    <id>urn:example:2</id>
    <link href="http://[::1"/>
    <updated>2012-09-19T00:00:00Z</updated>
  </entry>
  <entry>
    <title>Summary only</title>
    <id>urn:example:3</id>
    <updated>2012-09-19T12:00:00Z</updated>
    <summary>Plain summary</summary>
  </entry>
</feed>`

func TestImporter_Import(t *testing.T) {
	im := NewImporter(2, logging.Discard())

	posts, err := im.Import(context.Background(), strings.NewReader(atomFeed))
	require.NoError(t, err)
	require.Len(t, posts, 2, "the item with an unparsable link is skipped")

	first := posts[0]
	assert.Equal(t, int64(1), first.ID())
	assert.Equal(t, "Generated builders", first.Title())
	assert.Equal(t, "Why write them by hand?", first.Body())
	assert.True(t, time.Date(2012, 9, 18, 8, 30, 0, 0, time.UTC).Equal(first.PublicationDate()))
	assert.Equal(t, []string{"codegen", "go"}, first.Tags().Values())
	require.NotNil(t, first.Online())
	assert.Equal(t, "https://blog.example.com/generated", first.Online().String())
	assert.Equal(t, "Antoine", first.Author().Name)
	assert.Equal(t, "antoine@example.com", first.Author().Email)

	third := posts[1]
	assert.Equal(t, int64(3), third.ID(), "IDs follow feed position")
	assert.Equal(t, "Plain summary", third.Body())
	assert.True(t, time.Date(2012, 9, 19, 12, 0, 0, 0, time.UTC).Equal(third.PublicationDate()))
	assert.True(t, third.Author().IsZero())
	assert.Nil(t, third.Online())
}

func TestImporter_KeepsFeedOrderWithOneWorker(t *testing.T) {
	im := NewImporter(0, logging.Discard())

	posts, err := im.Import(context.Background(), strings.NewReader(atomFeed))
	require.NoError(t, err)

	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID())
	}
	assert.Equal(t, []int64{1, 3}, ids)
}

func TestImporter_RecordsMetrics(t *testing.T) {
	m := builder.NewPrometheusMetrics()
	im := NewImporter(4, logging.Discard(), builder.WithMetrics(m))

	_, err := im.Import(context.Background(), strings.NewReader(atomFeed))
	require.NoError(t, err)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "entitymaker_builder_snapshots_total")
}

func TestImporter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewImporter(1, nil).Import(ctx, strings.NewReader(atomFeed))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestImporter_InvalidFeed(t *testing.T) {
	_, err := NewImporter(1, nil).Import(context.Background(), strings.NewReader("not a feed"))

	assert.ErrorContains(t, err, "parse feed")
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"plain", "hello", "hello"},
		{"nested markup", "<div><p>one</p>\n<p>two <em>three</em></p></div>", "one two three"},
		{"entities", "a &amp; b", "a & b"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PlainText(tt.html)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
