package goquery_test

import (
	"context"
	"testing"

	"github.com/fwojciec/instantmarqo"
	"github.com/fwojciec/instantmarqo/goquery"
	"github.com/fwojciec/instantmarqo/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkDiscoverer_NextPages(t *testing.T) {
	t.Parallel()

	t.Run("fetches the page and returns its links", func(t *testing.T) {
		t.Parallel()

		var fetched string
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				fetched = url
				return `<a href="/a">A</a><a href="/b">B</a>`, nil
			},
		}

		links, err := goquery.NewLinkDiscoverer(fetcher).NextPages(context.Background(), "https://example.com/start")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/start", fetched)
		assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, links)
	})

	t.Run("returns fetch errors", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "", instantmarqo.Errorf(instantmarqo.ENOTFOUND, "page not found")
			},
		}

		_, err := goquery.NewLinkDiscoverer(fetcher).NextPages(context.Background(), "https://example.com/gone")

		assert.Equal(t, instantmarqo.ENOTFOUND, instantmarqo.ErrorCode(err))
	})
}
