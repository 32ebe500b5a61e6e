package crawl_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/instantmarqo"
	"github.com/fwojciec/instantmarqo/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontier_Push_rejects_duplicate_URLs(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)
	link := instantmarqo.Link{URL: "https://example.com/docs/page1"}

	assert.True(t, f.Push(link), "first push should succeed")
	assert.False(t, f.Push(link), "duplicate URL should be rejected")
	assert.False(t, f.Push(instantmarqo.Link{URL: "https://example.com/docs/page1", Depth: 3}), "depth does not matter for dedup")
}

func TestFrontier_Pop_is_breadth_first(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	f.Push(instantmarqo.Link{URL: "https://example.com/deep", Depth: 2})
	f.Push(instantmarqo.Link{URL: "https://example.com/b", Depth: 1})
	f.Push(instantmarqo.Link{URL: "https://example.com/seed", Depth: 0})
	f.Push(instantmarqo.Link{URL: "https://example.com/c", Depth: 1})

	var got []string
	for {
		link, ok := f.Pop()
		if !ok {
			break
		}
		got = append(got, link.URL)
	}

	assert.Equal(t, []string{
		"https://example.com/seed",
		"https://example.com/b",
		"https://example.com/c",
		"https://example.com/deep",
	}, got)
}

func TestFrontier_Len_tracks_queue_size(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)
	assert.Equal(t, 0, f.Len(), "new frontier should be empty")

	f.Push(instantmarqo.Link{URL: "https://example.com/a"})
	f.Push(instantmarqo.Link{URL: "https://example.com/b"})
	assert.Equal(t, 2, f.Len())

	f.Pop()
	assert.Equal(t, 1, f.Len())

	f.Push(instantmarqo.Link{URL: "https://example.com/a"})
	assert.Equal(t, 1, f.Len(), "duplicate should not increase length")
}

func TestFrontier_strips_fragments(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	assert.True(t, f.Push(instantmarqo.Link{URL: "https://example.com/page#intro"}))
	assert.False(t, f.Push(instantmarqo.Link{URL: "https://example.com/page#usage"}))
	assert.False(t, f.Push(instantmarqo.Link{URL: "https://example.com/page"}))
	assert.True(t, f.Seen("https://example.com/page#anything"))

	link, ok := f.Pop()
	require.True(t, ok)
	assert.Equal(t, "https://example.com/page", link.URL)
}

func TestFrontier_Seen(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)
	assert.False(t, f.Seen("https://example.com/a"))

	f.Push(instantmarqo.Link{URL: "https://example.com/a"})
	f.Pop()
	assert.True(t, f.Seen("https://example.com/a"), "popped URLs stay seen")
}

func TestFrontier_concurrent_pushes(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(10000, 0.001)

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := range 100 {
				f.Push(instantmarqo.Link{URL: fmt.Sprintf("https://example.com/%d", i), Depth: w})
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 100, f.Len())
}
