package sqlite_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/instantmarqo"
	"github.com/fwojciec/instantmarqo/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexedPage(index, url string) *instantmarqo.Page {
	return &instantmarqo.Page{
		IndexName:   index,
		URL:         url,
		DocumentID:  instantmarqo.DocumentID(url),
		ContentHash: "abc123",
		Status:      instantmarqo.PageIndexed,
	}
}

func TestPageService_UpsertPage(t *testing.T) {
	t.Parallel()

	t.Run("creates page with generated ID and timestamp", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewPageService(setupTestDB(t))
		ctx := context.Background()

		page := indexedPage("shop", "https://example.com/a")
		require.NoError(t, svc.UpsertPage(ctx, page))

		assert.NotEmpty(t, page.ID)
		assert.False(t, page.IndexedAt.IsZero())

		got, err := svc.FindPageByID(ctx, page.ID)
		require.NoError(t, err)
		assert.Equal(t, page, got)
	})

	t.Run("replaces entry for same index and URL", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewPageService(setupTestDB(t))
		ctx := context.Background()

		first := indexedPage("shop", "https://example.com/a")
		require.NoError(t, svc.UpsertPage(ctx, first))

		second := &instantmarqo.Page{
			IndexName: "shop",
			URL:       "https://example.com/a",
			Status:    instantmarqo.PageFailed,
			Error:     "render failed",
		}
		require.NoError(t, svc.UpsertPage(ctx, second))
		assert.Equal(t, first.ID, second.ID, "existing ID is kept")

		got, err := svc.FindPageByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, instantmarqo.PageFailed, got.Status)
		assert.Equal(t, "render failed", got.Error)
		assert.Empty(t, got.ContentHash)

		all, err := svc.FindPages(ctx, instantmarqo.PageFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("same URL in different indexes is separate", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewPageService(setupTestDB(t))
		ctx := context.Background()

		a := indexedPage("shop", "https://example.com/a")
		b := indexedPage("blog", "https://example.com/a")
		require.NoError(t, svc.UpsertPage(ctx, a))
		require.NoError(t, svc.UpsertPage(ctx, b))
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("stores timestamps in UTC", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewPageService(setupTestDB(t))
		ctx := context.Background()

		loc := time.FixedZone("UTC+2", 2*60*60)
		page := indexedPage("shop", "https://example.com/a")
		page.IndexedAt = time.Date(2024, 5, 6, 12, 0, 0, 0, loc)
		require.NoError(t, svc.UpsertPage(ctx, page))

		got, err := svc.FindPageByID(ctx, page.ID)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC), got.IndexedAt)
	})

	t.Run("returns error for invalid page", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewPageService(setupTestDB(t))
		err := svc.UpsertPage(context.Background(), &instantmarqo.Page{})
		assert.Equal(t, instantmarqo.EINVALID, instantmarqo.ErrorCode(err))
	})
}

func TestPageService_FindPageByID(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewPageService(setupTestDB(t))
	_, err := svc.FindPageByID(context.Background(), "missing")
	assert.Equal(t, instantmarqo.ENOTFOUND, instantmarqo.ErrorCode(err))
}

func TestPageService_FindPages(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) *sqlite.PageService {
		t.Helper()
		svc := sqlite.NewPageService(setupTestDB(t))
		ctx := context.Background()
		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := range 5 {
			page := indexedPage("shop", fmt.Sprintf("https://example.com/%d", i))
			page.IndexedAt = base.Add(time.Duration(i) * time.Minute)
			if i == 4 {
				page.Status = instantmarqo.PageFailed
				page.Error = "timeout"
			}
			require.NoError(t, svc.UpsertPage(ctx, page))
		}
		require.NoError(t, svc.UpsertPage(ctx, indexedPage("blog", "https://blog.example.com/")))
		return svc
	}

	t.Run("filters by index", func(t *testing.T) {
		t.Parallel()

		svc := setup(t)
		index := "shop"
		pages, err := svc.FindPages(context.Background(), instantmarqo.PageFilter{IndexName: &index})
		require.NoError(t, err)
		assert.Len(t, pages, 5)
	})

	t.Run("filters by status", func(t *testing.T) {
		t.Parallel()

		svc := setup(t)
		index := "shop"
		status := instantmarqo.PageFailed
		pages, err := svc.FindPages(context.Background(), instantmarqo.PageFilter{IndexName: &index, Status: &status})
		require.NoError(t, err)
		require.Len(t, pages, 1)
		assert.Equal(t, "https://example.com/4", pages[0].URL)
	})

	t.Run("filters by URL", func(t *testing.T) {
		t.Parallel()

		svc := setup(t)
		url := "https://example.com/2"
		pages, err := svc.FindPages(context.Background(), instantmarqo.PageFilter{URL: &url})
		require.NoError(t, err)
		require.Len(t, pages, 1)
		assert.Equal(t, instantmarqo.DocumentID(url), pages[0].DocumentID)
	})

	t.Run("orders newest first and paginates", func(t *testing.T) {
		t.Parallel()

		svc := setup(t)
		index := "shop"
		pages, err := svc.FindPages(context.Background(), instantmarqo.PageFilter{IndexName: &index, Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, pages, 2)
		assert.Equal(t, "https://example.com/3", pages[0].URL)
		assert.Equal(t, "https://example.com/2", pages[1].URL)
	})

	t.Run("offset without limit", func(t *testing.T) {
		t.Parallel()

		svc := setup(t)
		index := "shop"
		pages, err := svc.FindPages(context.Background(), instantmarqo.PageFilter{IndexName: &index, Offset: 3})
		require.NoError(t, err)
		assert.Len(t, pages, 2)
	})

	t.Run("returns empty slice when nothing matches", func(t *testing.T) {
		t.Parallel()

		svc := setup(t)
		index := "missing"
		pages, err := svc.FindPages(context.Background(), instantmarqo.PageFilter{IndexName: &index})
		require.NoError(t, err)
		assert.NotNil(t, pages)
		assert.Empty(t, pages)
	})
}

func TestPageService_DeletePagesByIndex(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewPageService(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, svc.UpsertPage(ctx, indexedPage("shop", "https://example.com/a")))
	require.NoError(t, svc.UpsertPage(ctx, indexedPage("shop", "https://example.com/b")))
	require.NoError(t, svc.UpsertPage(ctx, indexedPage("blog", "https://example.com/a")))

	require.NoError(t, svc.DeletePagesByIndex(ctx, "shop"))

	all, err := svc.FindPages(ctx, instantmarqo.PageFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "blog", all[0].IndexName)
}
