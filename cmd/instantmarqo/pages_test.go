package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/instantmarqo"
	main "github.com/fwojciec/instantmarqo/cmd/instantmarqo"
	"github.com/fwojciec/instantmarqo/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagesCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists pages with errors", func(t *testing.T) {
		t.Parallel()

		var got instantmarqo.PageFilter
		at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
		pages := &mock.PageService{
			FindPagesFn: func(_ context.Context, f instantmarqo.PageFilter) ([]*instantmarqo.Page, error) {
				got = f
				return []*instantmarqo.Page{
					{URL: "https://shop.example.com/lamp", Status: instantmarqo.PageIndexed, IndexedAt: at},
					{URL: "https://shop.example.com/broken", Status: instantmarqo.PageFailed, Error: "timeout", IndexedAt: at},
				}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Pages: pages}

		require.NoError(t, (&main.PagesCmd{Index: "products", Limit: 5}).Run(deps))

		require.NotNil(t, got.IndexName)
		assert.Equal(t, "products", *got.IndexName)
		assert.Nil(t, got.Status)
		assert.Equal(t, 5, got.Limit)
		assert.Equal(t,
			"indexed  2026-03-01 09:30  https://shop.example.com/lamp\n"+
				"failed   2026-03-01 09:30  https://shop.example.com/broken  (timeout)\n",
			stdout.String())
	})

	t.Run("filters by status", func(t *testing.T) {
		t.Parallel()

		var got instantmarqo.PageFilter
		pages := &mock.PageService{
			FindPagesFn: func(_ context.Context, f instantmarqo.PageFilter) ([]*instantmarqo.Page, error) {
				got = f
				return []*instantmarqo.Page{}, nil
			},
		}
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Pages: pages}

		require.NoError(t, (&main.PagesCmd{Index: "products", Status: "failed"}).Run(deps))

		require.NotNil(t, got.Status)
		assert.Equal(t, instantmarqo.PageFailed, *got.Status)
		assert.Contains(t, stdout.String(), "No pages recorded")
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Pages: &mock.PageService{}}

		err := (&main.PagesCmd{Index: "products", Status: "pending"}).Run(deps)

		assert.Equal(t, instantmarqo.EINVALID, instantmarqo.ErrorCode(err))
		assert.Contains(t, stderr.String(), "unknown status")
	})
}
