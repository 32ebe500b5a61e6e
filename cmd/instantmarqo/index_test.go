package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/instantmarqo"
	main "github.com/fwojciec/instantmarqo/cmd/instantmarqo"
	"github.com/fwojciec/instantmarqo/crawl"
	"github.com/fwojciec/instantmarqo/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexDeps(index instantmarqo.IndexService, pages instantmarqo.PageService) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:     context.Background(),
		Stdout:  stdout,
		Stderr:  stderr,
		Index:   index,
		Pages:   pages,
		Indexes: &crawl.Indexes{Index: index, Pages: pages},
	}
	return deps, stdout, stderr
}

func TestIndexCreateCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("creates multimodal index with default model", func(t *testing.T) {
		t.Parallel()

		var created instantmarqo.IndexSettings
		index := &mock.IndexService{
			CreateIndexFn: func(_ context.Context, s instantmarqo.IndexSettings) (*instantmarqo.IndexResponse, error) {
				created = s
				return &instantmarqo.IndexResponse{Acknowledged: true, Index: s.Name}, nil
			},
		}
		deps, stdout, _ := indexDeps(index, nil)

		err := (&main.IndexCreateCmd{Name: "products", Multimodal: true}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "products", created.Name)
		assert.True(t, created.TreatURLsAndPointersAsImages)
		assert.Equal(t, instantmarqo.DefaultMultimodalModel, created.Model)
		assert.Contains(t, stdout.String(), `Index "products" ready`)
	})

	t.Run("reports existing index", func(t *testing.T) {
		t.Parallel()

		index := &mock.IndexService{
			CreateIndexFn: func(context.Context, instantmarqo.IndexSettings) (*instantmarqo.IndexResponse, error) {
				return nil, instantmarqo.Errorf(instantmarqo.ECONFLICT, "index already exists")
			},
		}
		deps, _, stderr := indexDeps(index, nil)

		err := (&main.IndexCreateCmd{Name: "products"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "--skip-if-exists")
	})

	t.Run("skips existing index when asked", func(t *testing.T) {
		t.Parallel()

		index := &mock.IndexService{
			ListIndexesFn: func(context.Context) ([]string, error) {
				return []string{"products"}, nil
			},
		}
		deps, stdout, _ := indexDeps(index, nil)

		err := (&main.IndexCreateCmd{Name: "products", SkipIfExists: true}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "ready")
	})
}

func TestIndexDeleteCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires --force", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := indexDeps(&mock.IndexService{}, nil)

		err := (&main.IndexDeleteCmd{Name: "products"}).Run(deps)

		assert.Equal(t, instantmarqo.EINVALID, instantmarqo.ErrorCode(err))
		assert.Contains(t, stderr.String(), "--force")
	})

	t.Run("deletes index and its ledger pages", func(t *testing.T) {
		t.Parallel()

		var deleted, forgotten string
		index := &mock.IndexService{
			DeleteIndexFn: func(_ context.Context, name string) (*instantmarqo.IndexResponse, error) {
				deleted = name
				return &instantmarqo.IndexResponse{Acknowledged: true}, nil
			},
		}
		pages := &mock.PageService{
			DeletePagesByIndexFn: func(_ context.Context, name string) error {
				forgotten = name
				return nil
			},
		}
		deps, stdout, _ := indexDeps(index, pages)

		err := (&main.IndexDeleteCmd{Name: "products", Force: true}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "products", deleted)
		assert.Equal(t, "products", forgotten)
		assert.Contains(t, stdout.String(), `Deleted index "products"`)
	})

	t.Run("missing index is an error without skip", func(t *testing.T) {
		t.Parallel()

		index := &mock.IndexService{
			DeleteIndexFn: func(context.Context, string) (*instantmarqo.IndexResponse, error) {
				return nil, instantmarqo.Errorf(instantmarqo.ENOTFOUND, "index not found")
			},
		}
		deps, _, stderr := indexDeps(index, nil)

		err := (&main.IndexDeleteCmd{Name: "gone", Force: true}).Run(deps)

		assert.Equal(t, instantmarqo.ENOTFOUND, instantmarqo.ErrorCode(err))
		assert.Contains(t, stderr.String(), "instantmarqo index list")
	})

	t.Run("missing index is fine with skip", func(t *testing.T) {
		t.Parallel()

		index := &mock.IndexService{
			DeleteIndexFn: func(context.Context, string) (*instantmarqo.IndexResponse, error) {
				return nil, instantmarqo.Errorf(instantmarqo.ENOTFOUND, "index not found")
			},
		}
		deps, stdout, _ := indexDeps(index, nil)

		err := (&main.IndexDeleteCmd{Name: "gone", Force: true, SkipIfNotExists: true}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "does not exist")
	})
}

func TestIndexListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints index names", func(t *testing.T) {
		t.Parallel()

		index := &mock.IndexService{
			ListIndexesFn: func(context.Context) ([]string, error) {
				return []string{"products", "articles"}, nil
			},
		}
		deps, stdout, _ := indexDeps(index, nil)

		require.NoError(t, (&main.IndexListCmd{}).Run(deps))
		assert.Equal(t, "products\narticles\n", stdout.String())
	})

	t.Run("hints when there are no indexes", func(t *testing.T) {
		t.Parallel()

		index := &mock.IndexService{
			ListIndexesFn: func(context.Context) ([]string, error) {
				return []string{}, nil
			},
		}
		deps, stdout, _ := indexDeps(index, nil)

		require.NoError(t, (&main.IndexListCmd{}).Run(deps))
		assert.Contains(t, stdout.String(), "No indexes found")
	})

	t.Run("reports unavailable server", func(t *testing.T) {
		t.Parallel()

		index := &mock.IndexService{
			ListIndexesFn: func(context.Context) ([]string, error) {
				return nil, instantmarqo.Errorf(instantmarqo.EUNAVAILABLE, "marqo unreachable")
			},
		}
		deps, _, stderr := indexDeps(index, nil)

		require.Error(t, (&main.IndexListCmd{}).Run(deps))
		assert.Contains(t, stderr.String(), "error: marqo unreachable")
	})
}
