package mock

import (
	"context"

	"github.com/fwojciec/instantmarqo"
)

var _ instantmarqo.IndexService = (*IndexService)(nil)

// IndexService is a mock implementation of instantmarqo.IndexService.
type IndexService struct {
	CreateIndexFn       func(ctx context.Context, settings instantmarqo.IndexSettings) (*instantmarqo.IndexResponse, error)
	DeleteIndexFn       func(ctx context.Context, name string) (*instantmarqo.IndexResponse, error)
	ListIndexesFn       func(ctx context.Context) ([]string, error)
	FindIndexSettingsFn func(ctx context.Context, name string) (*instantmarqo.IndexSettings, error)
	AddDocumentsFn      func(ctx context.Context, name string, docs []instantmarqo.Document, opts instantmarqo.AddDocumentsOptions) (*instantmarqo.AddDocumentsResult, error)
	SearchFn            func(ctx context.Context, name string, query instantmarqo.SearchQuery) (*instantmarqo.SearchResult, error)
}

func (s *IndexService) CreateIndex(ctx context.Context, settings instantmarqo.IndexSettings) (*instantmarqo.IndexResponse, error) {
	return s.CreateIndexFn(ctx, settings)
}

func (s *IndexService) DeleteIndex(ctx context.Context, name string) (*instantmarqo.IndexResponse, error) {
	return s.DeleteIndexFn(ctx, name)
}

func (s *IndexService) ListIndexes(ctx context.Context) ([]string, error) {
	return s.ListIndexesFn(ctx)
}

func (s *IndexService) FindIndexSettings(ctx context.Context, name string) (*instantmarqo.IndexSettings, error) {
	return s.FindIndexSettingsFn(ctx, name)
}

func (s *IndexService) AddDocuments(ctx context.Context, name string, docs []instantmarqo.Document, opts instantmarqo.AddDocumentsOptions) (*instantmarqo.AddDocumentsResult, error) {
	return s.AddDocumentsFn(ctx, name, docs, opts)
}

func (s *IndexService) Search(ctx context.Context, name string, query instantmarqo.SearchQuery) (*instantmarqo.SearchResult, error) {
	return s.SearchFn(ctx, name, query)
}
