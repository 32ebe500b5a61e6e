package mock

import (
	"context"

	"github.com/fwojciec/instantmarqo"
)

var _ instantmarqo.PageService = (*PageService)(nil)

// PageService is a mock implementation of instantmarqo.PageService.
type PageService struct {
	UpsertPageFn         func(ctx context.Context, page *instantmarqo.Page) error
	FindPageByIDFn       func(ctx context.Context, id string) (*instantmarqo.Page, error)
	FindPagesFn          func(ctx context.Context, filter instantmarqo.PageFilter) ([]*instantmarqo.Page, error)
	DeletePagesByIndexFn func(ctx context.Context, indexName string) error
}

func (s *PageService) UpsertPage(ctx context.Context, page *instantmarqo.Page) error {
	return s.UpsertPageFn(ctx, page)
}

func (s *PageService) FindPageByID(ctx context.Context, id string) (*instantmarqo.Page, error) {
	return s.FindPageByIDFn(ctx, id)
}

func (s *PageService) FindPages(ctx context.Context, filter instantmarqo.PageFilter) ([]*instantmarqo.Page, error) {
	return s.FindPagesFn(ctx, filter)
}

func (s *PageService) DeletePagesByIndex(ctx context.Context, indexName string) error {
	return s.DeletePagesByIndexFn(ctx, indexName)
}
