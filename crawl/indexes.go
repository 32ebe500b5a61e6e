package crawl

import (
	"context"
	"slices"

	"github.com/fwojciec/instantmarqo"
)

// Indexes manages the lifecycle of search indexes and keeps the page ledger
// in step with it.
type Indexes struct {
	Index instantmarqo.IndexService

	// Pages is optional. When set, deleting an index also forgets its pages.
	Pages instantmarqo.PageService
}

// Exists reports whether the named index exists.
func (s *Indexes) Exists(ctx context.Context, name string) (bool, error) {
	names, err := s.Index.ListIndexes(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(names, name), nil
}

// Create creates an index. With skipIfExists an existing index is left
// untouched and reported as acknowledged; otherwise the ECONFLICT from the
// index service propagates.
func (s *Indexes) Create(ctx context.Context, settings instantmarqo.IndexSettings, skipIfExists bool) (*instantmarqo.IndexResponse, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if skipIfExists {
		exists, err := s.Exists(ctx, settings.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return &instantmarqo.IndexResponse{Acknowledged: true, Index: settings.Name}, nil
		}
	}

	resp, err := s.Index.CreateIndex(ctx, settings)
	if err != nil && skipIfExists && instantmarqo.ErrorCode(err) == instantmarqo.ECONFLICT {
		// Created concurrently between the check and the create.
		return &instantmarqo.IndexResponse{Acknowledged: true, Index: settings.Name}, nil
	}
	return resp, err
}

// Delete removes an index and its ledger entries. With skipIfNotExists a
// missing index returns nil, nil.
func (s *Indexes) Delete(ctx context.Context, name string, skipIfNotExists bool) (*instantmarqo.IndexResponse, error) {
	if name == "" {
		return nil, instantmarqo.Errorf(instantmarqo.EINVALID, "index name required")
	}

	resp, err := s.Index.DeleteIndex(ctx, name)
	if err != nil {
		if skipIfNotExists && instantmarqo.ErrorCode(err) == instantmarqo.ENOTFOUND {
			return nil, s.forget(ctx, name)
		}
		return nil, err
	}
	if err := s.forget(ctx, name); err != nil {
		return resp, err
	}
	return resp, nil
}

func (s *Indexes) forget(ctx context.Context, name string) error {
	if s.Pages == nil {
		return nil
	}
	return s.Pages.DeletePagesByIndex(ctx, name)
}

// CanUseImages reports whether the index treats URLs as images, which is
// required before image fields can be indexed.
func (s *Indexes) CanUseImages(ctx context.Context, name string) (bool, error) {
	settings, err := s.Index.FindIndexSettings(ctx, name)
	if err != nil {
		return false, err
	}
	return settings.TreatURLsAndPointersAsImages, nil
}
