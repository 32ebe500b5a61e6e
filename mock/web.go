package mock

import (
	"context"

	"github.com/fwojciec/instantmarqo"
)

var (
	_ instantmarqo.Fetcher        = (*Fetcher)(nil)
	_ instantmarqo.SitemapService = (*SitemapService)(nil)
)

// Fetcher is a mock implementation of instantmarqo.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

// Close calls CloseFn when set.
func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

// SitemapService is a mock implementation of instantmarqo.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *instantmarqo.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *instantmarqo.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
