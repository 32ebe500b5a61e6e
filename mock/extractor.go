package mock

import (
	"context"

	"github.com/fwojciec/instantmarqo"
)

var (
	_ instantmarqo.Extractor      = (*Extractor)(nil)
	_ instantmarqo.LinkDiscoverer = (*LinkDiscoverer)(nil)
)

// Extractor is a mock implementation of instantmarqo.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, req instantmarqo.ExtractRequest) (map[string]any, error)
}

func (e *Extractor) Extract(ctx context.Context, req instantmarqo.ExtractRequest) (map[string]any, error) {
	return e.ExtractFn(ctx, req)
}

// LinkDiscoverer is a mock implementation of instantmarqo.LinkDiscoverer.
type LinkDiscoverer struct {
	NextPagesFn func(ctx context.Context, webpageURL string) ([]string, error)
}

func (d *LinkDiscoverer) NextPages(ctx context.Context, webpageURL string) ([]string, error) {
	return d.NextPagesFn(ctx, webpageURL)
}
