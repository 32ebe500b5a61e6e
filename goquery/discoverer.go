package goquery

import (
	"context"

	"github.com/fwojciec/instantmarqo"
)

var _ instantmarqo.LinkDiscoverer = (*LinkDiscoverer)(nil)

// LinkDiscoverer finds next pages locally by fetching the page HTML and
// reading its anchors. It is an alternative to the InstantAPI next_pages
// endpoint that costs no API credits.
type LinkDiscoverer struct {
	fetcher instantmarqo.Fetcher
}

// NewLinkDiscoverer creates a LinkDiscoverer that reads pages through fetcher.
func NewLinkDiscoverer(fetcher instantmarqo.Fetcher) *LinkDiscoverer {
	return &LinkDiscoverer{fetcher: fetcher}
}

// NextPages implements instantmarqo.LinkDiscoverer.
func (d *LinkDiscoverer) NextPages(ctx context.Context, webpageURL string) ([]string, error) {
	html, err := d.fetcher.Fetch(ctx, webpageURL)
	if err != nil {
		return nil, err
	}
	return ExtractLinks(html, webpageURL)
}
