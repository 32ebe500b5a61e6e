package instantmarqo

import "context"

// Fetcher retrieves raw HTML from URLs. It is used for local link discovery;
// structured extraction goes through an Extractor.
type Fetcher interface {
	// Fetch returns the HTML body of the URL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}
