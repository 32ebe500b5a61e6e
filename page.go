package instantmarqo

import (
	"context"
	"time"
)

// PageStatus records the outcome of indexing a page.
type PageStatus string

// PageStatus constants.
const (
	PageIndexed PageStatus = "indexed"
	PageFailed  PageStatus = "failed"
)

// Page is a ledger entry for a webpage processed into an index.
type Page struct {
	ID          string     `json:"id"`
	IndexName   string     `json:"indexName"`
	URL         string     `json:"url"`
	DocumentID  string     `json:"documentId"`
	ContentHash string     `json:"contentHash"`
	Status      PageStatus `json:"status"`
	Error       string     `json:"error,omitempty"`
	IndexedAt   time.Time  `json:"indexedAt"`
}

// Validate returns an error if the page contains invalid fields.
func (p *Page) Validate() error {
	if p.IndexName == "" {
		return Errorf(EINVALID, "page index name required")
	}
	if p.URL == "" {
		return Errorf(EINVALID, "page URL required")
	}
	switch p.Status {
	case PageIndexed, PageFailed:
	default:
		return Errorf(EINVALID, "unknown page status %q", p.Status)
	}
	return nil
}

// PageService represents a ledger of processed pages.
type PageService interface {
	// UpsertPage records a page, replacing any entry for the same index and URL.
	UpsertPage(ctx context.Context, page *Page) error

	// FindPageByID retrieves a page by ID.
	// Returns ENOTFOUND if page does not exist.
	FindPageByID(ctx context.Context, id string) (*Page, error)

	// FindPages retrieves pages matching the filter.
	FindPages(ctx context.Context, filter PageFilter) ([]*Page, error)

	// DeletePagesByIndex removes all pages recorded for an index.
	DeletePagesByIndex(ctx context.Context, indexName string) error
}

// PageFilter represents a filter for FindPages.
type PageFilter struct {
	IndexName *string     `json:"indexName"`
	URL       *string     `json:"url"`
	Status    *PageStatus `json:"status"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ProgressType indicates the kind of progress event.
type ProgressType int

// ProgressType constants.
const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressSkipped
	ProgressFinished
)

// ProgressEvent reports progress while pages are extracted and indexed.
type ProgressEvent struct {
	Type      ProgressType
	URL       string
	Completed int
	Total     int
	Error     error
}

// ProgressFunc is called as pages are processed.
type ProgressFunc func(ProgressEvent)
