package crawl

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/instantmarqo"
)

// DefaultMaxPages bounds a crawl when no limit is given.
const DefaultMaxPages = 1000

// Frontier sizing for crawls.
const (
	frontierExpectedURLs      = 10000
	frontierFalsePositiveRate = 0.01
)

// CrawlRequest describes a breadth-first crawl that indexes every visited
// page.
type CrawlRequest struct {
	SeedURLs []string

	// AllowedDomains are domains or URLs compared by root domain. When
	// empty the seeds' domains are used.
	AllowedDomains []string

	// MaxPages bounds the number of visited pages, including failed and
	// skipped ones. Zero means DefaultMaxPages.
	MaxPages int

	// Sitemap seeds the frontier with each seed site's sitemap URLs.
	Sitemap bool

	// Filter, if set, limits which discovered URLs are followed. Seeds
	// are always visited.
	Filter *instantmarqo.URLFilter

	// SkipIndexed avoids re-extracting pages the ledger already records as
	// indexed. Their links are still followed.
	SkipIndexed bool

	// Add is the template for indexing each page; its URLs are ignored.
	Add AddRequest
}

// CrawlResult summarises a crawl.
type CrawlResult struct {
	Visited  int
	Indexed  int
	Failed   int
	Skipped  int
	Response *instantmarqo.AddDocumentsResult
}

// Crawler follows links from seed pages within a set of domains and adds
// every visited page to an index.
type Crawler struct {
	Indexer *Indexer
	Links   instantmarqo.LinkDiscoverer

	// Sitemaps is required only for CrawlRequest.Sitemap.
	Sitemaps instantmarqo.SitemapService

	// Concurrency is the number of pages processed in parallel.
	// Zero means the indexer's concurrency.
	Concurrency int
}

// crawlResult is the outcome of one visited link.
type crawlResult struct {
	link       instantmarqo.Link
	page       PageResult
	discovered []string
}

// Crawl visits pages breadth-first from the seeds. Extracted pages are added
// to the index in client batches as the crawl proceeds. Page failures are
// counted, not returned; errors from the index or the ledger stop the crawl.
func (c *Crawler) Crawl(ctx context.Context, req CrawlRequest, progress instantmarqo.ProgressFunc) (*CrawlResult, error) {
	if len(req.SeedURLs) == 0 {
		return nil, instantmarqo.Errorf(instantmarqo.EINVALID, "at least one seed URL required")
	}
	if req.Sitemap && c.Sitemaps == nil {
		return nil, instantmarqo.Errorf(instantmarqo.EINVALID, "sitemap seeding is not configured")
	}

	add := req.Add
	add.URLs = nil
	plan, err := c.Indexer.prepare(ctx, add)
	if err != nil {
		return nil, err
	}

	allowed := instantmarqo.NewAllowedDomains(req.AllowedDomains...)
	if len(allowed) == 0 {
		allowed = instantmarqo.NewAllowedDomains(req.SeedURLs...)
	}
	maxPages := req.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var seeds []string
	for _, seed := range req.SeedURLs {
		if allowed.Allows(seed) {
			seeds = append(seeds, seed)
		}
	}
	if len(seeds) == 0 {
		return nil, instantmarqo.Errorf(instantmarqo.EINVALID, "no seed URL is within the allowed domains")
	}

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	for _, seed := range seeds {
		frontier.Push(instantmarqo.Link{URL: seed})
	}
	if req.Sitemap {
		for _, seed := range seeds {
			urls, err := c.Sitemaps.DiscoverURLs(ctx, seed, req.Filter)
			if err != nil {
				return nil, fmt.Errorf("sitemap discovery: %w", err)
			}
			for _, u := range urls {
				if allowed.Allows(u) {
					frontier.Push(instantmarqo.Link{URL: u, Depth: 1})
				}
			}
		}
	}

	report := serialize(progress)
	report(instantmarqo.ProgressEvent{Type: instantmarqo.ProgressStarted})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	result := &CrawlResult{Response: &instantmarqo.AddDocumentsResult{Items: []instantmarqo.AddDocumentsItem{}}}
	batchSize := req.Add.ClientBatchSize
	if batchSize <= 0 {
		batchSize = instantmarqo.DefaultClientBatchSize
	}
	var (
		pending   []PageResult
		completed int
		flushErr  error
	)

	flush := func() {
		if len(pending) == 0 || flushErr != nil {
			return
		}
		resp, err := c.Indexer.flush(ctx, plan, pending)
		if err != nil {
			flushErr = err
			cancel()
			return
		}
		result.Response.Errors = result.Response.Errors || resp.Errors
		result.Response.Items = append(result.Response.Items, resp.Items...)
		result.Response.ProcessingTimeMS += resp.ProcessingTimeMS
		for _, p := range pending {
			if p.Fields == nil {
				continue
			}
			if p.Err != nil {
				result.Failed++
				report(instantmarqo.ProgressEvent{Type: instantmarqo.ProgressFailed, URL: p.URL, Completed: completed, Error: p.Err})
				continue
			}
			result.Indexed++
		}
		pending = pending[:0]
	}

	handle := func(res crawlResult) {
		for _, u := range res.discovered {
			if allowed.Allows(u) && req.Filter.Match(u) {
				frontier.Push(instantmarqo.Link{URL: u, Depth: res.link.Depth + 1})
			}
		}

		completed++
		switch {
		case res.page.Skipped:
			result.Skipped++
		case res.page.Err != nil:
			result.Failed++
			pending = append(pending, res.page)
		default:
			pending = append(pending, res.page)
		}
		report(pageEvent(res.page, completed, 0))

		if countReady(pending) >= batchSize {
			flush()
		}
	}

	c.walk(ctx, frontier, maxPages, func(ctx context.Context, link instantmarqo.Link) crawlResult {
		return c.visit(ctx, plan, req.SkipIndexed, link)
	}, handle, &result.Visited)

	flush()
	if flushErr != nil {
		return nil, flushErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report(instantmarqo.ProgressEvent{Type: instantmarqo.ProgressFinished, Completed: completed, Total: completed})
	return result, nil
}

// countReady counts pages that will become documents.
func countReady(pages []PageResult) int {
	n := 0
	for _, p := range pages {
		if p.Err == nil {
			n++
		}
	}
	return n
}

// visit extracts one page unless the ledger says it is already indexed, and
// discovers its links either way.
func (c *Crawler) visit(ctx context.Context, plan *addPlan, skipIndexed bool, link instantmarqo.Link) crawlResult {
	res := crawlResult{link: link}

	if skipIndexed && c.alreadyIndexed(ctx, plan.req.IndexName, link.URL) {
		res.page = PageResult{URL: link.URL, DocumentID: instantmarqo.DocumentID(link.URL), Skipped: true}
	} else {
		res.page = c.Indexer.extractPage(ctx, plan, link.URL)
	}

	if c.Links == nil {
		return res
	}
	if err := waitForURL(ctx, c.Indexer.RateLimiter, link.URL); err != nil {
		return res
	}
	discovered, err := Retry(ctx, link.URL, c.Indexer.retryDelays(), c.Indexer.Logger, func(ctx context.Context) ([]string, error) {
		return c.Links.NextPages(ctx, link.URL)
	})
	if err == nil {
		res.discovered = discovered
	}
	return res
}

func (c *Crawler) alreadyIndexed(ctx context.Context, indexName, webpageURL string) bool {
	if c.Indexer.Pages == nil {
		return false
	}
	status := instantmarqo.PageIndexed
	pages, err := c.Indexer.Pages.FindPages(ctx, instantmarqo.PageFilter{
		IndexName: &indexName,
		URL:       &webpageURL,
		Status:    &status,
		Limit:     1,
	})
	if err != nil {
		if c.Indexer.Logger != nil {
			c.Indexer.Logger("ledger lookup for %s failed, extracting again: %v", webpageURL, err)
		}
		return false
	}
	return len(pages) > 0
}

// walk runs a worker pool over the frontier. The coordinator owns the
// frontier and calls handle for every result, so handle may push new links
// without locking. At most maxPages links are dispatched.
func (c *Crawler) walk(
	ctx context.Context,
	frontier *Frontier,
	maxPages int,
	process func(context.Context, instantmarqo.Link) crawlResult,
	handle func(crawlResult),
	dispatched *int,
) {
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = c.Indexer.concurrency()
	}

	workCh := make(chan instantmarqo.Link, concurrency)
	resultCh := make(chan crawlResult)

	done := make(chan struct{}, concurrency)
	for range concurrency {
		go func() {
			defer func() { done <- struct{}{} }()
			for link := range workCh {
				res := process(ctx, link)
				select {
				case resultCh <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	pending := 0
	var next *instantmarqo.Link
	if link, ok := frontier.Pop(); ok {
		next = &link
	}

loop:
	for {
		if next == nil && pending == 0 {
			break
		}
		if ctx.Err() != nil {
			break
		}

		if next != nil && *dispatched < maxPages {
			select {
			case <-ctx.Done():
				break loop
			case workCh <- *next:
				*dispatched++
				pending++
				next = nil
			case res := <-resultCh:
				pending--
				handle(res)
			}
		} else {
			if pending == 0 {
				break
			}
			select {
			case <-ctx.Done():
				break loop
			case res := <-resultCh:
				pending--
				handle(res)
			}
		}

		if next == nil && *dispatched < maxPages {
			if link, ok := frontier.Pop(); ok {
				next = &link
			}
		}
	}

	close(workCh)

	// Workers finish their current link; results are kept unless the crawl
	// was canceled.
	drainTimeout := time.After(5 * time.Second)
	for running := concurrency; running > 0; {
		select {
		case res := <-resultCh:
			if ctx.Err() == nil {
				handle(res)
			}
		case <-done:
			running--
		case <-drainTimeout:
			return
		}
	}
}
