// Package crawl orchestrates extraction and indexing: the Indexer turns a
// list of web pages into search documents and the Crawler follows links
// from seed pages across a set of allowed domains.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/fwojciec/instantmarqo"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages extracted in parallel.
const DefaultConcurrency = 4

// AddRequest describes web pages to extract and add to an index.
type AddRequest struct {
	IndexName         string
	URLs              []string
	MethodName        string
	ResponseStructure instantmarqo.ResponseStructure

	// TextFields and ImageFields name response fields to embed. At least
	// one field is required; image fields need a multimodal index.
	TextFields  []string
	ImageFields []string

	// Weights used when both text and image fields are given. When both
	// are zero DefaultTextWeight and DefaultImageWeight apply.
	TextWeight  float64
	ImageWeight float64

	// ClientBatchSize is the number of documents per add request.
	// Zero means DefaultClientBatchSize.
	ClientBatchSize int

	// Extract carries optional extraction parameters. Its URL, method name
	// and response structure are set per page.
	Extract instantmarqo.ExtractRequest
}

// PageResult is the outcome of processing one web page.
type PageResult struct {
	URL        string
	DocumentID string
	Fields     map[string]any
	Skipped    bool
	Err        error
}

// AddResult summarises an AddDocuments call. Pages are in input order.
type AddResult struct {
	Indexed  int
	Failed   int
	Pages    []PageResult
	Response *instantmarqo.AddDocumentsResult
}

// Indexer extracts structured data from web pages and adds it to an index.
type Indexer struct {
	Extractor instantmarqo.Extractor
	Index     instantmarqo.IndexService

	// Pages is optional. When set every processed page is recorded.
	Pages instantmarqo.PageService

	// RateLimiter is optional and keyed by root domain.
	RateLimiter instantmarqo.DomainLimiter

	Concurrency int
	RetryDelays []time.Duration

	// Logger, if set, is told about retries.
	Logger LogFunc
}

// addPlan is an AddRequest after validation and mapping construction.
type addPlan struct {
	req          AddRequest
	tensorFields []string
	mappings     instantmarqo.Mappings
}

// AddDocuments extracts every URL in req, checks each response against the
// response structure and adds the good ones to the index. Pages that fail
// extraction, do not match the structure, or are rejected by the index are
// reported in the result rather than returned as an error.
func (ix *Indexer) AddDocuments(ctx context.Context, req AddRequest, progress instantmarqo.ProgressFunc) (*AddResult, error) {
	if len(req.URLs) == 0 {
		return nil, instantmarqo.Errorf(instantmarqo.EINVALID, "at least one URL required")
	}
	plan, err := ix.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	total := len(req.URLs)
	report := serialize(progress)
	report(instantmarqo.ProgressEvent{Type: instantmarqo.ProgressStarted, Total: total})

	pages := make([]PageResult, total)
	var (
		mu        sync.Mutex
		completed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.concurrency())
	for i, u := range req.URLs {
		g.Go(func() error {
			page := ix.extractPage(gctx, plan, u)
			pages[i] = page

			mu.Lock()
			completed++
			n := completed
			mu.Unlock()

			report(pageEvent(page, n, total))
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ix.flush(ctx, plan, pages)
	if err != nil {
		return nil, err
	}
	for _, p := range pages {
		if p.Err != nil && p.Fields != nil {
			report(instantmarqo.ProgressEvent{Type: instantmarqo.ProgressFailed, URL: p.URL, Completed: total, Total: total, Error: p.Err})
		}
	}

	result := &AddResult{Pages: pages, Response: resp}
	for _, p := range pages {
		if p.Err != nil {
			result.Failed++
		} else {
			result.Indexed++
		}
	}

	report(instantmarqo.ProgressEvent{Type: instantmarqo.ProgressFinished, Completed: total, Total: total})
	return result, nil
}

// prepare validates the request and builds mappings once per call.
func (ix *Indexer) prepare(ctx context.Context, req AddRequest) (*addPlan, error) {
	if req.IndexName == "" {
		return nil, instantmarqo.Errorf(instantmarqo.EINVALID, "index name required")
	}
	if req.MethodName == "" {
		return nil, instantmarqo.Errorf(instantmarqo.EINVALID, "API method name required")
	}
	if err := req.ResponseStructure.ValidateForMarqo(); err != nil {
		return nil, err
	}

	fields := req.ResponseStructure.Fields()
	for _, f := range slices.Concat(req.TextFields, req.ImageFields) {
		if !slices.Contains(fields, f) {
			return nil, instantmarqo.Errorf(instantmarqo.EINVALID, "field %q is not in the response structure", f)
		}
	}

	textWeight, imageWeight := req.TextWeight, req.ImageWeight
	if textWeight == 0 && imageWeight == 0 {
		textWeight, imageWeight = instantmarqo.DefaultTextWeight, instantmarqo.DefaultImageWeight
	}
	mappings, tensorFields, err := instantmarqo.MakeMappings(req.TextFields, req.ImageFields, textWeight, imageWeight)
	if err != nil {
		return nil, err
	}

	if len(req.ImageFields) > 0 {
		settings, err := ix.Index.FindIndexSettings(ctx, req.IndexName)
		if err != nil {
			return nil, err
		}
		if !settings.TreatURLsAndPointersAsImages {
			return nil, instantmarqo.Errorf(instantmarqo.EINVALID, "index %q does not treat URLs as images; image fields need a multimodal index", req.IndexName)
		}
	}

	return &addPlan{req: req, tensorFields: tensorFields, mappings: mappings}, nil
}

// extractPage rate limits, extracts with retry and checks the response
// against the structure.
func (ix *Indexer) extractPage(ctx context.Context, plan *addPlan, webpageURL string) PageResult {
	page := PageResult{URL: webpageURL, DocumentID: instantmarqo.DocumentID(webpageURL)}

	if err := waitForURL(ctx, ix.RateLimiter, webpageURL); err != nil {
		page.Err = err
		return page
	}

	req := plan.req.Extract
	req.WebpageURL = webpageURL
	req.MethodName = plan.req.MethodName
	req.ResponseStructure = plan.req.ResponseStructure

	fields, err := Retry(ctx, webpageURL, ix.retryDelays(), ix.Logger, func(ctx context.Context) (map[string]any, error) {
		return ix.Extractor.Extract(ctx, req)
	})
	if err != nil {
		page.Err = fmt.Errorf("extract %s: %w", webpageURL, err)
		return page
	}

	if !instantmarqo.CheckAgainstSchema(plan.req.ResponseStructure, fields) {
		page.Err = instantmarqo.Errorf(instantmarqo.EINVALID, "response for %s does not match the response structure", webpageURL)
		return page
	}

	page.Fields = fields
	return page
}

// flush adds the successfully extracted pages to the index, marks pages the
// index rejected as failed and records every non-skipped page in the ledger.
func (ix *Indexer) flush(ctx context.Context, plan *addPlan, pages []PageResult) (*instantmarqo.AddDocumentsResult, error) {
	var docs []instantmarqo.Document
	for _, p := range pages {
		if p.Err == nil && !p.Skipped {
			docs = append(docs, instantmarqo.NewDocument(p.URL, p.Fields))
		}
	}

	resp := &instantmarqo.AddDocumentsResult{Items: []instantmarqo.AddDocumentsItem{}}
	if len(docs) > 0 {
		var err error
		resp, err = ix.Index.AddDocuments(ctx, plan.req.IndexName, docs, instantmarqo.AddDocumentsOptions{
			TensorFields:    plan.tensorFields,
			Mappings:        plan.mappings,
			ClientBatchSize: plan.req.ClientBatchSize,
		})
		if err != nil {
			err = fmt.Errorf("add documents to %s: %w", plan.req.IndexName, err)
			if resp == nil {
				return nil, err
			}
			// Items of batches sent before the failure are in the index.
			markUnsent(pages, resp, err)
			if rerr := ix.record(ctx, plan.req.IndexName, pages); rerr != nil {
				return resp, errors.Join(err, rerr)
			}
			return resp, err
		}
	}

	rejected := make(map[string]instantmarqo.AddDocumentsItem)
	for _, item := range resp.Items {
		if item.Failed() {
			rejected[item.ID] = item
		}
	}
	for i := range pages {
		p := &pages[i]
		if item, ok := rejected[p.DocumentID]; ok && p.Err == nil && !p.Skipped {
			p.Err = instantmarqo.Errorf(instantmarqo.EINVALID, "index rejected %s: %s", p.URL, itemReason(item))
		}
	}

	if err := ix.record(ctx, plan.req.IndexName, pages); err != nil {
		return resp, err
	}
	return resp, nil
}

// markUnsent fails extracted pages absent from a partial index response and
// those the index rejected.
func markUnsent(pages []PageResult, resp *instantmarqo.AddDocumentsResult, err error) {
	items := make(map[string]instantmarqo.AddDocumentsItem, len(resp.Items))
	for _, item := range resp.Items {
		items[item.ID] = item
	}
	for i := range pages {
		p := &pages[i]
		if p.Err != nil || p.Skipped {
			continue
		}
		item, ok := items[p.DocumentID]
		switch {
		case !ok:
			p.Err = err
		case item.Failed():
			p.Err = instantmarqo.Errorf(instantmarqo.EINVALID, "index rejected %s: %s", p.URL, itemReason(item))
		}
	}
}

// record writes page outcomes to the ledger, if one is configured.
func (ix *Indexer) record(ctx context.Context, indexName string, pages []PageResult) error {
	if ix.Pages == nil {
		return nil
	}
	now := time.Now().UTC()
	for _, p := range pages {
		if p.Skipped {
			continue
		}
		entry := &instantmarqo.Page{
			IndexName:  indexName,
			URL:        p.URL,
			DocumentID: p.DocumentID,
			Status:     instantmarqo.PageIndexed,
			IndexedAt:  now,
		}
		if p.Fields != nil {
			entry.ContentHash = ContentHash(p.Fields)
		}
		if p.Err != nil {
			entry.Status = instantmarqo.PageFailed
			entry.Error = instantmarqo.ErrorMessage(p.Err)
			if instantmarqo.ErrorCode(p.Err) == instantmarqo.EINTERNAL {
				entry.Error = p.Err.Error()
			}
		}
		if err := ix.Pages.UpsertPage(ctx, entry); err != nil {
			return fmt.Errorf("record page %s: %w", p.URL, err)
		}
	}
	return nil
}

func (ix *Indexer) concurrency() int {
	if ix.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return ix.Concurrency
}

func (ix *Indexer) retryDelays() []time.Duration {
	if ix.RetryDelays == nil {
		return DefaultRetryDelays()
	}
	return ix.RetryDelays
}

func itemReason(item instantmarqo.AddDocumentsItem) string {
	switch {
	case item.Message != "":
		return item.Message
	case item.Error != "":
		return item.Error
	default:
		return fmt.Sprintf("status %d", item.Status)
	}
}

func pageEvent(page PageResult, completed, total int) instantmarqo.ProgressEvent {
	ev := instantmarqo.ProgressEvent{
		Type:      instantmarqo.ProgressCompleted,
		URL:       page.URL,
		Completed: completed,
		Total:     total,
	}
	switch {
	case page.Skipped:
		ev.Type = instantmarqo.ProgressSkipped
	case page.Err != nil:
		ev.Type = instantmarqo.ProgressFailed
		ev.Error = page.Err
	}
	return ev
}

// serialize wraps fn so concurrent callers never run it in parallel.
// A nil fn becomes a no-op.
func serialize(fn instantmarqo.ProgressFunc) instantmarqo.ProgressFunc {
	if fn == nil {
		return func(instantmarqo.ProgressEvent) {}
	}
	var mu sync.Mutex
	return func(ev instantmarqo.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		fn(ev)
	}
}
