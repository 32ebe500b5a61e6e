package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/instantmarqo"
)

// Ensure LoggingIndexService implements instantmarqo.IndexService.
var _ instantmarqo.IndexService = (*LoggingIndexService)(nil)

// LoggingIndexService wraps an IndexService with debug logging.
type LoggingIndexService struct {
	next   instantmarqo.IndexService
	logger *slog.Logger
}

// NewLoggingIndexService creates a new LoggingIndexService.
func NewLoggingIndexService(next instantmarqo.IndexService, logger *slog.Logger) *LoggingIndexService {
	return &LoggingIndexService{next: next, logger: logger}
}

func (s *LoggingIndexService) CreateIndex(ctx context.Context, settings instantmarqo.IndexSettings) (resp *instantmarqo.IndexResponse, err error) {
	defer func(begin time.Time) {
		s.logger.Info("create index",
			"index", settings.Name,
			"model", settings.Model,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateIndex(ctx, settings)
}

func (s *LoggingIndexService) DeleteIndex(ctx context.Context, name string) (resp *instantmarqo.IndexResponse, err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete index",
			"index", name,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteIndex(ctx, name)
}

func (s *LoggingIndexService) ListIndexes(ctx context.Context) (names []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("list indexes",
			"count", len(names),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListIndexes(ctx)
}

func (s *LoggingIndexService) FindIndexSettings(ctx context.Context, name string) (settings *instantmarqo.IndexSettings, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find index settings",
			"index", name,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindIndexSettings(ctx, name)
}

// AddDocuments logs the number of documents sent and how many Marqo rejected.
func (s *LoggingIndexService) AddDocuments(ctx context.Context, name string, docs []instantmarqo.Document, opts instantmarqo.AddDocumentsOptions) (result *instantmarqo.AddDocumentsResult, err error) {
	defer func(begin time.Time) {
		var rejected int
		if result != nil {
			for _, item := range result.Items {
				if item.Failed() {
					rejected++
				}
			}
		}
		s.logger.Info("add documents",
			"index", name,
			"count", len(docs),
			"rejected", rejected,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.AddDocuments(ctx, name, docs, opts)
}

func (s *LoggingIndexService) Search(ctx context.Context, name string, query instantmarqo.SearchQuery) (result *instantmarqo.SearchResult, err error) {
	defer func(begin time.Time) {
		var hits int
		if result != nil {
			hits = len(result.Hits)
		}
		s.logger.Info("search",
			"index", name,
			"query", query.Q,
			"hits", hits,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, name, query)
}
