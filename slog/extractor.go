// Package slog provides log/slog decorators for the instantmarqo services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/instantmarqo"
)

var (
	_ instantmarqo.Extractor      = (*LoggingExtractor)(nil)
	_ instantmarqo.LinkDiscoverer = (*LoggingLinkDiscoverer)(nil)
)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   instantmarqo.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next instantmarqo.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) Extract(ctx context.Context, req instantmarqo.ExtractRequest) (fields map[string]any, err error) {
	defer func(begin time.Time) {
		e.logger.Info("extract",
			"url", req.WebpageURL,
			"method", req.MethodName,
			"fields", len(fields),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(ctx, req)
}

// LoggingLinkDiscoverer wraps a LinkDiscoverer with debug logging.
type LoggingLinkDiscoverer struct {
	next   instantmarqo.LinkDiscoverer
	logger *slog.Logger
}

// NewLoggingLinkDiscoverer creates a new LoggingLinkDiscoverer.
func NewLoggingLinkDiscoverer(next instantmarqo.LinkDiscoverer, logger *slog.Logger) *LoggingLinkDiscoverer {
	return &LoggingLinkDiscoverer{next: next, logger: logger}
}

// NextPages delegates to the wrapped discoverer and logs the operation.
func (d *LoggingLinkDiscoverer) NextPages(ctx context.Context, webpageURL string) (urls []string, err error) {
	defer func(begin time.Time) {
		d.logger.Info("next pages",
			"url", webpageURL,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.NextPages(ctx, webpageURL)
}
