package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/instantmarqo"
	"github.com/fwojciec/instantmarqo/crawl"
)

// Run executes the add command.
func (c *AddCmd) Run(deps *Dependencies) error {
	req, err := c.addRequest(c.Index, c.URLs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", instantmarqo.ErrorMessage(err))
		return err
	}

	if c.Concurrency > 0 {
		deps.Indexer.Concurrency = c.Concurrency
	}

	result, err := deps.Indexer.AddDocuments(deps.Ctx, req, progressPrinter(deps.Stdout, deps.Stderr))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", instantmarqo.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d of %d pages into %q (%d failed)\n",
		result.Indexed, len(c.URLs), c.Index, result.Failed)
	return nil
}

// addRequest builds the indexing request shared by add and crawl.
func (f *ExtractFlags) addRequest(index string, urls []string) (crawl.AddRequest, error) {
	structure, err := LoadResponseStructure(f.Schema)
	if err != nil {
		return crawl.AddRequest{}, err
	}

	extract := instantmarqo.ExtractRequest{
		CountryCode:  f.Country,
		WaitForXPath: f.WaitForXPath,
		CacheTTL:     f.CacheTTL,
	}
	if f.NoJavaScript {
		enabled := false
		extract.EnableJavaScript = &enabled
	}

	return crawl.AddRequest{
		IndexName:         index,
		URLs:              urls,
		MethodName:        f.Method,
		ResponseStructure: structure,
		TextFields:        f.Text,
		ImageFields:       f.Image,
		TextWeight:        f.TextWeight,
		ImageWeight:       f.ImageWeight,
		ClientBatchSize:   f.BatchSize,
		Extract:           extract,
	}, nil
}

// progressPrinter reports failures and skips as they happen.
func progressPrinter(stdout, stderr io.Writer) instantmarqo.ProgressFunc {
	return func(event instantmarqo.ProgressEvent) {
		switch event.Type {
		case instantmarqo.ProgressStarted:
			if event.Total > 0 {
				fmt.Fprintf(stdout, "  Extracting %d pages\n", event.Total)
			}
		case instantmarqo.ProgressFailed:
			fmt.Fprintf(stderr, "  fail %s: %s\n", crawl.TruncateURL(event.URL, 70), instantmarqo.ErrorMessage(event.Error))
		case instantmarqo.ProgressSkipped:
			fmt.Fprintf(stdout, "  skip %s (already indexed)\n", crawl.TruncateURL(event.URL, 70))
		case instantmarqo.ProgressFinished:
			// Summary printed by the command.
		}
	}
}
