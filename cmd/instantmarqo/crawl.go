package main

import (
	"fmt"

	"github.com/fwojciec/instantmarqo"
	"github.com/fwojciec/instantmarqo/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	filter, err := instantmarqo.NewURLFilter(c.Filter, c.Exclude)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", instantmarqo.ErrorMessage(err))
		return err
	}

	add, err := c.addRequest(c.Index, nil)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", instantmarqo.ErrorMessage(err))
		return err
	}

	if c.Concurrency > 0 {
		deps.Crawler.Concurrency = c.Concurrency
	}

	result, err := deps.Crawler.Crawl(deps.Ctx, crawl.CrawlRequest{
		SeedURLs:       c.Seeds,
		AllowedDomains: c.Domain,
		MaxPages:       c.MaxPages,
		Sitemap:        c.Sitemap,
		Filter:         filter,
		SkipIndexed:    c.SkipIndexed,
		Add:            add,
	}, progressPrinter(deps.Stdout, deps.Stderr))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %s\n", instantmarqo.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Crawled %d pages: %d indexed, %d failed, %d skipped\n",
		result.Visited, result.Indexed, result.Failed, result.Skipped)
	return nil
}
