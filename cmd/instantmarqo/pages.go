package main

import (
	"fmt"

	"github.com/fwojciec/instantmarqo"
	"github.com/fwojciec/instantmarqo/crawl"
)

// Run executes the pages command.
func (c *PagesCmd) Run(deps *Dependencies) error {
	filter := instantmarqo.PageFilter{IndexName: &c.Index, Limit: c.Limit}
	if c.Status != "" {
		status := instantmarqo.PageStatus(c.Status)
		if status != instantmarqo.PageIndexed && status != instantmarqo.PageFailed {
			fmt.Fprintf(deps.Stderr, "error: unknown status %q (use indexed or failed)\n", c.Status)
			return instantmarqo.Errorf(instantmarqo.EINVALID, "unknown status %q", c.Status)
		}
		filter.Status = &status
	}

	pages, err := deps.Pages.FindPages(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", instantmarqo.ErrorMessage(err))
		return err
	}

	if len(pages) == 0 {
		fmt.Fprintf(deps.Stdout, "No pages recorded for index %q. Use 'instantmarqo add' or 'instantmarqo crawl' to index some.\n", c.Index)
		return nil
	}

	for _, p := range pages {
		fmt.Fprintf(deps.Stdout, "%-7s  %s  %s", p.Status, p.IndexedAt.Format("2006-01-02 15:04"), crawl.TruncateURL(p.URL, 70))
		if p.Error != "" {
			fmt.Fprintf(deps.Stdout, "  (%s)", p.Error)
		}
		fmt.Fprintln(deps.Stdout)
	}
	return nil
}
