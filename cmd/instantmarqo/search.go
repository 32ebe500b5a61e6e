package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/instantmarqo"
	"github.com/fwojciec/instantmarqo/crawl"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	result, err := deps.Index.Search(deps.Ctx, c.Index, instantmarqo.SearchQuery{
		Q:                    c.Query,
		Limit:                c.Limit,
		Offset:               c.Offset,
		SearchMethod:         c.Method,
		SearchableAttributes: c.Attr,
		Filter:               c.Where,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", instantmarqo.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		for _, hit := range result.Hits {
			if err := enc.Encode(hit); err != nil {
				return err
			}
		}
		return nil
	}

	if len(result.Hits) == 0 {
		fmt.Fprintf(deps.Stdout, "No results for %q\n", c.Query)
		return nil
	}

	for i, hit := range result.Hits {
		fmt.Fprintf(deps.Stdout, "%d. [%.3f] %s\n", i+1+c.Offset, hit.Score(), crawl.TruncateURL(hit.SourceURL(), 70))
		fields, err := hit.Fields()
		if err != nil {
			continue
		}
		fmt.Fprintf(deps.Stdout, "   %s\n", crawl.FieldSummary(displayFields(fields), 60))
	}
	return nil
}

// displayFields drops the fields written by the indexer and Marqo.
func displayFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		switch k {
		case instantmarqo.FieldID, instantmarqo.FieldURLMD5, instantmarqo.FieldSourceURL, "_score", "_highlights", "_tensor_facets", "_lexical_score", "_tensor_score":
			continue
		}
		out[k] = v
	}
	return out
}
