package marqo

import (
	"context"
	"net/http"
	"strings"

	"github.com/fwojciec/instantmarqo"
)

type searchRequest struct {
	Q                    string   `json:"q"`
	Limit                int      `json:"limit"`
	Offset               int      `json:"offset,omitempty"`
	SearchMethod         string   `json:"searchMethod"`
	SearchableAttributes []string `json:"searchableAttributes,omitempty"`
	AttributesToRetrieve []string `json:"attributesToRetrieve,omitempty"`
	Filter               string   `json:"filter,omitempty"`
}

// Search runs a query against an index. Limit defaults to
// DefaultSearchLimit and the method to tensor search.
func (c *Client) Search(ctx context.Context, name string, query instantmarqo.SearchQuery) (*instantmarqo.SearchResult, error) {
	if name == "" {
		return nil, instantmarqo.Errorf(instantmarqo.EINVALID, "index name required")
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit == 0 {
		limit = instantmarqo.DefaultSearchLimit
	}
	method := query.SearchMethod
	if method == "" {
		method = instantmarqo.SearchMethodTensor
	}

	var result instantmarqo.SearchResult
	_, err := c.do(ctx, http.MethodPost, indexPath(name, "search"), searchRequest{
		Q:                    query.Q,
		Limit:                limit,
		Offset:               query.Offset,
		SearchMethod:         strings.ToUpper(method),
		SearchableAttributes: query.SearchableAttributes,
		AttributesToRetrieve: query.AttributesToRetrieve,
		Filter:               query.Filter,
	}, &result)
	if err != nil {
		return nil, err
	}
	if result.Hits == nil {
		result.Hits = []instantmarqo.Hit{}
	}
	return &result, nil
}
