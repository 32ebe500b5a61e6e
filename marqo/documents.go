package marqo

import (
	"context"
	"net/http"

	"github.com/fwojciec/instantmarqo"
)

type addDocumentsRequest struct {
	Documents    []instantmarqo.Document `json:"documents"`
	TensorFields []string                `json:"tensorFields"`
	Mappings     instantmarqo.Mappings   `json:"mappings,omitempty"`
}

// AddDocuments adds documents in batches of opts.ClientBatchSize. Batches
// are sent in order; the first failing request aborts the rest and its error
// is returned together with the items indexed so far.
func (c *Client) AddDocuments(ctx context.Context, name string, docs []instantmarqo.Document, opts instantmarqo.AddDocumentsOptions) (*instantmarqo.AddDocumentsResult, error) {
	if name == "" {
		return nil, instantmarqo.Errorf(instantmarqo.EINVALID, "index name required")
	}

	result := &instantmarqo.AddDocumentsResult{Items: []instantmarqo.AddDocumentsItem{}}
	if len(docs) == 0 {
		return result, nil
	}

	batchSize := opts.ClientBatchSize
	if batchSize <= 0 {
		batchSize = instantmarqo.DefaultClientBatchSize
	}
	tensorFields := opts.TensorFields
	if tensorFields == nil {
		tensorFields = []string{}
	}

	for start := 0; start < len(docs); start += batchSize {
		end := min(start+batchSize, len(docs))

		var batch instantmarqo.AddDocumentsResult
		_, err := c.do(ctx, http.MethodPost, indexPath(name, "documents"), addDocumentsRequest{
			Documents:    docs[start:end],
			TensorFields: tensorFields,
			Mappings:     opts.Mappings,
		}, &batch)
		if err != nil {
			return result, err
		}

		result.Errors = result.Errors || batch.Errors
		result.Items = append(result.Items, batch.Items...)
		result.ProcessingTimeMS += batch.ProcessingTimeMS
	}

	return result, nil
}
