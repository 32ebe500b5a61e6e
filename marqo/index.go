package marqo

import (
	"context"
	"net/http"

	"github.com/fwojciec/instantmarqo"
	"github.com/tidwall/gjson"
)

// CreateIndex creates an unstructured index.
func (c *Client) CreateIndex(ctx context.Context, settings instantmarqo.IndexSettings) (*instantmarqo.IndexResponse, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if settings.Type == "" {
		settings.Type = "unstructured"
	}

	var resp instantmarqo.IndexResponse
	if _, err := c.do(ctx, http.MethodPost, indexPath(settings.Name), settings, &resp); err != nil {
		return nil, err
	}
	if resp.Index == "" {
		resp.Index = settings.Name
	}
	return &resp, nil
}

// DeleteIndex removes an index.
func (c *Client) DeleteIndex(ctx context.Context, name string) (*instantmarqo.IndexResponse, error) {
	if name == "" {
		return nil, instantmarqo.Errorf(instantmarqo.EINVALID, "index name required")
	}

	var resp instantmarqo.IndexResponse
	if _, err := c.do(ctx, http.MethodDelete, indexPath(name), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Index == "" {
		resp.Index = name
	}
	return &resp, nil
}

// ListIndexes returns the names of all indexes.
func (c *Client) ListIndexes(ctx context.Context) ([]string, error) {
	raw, err := c.do(ctx, http.MethodGet, "/indexes", nil, nil)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, r := range gjson.GetBytes(raw, "results.#.indexName").Array() {
		names = append(names, r.String())
	}
	return names, nil
}

// FindIndexSettings returns the settings of an index.
func (c *Client) FindIndexSettings(ctx context.Context, name string) (*instantmarqo.IndexSettings, error) {
	if name == "" {
		return nil, instantmarqo.Errorf(instantmarqo.EINVALID, "index name required")
	}

	var settings instantmarqo.IndexSettings
	if _, err := c.do(ctx, http.MethodGet, indexPath(name, "settings"), nil, &settings); err != nil {
		return nil, err
	}
	settings.Name = name
	return &settings, nil
}
