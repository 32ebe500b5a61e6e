//go:build integration

package marqo_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/fwojciec/instantmarqo"
	"github.com/fwojciec/instantmarqo/marqo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Integration_IndexAddSearch(t *testing.T) {
	url := os.Getenv("MARQO_URL")
	if url == "" {
		t.Skip("MARQO_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client := marqo.NewClient(url, marqo.WithAPIKey(os.Getenv("MARQO_API_KEY")))
	name := fmt.Sprintf("instantmarqo-it-%d", time.Now().UnixNano())

	_, err := client.CreateIndex(ctx, instantmarqo.NewIndexSettings(name, false, ""))
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = client.DeleteIndex(context.Background(), name)
	})

	_, err = client.CreateIndex(ctx, instantmarqo.NewIndexSettings(name, false, ""))
	assert.Equal(t, instantmarqo.ECONFLICT, instantmarqo.ErrorCode(err))

	docs := []instantmarqo.Document{
		instantmarqo.NewDocument("https://shop.example.com/lamp", map[string]any{"title": "Brass desk lamp with a warm glow"}),
		instantmarqo.NewDocument("https://shop.example.com/chair", map[string]any{"title": "Oak dining chair"}),
	}
	result, err := client.AddDocuments(ctx, name, docs, instantmarqo.AddDocumentsOptions{TensorFields: []string{"title"}})
	require.NoError(t, err)
	assert.False(t, result.Errors)

	found, err := client.Search(ctx, name, instantmarqo.SearchQuery{Q: "something to light my desk", Limit: 1})
	require.NoError(t, err)
	require.Len(t, found.Hits, 1)
	assert.Equal(t, "https://shop.example.com/lamp", found.Hits[0].SourceURL())

	names, err := client.ListIndexes(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, name)
}
